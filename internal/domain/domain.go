package domain

// Track is one entry fetched from the source playlist, normalized to the
// fields the matcher needs.
type Track struct {
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	DurationMS int      `json:"duration_ms,omitempty"`
	SourceURI  string   `json:"source_uri,omitempty"`
}

// PrimaryArtist returns the first artist, or an empty string when none are
// known.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Label returns the human-readable identifier used in reports and progress
// events, e.g. "Bohemian Rhapsody - Queen".
func (t Track) Label() string {
	if a := t.PrimaryArtist(); a != "" {
		return t.Title + " - " + a
	}
	return t.Title
}

// PlaylistSummary is a source-catalog playlist as listed for the picker UI.
type PlaylistSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner,omitempty"`
	TrackCount int    `json:"track_count"`
}

// ConversionRequest describes one conversion run.
type ConversionRequest struct {
	// SourceRef is a Spotify playlist URL, URI, bare id, or the liked-songs
	// sentinel.
	SourceRef string `json:"source_playlist_ref" binding:"required"`

	// DestinationPlaylistID, when set, names an existing YouTube playlist to
	// append to instead of creating a new one.
	DestinationPlaylistID string `json:"destination_playlist_id,omitempty"`

	// Title, Description and Privacy apply only when a new playlist is
	// created.
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Privacy     string `json:"privacy,omitempty"`
}

// Credentials are the opaque bearer tokens a run operates with. The
// orchestrator never reads ambient state; both tokens are explicit inputs
// supplied by the session layer.
type Credentials struct {
	// SpotifyToken is a user-delegated token. Optional, but mandatory when
	// the source reference is the liked-songs sentinel.
	SpotifyToken string

	// YouTubeToken is the OAuth2 access token for the destination account.
	YouTubeToken string
}

// FailReason classifies why a track did not make it into the destination
// playlist.
type FailReason string

const (
	ReasonNotFound         FailReason = "not_found"
	ReasonInsertRejected   FailReason = "insert_rejected"
	ReasonPermissionDenied FailReason = "permission_denied"
)

// TrackFailure records one track that could not be migrated.
type TrackFailure struct {
	Track  string     `json:"track"`
	Reason FailReason `json:"reason"`
}

// ConversionReport is the aggregate outcome of one run. Added and Failed
// together cover every fetched track exactly once, in source order.
type ConversionReport struct {
	DestinationPlaylistID  string         `json:"destination_playlist_id"`
	DestinationPlaylistURL string         `json:"destination_playlist_url"`
	Added                  []string       `json:"added"`
	Failed                 []TrackFailure `json:"failed"`
}

// ProgressEvent is one element of the streaming progress sequence. Exactly
// one of the shapes is populated: an info line, a per-track outcome, a
// terminal done event carrying the playlist URL, or a terminal error.
type ProgressEvent struct {
	Info    string     `json:"info,omitempty"`
	Name    string     `json:"name,omitempty"`
	Success *bool      `json:"success,omitempty"`
	Reason  FailReason `json:"reason,omitempty"`
	Count   int        `json:"count,omitempty"`
	Total   int        `json:"total,omitempty"`
	Done    bool       `json:"done,omitempty"`
	URL     string     `json:"url,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// InfoEvent builds an informational progress event.
func InfoEvent(msg string) ProgressEvent {
	return ProgressEvent{Info: msg}
}

// TrackEvent builds a per-track progress event. count is the number of tracks
// processed so far including this one.
func TrackEvent(name string, ok bool, reason FailReason, count, total int) ProgressEvent {
	ev := ProgressEvent{Name: name, Success: &ok, Count: count, Total: total}
	if !ok {
		ev.Reason = reason
	}
	return ev
}

// DoneEvent builds the terminal success event.
func DoneEvent(url string) ProgressEvent {
	return ProgressEvent{Done: true, URL: url}
}

// ErrorEvent builds the terminal failure event.
func ErrorEvent(err error) ProgressEvent {
	return ProgressEvent{Error: err.Error()}
}
