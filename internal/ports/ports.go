package ports

import (
	"context"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/domain"
)

// TrackSource reads tracks from the source catalog. This is the primary
// driven port on the Spotify side of the pipeline.
type TrackSource interface {
	// FetchTracks pages through the playlist referenced by ref and returns
	// its tracks in source order. userToken may be empty for public
	// playlists; the liked-songs collection requires it and fails fast with
	// domain.ErrSignInRequired otherwise.
	FetchTracks(ctx context.Context, userToken string, ref domain.SourceRef) ([]domain.Track, error)

	// ListPlaylists returns the authenticated user's playlists.
	ListPlaylists(ctx context.Context, userToken string) ([]domain.PlaylistSummary, error)
}

// VideoSearcher finds the best candidate video for a search query. The
// implementation's own ranking is trusted; the first result wins. An empty
// video id with a nil error means "no match".
type VideoSearcher interface {
	Search(ctx context.Context, query string) (videoID string, err error)

	// Name identifies the backend, e.g. "scrape" or "api".
	Name() string
}

// PlaylistWriter mutates playlists on the destination service.
type PlaylistWriter interface {
	// ValidatePlaylist confirms an existing playlist id before any inserts.
	// A nonexistent id returns domain.ErrPlaylistNotFound.
	ValidatePlaylist(ctx context.Context, token, playlistID string) error

	// CreatePlaylist creates a playlist and returns its id. Title and
	// description are truncated to the destination service's limits.
	CreatePlaylist(ctx context.Context, token, title, description, privacy string) (string, error)

	// InsertVideo appends one video to the playlist. Failures are classified
	// into *domain.InsertError by upstream signal.
	InsertVideo(ctx context.Context, token, playlistID, videoID string) error

	// PlaylistURL returns the browsable URL for a playlist id.
	PlaylistURL(playlistID string) string
}

// ConversionService is the driving port for the conversion use case.
type ConversionService interface {
	// Convert runs the full pipeline and returns the aggregate report.
	Convert(ctx context.Context, creds domain.Credentials, req domain.ConversionRequest) (*domain.ConversionReport, error)

	// ConvertWithProgress is Convert with incremental progress reporting.
	// emit is invoked sequentially for the info event and one event per
	// track; the terminal done/error event is the caller's responsibility.
	// A nil emit degrades to Convert.
	ConvertWithProgress(ctx context.Context, creds domain.Credentials, req domain.ConversionRequest, emit func(domain.ProgressEvent)) (*domain.ConversionReport, error)
}
