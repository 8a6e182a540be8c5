package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions the HTTP layer maps to distinct status
// codes.
var (
	// ErrBadPlaylistRef marks a malformed or unresolvable source reference.
	// Client error, never retried.
	ErrBadPlaylistRef = errors.New("unresolvable playlist reference")

	// ErrSignInRequired is returned when the liked-songs collection is
	// requested without a user-delegated Spotify token. The app token is
	// never a silent fallback for it.
	ErrSignInRequired = errors.New("spotify sign-in required for liked songs")

	// ErrNoDestinationAuth is returned when no YouTube credential is
	// available for the run.
	ErrNoDestinationAuth = errors.New("youtube sign-in required")

	// ErrEmptyPlaylist distinguishes "the source had zero tracks" from a
	// fetch failure.
	ErrEmptyPlaylist = errors.New("source playlist has no tracks")

	// ErrPlaylistNotFound is returned when an explicitly supplied
	// destination playlist id does not exist. The run aborts; a replacement
	// playlist is never created silently.
	ErrPlaylistNotFound = errors.New("destination playlist not found")
)

// AuthError reports a failed token exchange or an authorization rejection
// from an upstream service, carrying the upstream status and body.
type AuthError struct {
	Service string
	Status  int
	Body    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s auth failed: status %d: %s", e.Service, e.Status, e.Body)
}

// InsertError is a classified per-item failure from the destination playlist
// writer. Reason ReasonPermissionDenied means the playlist itself is not
// writable and the remaining inserts should be abandoned; everything else is
// soft and recorded in the report.
type InsertError struct {
	VideoID string
	Reason  FailReason
	Status  int
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert of video %s rejected (%s, status %d)", e.VideoID, e.Reason, e.Status)
}
