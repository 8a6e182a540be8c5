package domain

import (
	"fmt"
	"strings"
)

// LikedSentinel is the reserved source reference meaning "the authenticated
// user's Liked Songs" rather than a specific playlist. Matching is
// case-insensitive and tolerant of surrounding whitespace.
const LikedSentinel = "LIKED"

// SourceRef is the resolved form of a conversion request's source reference:
// either the liked-songs collection or exactly one playlist id.
type SourceRef struct {
	PlaylistID string
	Liked      bool
}

// ParseSourceRef resolves a raw reference into a SourceRef. Accepted forms:
//
//	LIKED                                          (liked-songs sentinel)
//	https://open.spotify.com/playlist/<id>[?...]
//	spotify:playlist:<id>
//	<id>                                           (bare playlist id)
//
// Unresolvable input returns ErrBadPlaylistRef; this is a client error and
// never triggers a network call.
func ParseSourceRef(raw string) (SourceRef, error) {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return SourceRef{}, fmt.Errorf("%w: empty reference", ErrBadPlaylistRef)
	}

	if strings.EqualFold(ref, LikedSentinel) {
		return SourceRef{Liked: true}, nil
	}

	if i := strings.Index(ref, "playlist/"); i >= 0 {
		id := ref[i+len("playlist/"):]
		if j := strings.IndexAny(id, "?#/"); j >= 0 {
			id = id[:j]
		}
		return validateID(id)
	}

	if i := strings.Index(ref, "playlist:"); i >= 0 {
		return validateID(ref[i+len("playlist:"):])
	}

	// Bare ids are base62; anything that still looks like a URL or URI did
	// not contain a playlist segment and is rejected.
	if strings.ContainsAny(ref, ":/ ") {
		return SourceRef{}, fmt.Errorf("%w: %q does not reference a playlist", ErrBadPlaylistRef, raw)
	}
	return validateID(ref)
}

func validateID(id string) (SourceRef, error) {
	if id == "" {
		return SourceRef{}, fmt.Errorf("%w: empty playlist id", ErrBadPlaylistRef)
	}
	for _, r := range id {
		isBase62 := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isBase62 {
			return SourceRef{}, fmt.Errorf("%w: invalid playlist id %q", ErrBadPlaylistRef, id)
		}
	}
	return SourceRef{PlaylistID: id}, nil
}
