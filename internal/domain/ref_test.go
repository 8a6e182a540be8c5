package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceRef_PlaylistForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		id   string
	}{
		{"url", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M"},
		{"url with query", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123", "37i9dQZF1DXcBWIGoYBM5M"},
		{"url with fragment", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M#top", "37i9dQZF1DXcBWIGoYBM5M"},
		{"url trailing slash", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M/", "37i9dQZF1DXcBWIGoYBM5M"},
		{"uri", "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M"},
		{"bare id", "37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M"},
		{"surrounding whitespace", "  37i9dQZF1DXcBWIGoYBM5M\n", "37i9dQZF1DXcBWIGoYBM5M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseSourceRef(tt.in)
			require.NoError(t, err)
			assert.False(t, ref.Liked)
			assert.Equal(t, tt.id, ref.PlaylistID)
		})
	}
}

func TestParseSourceRef_LikedSentinel(t *testing.T) {
	for _, in := range []string{"LIKED", "liked", "Liked", "  liked  ", "\tLIKED\n"} {
		ref, err := ParseSourceRef(in)
		require.NoError(t, err, "input %q", in)
		assert.True(t, ref.Liked)
		assert.Empty(t, ref.PlaylistID)
	}
}

func TestParseSourceRef_Unresolvable(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy",
		"spotify:track:11dFghVXANMlKmJXsNCbNl",
		"https://open.spotify.com/playlist/",
		"spotify:playlist:",
		"not a playlist at all",
		"id-with-dashes",
	}

	for _, in := range inputs {
		_, err := ParseSourceRef(in)
		assert.ErrorIs(t, err, ErrBadPlaylistRef, "input %q", in)
	}
}

func TestTrackLabel(t *testing.T) {
	assert.Equal(t, "Song - Artist", Track{Title: "Song", Artists: []string{"Artist", "Feat"}}.Label())
	assert.Equal(t, "Song", Track{Title: "Song"}.Label())
	assert.Equal(t, "Artist", Track{Title: "Song", Artists: []string{"Artist"}}.PrimaryArtist())
}
