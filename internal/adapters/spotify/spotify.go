package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	spotifyauth "golang.org/x/oauth2/spotify"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/domain"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	maxPerPage     = 50

	// DefaultMaxPages bounds how many track pages one fetch will follow. A
	// latency bound, not a contract: tune via WithMaxPages.
	DefaultMaxPages = 10
)

// errUnauthorized signals a 401 page response so the fetch loop can refresh
// the app token and retry the same request once.
var errUnauthorized = errors.New("spotify: unauthorized")

// Client implements ports.TrackSource against the Spotify Web API. It owns
// the app-level token provider (client-credentials grant) used for public
// reads when no user-delegated token is supplied.
type Client struct {
	http     *http.Client
	appCreds *clientcredentials.Config
	baseURL  string
	maxPages int
	logger   *log.Logger

	mu       sync.Mutex
	appToken string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithMaxPages overrides the page cap.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithTokenURL points the client-credentials exchange at a different token
// endpoint. Used by tests.
func WithTokenURL(u string) Option {
	return func(c *Client) { c.appCreds.TokenURL = u }
}

// NewClient creates a Spotify client. clientID/clientSecret are the
// application credentials for the client-credentials grant; httpClient may be
// nil, in which case http.DefaultClient is used.
func NewClient(httpClient *http.Client, clientID, clientSecret string, logger *log.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}
	c := &Client{
		http: httpClient,
		appCreds: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyauth.Endpoint.TokenURL,
		},
		baseURL:  defaultBaseURL,
		maxPages: DefaultMaxPages,
		logger:   logger.With("adapter", "spotify"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// -- API response types (internal) ------------------------------------------

type tracksResponse struct {
	Items []trackItem `json:"items"`
	Next  string      `json:"next"`
}

type trackItem struct {
	Track *trackData `json:"track"`
}

type trackData struct {
	URI        string       `json:"uri"`
	Name       string       `json:"name"`
	DurationMS int          `json:"duration_ms"`
	Artists    []artistData `json:"artists"`
}

type artistData struct {
	Name string `json:"name"`
}

type playlistsResponse struct {
	Items []playlistItem `json:"items"`
	Next  string         `json:"next"`
}

type playlistItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// -- TrackSource implementation ----------------------------------------------

// FetchTracks pages through the referenced playlist (or the user's Liked
// Songs) and returns its tracks in source order. Any non-success page
// response fails the whole fetch; no partial results are returned.
func (c *Client) FetchTracks(ctx context.Context, userToken string, ref domain.SourceRef) ([]domain.Track, error) {
	var endpoint string
	switch {
	case ref.Liked:
		if userToken == "" {
			return nil, domain.ErrSignInRequired
		}
		endpoint = fmt.Sprintf("%s/me/tracks?limit=%d", c.baseURL, maxPerPage)
	case ref.PlaylistID != "":
		endpoint = fmt.Sprintf("%s/playlists/%s/tracks?limit=%d", c.baseURL, ref.PlaylistID, maxPerPage)
	default:
		return nil, fmt.Errorf("%w: empty source reference", domain.ErrBadPlaylistRef)
	}

	var tracks []domain.Track
	for page := 0; endpoint != "" && page < c.maxPages; page++ {
		body, err := c.getWithAuth(ctx, userToken, endpoint)
		if err != nil {
			return nil, fmt.Errorf("spotify: failed to fetch tracks page %d: %w", page+1, err)
		}

		var resp tracksResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("spotify: failed to parse tracks response: %w", err)
		}

		for _, item := range resp.Items {
			if item.Track == nil || item.Track.Name == "" {
				continue // removed or unavailable entries
			}
			tracks = append(tracks, toTrack(*item.Track))
		}

		endpoint = resp.Next
	}

	c.logger.Debug("fetched source tracks", "count", len(tracks), "liked", ref.Liked)
	return tracks, nil
}

// ListPlaylists returns the authenticated user's playlists.
func (c *Client) ListPlaylists(ctx context.Context, userToken string) ([]domain.PlaylistSummary, error) {
	if userToken == "" {
		return nil, domain.ErrSignInRequired
	}

	var playlists []domain.PlaylistSummary
	endpoint := fmt.Sprintf("%s/me/playlists?limit=%d", c.baseURL, maxPerPage)

	for endpoint != "" {
		body, err := c.getWithAuth(ctx, userToken, endpoint)
		if err != nil {
			return nil, fmt.Errorf("spotify: failed to list playlists: %w", err)
		}

		var resp playlistsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("spotify: failed to parse playlists response: %w", err)
		}

		for _, item := range resp.Items {
			playlists = append(playlists, domain.PlaylistSummary{
				ID:         item.ID,
				Name:       item.Name,
				Owner:      item.Owner.DisplayName,
				TrackCount: item.Tracks.Total,
			})
		}

		endpoint = resp.Next
	}

	return playlists, nil
}

// -- Token provider -----------------------------------------------------------

// appAccessToken returns the cached app token, performing the
// client-credentials exchange when none is held.
func (c *Client) appAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.appToken != "" {
		return c.appToken, nil
	}

	tok, err := c.appCreds.Token(context.WithValue(ctx, oauth2.HTTPClient, c.http))
	if err != nil {
		return "", &domain.AuthError{Service: "spotify", Status: http.StatusUnauthorized, Body: err.Error()}
	}

	c.appToken = tok.AccessToken
	return c.appToken, nil
}

// invalidateAppToken drops the cached app token so the next call re-exchanges.
func (c *Client) invalidateAppToken() {
	c.mu.Lock()
	c.appToken = ""
	c.mu.Unlock()
}

// getWithAuth performs a GET with the user token when present, falling back
// to the app token. A 401 on the app-token path invalidates the cache and
// retries the same request exactly once with a fresh token.
func (c *Client) getWithAuth(ctx context.Context, userToken, endpoint string) ([]byte, error) {
	if userToken != "" {
		return c.doGet(ctx, userToken, endpoint)
	}

	token, err := c.appAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.doGet(ctx, token, endpoint)
	if errors.Is(err, errUnauthorized) {
		c.logger.Debug("app token rejected, refreshing once")
		c.invalidateAppToken()
		token, err = c.appAccessToken(ctx)
		if err != nil {
			return nil, err
		}
		return c.doGet(ctx, token, endpoint)
	}
	return body, err
}

func (c *Client) doGet(ctx context.Context, token, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", errUnauthorized, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// -- Helpers -----------------------------------------------------------------

func toTrack(t trackData) domain.Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return domain.Track{
		Title:      t.Name,
		Artists:    artists,
		DurationMS: t.DurationMS,
		SourceURI:  t.URI,
	}
}
