// Package auth implements the OAuth2 sign-in flows for the two external
// identities: Spotify (authorization-code grant, user-delegated catalog
// reads) and Google (YouTube Data API access). Tokens land in the cookie
// session; nothing here is consulted by the conversion pipeline, which only
// sees explicit credentials.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	spotifyauth "golang.org/x/oauth2/spotify"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/session"
)

const stateTTL = 5 * time.Minute

// SpotifyScopes cover private playlist reads and the Liked Songs collection.
var SpotifyScopes = []string{
	"user-read-private",
	"user-library-read",
	"playlist-read-private",
	"playlist-read-collaborative",
}

// GoogleScopes cover playlist management plus a profile read for the
// signed-in banner.
var GoogleScopes = []string{
	"https://www.googleapis.com/auth/youtube",
	"https://www.googleapis.com/auth/userinfo.email",
}

// Config carries the OAuth client settings for both services.
type Config struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURL  string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// Manager owns the two oauth2.Configs, the one-time state registry, and the
// session cookie plumbing.
type Manager struct {
	spotify *oauth2.Config
	google  *oauth2.Config
	store   *session.Store
	http    *http.Client
	logger  *log.Logger

	mu     sync.Mutex
	states map[string]time.Time // state -> expiry
}

// NewManager creates an auth manager. httpClient may be nil, in which case
// http.DefaultClient is used for exchanges and profile lookups.
func NewManager(cfg Config, store *session.Store, httpClient *http.Client, logger *log.Logger) *Manager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		spotify: &oauth2.Config{
			ClientID:     cfg.SpotifyClientID,
			ClientSecret: cfg.SpotifyClientSecret,
			RedirectURL:  cfg.SpotifyRedirectURL,
			Endpoint:     spotifyauth.Endpoint,
			Scopes:       SpotifyScopes,
		},
		google: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       GoogleScopes,
		},
		store:  store,
		http:   httpClient,
		logger: logger.With("component", "auth"),
		states: make(map[string]time.Time),
	}
}

// RegisterRoutes mounts the sign-in endpoints.
func (m *Manager) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/spotify/login", m.SpotifyLogin)
	r.GET("/auth/spotify/callback", m.SpotifyCallback)
	r.GET("/auth/google/login", m.GoogleLogin)
	r.GET("/auth/google/callback", m.GoogleCallback)
	r.POST("/auth/logout", m.Logout)
}

// EnsureSession resolves the browser's session from its cookie, creating one
// (and setting the cookie) when absent.
func (m *Manager) EnsureSession(c *gin.Context) *session.Session {
	id, _ := c.Cookie(session.CookieName)
	sess := m.store.GetOrNew(id)
	if sess.ID != id {
		c.SetCookie(session.CookieName, sess.ID, int(session.DefaultTTL.Seconds()), "/", "", false, true)
	}
	return sess
}

// CurrentSession resolves the browser's session without creating one.
func (m *Manager) CurrentSession(c *gin.Context) *session.Session {
	id, _ := c.Cookie(session.CookieName)
	return m.store.Get(id)
}

// SpotifyLogin redirects the browser to the Spotify authorization page.
func (m *Manager) SpotifyLogin(c *gin.Context) {
	m.EnsureSession(c)
	state := m.newState()
	c.Redirect(http.StatusTemporaryRedirect, m.spotify.AuthCodeURL(state))
}

// GoogleLogin redirects the browser to the Google authorization page.
func (m *Manager) GoogleLogin(c *gin.Context) {
	m.EnsureSession(c)
	state := m.newState()
	c.Redirect(http.StatusTemporaryRedirect, m.google.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// SpotifyCallback exchanges the authorization code and stores the
// user-delegated token in the session.
func (m *Manager) SpotifyCallback(c *gin.Context) {
	tok, ok := m.handleCallback(c, m.spotify)
	if !ok {
		return
	}

	name, err := m.spotifyDisplayName(c.Request.Context(), tok)
	if err != nil {
		m.logger.Warn("spotify profile lookup failed", "err", err)
	}

	sess := m.EnsureSession(c)
	m.store.Update(sess.ID, func(s *session.Session) {
		s.SpotifyToken = tok
		s.SpotifyUser = name
	})

	m.logger.Info("spotify sign-in complete", "user", name)
	c.Redirect(http.StatusFound, "/")
}

// GoogleCallback exchanges the authorization code and stores the Google
// token in the session.
func (m *Manager) GoogleCallback(c *gin.Context) {
	tok, ok := m.handleCallback(c, m.google)
	if !ok {
		return
	}

	email, err := m.googleEmail(c.Request.Context(), tok)
	if err != nil {
		m.logger.Warn("google profile lookup failed", "err", err)
	}

	sess := m.EnsureSession(c)
	m.store.Update(sess.ID, func(s *session.Session) {
		s.GoogleToken = tok
		s.GoogleUser = email
	})

	m.logger.Info("google sign-in complete", "user", email)
	c.Redirect(http.StatusFound, "/")
}

// Logout drops the session entirely.
func (m *Manager) Logout(c *gin.Context) {
	if id, err := c.Cookie(session.CookieName); err == nil {
		m.store.Delete(id)
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// handleCallback validates state and exchanges the code. Writes the error
// response itself and returns ok=false on failure.
func (m *Manager) handleCallback(c *gin.Context, cfg *oauth2.Config) (*oauth2.Token, bool) {
	if errParam := c.Query("error"); errParam != "" {
		c.String(http.StatusBadRequest, "authorization denied: %s", errParam)
		return nil, false
	}
	if !m.consumeState(c.Query("state")) {
		c.String(http.StatusBadRequest, "invalid or expired state parameter")
		return nil, false
	}
	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "missing authorization code")
		return nil, false
	}

	ctx := context.WithValue(c.Request.Context(), oauth2.HTTPClient, m.http)
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		m.logger.Error("token exchange failed", "err", err)
		c.String(http.StatusInternalServerError, "token exchange failed")
		return nil, false
	}
	return tok, true
}

// newState registers a one-time random state value with an expiry.
func (m *Manager) newState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	m.mu.Lock()
	m.states[state] = time.Now().Add(stateTTL)
	m.mu.Unlock()
	return state
}

// consumeState checks and removes a state value; states are one-time use.
func (m *Manager) consumeState(state string) bool {
	if state == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.states[state]
	if !ok {
		return false
	}
	delete(m.states, state)
	return time.Now().Before(expiry)
}

func (m *Manager) spotifyDisplayName(ctx context.Context, tok *oauth2.Token) (string, error) {
	body, err := m.authedGet(ctx, tok, "https://api.spotify.com/v1/me")
	if err != nil {
		return "", err
	}

	var user struct {
		DisplayName string `json:"display_name"`
		ID          string `json:"id"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", err
	}
	if user.DisplayName != "" {
		return user.DisplayName, nil
	}
	return user.ID, nil
}

func (m *Manager) googleEmail(ctx context.Context, tok *oauth2.Token) (string, error) {
	body, err := m.authedGet(ctx, tok, "https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return "", err
	}

	var user struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", err
	}
	return user.Email, nil
}

func (m *Manager) authedGet(ctx context.Context, tok *oauth2.Token, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile endpoint returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
