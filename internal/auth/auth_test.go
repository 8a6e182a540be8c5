package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/session"
)

func newTestManager() (*Manager, *session.Store, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	store := session.NewStore(0)
	mgr := NewManager(Config{
		SpotifyClientID:    "sp-client",
		SpotifyRedirectURL: "http://localhost:8080/auth/spotify/callback",
		GoogleClientID:     "g-client",
		GoogleRedirectURL:  "http://localhost:8080/auth/google/callback",
	}, store, nil, nil)

	r := gin.New()
	mgr.RegisterRoutes(r)
	return mgr, store, r
}

func TestSpotifyLogin_RedirectsWithState(t *testing.T) {
	_, store, r := newTestManager()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/spotify/login", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.spotify.com", loc.Host)
	assert.Equal(t, "sp-client", loc.Query().Get("client_id"))
	assert.NotEmpty(t, loc.Query().Get("state"))

	// A session cookie is issued alongside the redirect.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.NotNil(t, store.Get(cookies[0].Value))
}

func TestConsumeState_OneTimeUse(t *testing.T) {
	mgr, _, _ := newTestManager()

	state := mgr.newState()
	assert.True(t, mgr.consumeState(state))
	assert.False(t, mgr.consumeState(state), "state is single use")
}

func TestConsumeState_UnknownOrEmpty(t *testing.T) {
	mgr, _, _ := newTestManager()

	assert.False(t, mgr.consumeState(""))
	assert.False(t, mgr.consumeState("never-issued"))
}

func TestConsumeState_Expired(t *testing.T) {
	mgr, _, _ := newTestManager()

	state := mgr.newState()
	mgr.mu.Lock()
	mgr.states[state] = time.Now().Add(-time.Second)
	mgr.mu.Unlock()

	assert.False(t, mgr.consumeState(state))
}

func TestCallback_RejectsBadState(t *testing.T) {
	_, _, r := newTestManager()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/spotify/callback?state=forged&code=abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallback_RejectsDeniedAuthorization(t *testing.T) {
	_, _, r := newTestManager()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallback_RejectsMissingCode(t *testing.T) {
	mgr, _, r := newTestManager()
	state := mgr.newState()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/spotify/callback?state="+url.QueryEscape(state), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnsureSession_ReusesExistingCookie(t *testing.T) {
	mgr, store, _ := newTestManager()
	sess := store.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})

	got := mgr.EnsureSession(c)
	assert.Equal(t, sess.ID, got.ID)
	assert.Empty(t, w.Result().Cookies(), "no new cookie for a live session")
}

func TestLogout_DropsSession(t *testing.T) {
	_, store, r := newTestManager()
	sess := store.New()
	store.Update(sess.ID, func(s *session.Session) {
		s.GoogleToken = &oauth2.Token{AccessToken: "yt-token"}
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, store.Get(sess.ID))
}
