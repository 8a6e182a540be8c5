package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/auth"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/domain"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/session"
)

// -- Mocks -------------------------------------------------------------------

type mockConversionService struct {
	report *domain.ConversionReport
	err    error
	events []domain.ProgressEvent

	gotCreds domain.Credentials
	gotReq   domain.ConversionRequest
}

func (m *mockConversionService) Convert(_ context.Context, creds domain.Credentials, req domain.ConversionRequest) (*domain.ConversionReport, error) {
	m.gotCreds = creds
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockConversionService) ConvertWithProgress(_ context.Context, creds domain.Credentials, req domain.ConversionRequest, emit func(domain.ProgressEvent)) (*domain.ConversionReport, error) {
	m.gotCreds = creds
	m.gotReq = req
	for _, ev := range m.events {
		emit(ev)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockTrackSource struct {
	playlists []domain.PlaylistSummary
	err       error
}

func (m *mockTrackSource) FetchTracks(_ context.Context, _ string, _ domain.SourceRef) ([]domain.Track, error) {
	return nil, nil
}

func (m *mockTrackSource) ListPlaylists(_ context.Context, _ string) ([]domain.PlaylistSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.playlists, nil
}

// -- Helpers -----------------------------------------------------------------

type testEnv struct {
	router *gin.Engine
	store  *session.Store
}

func setupRouter(svc *mockConversionService, src *mockTrackSource) testEnv {
	gin.SetMode(gin.TestMode)
	store := session.NewStore(0)
	mgr := auth.NewManager(auth.Config{}, store, nil, nil)

	r := gin.New()
	h := NewHandler(svc, src, mgr, nil)
	h.RegisterRoutes(r)
	return testEnv{router: r, store: store}
}

// signedIn creates a session holding the given tokens and returns its cookie.
func (e testEnv) signedIn(spotifyToken, youtubeToken string) *http.Cookie {
	sess := e.store.New()
	e.store.Update(sess.ID, func(s *session.Session) {
		if spotifyToken != "" {
			s.SpotifyToken = &oauth2.Token{AccessToken: spotifyToken}
		}
		if youtubeToken != "" {
			s.GoogleToken = &oauth2.Token{AccessToken: youtubeToken}
		}
	})
	return &http.Cookie{Name: session.CookieName, Value: sess.ID}
}

func postConvert(t *testing.T, env testEnv, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	env.router.ServeHTTP(w, req)
	return w
}

// -- Tests -------------------------------------------------------------------

func TestHealth(t *testing.T) {
	env := setupRouter(&mockConversionService{}, &mockTrackSource{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestConvert_Success(t *testing.T) {
	svc := &mockConversionService{
		report: &domain.ConversionReport{
			DestinationPlaylistID:  "PLdest",
			DestinationPlaylistURL: "https://www.youtube.com/playlist?list=PLdest",
			Added:                  []string{"Song A - Artist X"},
			Failed:                 []domain.TrackFailure{{Track: "Song B - Artist Y", Reason: domain.ReasonNotFound}},
		},
	}
	env := setupRouter(svc, &mockTrackSource{})
	cookie := env.signedIn("sp-token", "yt-token")

	w := postConvert(t, env, domain.ConversionRequest{SourceRef: "37i9dQZF1DXcBWIGoYBM5M"}, cookie)

	assert.Equal(t, http.StatusOK, w.Code)

	var report domain.ConversionReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "PLdest", report.DestinationPlaylistID)
	assert.Equal(t, []string{"Song A - Artist X"}, report.Added)
	assert.Len(t, report.Failed, 1)

	assert.Equal(t, "sp-token", svc.gotCreds.SpotifyToken)
	assert.Equal(t, "yt-token", svc.gotCreds.YouTubeToken)
}

func TestConvert_MissingBody(t *testing.T) {
	env := setupRouter(&mockConversionService{}, &mockTrackSource{})
	cookie := env.signedIn("", "yt-token")

	w := postConvert(t, env, map[string]string{}, cookie)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConvert_NoYouTubeSignIn(t *testing.T) {
	svc := &mockConversionService{}
	env := setupRouter(svc, &mockTrackSource{})

	w := postConvert(t, env, domain.ConversionRequest{SourceRef: "37i9dQZF1DXcBWIGoYBM5M"}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, svc.gotCreds.YouTubeToken)
}

func TestConvert_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"bad reference", domain.ErrBadPlaylistRef, http.StatusBadRequest},
		{"sign-in required", domain.ErrSignInRequired, http.StatusUnauthorized},
		{"playlist missing", domain.ErrPlaylistNotFound, http.StatusNotFound},
		{"destination not writable", &domain.InsertError{VideoID: "v1", Reason: domain.ReasonPermissionDenied, Status: 403}, http.StatusForbidden},
		{"empty playlist", domain.ErrEmptyPlaylist, http.StatusUnprocessableEntity},
		{"upstream failure", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupRouter(&mockConversionService{err: tt.err}, &mockTrackSource{})
			cookie := env.signedIn("sp-token", "yt-token")

			w := postConvert(t, env, domain.ConversionRequest{SourceRef: "37i9dQZF1DXcBWIGoYBM5M"}, cookie)

			assert.Equal(t, tt.status, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestConvertStream_EmitsEventsAndDone(t *testing.T) {
	ok, fail := true, false
	svc := &mockConversionService{
		report: &domain.ConversionReport{
			DestinationPlaylistID:  "PLdest",
			DestinationPlaylistURL: "https://www.youtube.com/playlist?list=PLdest",
		},
		events: []domain.ProgressEvent{
			domain.InfoEvent("fetched 2 tracks"),
			{Name: "Song A - Artist X", Success: &ok, Count: 1, Total: 2},
			{Name: "Song B - Artist Y", Success: &fail, Reason: domain.ReasonNotFound, Count: 2, Total: 2},
		},
	}
	env := setupRouter(svc, &mockTrackSource{})
	cookie := env.signedIn("sp-token", "yt-token")

	w := newCloseNotifyRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/convert/stream?ref=37i9dQZF1DXcBWIGoYBM5M", nil)
	req.AddCookie(cookie)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	events := decodeSSE(t, w.Body.String())
	require.Len(t, events, 4)
	assert.Equal(t, "fetched 2 tracks", events[0].Info)
	assert.Equal(t, "Song A - Artist X", events[1].Name)
	assert.Equal(t, domain.ReasonNotFound, events[2].Reason)
	assert.True(t, events[3].Done)
	assert.Equal(t, "https://www.youtube.com/playlist?list=PLdest", events[3].URL)
}

func TestConvertStream_TerminalErrorEvent(t *testing.T) {
	svc := &mockConversionService{err: domain.ErrPlaylistNotFound}
	env := setupRouter(svc, &mockTrackSource{})
	cookie := env.signedIn("", "yt-token")

	w := newCloseNotifyRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/convert/stream?ref=37i9dQZF1DXcBWIGoYBM5M", nil)
	req.AddCookie(cookie)
	env.router.ServeHTTP(w, req)

	events := decodeSSE(t, w.Body.String())
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.False(t, last.Done)
	assert.NotEmpty(t, last.Error)
}

func TestConvertStream_MissingRef(t *testing.T) {
	env := setupRouter(&mockConversionService{}, &mockTrackSource{})
	cookie := env.signedIn("", "yt-token")

	w := newCloseNotifyRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/convert/stream", nil)
	req.AddCookie(cookie)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPlaylists(t *testing.T) {
	src := &mockTrackSource{
		playlists: []domain.PlaylistSummary{
			{ID: "37i9dQZF1DXcBWIGoYBM5M", Name: "Road Trip", TrackCount: 42},
		},
	}
	env := setupRouter(&mockConversionService{}, src)
	cookie := env.signedIn("sp-token", "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists", nil)
	req.AddCookie(cookie)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var playlists []domain.PlaylistSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &playlists))
	require.Len(t, playlists, 1)
	assert.Equal(t, "Road Trip", playlists[0].Name)
}

func TestListPlaylists_NoSpotifySignIn(t *testing.T) {
	env := setupRouter(&mockConversionService{}, &mockTrackSource{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	env := setupRouter(&mockConversionService{}, &mockTrackSource{})
	cookie := env.signedIn("sp-token", "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(cookie)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["spotify"]["signed_in"])
	assert.Equal(t, false, body["youtube"]["signed_in"])
}

// closeNotifyRecorder wraps httptest.ResponseRecorder with the
// http.CloseNotifier interface that gin's Stream helper requires.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

// decodeSSE parses the "data: {...}" lines of an SSE body into events.
func decodeSSE(t *testing.T, body string) []domain.ProgressEvent {
	t.Helper()

	var events []domain.ProgressEvent
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

		// c.SSEvent writes the JSON payload as a quoted string.
		var raw string
		if err := json.Unmarshal([]byte(payload), &raw); err != nil {
			raw = payload
		}

		var ev domain.ProgressEvent
		require.NoError(t, json.Unmarshal([]byte(raw), &ev))
		events = append(events, ev)
	}
	return events
}
