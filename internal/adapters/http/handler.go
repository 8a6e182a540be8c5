package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/auth"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/domain"
	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/ports"
)

// Handler holds the HTTP handlers for the conversion API.
type Handler struct {
	service ports.ConversionService
	source  ports.TrackSource
	auth    *auth.Manager
	logger  *log.Logger
}

// NewHandler creates an HTTP handler around the conversion service.
func NewHandler(service ports.ConversionService, source ports.TrackSource, authMgr *auth.Manager, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		service: service,
		source:  source,
		auth:    authMgr,
		logger:  logger.With("component", "http"),
	}
}

// RegisterRoutes sets up all API routes on the given Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.POST("/convert", h.Convert)
		api.GET("/convert/stream", h.ConvertStream)
		api.GET("/playlists", h.ListPlaylists)
		api.GET("/me", h.Me)
	}
}

// Health returns a simple health check response.
//
//	@Summary		Health check
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Convert runs one playlist conversion and returns the aggregate report.
//
//	@Summary		Convert a Spotify playlist to a YouTube playlist
//	@Description	Fetches tracks from the referenced Spotify playlist (or LIKED for the
//	@Description	signed-in user's Liked Songs), finds a matching video per track, and
//	@Description	appends the matches to the destination playlist in source order.
//	@Tags			conversion
//	@Accept			json
//	@Produce		json
//	@Param			request	body		domain.ConversionRequest	true	"Conversion request"
//	@Success		200		{object}	domain.ConversionReport
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/v1/convert [post]
func (h *Handler) Convert(c *gin.Context) {
	var req domain.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	report, err := h.service.Convert(c.Request.Context(), creds, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ConvertStream runs one conversion while streaming progress events over
// SSE. The sequence ends with a single terminal event: {done,url} on
// success, {error} otherwise. A disconnecting client cancels the run at the
// next track boundary.
//
//	@Summary		Convert with streaming progress
//	@Tags			conversion
//	@Produce		text/event-stream
//	@Param			ref			query	string	true	"Spotify playlist URL, id, or LIKED"
//	@Param			destination	query	string	false	"Existing destination playlist id"
//	@Param			title		query	string	false	"Title for a newly created playlist"
//	@Router			/api/v1/convert/stream [get]
func (h *Handler) ConvertStream(c *gin.Context) {
	req := domain.ConversionRequest{
		SourceRef:             c.Query("ref"),
		DestinationPlaylistID: c.Query("destination"),
		Title:                 c.Query("title"),
	}
	if req.SourceRef == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "query parameter 'ref' is required",
		})
		return
	}

	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	events := make(chan domain.ProgressEvent, 8)

	go func() {
		defer close(events)

		emit := func(ev domain.ProgressEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}

		report, err := h.service.ConvertWithProgress(ctx, creds, req, emit)
		if err != nil {
			emit(domain.ErrorEvent(err))
			return
		}
		emit(domain.DoneEvent(report.DestinationPlaylistURL))
	}()

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		data, _ := json.Marshal(ev)
		c.SSEvent("message", string(data))
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		return true
	})
}

// ListPlaylists returns the signed-in user's Spotify playlists for the
// frontend picker.
//
//	@Summary		List the signed-in user's Spotify playlists
//	@Tags			playlists
//	@Produce		json
//	@Success		200	{array}		domain.PlaylistSummary
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/v1/playlists [get]
func (h *Handler) ListPlaylists(c *gin.Context) {
	sess := h.auth.CurrentSession(c)
	token := sess.SpotifyAccessToken()
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "spotify sign-in required",
		})
		return
	}

	playlists, err := h.source.ListPlaylists(c.Request.Context(), token)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, playlists)
}

// Me reports which identities the browser has signed in, so the frontend can
// offer the right sign-in buttons.
//
//	@Summary		Signed-in identities
//	@Tags			profile
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/api/v1/me [get]
func (h *Handler) Me(c *gin.Context) {
	sess := h.auth.CurrentSession(c)

	resp := gin.H{
		"spotify": gin.H{"signed_in": false},
		"youtube": gin.H{"signed_in": false},
	}
	if sess != nil {
		if sess.SpotifyAccessToken() != "" {
			resp["spotify"] = gin.H{"signed_in": true, "user": sess.SpotifyUser}
		}
		if sess.YouTubeAccessToken() != "" {
			resp["youtube"] = gin.H{"signed_in": true, "user": sess.GoogleUser}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// credentials builds the run's explicit credentials from the cookie session.
// A missing destination credential is a 401; the response is written here
// and ok=false returned.
func (h *Handler) credentials(c *gin.Context) (domain.Credentials, bool) {
	sess := h.auth.CurrentSession(c)

	creds := domain.Credentials{
		SpotifyToken: sess.SpotifyAccessToken(),
		YouTubeToken: sess.YouTubeAccessToken(),
	}
	if creds.YouTubeToken == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "youtube sign-in required before converting",
		})
		return domain.Credentials{}, false
	}
	return creds, true
}

// writeError maps pipeline errors onto HTTP status codes. Permission
// problems on the destination playlist get a distinct 403 so the caller can
// prompt for a different destination id.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ie *domain.InsertError

	switch {
	case errors.Is(err, domain.ErrBadPlaylistRef):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()})
	case errors.Is(err, domain.ErrSignInRequired), errors.Is(err, domain.ErrNoDestinationAuth):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: err.Error()})
	case errors.Is(err, domain.ErrPlaylistNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.As(err, &ie) && ie.Reason == domain.ReasonPermissionDenied:
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden", Message: err.Error()})
	case errors.Is(err, domain.ErrEmptyPlaylist):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "empty_playlist", Message: err.Error()})
	default:
		h.logger.Error("conversion failed", "err", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "conversion_failed", Message: err.Error()})
	}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
