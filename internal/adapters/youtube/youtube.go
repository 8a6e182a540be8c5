package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/domain"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	maxTitleLen       = 100
	maxDescriptionLen = 5000

	defaultPrivacy = "private"
)

// Writer implements ports.PlaylistWriter against the YouTube Data API v3.
type Writer struct {
	http    *http.Client
	baseURL string
	logger  *log.Logger
}

// NewWriter creates a playlist writer. httpClient may be nil, in which case
// http.DefaultClient is used.
func NewWriter(httpClient *http.Client, logger *log.Logger) *Writer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Writer{
		http:    httpClient,
		baseURL: defaultBaseURL,
		logger:  logger.With("adapter", "youtube"),
	}
}

// SetBaseURL points the writer at a different API root. Used by tests.
func (w *Writer) SetBaseURL(u string) { w.baseURL = u }

// -- API response types (internal) ------------------------------------------

type playlistListResponse struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

type apiError struct {
	Error struct {
		Code   int `json:"code"`
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// -- PlaylistWriter implementation -------------------------------------------

// ValidatePlaylist confirms that playlistID exists before any inserts are
// attempted. A nonexistent id is domain.ErrPlaylistNotFound; a replacement
// playlist is never created in its place.
func (w *Writer) ValidatePlaylist(ctx context.Context, token, playlistID string) error {
	endpoint := fmt.Sprintf("%s/playlists?part=id&id=%s", w.baseURL, url.QueryEscape(playlistID))

	body, err := w.doGet(ctx, token, endpoint)
	if err != nil {
		return fmt.Errorf("youtube: failed to look up playlist %s: %w", playlistID, err)
	}

	var resp playlistListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("youtube: failed to parse playlist lookup response: %w", err)
	}

	if len(resp.Items) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPlaylistNotFound, playlistID)
	}
	return nil
}

// CreatePlaylist creates a playlist and returns its id. Title and
// description are truncated to the API's limits; privacy defaults to
// private.
func (w *Writer) CreatePlaylist(ctx context.Context, token, title, description, privacy string) (string, error) {
	if privacy == "" {
		privacy = defaultPrivacy
	}

	payload := map[string]interface{}{
		"snippet": map[string]string{
			"title":       truncate(title, maxTitleLen),
			"description": truncate(description, maxDescriptionLen),
		},
		"status": map[string]string{
			"privacyStatus": privacy,
		},
	}
	payloadBytes, _ := json.Marshal(payload)

	endpoint := fmt.Sprintf("%s/playlists?part=snippet,status", w.baseURL)
	body, err := w.doPost(ctx, token, endpoint, payloadBytes)
	if err != nil {
		return "", fmt.Errorf("youtube: failed to create playlist: %w", err)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("youtube: failed to parse create playlist response: %w", err)
	}

	w.logger.Info("created destination playlist", "id", resp.ID)
	return resp.ID, nil
}

// InsertVideo appends one video to the playlist via playlistItems.insert.
// Failures come back as *domain.InsertError classified by the upstream
// status: conflicts and duplicates are insert_rejected (soft), 403 is
// permission_denied (the playlist is not writable at all).
func (w *Writer) InsertVideo(ctx context.Context, token, playlistID, videoID string) error {
	payload := map[string]interface{}{
		"snippet": map[string]interface{}{
			"playlistId": playlistID,
			"resourceId": map[string]string{
				"kind":    "youtube#video",
				"videoId": videoID,
			},
		},
	}
	payloadBytes, _ := json.Marshal(payload)

	endpoint := fmt.Sprintf("%s/playlistItems?part=snippet", w.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payloadBytes)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return &domain.InsertError{
		VideoID: videoID,
		Reason:  classifyInsertFailure(resp.StatusCode, body),
		Status:  resp.StatusCode,
	}
}

// PlaylistURL returns the browsable URL for a playlist id.
func (w *Writer) PlaylistURL(playlistID string) string {
	return "https://www.youtube.com/playlist?list=" + playlistID
}

// classifyInsertFailure maps an upstream rejection to a FailReason. A 403
// with a duplicate reason is still a duplicate: the API reports
// videoAlreadyInPlaylist under the 409 family but some surfaces use 403.
func classifyInsertFailure(status int, body []byte) domain.FailReason {
	var ae apiError
	_ = json.Unmarshal(body, &ae)
	for _, e := range ae.Error.Errors {
		switch e.Reason {
		case "videoAlreadyInPlaylist", "duplicate":
			return domain.ReasonInsertRejected
		case "playlistItemsNotAccessible", "forbidden", "playlistForbidden":
			return domain.ReasonPermissionDenied
		}
	}
	if status == http.StatusForbidden {
		return domain.ReasonPermissionDenied
	}
	return domain.ReasonInsertRejected
}

// -- HTTP helpers ------------------------------------------------------------

func (w *Writer) doGet(ctx context.Context, token, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := w.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func (w *Writer) doPost(ctx context.Context, token, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("youtube API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
