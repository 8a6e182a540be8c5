package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// APISearcher implements ports.VideoSearcher with the quota-metered Data API
// v3 search.list endpoint. The API's own relevance ranking is trusted: the
// first item wins.
type APISearcher struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

// NewAPISearcher creates a Data API searcher with the given API key.
func NewAPISearcher(httpClient *http.Client, apiKey string) *APISearcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APISearcher{
		http:    httpClient,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL points the searcher at a different API root. Used by tests.
func (s *APISearcher) SetBaseURL(u string) { s.baseURL = u }

func (s *APISearcher) Name() string { return "api" }

// Search returns the top-ranked video id for the query, or an empty string
// when the search yields nothing.
func (s *APISearcher) Search(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf(
		"%s/search?part=snippet&type=video&videoCategoryId=10&maxResults=1&q=%s&key=%s",
		s.baseURL, url.QueryEscape(query), url.QueryEscape(s.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube search returned status %d: %s", resp.StatusCode, string(body))
	}

	var sr struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("youtube: failed to parse search response: %w", err)
	}

	if len(sr.Items) == 0 {
		return "", nil
	}
	return sr.Items[0].ID.VideoID, nil
}
