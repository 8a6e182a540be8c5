// Package ytsearch implements unauthenticated YouTube video search by
// scraping the results page: the ytInitialData blob embedded in the page is
// extracted and the first videoRenderer entry is taken as the best match.
package ytsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
)

const (
	defaultResultsURL = "https://www.youtube.com/results"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var initialDataRe = regexp.MustCompile(`var ytInitialData = (.+?);</script>`)

// ErrNoInitialData is returned when the results page does not contain the
// ytInitialData blob, which usually means YouTube served a consent or
// challenge page instead of results.
var ErrNoInitialData = errors.New("ytsearch: no ytInitialData in results page")

// Scraper implements ports.VideoSearcher without any credential or quota.
type Scraper struct {
	http       *http.Client
	resultsURL string
}

// NewScraper creates a scraping searcher. httpClient may be nil, in which
// case http.DefaultClient is used.
func NewScraper(httpClient *http.Client) *Scraper {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Scraper{http: httpClient, resultsURL: defaultResultsURL}
}

// SetResultsURL points the scraper at a different results endpoint. Used by
// tests.
func (s *Scraper) SetResultsURL(u string) { s.resultsURL = u }

func (s *Scraper) Name() string { return "scrape" }

// initialData mirrors just enough of the results-page JSON to reach the
// ranked videoRenderer entries.
type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer *struct {
									VideoID string `json:"videoId"`
								} `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

// Search fetches the results page for the query and returns the first video
// id in YouTube's own ranking, or an empty string when the page holds no
// videos.
func (s *Scraper) Search(ctx context.Context, query string) (string, error) {
	endpoint := s.resultsURL + "?" + url.Values{"search_query": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ytsearch: results page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return extractFirstVideoID(body)
}

// extractFirstVideoID pulls ytInitialData out of the page and walks it to
// the first ranked video.
func extractFirstVideoID(page []byte) (string, error) {
	m := initialDataRe.FindSubmatch(page)
	if m == nil {
		return "", ErrNoInitialData
	}

	var data initialData
	if err := json.Unmarshal(m[1], &data); err != nil {
		return "", fmt.Errorf("ytsearch: failed to parse ytInitialData: %w", err)
	}

	for _, section := range data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents {
		for _, item := range section.ItemSectionRenderer.Contents {
			if item.VideoRenderer != nil && item.VideoRenderer.VideoID != "" {
				return item.VideoRenderer.VideoID, nil
			}
		}
	}

	return "", nil
}
