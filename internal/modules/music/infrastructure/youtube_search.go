package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
)

const defaultSearchURL = "https://www.googleapis.com/youtube/v3/search"

// YouTubeSearchClient resolves free-text queries to watch URLs through the
// YouTube Data API. Requests are rate limited so a burst of /play commands
// cannot burn the daily API quota.
type YouTubeSearchClient struct {
	apiKey    string
	searchURL string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewYouTubeSearchClient creates a client with the given API key. searchURL
// overrides the API endpoint for tests; empty means the real API.
func NewYouTubeSearchClient(apiKey, searchURL string) *YouTubeSearchClient {
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	return &YouTubeSearchClient{
		apiKey:    apiKey,
		searchURL: searchURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// Search returns the watch URL of the best match, or empty string when the
// API found nothing.
func (c *YouTubeSearchClient) Search(ctx context.Context, query string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	val := url.Values{}
	val.Set("part", "snippet")
	val.Set("type", "video")
	val.Set("maxResults", "1")
	val.Set("q", query)
	val.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+val.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube search status %d", resp.StatusCode)
	}

	var body ytSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	if len(body.Items) == 0 || body.Items[0].ID.VideoID == "" {
		return "", nil
	}
	return "https://www.youtube.com/watch?v=" + body.Items[0].ID.VideoID, nil
}

var _ ports.SearchClient = (*YouTubeSearchClient)(nil)
