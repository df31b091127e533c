package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"SeoForge/internal/ports"
)

const (
	defaultEndpoint = "https://api.unsplash.com"
	candidatePool   = 5
)

// Unsplash finds a landscape photo for a keyword.
type Unsplash struct {
	endpoint  string
	accessKey string
	http      ports.HTTPDoer
	pick      func(n int) int
}

var _ ports.ImageSearcher = (*Unsplash)(nil)

// NewUnsplash returns nil when no access key is configured.
func NewUnsplash(endpoint, accessKey string, client ports.HTTPDoer) *Unsplash {
	if strings.TrimSpace(accessKey) == "" {
		return nil
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Unsplash{
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		accessKey: accessKey,
		http:      client,
		pick:      rand.IntN,
	}
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
			Small   string `json:"small"`
		} `json:"urls"`
	} `json:"results"`
}

// SearchImage returns the regular-size URL of a random photo among the top
// five results, or "" when the search has no results.
func (u *Unsplash) SearchImage(ctx context.Context, keyword string) (string, error) {
	query := url.Values{}
	query.Set("query", keyword)
	query.Set("per_page", fmt.Sprint(candidatePool))
	query.Set("orientation", "landscape")

	var resp searchResponse
	if err := u.get(ctx, "/search/photos?"+query.Encode(), &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", nil
	}

	n := min(candidatePool, len(resp.Results))
	photo := resp.Results[u.pick(n)]
	if photo.URLs.Regular != "" {
		return photo.URLs.Regular, nil
	}
	return photo.URLs.Small, nil
}

func (u *Unsplash) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}
	return nil
}
