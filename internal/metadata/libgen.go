package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DownloadResult is one Libgen search hit.
type DownloadResult struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Year      string   `json:"year,omitempty"`
	Extension string   `json:"extension,omitempty"`
	Size      string   `json:"size,omitempty"`
	Link      string   `json:"link,omitempty"`
	Mirrors   []string `json:"mirrors,omitempty"`
}

// libgenResponse accepts both a bare array and a {"results": [...]} envelope.
type libgenResponse []DownloadResult

func (r *libgenResponse) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []DownloadResult
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*r = items
		return nil
	}

	var envelope struct {
		Results []DownloadResult `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	*r = envelope.Results
	return nil
}

// LibgenClient looks up download links through a consumet-compatible API.
type LibgenClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewLibgenClient creates a Libgen search client for baseURL.
func NewLibgenClient(baseURL string) *LibgenClient {
	return &LibgenClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 4),
	}
}

// Search returns download candidates for a title.
func (c *LibgenClient) Search(ctx context.Context, title string) ([]DownloadResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	searchURL := fmt.Sprintf("%s/books/libgen/s?bookTitle=%s", c.baseURL, url.QueryEscape(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search libgen: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var results libgenResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if results == nil {
		return []DownloadResult{}, nil
	}
	return results, nil
}
