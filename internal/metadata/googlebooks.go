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

const (
	userAgent            = "Bookshelf/1.0 (https://github.com/mrlokans/bookshelf)"
	googleBooksPageSize  = 40
	defaultClientTimeout = 10 * time.Second
)

// Volume is a Google Books search result.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo holds the descriptive fields of a Volume.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Description         string               `json:"description"`
	Publisher           string               `json:"publisher"`
	Categories          []string             `json:"categories"`
	ImageLinks          *VolumeImageLinks    `json:"imageLinks"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
}

type VolumeImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// IndustryIdentifier is an ISBN_10, ISBN_13 or OTHER code.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// GoogleBooksClient searches the Google Books volumes API.
type GoogleBooksClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
}

// NewGoogleBooksClient creates a client for baseURL. apiKey may be empty.
func NewGoogleBooksClient(baseURL, apiKey string) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{
			Timeout: defaultClientTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// Unauthenticated quota is roughly one request per second
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// SearchBySubject returns volumes tagged with the given subject.
func (c *GoogleBooksClient) SearchBySubject(ctx context.Context, subject string) ([]Volume, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", "subject:"+subject)
	params.Set("maxResults", fmt.Sprintf("%d", googleBooksPageSize))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	searchURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if result.Items == nil {
		return []Volume{}, nil
	}
	return result.Items, nil
}

// ISBNs returns the identifier codes of the volume in response order.
func (v VolumeInfo) ISBNs() []string {
	codes := make([]string, 0, len(v.IndustryIdentifiers))
	for _, id := range v.IndustryIdentifiers {
		if id.Identifier != "" {
			codes = append(codes, id.Identifier)
		}
	}
	return codes
}
