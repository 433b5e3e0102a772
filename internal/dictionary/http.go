package dictionary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the free dictionary API the game was designed against.
	DefaultBaseURL = "https://api.dictionaryapi.dev"

	defaultTimeout = 3 * time.Second
	defaultLang    = "en"
)

// HTTPClient queries a dictionaryapi.dev compatible service:
// GET {base}/api/v2/entries/{lang}/{word}; 2xx means the word exists, 404 means
// it does not, anything else is an error.
type HTTPClient struct {
	baseURL string
	lang    string
	client  *http.Client
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.client = c }
}

// WithLanguage selects the dictionary language segment.
func WithLanguage(lang string) HTTPOption {
	return func(h *HTTPClient) { h.lang = lang }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPClient) { h.client.Timeout = d }
}

// NewHTTPClient returns a client for baseURL (DefaultBaseURL when empty).
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    defaultLang,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Exists implements Lookup.
func (h *HTTPClient) Exists(ctx context.Context, word string) (bool, error) {
	w := Normalize(word)
	if len(w) < 2 {
		return false, nil
	}

	endpoint := fmt.Sprintf("%s/api/v2/entries/%s/%s", h.baseURL, h.lang, url.PathEscape(w))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build dictionary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}
