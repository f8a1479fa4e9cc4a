// Package fetch downloads the weekly menu document over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client performs the menu download.
type Client struct {
	hc      *http.Client
	ua      string
	maxSize int64
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.ua = ua }
}

// WithMaxSize caps the downloaded body size in bytes. Default: 20 MB.
func WithMaxSize(n int64) Option {
	return func(c *Client) { c.maxSize = n }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client with sensible defaults.
func New(opts ...Option) *Client {
	c := &Client{
		hc:      &http.Client{Timeout: 15 * time.Second},
		ua:      "Mozilla/5.0 (compatible; MensaMail/1.0)",
		maxSize: 20 << 20,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Download GETs the document at url and returns its bytes. Non-2xx responses
// are errors.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch: %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}

	c.logger.Debug("fetch: downloaded", "url", url, "size", len(body))
	return body, nil
}
