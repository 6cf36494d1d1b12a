// Package httpfetch downloads package artifacts and registry documents over HTTP.
package httpfetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactFetcher = (*Client)(nil)

const (
	// DefaultTimeout bounds a single request when the caller sets no deadline.
	DefaultTimeout = 30 * time.Second

	// maxBodySize caps artifact and document downloads.
	maxBodySize = 512 << 20

	userAgent = "lockguard"
)

// Client performs GET requests with shared headers and status handling.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client. Headers are sent with every request.
func NewClient(timeout time.Duration, headers map[string]string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		headers: headers,
	}
}

// Fetch downloads url and returns its body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := c.do(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrNetwork.Error()), "url", url)
	}
	return data, nil
}

// GetJSON downloads url with the given extra headers and decodes it into v.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.do(ctx, url, headers)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	if err := json.NewDecoder(io.LimitReader(body, maxBodySize)).Decode(v); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to decode response"), "url", url)
	}
	return nil
}

func (c *Client) do(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrNetwork.Error()), "url", url)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrNetwork.Error()), "url", url)
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		_ = resp.Body.Close()
		return nil, zerr.With(err, "url", url)
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return zerr.With(domain.ErrNetwork, "status", strconv.Itoa(code))
	}
}
