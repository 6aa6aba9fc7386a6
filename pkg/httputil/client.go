package httputil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/moodmagic/moodmagic/pkg/buildinfo"
	"github.com/moodmagic/moodmagic/pkg/cache"
	"github.com/moodmagic/moodmagic/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request, retries excluded.
	DefaultTimeout = 15 * time.Second

	// maxBodySize caps downloaded payloads (fonts and images are well below).
	maxBodySize = 32 << 20
)

var (
	// ErrNotFound is returned when the remote resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = errors.New("network error")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.Code)
}

// Client provides shared HTTP functionality for remote asset fetches.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHeader adds a default request header.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithRetry sets the retry budget. attempts of 1 disables retries.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewClient creates a Client backed by c. If c is nil, caching is disabled.
func NewClient(c cache.Cache, opts ...Option) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	cl := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		cache:    c,
		headers:  map[string]string{"User-Agent": buildinfo.UserAgent()},
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Fetch returns the body at rawURL, consulting the cache under key first.
// Successful responses are cached for ttl. An empty key disables caching
// for this call.
func (c *Client) Fetch(ctx context.Context, rawURL, key string, ttl time.Duration) ([]byte, error) {
	if key != "" {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			observability.HTTP().OnCacheHit(ctx, key)
			return data, nil
		}
	}

	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.do(ctx, http.MethodGet, rawURL, "", nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	if key != "" {
		_ = c.cache.Set(ctx, key, body, ttl)
	}
	return body, nil
}

// Post sends payload with the given content type and returns the response
// body. Transport failures and 5xx responses are retried.
func (c *Client) Post(ctx context.Context, rawURL, contentType string, payload []byte) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.do(ctx, http.MethodPost, rawURL, contentType, payload)
		return err
	})
	return body, err
}

func (c *Client) do(ctx context.Context, method, rawURL, contentType string, payload []byte) ([]byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	host, path := splitURL(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	if err := checkStatus(resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

func checkStatus(code int, body []byte) error {
	se := &StatusError{Code: code, Body: truncate(string(body), 512)}
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, se)
	case code == http.StatusTooManyRequests || code >= 500:
		return Retryable(fmt.Errorf("%w: %w", ErrNetwork, se))
	default:
		return fmt.Errorf("%w: %w", ErrNetwork, se)
	}
}

func splitURL(raw string) (host, path string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
