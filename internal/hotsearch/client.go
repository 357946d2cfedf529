// Package hotsearch fetches hot-search topic lists from TianAPI.
package hotsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/keycool/hotsearch/internal/cache"
	"github.com/keycool/hotsearch/internal/worker"
)

// ErrMissingAPIKey is returned before any request when no key is configured.
var ErrMissingAPIKey = errors.New("TianAPI key is not set (set TIANAPI_KEY or pass --api-key)")

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// fetchSleepFunc waits between attempts; tests replace it.
var fetchSleepFunc = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Logger receives progress messages. *output.Printer satisfies it.
type Logger interface {
	Debug(format string, args ...any)
	Warning(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)   {}
func (nopLogger) Warning(string, ...any) {}

// Options configures a Client
type Options struct {
	APIKey     string
	Endpoints  map[string]string // Source ID -> endpoint URL
	Timeout    time.Duration
	MaxRetries int
	Limiter    *worker.Limiter // Optional per-host pacing
	Cache      cache.Cache     // Optional; nil disables caching
	CacheTTL   time.Duration
	Logger     Logger
	HTTPClient *http.Client // Optional; built from Timeout when nil
}

// Client talks to the TianAPI hot-search endpoints
type Client struct {
	apiKey     string
	endpoints  map[string]string
	maxRetries int
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     Logger
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a Client. It fails when no API key is configured.
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:     opts.APIKey,
		endpoints:  opts.Endpoints,
		maxRetries: opts.MaxRetries,
		limiter:    opts.Limiter,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		logger:     opts.Logger,
		httpClient: opts.HTTPClient,
		now:        time.Now,
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}
	if c.logger == nil {
		c.logger = nopLogger{}
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c, nil
}

// Response is the TianAPI envelope
type Response struct {
	Code   *int            `json:"code"`
	Msg    *string         `json:"msg"`
	Result json.RawMessage `json:"result"`
}

// Valid reports whether the envelope carries a successful result
func (r *Response) Valid() bool {
	return r.Code != nil && *r.Code == 200 && len(r.Result) > 0
}

func (r *Response) message() string {
	if r.Msg == nil {
		return "no message"
	}
	return *r.Msg
}

// StatusError is an unexpected HTTP status from the upstream API
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// APIError is a well-formed envelope that reports a failure
type APIError struct {
	Code    *int
	Message string
}

func (e *APIError) Error() string {
	if e.Code == nil {
		return fmt.Sprintf("api error: %s", e.Message)
	}
	return fmt.Sprintf("api error %d: %s", *e.Code, e.Message)
}

// Endpoint returns the configured URL for source
func (c *Client) Endpoint(source string) (string, error) {
	endpoint, ok := c.endpoints[source]
	if !ok || endpoint == "" {
		return "", fmt.Errorf("no endpoint configured for source %q", source)
	}
	return endpoint, nil
}

// Fetch retrieves the current list for source. Failed attempts are retried
// with exponential backoff (1s, 2s, 4s, ...) up to the configured number of
// attempts. A cached response inside the TTL is returned without a request.
func (c *Client) Fetch(ctx context.Context, source string) (*Response, error) {
	endpoint, err := c.Endpoint(source)
	if err != nil {
		return nil, err
	}

	key := cache.Key("tianapi", endpoint)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			var resp Response
			if err := json.Unmarshal(body, &resp); err == nil && resp.Valid() {
				c.logger.Debug("%s: using cached response", source)
				return &resp, nil
			}
			_ = c.cache.Delete(key)
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			c.logger.Debug("%s: retrying in %s", source, backoff)
			if err := fetchSleepFunc(ctx, backoff); err != nil {
				return nil, err
			}
		}

		c.logger.Debug("%s: fetching (attempt %d/%d)", source, attempt+1, c.maxRetries)
		resp, body, err := c.fetchOnce(ctx, endpoint)
		if err == nil {
			if c.cache != nil {
				if err := c.cache.Set(key, body, c.cacheTTL); err != nil {
					c.logger.Warning("%s: cache write failed: %v", source, err)
				}
			}
			return resp, nil
		}

		lastErr = err
		c.logger.Warning("%s: attempt %d/%d failed: %v", source, attempt+1, c.maxRetries, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetryable(err) {
			break
		}
	}

	return nil, fmt.Errorf("fetch %s: %w", source, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) (*Response, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			return nil, nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("parse endpoint: %w", err)
	}
	query := reqURL.Query()
	query.Set("key", c.apiKey)
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotsearch")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}
	if !out.Valid() {
		return nil, nil, &APIError{Code: out.Code, Message: out.message()}
	}
	return &out, body, nil
}

// isRetryable reports whether another attempt could succeed. Client errors
// other than 429 will not change on retry.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return true
}
