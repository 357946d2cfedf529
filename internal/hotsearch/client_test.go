package hotsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keycool/hotsearch/internal/cache"
	"github.com/keycool/hotsearch/internal/worker"
)

const okBody = `{"code":200,"msg":"success","result":{"list":[{"word":"热搜一","hotnum":123456},{"word":"热搜二","hotnum":"99万"}]}}`

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := fetchSleepFunc
	fetchSleepFunc = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	t.Cleanup(func() { fetchSleepFunc = orig })
	return &slept
}

func newTestClient(t *testing.T, serverURL string, opts Options) *Client {
	t.Helper()
	if opts.APIKey == "" {
		opts.APIKey = "test-key"
	}
	if opts.Endpoints == nil {
		opts.Endpoints = map[string]string{
			"weibo":  serverURL + "/weibohot/index",
			"douyin": serverURL + "/douyinhot/index",
		}
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	client, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(Options{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weibohot/index" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("Expected key test-key, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, okBody)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, Options{Limiter: worker.NewLimiter(1000, 1)})
	resp, err := client.Fetch(context.Background(), "weibo")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !resp.Valid() {
		t.Error("Expected valid response")
	}
	if resp.Msg == nil || *resp.Msg != "success" {
		t.Errorf("Unexpected message: %v", resp.Msg)
	}
}

func TestFetch_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, okBody)
	}))
	defer server.Close()

	slept := stubSleep(t)
	client := newTestClient(t, server.URL, Options{})

	if _, err := client.Fetch(context.Background(), "weibo"); err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*slept) != len(want) || (*slept)[0] != want[0] || (*slept)[1] != want[1] {
		t.Errorf("Expected backoff %v, got %v", want, *slept)
	}
}

func TestFetch_APIErrorRetriedUntilExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = fmt.Fprint(w, `{"code":230,"msg":"key错误或为空"}`)
	}))
	defer server.Close()

	slept := stubSleep(t)
	client := newTestClient(t, server.URL, Options{})

	_, err := client.Fetch(context.Background(), "weibo")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.Code == nil || *apiErr.Code != 230 {
		t.Errorf("Expected code 230, got %v", apiErr.Code)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
	// No sleep after the last attempt.
	if len(*slept) != 2 {
		t.Errorf("Expected 2 sleeps, got %d", len(*slept))
	}
}

func TestFetch_MissingResultIsInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"code":200,"msg":"success"}`)
	}))
	defer server.Close()

	stubSleep(t)
	client := newTestClient(t, server.URL, Options{MaxRetries: 1})

	if _, err := client.Fetch(context.Background(), "weibo"); err == nil {
		t.Fatal("Expected error for envelope without result")
	}
}

func TestFetch_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	stubSleep(t)
	client := newTestClient(t, server.URL, Options{})

	_, err := client.Fetch(context.Background(), "weibo")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404 StatusError, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetch_UnknownSource(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0", Options{})
	if _, err := client.Fetch(context.Background(), "wechat"); err == nil {
		t.Fatal("Expected error for unconfigured source")
	}
}

func TestFetch_CachedWithinTTL(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = fmt.Fprint(w, okBody)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, Options{
		Cache:    cache.NewMemoryCache(time.Minute, time.Minute),
		CacheTTL: time.Minute,
	})

	for i := 0; i < 3; i++ {
		if _, err := client.Fetch(context.Background(), "weibo"); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 upstream request, got %d", attempts.Load())
	}
}

func TestFetch_CanceledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	orig := fetchSleepFunc
	fetchSleepFunc = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}
	defer func() { fetchSleepFunc = orig }()

	client := newTestClient(t, server.URL, Options{})
	_, err := client.Fetch(ctx, "weibo")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"503", &StatusError{StatusCode: 503, Status: "503 Service Unavailable"}, true},
		{"429", &StatusError{StatusCode: 429, Status: "429 Too Many Requests"}, true},
		{"404", &StatusError{StatusCode: 404, Status: "404 Not Found"}, false},
		{"401", &StatusError{StatusCode: 401, Status: "401 Unauthorized"}, false},
		{"wrapped 500", fmt.Errorf("fetch: %w", &StatusError{StatusCode: 500}), true},
		{"api error", &APIError{Message: "busy"}, true},
		{"network", errors.New("request: connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.retryable {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}
