package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://apis.tianapi.com/weibohot/index"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "http://localhost:11434"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_SharesBudgetPerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://apis.tianapi.com/weibohot/index") {
		t.Fatal("first request should pass")
	}
	// Same host, different path: same bucket.
	if limiter.Allow("https://apis.tianapi.com/douyinhot/index") {
		t.Error("expected second request to the same host to be limited")
	}
	if !limiter.Allow("https://other.example.com/") {
		t.Error("expected other host to pass")
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	url := "https://apis.tianapi.com/x"
	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected wait to fail once the context deadline cannot be met")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetHostRate("slow.example.com", 0.1, 1)

	if !limiter.Allow("http://slow.example.com/a") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("http://slow.example.com/b") {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("http://fast.example.com") {
		t.Errorf("other host should pass")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://apis.tianapi.com:443/weibohot/index?key=k")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "apis.tianapi.com:443" {
		t.Errorf("expected apis.tianapi.com:443, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
