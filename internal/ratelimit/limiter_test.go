package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNew_DefaultBurst(t *testing.T) {
	limiter := New(10, 3)
	if limiter.defaultBurst != 3 {
		t.Errorf("Expected burst 3, got %d", limiter.defaultBurst)
	}

	l2 := New(10, 0)
	if l2.defaultBurst != 5 {
		t.Errorf("Expected default burst 5 for zero input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_WaitPerHost(t *testing.T) {
	limiter := New(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://api.github.com/repos/a/b/pulls"); err != nil {
		t.Errorf("Wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://github.example.com/api/graphql"); err != nil {
		t.Errorf("Wait failed for second host: %v", err)
	}
}

func TestLimiter_ExhaustedHost(t *testing.T) {
	limiter := New(1, 1)
	ctx := context.Background()
	api := "https://api.github.com/graphql"

	if err := limiter.Wait(ctx, api); err != nil {
		t.Fatalf("First wait failed: %v", err)
	}

	if limiter.Allow(api) {
		t.Error("Expected Allow to fail once the burst is spent")
	}
	if !limiter.Allow("https://uploads.github.com") {
		t.Error("Expected other host to be unaffected")
	}
}

func TestLimiter_WaitRespectsDeadline(t *testing.T) {
	limiter := New(0.01, 1)
	api := "https://api.github.com"

	if !limiter.Allow(api) {
		t.Fatal("Expected first call to pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := limiter.Wait(ctx, api); err == nil {
		t.Fatal("Expected wait beyond the deadline to fail")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected Wait to fail fast, took %v", elapsed)
	}
}

func TestLimiter_DisabledPacing(t *testing.T) {
	limiter := New(0, 1)
	for i := 0; i < 20; i++ {
		if !limiter.Allow("https://api.github.com") {
			t.Fatalf("Expected unlimited pacing, call %d was refused", i)
		}
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := New(10, 10)
	limiter.SetHostRate("slow.example.com", 0.1, 1)

	if !limiter.Allow("https://slow.example.com/x") {
		t.Error("First request should pass")
	}
	if limiter.Allow("https://slow.example.com/x") {
		t.Error("Second request should fail")
	}
	if !limiter.Allow("https://api.github.com") {
		t.Error("Other host should pass")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://api.github.com/graphql")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "api.github.com" {
		t.Errorf("Expected api.github.com, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Error("Expected error for invalid URL")
	}
	if _, err := hostOf("/relative/path"); err == nil {
		t.Error("Expected error for URL without host")
	}
}
