package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(perMinute int) *Limiter {
	rl := NewLimiter(Config{RequestsPerMinute: perMinute, CleanupInterval: time.Hour})
	return rl
}

func TestAllowWithinLimit(t *testing.T) {
	rl := newTestLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("fourth request should be denied")
	}

	// Other clients are unaffected.
	if !rl.Allow("10.0.0.2") {
		t.Fatal("different client should be allowed")
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	rl := newTestLimiter(1)
	defer rl.Stop()

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return base }

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("second request in the same window should be denied")
	}

	rl.now = func() time.Time { return base.Add(61 * time.Second) }
	if !rl.Allow("10.0.0.1") {
		t.Fatal("request after the window should be allowed again")
	}
}

func TestMetricsCountDenials(t *testing.T) {
	rl := newTestLimiter(1)
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")

	m := rl.GetMetrics()
	if m.TotalDenied != 2 {
		t.Fatalf("TotalDenied = %d, want 2", m.TotalDenied)
	}
	if m.ClientCount != 1 {
		t.Fatalf("ClientCount = %d, want 1", m.ClientCount)
	}
}

func TestCleanupStaleEntries(t *testing.T) {
	rl := newTestLimiter(10)
	defer rl.Stop()

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return base }
	rl.Allow("10.0.0.1")

	rl.now = func() time.Time { return base.Add(11 * time.Minute) }
	rl.cleanupStaleEntries()

	if got := rl.ActiveClients(); got != 0 {
		t.Fatalf("ActiveClients = %d after cleanup, want 0", got)
	}
}

func TestMiddlewareBlocksOverLimit(t *testing.T) {
	rl := newTestLimiter(1)
	defer rl.Stop()

	handler := rl.Middleware(
		func(*http.Request) string { return "10.0.0.1" },
		nil,
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/expenses", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/expenses", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q, want 60", second.Header().Get("Retry-After"))
	}
}
