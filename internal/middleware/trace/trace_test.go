package trace

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spendlog/internal/log"
)

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	if !strings.HasPrefix(a, "req_") {
		t.Fatalf("id %q should start with req_", a)
	}
	if a == b {
		t.Fatalf("ids should be unique, both %q", a)
	}
}

func TestMiddlewarePropagatesRequestID(t *testing.T) {
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	m := NewMiddleware(logger, func(*http.Request) string { return "127.0.0.1" })

	var seenID string
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seenID == "" {
		t.Fatal("handler saw no request id in context")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	m := NewMiddleware(logger, nil)

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	if got := m.GetMetrics().TotalRequests; got != 3 {
		t.Fatalf("TotalRequests = %d, want 3", got)
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetRequestID(r.Context()); got != "" {
		t.Fatalf("GetRequestID on bare context = %q, want empty", got)
	}
}
