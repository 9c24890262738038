package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDetectSuspiciousRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		userAgent  string
		suspicious bool
	}{
		{"plain page load", http.MethodGet, "/", "Mozilla/5.0", false},
		{"form submit", http.MethodPost, "/expenses", "Mozilla/5.0", false},
		{"health check via curl", http.MethodGet, "/healthz", "curl/8.0", false},
		{"path traversal", http.MethodGet, "/../etc/passwd", "Mozilla/5.0", true},
		{"wordpress scan", http.MethodGet, "/wp-admin/setup.php", "Mozilla/5.0", true},
		{"sql injection in query", http.MethodGet, "/?q=union%20select", "Mozilla/5.0", true},
		{"encoded traversal in query", http.MethodGet, "/?file=%2e%2e%2fetc%2fpasswd", "Mozilla/5.0", true},
		{"undecodable query stays benign", http.MethodGet, "/?q=100%zzdone", "Mozilla/5.0", false},
		{"scanner user agent", http.MethodGet, "/", "sqlmap/1.7", true},
		{"trace method", "TRACE", "/", "Mozilla/5.0", true},
		{"very long url", http.MethodGet, "/?pad=" + strings.Repeat("a", 2100), "Mozilla/5.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			r := httptest.NewRequest(tt.method, tt.target, nil)
			r.Header.Set("User-Agent", tt.userAgent)

			if got := d.DetectSuspiciousRequest(r); got != tt.suspicious {
				t.Fatalf("DetectSuspiciousRequest = %v, want %v", got, tt.suspicious)
			}

			wantCount := int64(0)
			if tt.suspicious {
				wantCount = 1
			}
			if got := d.GetMetrics().SuspiciousRequests; got != wantCount {
				t.Fatalf("SuspiciousRequests = %d, want %d", got, wantCount)
			}
		})
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"direct connection", "203.0.113.9:4242", "", "", "203.0.113.9"},
		{"trusted proxy with xff", "127.0.0.1:4242", "203.0.113.9", "", "203.0.113.9"},
		{"trusted proxy multi-hop xff", "10.1.2.3:4242", "203.0.113.9, 10.0.0.1", "", "203.0.113.9"},
		{"trusted proxy with x-real-ip", "127.0.0.1:4242", "", "203.0.113.9", "203.0.113.9"},
		{"untrusted peer ignores xff", "203.0.113.50:4242", "8.8.8.8", "", "203.0.113.50"},
		{"garbage xff falls back", "127.0.0.1:4242", "not-an-ip", "", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}

			if got := d.ExtractClientIP(r); got != tt.want {
				t.Fatalf("ExtractClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddTrustedProxy(t *testing.T) {
	d := NewDetector()
	if err := d.AddTrustedProxy("198.51.100.0/24"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:9000"
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	if got := d.ExtractClientIP(r); got != "203.0.113.9" {
		t.Fatalf("ExtractClientIP = %q, want forwarded ip", got)
	}

	if err := d.AddTrustedProxy("not-a-cidr"); err == nil {
		t.Fatal("expected error for invalid CIDR")
	}
}
