package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitMiddleware_DisabledPassesThrough(t *testing.T) {
	m := NewRateLimitMiddleware(nil, 60, false)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/analyses", nil)
	rec := httptest.NewRecorder()

	m.Handler(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Error("disabled middleware should not set rate limit headers")
	}
}

func TestRateLimitMiddleware_NilCachePassesThrough(t *testing.T) {
	m := NewRateLimitMiddleware(nil, 60, true)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/analyses", nil)
	rec := httptest.NewRecorder()

	m.Handler(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestGetRateLimitKey(t *testing.T) {
	m := NewRateLimitMiddleware(nil, 60, true)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "x-forwarded-for preferred",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.3"},
			remote:  "192.0.2.1:1234",
			want:    "ip:203.0.113.7",
		},
		{
			name:    "x-real-ip fallback",
			headers: map[string]string{"X-Real-IP": "198.51.100.3"},
			remote:  "192.0.2.1:1234",
			want:    "ip:198.51.100.3",
		},
		{
			name:   "remote addr fallback",
			remote: "192.0.2.1:1234",
			want:   "ip:192.0.2.1:1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := m.getRateLimitKey(req); got != tt.want {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
