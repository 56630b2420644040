package limiter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeLimiter 可编程的限流器
type fakeLimiter struct {
	result *LimitResult
	err    error
	keys   []string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (*LimitResult, error) {
	return f.AllowN(ctx, key, 1)
}

func (f *fakeLimiter) AllowN(ctx context.Context, key string, n int64) (*LimitResult, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeLimiter) Reset(ctx context.Context, key string) error { return nil }

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRateLimitMiddleware_Allowed(t *testing.T) {
	fake := &fakeLimiter{result: &LimitResult{Allowed: true, Remaining: 9}}
	next, called := okHandler()
	handler := RateLimitMiddleware(&MiddlewareConfig{Limiter: fake})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !*called {
		t.Fatal("next handler not called")
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "9" {
		t.Errorf("remaining header = %q", got)
	}
	if len(fake.keys) != 1 || fake.keys[0] != "ip:203.0.113.7" {
		t.Errorf("limiter key = %v", fake.keys)
	}
}

func TestRateLimitMiddleware_Rejected(t *testing.T) {
	fake := &fakeLimiter{result: &LimitResult{Allowed: false, Remaining: 0, RetryAfter: 3 * time.Second}}
	next, called := okHandler()
	handler := RateLimitMiddleware(&MiddlewareConfig{Limiter: fake})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if *called {
		t.Fatal("next handler called despite rejection")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "3" {
		t.Errorf("retry-after = %q", got)
	}
}

func TestRateLimitMiddleware_FailOpen(t *testing.T) {
	fake := &fakeLimiter{err: errors.New("redis down")}
	next, called := okHandler()
	handler := RateLimitMiddleware(&MiddlewareConfig{Limiter: fake})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !*called {
		t.Fatal("limiter failure must not block requests")
	}
}

func TestRateLimitMiddleware_Skip(t *testing.T) {
	fake := &fakeLimiter{result: &LimitResult{Allowed: false}}
	next, called := okHandler()
	handler := RateLimitMiddleware(&MiddlewareConfig{
		Limiter: fake,
		Skip:    func(r *http.Request) bool { return r.URL.Path == "/healthz" },
	})(next)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !*called {
		t.Fatal("skipped route was limited")
	}
	if len(fake.keys) != 0 {
		t.Errorf("limiter consulted for skipped route: %v", fake.keys)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*http.Request)
		want   string
		remote string
	}{
		{
			name:   "x-forwarded-for first hop",
			setup:  func(r *http.Request) { r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1") },
			want:   "198.51.100.1",
			remote: "10.0.0.2:1234",
		},
		{
			name:   "x-real-ip",
			setup:  func(r *http.Request) { r.Header.Set("X-Real-IP", "198.51.100.2") },
			want:   "198.51.100.2",
			remote: "10.0.0.2:1234",
		},
		{
			name:   "remote addr fallback",
			setup:  func(r *http.Request) {},
			want:   "203.0.113.9",
			remote: "203.0.113.9:9999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			tt.setup(req)
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
