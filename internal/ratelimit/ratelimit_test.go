package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jurredr/exo-client-portal-sub000/internal/auth"
)

// fakeClock lets tests advance time manually.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time         { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(rate int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)}
	l := New(rate, window)
	l.now = clock.now
	return l, clock
}

func TestLimiter_AllowUpToRate(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("u1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("u1") {
		t.Fatal("request beyond the rate should be rejected")
	}
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	l, clock := newTestLimiter(60, time.Minute)

	for i := 0; i < 60; i++ {
		l.Allow("u1")
	}
	if l.Allow("u1") {
		t.Fatal("bucket should be empty")
	}

	// One token per second at 60/min.
	clock.advance(2 * time.Second)
	if !l.Allow("u1") {
		t.Fatal("expected a refilled token after 2s")
	}
	if !l.Allow("u1") {
		t.Fatal("expected a second refilled token")
	}
	if l.Allow("u1") {
		t.Fatal("only two tokens should have refilled")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("u1") {
		t.Fatal("first request for u1 should pass")
	}
	if !l.Allow("u2") {
		t.Fatal("u2 has its own bucket")
	}
	if l.Allow("u1") {
		t.Fatal("u1 is exhausted")
	}
}

func TestMiddleware(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	handler := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	user := &auth.User{ID: "u1", Email: "jan@client.nl"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "1" {
		t.Errorf("missing rate limit header, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), user))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rec.Code)
	}
}

func TestMiddleware_NoUserSkips(t *testing.T) {
	l, _ := newTestLimiter(0, time.Minute)
	handler := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unauthenticated requests bypass the limiter, got %d", rec.Code)
	}
}
