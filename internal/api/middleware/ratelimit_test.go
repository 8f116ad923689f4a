package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg RateLimiterConfig) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, zerolog.Nop(), cfg), mr
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{
		Limits: map[string]RateLimit{
			"POST /api/token": {Requests: 2, Window: time.Minute},
		},
	})
	h := rl.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/api/token", "10.0.0.1").Code)
	rec := doRequest(h, http.MethodPost, "/api/token", "10.0.0.1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = doRequest(h, http.MethodPost, "/api/token", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Other clients and other endpoints are unaffected.
	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/api/token", "10.0.0.2").Code)
	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodGet, "/api/health", "10.0.0.1").Code)
}

func TestRateLimiterWhitelist(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{
		Whitelist: []string{"10.0.0.1", "192.168.0.0/16", "not-a-cidr/99"},
		Limits: map[string]RateLimit{
			"POST /api/token": {Requests: 1, Window: time.Minute},
		},
	})
	h := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/api/token", "10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/api/token", "192.168.4.2").Code)
	}
}

func TestRateLimiterBlockedIP(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{})
	h := rl.Middleware(okHandler())

	rl.blocker.Block(context.Background(), "10.0.0.9", time.Hour, "test")
	rec := doRequest(h, http.MethodGet, "/api/health", "10.0.0.9")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rl.blocker.Unblock(context.Background(), "10.0.0.9")
	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodGet, "/api/health", "10.0.0.9").Code)
}

func TestRateLimiterAutoBlock(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{
		AutoBlockEnabled: true,
		Limits: map[string]RateLimit{
			"POST /api/token": {Requests: 1, Window: time.Minute},
		},
	})
	h := rl.Middleware(okHandler())

	for i := 0; i < 11; i++ {
		doRequest(h, http.MethodPost, "/api/token", "10.0.0.3")
	}
	assert.True(t, rl.blocker.IsBlocked(context.Background(), "10.0.0.3"))
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rl, mr := newTestLimiter(t, RateLimiterConfig{
		Limits: map[string]RateLimit{
			"POST /api/token": {Requests: 1, Window: time.Minute},
		},
	})
	h := rl.Middleware(okHandler())
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/api/token", "10.0.0.4").Code)
	}
}

func TestFindLimitPrefersLongestPrefix(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{
		Limits: map[string]RateLimit{
			"GET /api/":      {Requests: 100, Window: time.Minute},
			"GET /api/room/": {Requests: 5, Window: time.Minute},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/room/demo", nil)
	limit := rl.findLimit(req)
	require.NotNil(t, limit)
	assert.Equal(t, 5, limit.Requests)

	req = httptest.NewRequest(http.MethodPost, "/api/leave", nil)
	assert.Nil(t, rl.findLimit(req))
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:555"
	assert.Equal(t, "10.1.1.1", RealIP(req))

	req.Header.Set("X-Real-IP", "10.2.2.2")
	assert.Equal(t, "10.2.2.2", RealIP(req))

	req.Header.Set("X-Forwarded-For", "10.3.3.3, 10.4.4.4")
	assert.Equal(t, "10.3.3.3", RealIP(req))
}
