package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func rateLimitedHandler(rl *RateLimiter) echo.HandlerFunc {
	return rl.Middleware()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

func doRequest(e *echo.Echo, handler echo.HandlerFunc, remoteAddr string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(NewRateLimiter(1, 4))

	for i := 0; i < 4; i++ {
		rec := doRequest(e, handler, "192.168.1.2:12345", nil)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d within burst", i)
	}

	rec := doRequest(e, handler, "192.168.1.2:12345", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYSTEM_006")
}

func TestRateLimiter_SeparateBucketsPerIP(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(NewRateLimiter(1, 1))

	assert.Equal(t, http.StatusOK, doRequest(e, handler, "10.0.0.1:1", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(e, handler, "10.0.0.1:1", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(e, handler, "10.0.0.2:1", nil).Code)
}

func TestRateLimiter_ForwardedForUsesFirstHop(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(NewRateLimiter(1, 1))

	first := map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}
	second := map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.9"}

	assert.Equal(t, http.StatusOK, doRequest(e, handler, "10.0.0.1:1", first).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(e, handler, "10.0.0.9:1", second).Code)
}

func TestRateLimiter_Concurrent(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(NewRateLimiter(1, 10))

	var wg sync.WaitGroup
	var mu sync.Mutex
	codes := map[int]int{}
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := doRequest(e, handler, "172.16.0.1:1", nil)
			mu.Lock()
			codes[rec.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, codes[http.StatusOK])
	assert.Equal(t, 20, codes[http.StatusTooManyRequests])
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.limiterFor("10.0.0.1")
	rl.limiterFor("10.0.0.2")

	rl.mu.Lock()
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	rl.evictIdle(time.Now())

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimiter_CleanupStopsWithContext(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}
