package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func okRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/classes/:classID", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	return router
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	router := okRouter(MetricsMiddleware())
	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/classes/:classID", "200")
	before := testutil.ToFloat64(counter)

	serve(router, httptest.NewRequest(http.MethodGet, "/classes/7", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/classes/8", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestMetricsMiddleware_Unmatched(t *testing.T) {
	router := okRouter(MetricsMiddleware())
	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	before := testutil.ToFloat64(counter)

	serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureLogs(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	logger.SetOutput(buf)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })
	return buf
}

func TestRequestLoggingMiddleware(t *testing.T) {
	buf := captureLogs(t)
	router := okRouter(RequestLoggingMiddleware())

	w := serve(router, httptest.NewRequest(http.MethodGet, "/classes/7?weekStart=2024-03-10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	out := buf.String()
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"path":"/classes/7?weekStart=2024-03-10"`)
	assert.Contains(t, out, `"status":200`)
}

func TestRequestLoggingMiddleware_ServerErrorLogsAtErrorLevel(t *testing.T) {
	buf := captureLogs(t)
	router := okRouter(RequestLoggingMiddleware())

	serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Contains(t, buf.String(), `"level":"error"`)
}

func newLimiter(t *testing.T, rps float64, burst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(rps, burst, time.Minute)
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimitMiddleware(t *testing.T) {
	captureLogs(t)
	router := okRouter(RateLimitMiddleware(newLimiter(t, 1, 3)))

	for i := 0; i < 3; i++ {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/classes/1", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := serve(router, httptest.NewRequest(http.MethodGet, "/classes/1", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestRateLimitMiddleware_PerClientIP(t *testing.T) {
	captureLogs(t)
	router := okRouter(RateLimitMiddleware(newLimiter(t, 1, 1)))

	first := httptest.NewRequest(http.MethodGet, "/classes/1", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	other := httptest.NewRequest(http.MethodGet, "/classes/1", nil)
	other.RemoteAddr = "10.0.0.2:1234"

	assert.Equal(t, http.StatusOK, serve(router, first).Code)
	assert.Equal(t, http.StatusOK, serve(router, other).Code)
}

func TestRateLimitMiddleware_DisabledWithoutLimiter(t *testing.T) {
	router := okRouter(RateLimitMiddleware(nil))

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, serve(router, httptest.NewRequest(http.MethodGet, "/classes/1", nil)).Code)
	}
}

func TestRateLimiter_PruneForgetsIdleVisitors(t *testing.T) {
	rl := newLimiter(t, 1, 1)
	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")

	rl.prune(time.Now())
	assert.Equal(t, 2, rl.size())

	rl.prune(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, rl.size())
}

func TestRateLimiter_StopEndsSweep(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	rl.Stop()

	select {
	case <-rl.stopped:
	case <-time.After(time.Second):
		t.Fatal("sweep goroutine still running after Stop")
	}

	assert.NotPanics(t, rl.Stop)
}

func TestCorsMiddleware_AllowAll(t *testing.T) {
	router := okRouter(corsMiddleware(nil))

	req := httptest.NewRequest(http.MethodGet, "/classes/1", nil)
	req.Header.Set("Origin", "http://anything.test")
	w := serve(router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsMiddleware_ConfiguredOrigins(t *testing.T) {
	router := okRouter(corsMiddleware([]string{"http://a.test"}))

	allowed := httptest.NewRequest(http.MethodGet, "/classes/1", nil)
	allowed.Header.Set("Origin", "http://a.test")
	w := serve(router, allowed)
	assert.Equal(t, "http://a.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	denied := httptest.NewRequest(http.MethodGet, "/classes/1", nil)
	denied.Header.Set("Origin", "http://evil.test")
	w = serve(router, denied)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	router := okRouter(corsMiddleware(nil))

	req := httptest.NewRequest(http.MethodOptions, "/classes/1", nil)
	req.Header.Set("Origin", "http://a.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(router, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
