package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"beersmith-bridge/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterPerClient(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
	ok, wait := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 500*time.Millisecond, wait)

	ok, _ = rl.Allow("b")
	assert.True(t, ok, "other clients keep their own bucket")

	now = now.Add(500 * time.Millisecond)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Second)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(5 * time.Second)
	rl.Allow("b")
	assert.Len(t, rl.buckets, 1)
}

func TestDeduplicator(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDeduplicator(time.Second)
	d.now = func() time.Time { return now }

	require.True(t, d.Begin("x"))
	assert.False(t, d.Begin("x"), "in flight")
	d.End("x", true)
	assert.False(t, d.Begin("x"), "inside window")

	now = now.Add(2 * time.Second)
	require.True(t, d.Begin("x"))
	d.End("x", false)
	assert.True(t, d.Begin("x"), "failed requests can be retried at once")
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/x", ok)
	r.POST("/x", ok)
	r.PATCH("/x", ok)
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestDeduplicationMiddleware(t *testing.T) {
	r := newEngine(Deduplication(&config.Config{DedupWindow: time.Minute}))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPatch, "/x", `{"a":1}`).Code)
	w := serve(r, http.MethodPatch, "/x", `{"a":1}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPatch, "/x", `{"a":2}`).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", "").Code)
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(8))

	w := serve(r, http.MethodPost, "/x", strings.Repeat("a", 32))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", "{}").Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimit(1, time.Hour))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", "").Code)
	w := serve(r, http.MethodGet, "/x", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(), Logger())

	w := serve(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
