package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/ping", ok)
	r.POST("/ping", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(0, 0)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }
	rl.lastTime = now

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	now = now.Add(250 * time.Millisecond)
	assert.False(t, rl.Allow())
	now = now.Add(250 * time.Millisecond)
	assert.True(t, rl.Allow())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimit(1, time.Hour))
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "").Code)

	w := do(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))

	r = newEngine(RateLimit(0, time.Second))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "").Code)
	}
}

func TestDeduplication(t *testing.T) {
	d := NewDeduplicator(time.Second)
	now := time.Unix(100, 0)
	d.now = func() time.Time { return now }
	r := newEngine(d.Middleware())

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ping", `{"a":1}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/ping", `{"a":1}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ping", `{"a":2}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "").Code)

	now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ping", `{"a":1}`).Code)

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ping", `{"a":3}`).Code)
	assert.Equal(t, 1, d.Len())
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(8))
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ping", "small").Code)

	w := do(r, http.MethodPost, "/ping", "this body is too large")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(), Logger())
	w := do(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestTimeout(t *testing.T) {
	r := newEngine(Timeout(20 * time.Millisecond))
	w := do(r, http.MethodGet, "/slow", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "GATEWAY_TIMEOUT")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "").Code)
}
