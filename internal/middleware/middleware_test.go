package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"hyperboard/internal/consts"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	g := gin.New()
	NewMiddleware().Load(g)
	g.GET("/x", append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(consts.RequestId))
	})...)
	return g
}

func get(g *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestRequestId(t *testing.T) {
	g := newEngine()

	w := get(g, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get("X-Request-Id")
	assert.Len(t, id, 16)
	assert.Equal(t, id, w.Body.String())

	w = get(g, map[string]string{"X-Request-Id": "upstream-id"})
	assert.Equal(t, "upstream-id", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestAntiDuplicate(t *testing.T) {
	g := newEngine(AntiDuplicate(16, 50*time.Millisecond))

	assert.Equal(t, http.StatusOK, get(g, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(g, nil).Code)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, http.StatusOK, get(g, nil).Code)
}

func TestNoCache(t *testing.T) {
	g := newEngine(NoCache())
	w := get(g, nil)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-cache")
}

func TestOptions(t *testing.T) {
	g := newEngine()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
