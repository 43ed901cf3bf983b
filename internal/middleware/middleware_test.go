package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	base := time.Now()
	rl.now = func() time.Time { return base }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "limits are per client")

	rl.now = func() time.Time { return base.Add(time.Minute + time.Second) }
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiter_StopEndsSweep(t *testing.T) {
	rl := NewRateLimiter(1, time.Millisecond)
	rl.Stop()
	rl.Stop()

	select {
	case <-rl.exited:
	default:
		t.Fatal("sweep goroutine still running after Stop")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	r := gin.New()
	r.Use(RateLimit(rl))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
}

func TestLogger_LevelsByStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok?x=1", entries[0].ContextMap()["path"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestDeviceAuth(t *testing.T) {
	const secret = "s3cret"
	token, err := auth.Issue(secret, "alice", time.Hour, time.Now())
	require.NoError(t, err)

	r := gin.New()
	r.Use(DeviceAuth(secret, zap.NewNop()))
	r.POST("/subjects/:id", func(c *gin.Context) {
		if !AuthorizeSubject(c, c.Param("id")) {
			return
		}
		c.Status(http.StatusOK)
	})

	request := func(path, header string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, request("/subjects/alice", "Bearer "+token))
	assert.Equal(t, http.StatusForbidden, request("/subjects/bob", "Bearer "+token))
	assert.Equal(t, http.StatusUnauthorized, request("/subjects/alice", ""))
	assert.Equal(t, http.StatusUnauthorized, request("/subjects/alice", "Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, request("/subjects/alice", "Bearer nope"))
}

func TestAuthorizeSubject_WithoutAuthAllowsAll(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.True(t, AuthorizeSubject(c, "anyone"))
}
