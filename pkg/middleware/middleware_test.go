package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCorsMiddlewarePreflights(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorsMiddleware())
	r.POST("/api/query", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/query", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestLoggerMiddlewareLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(LoggerMiddleware(logger))
	r.POST("/api/query", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/state", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/api/fail", func(c *gin.Context) { c.String(http.StatusInternalServerError, "err") })

	for _, req := range []*http.Request{
		httptest.NewRequest("POST", "/api/query", nil),
		httptest.NewRequest("GET", "/api/state", nil),
		httptest.NewRequest("POST", "/api/fail", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	logs := recorded.All()
	// GET at info level stays quiet; POST ok and POST failure log.
	assert.Len(t, logs, 2)
	assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
}
