package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestOriginChecker(t *testing.T) {
	t.Run("Should admit everything without a list", func(t *testing.T) {
		assert.Nil(t, originChecker(nil))
	})

	t.Run("Should admit listed origins and same-origin requests", func(t *testing.T) {
		check := originChecker([]string{"https://app.example.com"})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
		assert.True(t, check(req))

		req.Header.Set("Origin", "https://app.example.com")
		assert.True(t, check(req))

		req.Header.Set("Origin", "https://evil.example.com")
		assert.False(t, check(req))
	})
}

func TestCORSHandler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := corsHandler([]string{"https://app.example.com"})(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/conversations", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWelcome(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", welcome)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Welcome to the Courier API"`)
}
