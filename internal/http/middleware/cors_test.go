package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSMiddleware_HeadersOnEveryResponse(t *testing.T) {
	e := echo.New()
	e.Use(CORSMiddleware(CORSConfig{Origin: "https://portal.example.com"}))
	e.GET("/ok", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/boom", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
	})

	t.Run("success response", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://portal.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
		assert.Equal(t, "Content-Type, Authorization, X-Requested-With", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	})

	t.Run("failure response keeps the headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "https://portal.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	e := echo.New()
	e.Use(CORSMiddleware(CORSConfig{}))
	// POST-only route: the middleware must still answer OPTIONS for it.
	e.POST("/api/v1/campaigns/send-notification", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/campaigns/send-notification", nil)
	req.Header.Set(echo.HeaderOrigin, "https://portal.example.com")
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "preflight answers 200, not 204")
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin), "origin defaults to *")
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), "OPTIONS")
}
