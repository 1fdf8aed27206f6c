package middleware

import (
	"net/http"

	echo "github.com/labstack/echo/v4"
)

// CORSConfig controls the cross-origin headers stamped on every response.
type CORSConfig struct {
	Origin string // default "*"
}

// CORSMiddleware sets permissive cross-origin headers on every response,
// success and failure alike, and answers preflight OPTIONS itself with a
// 200 and an empty body (the dashboard's fetch layer expects 200, not 204).
func CORSMiddleware(cfg CORSConfig) echo.MiddlewareFunc {
	if cfg.Origin == "" {
		cfg.Origin = "*"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, cfg.Origin)
			h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
			h.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type, Authorization, X-Requested-With")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}
