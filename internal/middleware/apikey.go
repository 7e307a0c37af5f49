package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"

	"inbox-service/internal/respond"
	"inbox-service/pkg/logger"
)

// APIKeyMiddleware gates the keyed API surface on the :key path parameter.
// A mismatch answers 404, not 401, so the existence of the API is not
// revealed by probing keys.
func APIKeyMiddleware(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			supplied := c.Param("key")
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(apiKey)) != 1 {
				logger.FromEcho(c).Warn("API key mismatch")
				return respond.NotFound(c)
			}
			return next(c)
		}
	}
}
