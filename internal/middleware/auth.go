package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inbox-service/internal/auth"
	"inbox-service/internal/respond"
	"inbox-service/pkg/logger"
	"inbox-service/prometheus"
)

// IdentityMiddleware resolves the request's credential (session cookie or
// bearer token) into the normalized identity, when one is present. It never
// rejects: endpoints that require authentication enforce it themselves or
// through RequireAdmin.
func IdentityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, ok := auth.Resolve(c); ok {
			auth.SetIdentity(c, id)
		}
		return next(c)
	}
}

// RequireAdmin guards the admin endpoints: a valid identity is mandatory
// and it must carry the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		id, ok := auth.GetIdentity(c)
		if !ok {
			prometheus.RecordAuthError("missing_credential")
			return respond.Fail(c, 401, "not logged in")
		}
		if !id.IsAdmin() {
			log.Warn("Non-admin identity on admin endpoint",
				zap.Uint("user_id", id.UserID),
				zap.String("role", id.Role))
			prometheus.RecordAuthError("not_admin")
			return respond.Fail(c, 403, "forbidden")
		}
		return next(c)
	}
}
