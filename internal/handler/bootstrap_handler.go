package handler

import (
	"crypto/subtle"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inbox-service/internal/model"
	"inbox-service/internal/respond"
	"inbox-service/pkg/logger"
	"inbox-service/pkg/password"
	"inbox-service/prometheus"
)

type bootstrapRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *bootstrapRequest) Validate() string {
	if r.Email == "" {
		return "Missing email"
	}
	if r.Password == "" {
		return "Missing password"
	}
	return ""
}

// Bootstrap creates the very first admin. It is gated by the bootstrap
// shared secret and refuses once any admin exists.
func (h *Handler) Bootstrap(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.BootstrapCounter.Inc()

	secret := h.secrets.BootstrapSecret
	if secret == "" {
		return respond.Unauthorized(c)
	}
	supplied := c.Request().Header.Get("X-Bootstrap-Secret")
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
		prometheus.RecordAuthError("bad_bootstrap_secret")
		return respond.Unauthorized(c)
	}

	var req bootstrapRequest
	if err := c.Bind(&req); err != nil {
		return respond.BadRequest(c, "invalid request")
	}
	if reason := req.Validate(); reason != "" {
		return respond.BadRequest(c, reason)
	}

	ctx := c.Request().Context()

	defer prometheus.TrackDBOperation("query")(time.Now())
	count, err := h.store.CountAdmins(ctx)
	if err != nil {
		log.Error("Admin count failed", zap.Error(err))
		return respond.Internal(c)
	}
	if count > 0 {
		return respond.Fail(c, 409, "admin exists")
	}

	digest, err := password.Hash(req.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return respond.Internal(c)
	}

	admin := model.AppUser{
		Role:         model.RoleAdmin,
		Email:        req.Email,
		PasswordHash: digest,
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateUser(ctx, &admin); err != nil {
		log.Error("Failed to create admin", zap.Error(err))
		return respond.Internal(c)
	}

	log.Info("Admin bootstrapped", zap.String("email", admin.Email))
	return respond.OK(c, nil)
}
