package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inbox-service/internal/model"
	"inbox-service/internal/respond"
	"inbox-service/pkg/logger"
	"inbox-service/pkg/password"
	"inbox-service/prometheus"
)

type upsertUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	TenantID *uint  `json:"tenantId"`
}

func (r *upsertUserRequest) Validate() string {
	if r.Email == "" {
		return "Missing email"
	}
	if r.Password == "" {
		return "Missing password"
	}
	if r.Role == "" {
		r.Role = model.RoleUser
	}
	if r.Role != model.RoleAdmin && r.Role != model.RoleUser {
		return "Invalid role"
	}
	if r.Role == model.RoleUser && r.TenantID == nil {
		return "Missing tenantId"
	}
	if r.Role == model.RoleAdmin && r.TenantID != nil {
		return "Admin must not have tenantId"
	}
	return ""
}

// ListUsers returns the newest login identities. Admin only.
func (h *Handler) ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := h.store.ListUsers(c.Request().Context(), adminListLimit)
	if err != nil {
		log.Error("User listing failed", zap.Error(err))
		return respond.Internal(c)
	}
	return respond.OK(c, users)
}

// UpsertUser creates or replaces the identity for an email address. Admin
// only.
func (h *Handler) UpsertUser(c echo.Context) error {
	log := logger.FromEcho(c)

	var req upsertUserRequest
	if err := c.Bind(&req); err != nil {
		return respond.BadRequest(c, "invalid request")
	}
	if reason := req.Validate(); reason != "" {
		return respond.BadRequest(c, reason)
	}

	digest, err := password.Hash(req.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return respond.Internal(c)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := h.store.UpsertUser(c.Request().Context(), &model.AppUser{
		TenantID:     req.TenantID,
		Role:         req.Role,
		Email:        req.Email,
		PasswordHash: digest,
	})
	if err != nil {
		log.Error("User upsert failed", zap.Error(err))
		return respond.Internal(c)
	}

	log.Info("User upserted",
		zap.String("email", user.Email),
		zap.String("role", user.Role))
	return respond.OK(c, user)
}
