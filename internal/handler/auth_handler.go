package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inbox-service/internal/auth"
	"inbox-service/internal/respond"
	"inbox-service/internal/store"
	"inbox-service/pkg/jwtutil"
	"inbox-service/pkg/logger"
	"inbox-service/pkg/password"
	"inbox-service/pkg/session"
	"inbox-service/prometheus"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) Validate() string {
	if r.Email == "" {
		return "Missing email"
	}
	if r.Password == "" {
		return "Missing password"
	}
	return ""
}

// Login verifies credentials and sets the signed session cookie.
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return respond.BadRequest(c, "invalid request")
	}
	if reason := req.Validate(); reason != "" {
		prometheus.RecordAuthError("invalid_request")
		return respond.BadRequest(c, reason)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.store.FindUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if err != store.ErrNotFound {
			log.Error("User lookup failed", zap.Error(err))
			return respond.Internal(c)
		}
		prometheus.RecordAuthError("invalid_credentials")
		return respond.Fail(c, 401, "invalid credentials")
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return respond.Fail(c, 401, "invalid credentials")
	}

	session.SetCookie(c, session.Session{
		UserID:   user.ID,
		Role:     user.Role,
		TenantID: user.TenantID,
	})

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", user.Role))

	return respond.OK(c, echo.Map{
		"role":     user.Role,
		"email":    user.Email,
		"tenantId": user.TenantID,
	})
}

// Logout overwrites the session cookie with an expired empty value. The
// sessions are stateless, so a copied token stays valid until its embedded
// expiry.
func (h *Handler) Logout(c echo.Context) error {
	session.ClearCookie(c)
	return respond.OK(c, nil)
}

// Me echoes the current session identity, or null without one.
func (h *Handler) Me(c echo.Context) error {
	id, ok := auth.GetIdentity(c)
	if !ok {
		return respond.OK(c, nil)
	}
	return respond.OK(c, echo.Map{
		"role":     id.Role,
		"userId":   id.UserID,
		"tenantId": id.TenantID,
	})
}

// IssueToken exchanges valid credentials for a bearer token, the auth
// channel for API clients. The embedded role and tenant are trusted until
// the token expires; a role change takes effect only on reissue.
func (h *Handler) IssueToken(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return respond.BadRequest(c, "invalid request")
	}
	if reason := req.Validate(); reason != "" {
		prometheus.RecordAuthError("invalid_request")
		return respond.BadRequest(c, reason)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.store.FindUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if err != store.ErrNotFound {
			log.Error("User lookup failed", zap.Error(err))
			return respond.Internal(c)
		}
		prometheus.RecordAuthError("invalid_credentials")
		return respond.Fail(c, 401, "invalid credentials")
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		prometheus.RecordAuthError("invalid_credentials")
		return respond.Fail(c, 401, "invalid credentials")
	}

	token, err := jwtutil.Sign(user.ID, user.Role, user.TenantID)
	if err != nil {
		log.Error("Failed to sign bearer token", zap.Error(err))
		return respond.Internal(c)
	}

	log.Info("Bearer token issued",
		zap.String("email", user.Email),
		zap.String("role", user.Role))

	return respond.OK(c, echo.Map{"token": token})
}
