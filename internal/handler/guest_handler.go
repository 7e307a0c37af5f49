package handler

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inbox-service/internal/auth"
	"inbox-service/internal/model"
	"inbox-service/internal/respond"
	"inbox-service/internal/store"
	"inbox-service/pkg/logger"
	"inbox-service/prometheus"
)

type createGuestLinkRequest struct {
	TenantID   *uint  `json:"tenantId"`
	ScopeType  string `json:"scopeType"`
	ScopeValue string `json:"scopeValue"`
	MaxUses    int    `json:"maxUses"`
	ExpiresAt  string `json:"expiresAt"`
}

func (r *createGuestLinkRequest) Validate() string {
	if r.ScopeType != model.ScopeEmail && r.ScopeType != model.ScopeDomain {
		return "Invalid scopeType"
	}
	if strings.TrimSpace(r.ScopeValue) == "" {
		return "Missing scopeValue"
	}
	if r.MaxUses < 0 {
		return "Invalid maxUses"
	}
	if r.TenantID == nil {
		return "Missing tenantId"
	}
	if r.ExpiresAt != "" {
		if _, err := time.Parse(time.RFC3339, r.ExpiresAt); err != nil {
			return "Invalid expiresAt"
		}
	}
	return ""
}

// ListGuestLinks returns the newest guest links. Admin only.
func (h *Handler) ListGuestLinks(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	links, err := h.store.ListGuestLinks(c.Request().Context(), adminListLimit)
	if err != nil {
		log.Error("Guest link listing failed", zap.Error(err))
		return respond.Internal(c)
	}
	return respond.OK(c, links)
}

// CreateGuestLink issues a new scoped capability token. Admin only.
func (h *Handler) CreateGuestLink(c echo.Context) error {
	log := logger.FromEcho(c)

	var req createGuestLinkRequest
	if err := c.Bind(&req); err != nil {
		return respond.BadRequest(c, "invalid request")
	}
	if reason := req.Validate(); reason != "" {
		return respond.BadRequest(c, reason)
	}

	link := model.GuestLink{
		TenantID:   req.TenantID,
		ScopeType:  req.ScopeType,
		ScopeValue: strings.ToLower(strings.TrimSpace(req.ScopeValue)),
		MaxUses:    req.MaxUses,
	}
	if req.ExpiresAt != "" {
		t, _ := time.Parse(time.RFC3339, req.ExpiresAt)
		link.ExpiresAt = &t
	}
	if id, ok := auth.GetIdentity(c); ok {
		link.CreatedByUserID = &id.UserID
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateGuestLink(c.Request().Context(), &link); err != nil {
		log.Error("Guest link creation failed", zap.Error(err))
		return respond.Internal(c)
	}

	log.Info("Guest link created",
		zap.String("scope_type", link.ScopeType),
		zap.String("scope_value", link.ScopeValue),
		zap.Int("max_uses", link.MaxUses))
	return respond.OK(c, link)
}

type guestLookupRequest struct {
	ToEmail string `json:"toEmail"`
}

// GuestEmailList redeems a guest link token and returns the emails visible
// through it. Consumption spends one use atomically; the scope confines the
// query to the link's tenant and the single authorized recipient.
func (h *Handler) GuestEmailList(c echo.Context) error {
	log := logger.FromEcho(c)

	token := c.Param("token")
	if token == "" {
		return respond.BadRequest(c, "Missing token")
	}

	var req guestLookupRequest
	if err := c.Bind(&req); err != nil {
		return respond.BadRequest(c, "invalid request")
	}

	ctx := c.Request().Context()

	defer prometheus.TrackDBOperation("update")(time.Now())
	link, err := h.store.ConsumeGuestLink(ctx, token)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			prometheus.RecordGuestRedemption("not_found")
			return respond.Fail(c, 404, "link not found")
		case store.ErrExpired:
			prometheus.RecordGuestRedemption("expired")
			return respond.Fail(c, 403, "link expired")
		case store.ErrExhausted:
			prometheus.RecordGuestRedemption("exhausted")
			return respond.Fail(c, 403, "link exhausted")
		case store.ErrForbidden:
			prometheus.RecordGuestRedemption("forbidden")
			return respond.Fail(c, 403, "invalid link")
		default:
			log.Error("Guest link consumption failed", zap.Error(err))
			return respond.Internal(c)
		}
	}

	if link.ScopeType == model.ScopeDomain && strings.TrimSpace(req.ToEmail) == "" {
		prometheus.RecordGuestRedemption("forbidden")
		return respond.BadRequest(c, "Missing toEmail")
	}

	recipient, err := auth.AuthorizeGuestRecipient(link, req.ToEmail)
	if err != nil {
		prometheus.RecordGuestRedemption("forbidden")
		return respond.Fail(c, 403, "forbidden")
	}

	prometheus.RecordGuestRedemption("success")
	prometheus.LookupCounter.WithLabelValues("guest").Inc()

	defer prometheus.TrackDBOperation("query")(time.Now())
	emails, err := h.store.ListEmails(ctx, auth.GuestScope(link, recipient, emailListLimit))
	if err != nil {
		log.Error("Guest email lookup failed", zap.Error(err))
		return respond.Internal(c)
	}
	return respond.OK(c, emails)
}
