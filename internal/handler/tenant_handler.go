package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inbox-service/internal/respond"
	"inbox-service/pkg/logger"
	"inbox-service/prometheus"
)

type createTenantRequest struct {
	Name string `json:"name"`
}

func (r *createTenantRequest) Validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "Missing name"
	}
	return ""
}

// ListTenants returns the newest tenants. Admin only.
func (h *Handler) ListTenants(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenants, err := h.store.ListTenants(c.Request().Context(), tenantListLimit)
	if err != nil {
		log.Error("Tenant listing failed", zap.Error(err))
		return respond.Internal(c)
	}
	return respond.OK(c, tenants)
}

// CreateTenant upserts a tenant by its unique name. Admin only.
func (h *Handler) CreateTenant(c echo.Context) error {
	log := logger.FromEcho(c)

	var req createTenantRequest
	if err := c.Bind(&req); err != nil {
		return respond.BadRequest(c, "invalid request")
	}
	if reason := req.Validate(); reason != "" {
		return respond.BadRequest(c, reason)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	tenant, err := h.store.UpsertTenant(c.Request().Context(), strings.TrimSpace(req.Name))
	if err != nil {
		log.Error("Tenant upsert failed", zap.Error(err))
		return respond.Internal(c)
	}

	log.Info("Tenant created", zap.String("name", tenant.Name), zap.Uint("id", tenant.ID))
	return respond.OK(c, tenant)
}

type createDomainRequest struct {
	TenantID uint   `json:"tenantId"`
	Domain   string `json:"domain"`
}

func (r *createDomainRequest) Validate() string {
	if r.TenantID == 0 {
		return "Missing tenantId"
	}
	if strings.TrimSpace(r.Domain) == "" {
		return "Missing domain"
	}
	return ""
}

// ListDomains returns the domains registered under a tenant. Admin only.
func (h *Handler) ListDomains(c echo.Context) error {
	log := logger.FromEcho(c)

	tenantID, err := strconv.ParseUint(c.QueryParam("tenantId"), 10, 32)
	if err != nil || tenantID == 0 {
		return respond.BadRequest(c, "Missing tenantId")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	domains, err := h.store.ListDomains(c.Request().Context(), uint(tenantID), adminListLimit)
	if err != nil {
		log.Error("Domain listing failed", zap.Error(err))
		return respond.Internal(c)
	}
	return respond.OK(c, domains)
}

// CreateDomain registers a domain under a tenant, reassigning it when it
// was registered elsewhere. Admin only.
func (h *Handler) CreateDomain(c echo.Context) error {
	log := logger.FromEcho(c)

	var req createDomainRequest
	if err := c.Bind(&req); err != nil {
		return respond.BadRequest(c, "invalid request")
	}
	if reason := req.Validate(); reason != "" {
		return respond.BadRequest(c, reason)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	domain, err := h.store.UpsertDomain(c.Request().Context(), req.TenantID, req.Domain)
	if err != nil {
		log.Error("Domain upsert failed", zap.Error(err))
		return respond.Internal(c)
	}

	log.Info("Domain registered",
		zap.String("domain", domain.Domain),
		zap.Uint("tenant_id", domain.TenantID))
	return respond.OK(c, domain)
}
