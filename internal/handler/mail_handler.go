package handler

import (
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

type mailLookupRequest struct {
	ToEmail string `json:"toEmail"`
}

func (r *mailLookupRequest) Validate() string {
	if r.ToEmail == "" {
		return "Missing toEmail"
	}
	return ""
}

// EmailList looks up emails by recipient for a logged-in identity. Admins
// see every tenant; a tenant user sees only their own tenant, and only for
// addresses under a domain registered to that tenant.
func (h *Handler) EmailList(c echo.Context) error {
	log := logger.FromEcho(c)

	var req mailLookupRequest
	if err := c.Bind(&req); err != nil {
		return respond.BadRequest(c, "invalid request")
	}
	if reason := req.Validate(); reason != "" {
		return respond.BadRequest(c, reason)
	}

	id, ok := auth.GetIdentity(c)
	if !ok {
		prometheus.RecordAuthError("missing_credential")
		return respond.Fail(c, 401, "not logged in")
	}

	ctx := c.Request().Context()
	query, err := auth.ResolveEmailScope(ctx, h.store, id, req.ToEmail, emailListLimit)
	if err != nil {
		switch err {
		case auth.ErrNotAuthenticated:
			prometheus.RecordAuthError("missing_credential")
			return respond.Fail(c, 401, "not logged in")
		case store.ErrForbidden:
			prometheus.RecordAuthError("scope_denied")
			return respond.Fail(c, 403, "forbidden")
		default:
			log.Error("Scope resolution failed", zap.Error(err))
			return respond.Internal(c)
		}
	}

	if id.IsAdmin() {
		prometheus.LookupCounter.WithLabelValues("admin").Inc()
	} else {
		prometheus.LookupCounter.WithLabelValues("tenant").Inc()
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	emails, err := h.store.ListEmails(ctx, query)
	if err != nil {
		log.Error("Email lookup failed", zap.Error(err))
		return respond.Internal(c)
	}
	return respond.OK(c, emails)
}

// AdminEmails is the global email listing with an optional recipient
// filter. Admin only.
func (h *Handler) AdminEmails(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	emails, err := h.store.ListEmails(c.Request().Context(), store.EmailQuery{
		ToEmail: c.QueryParam("toEmail"),
		Limit:   adminEmailLimit,
	})
	if err != nil {
		log.Error("Admin email listing failed", zap.Error(err))
		return respond.Internal(c)
	}
	return respond.OK(c, emails)
}

type inboundEmailRequest struct {
	SendEmail string `json:"sendEmail"`
	SendName  string `json:"sendName"`
	Subject   string `json:"subject"`
	ToEmail   string `json:"toEmail"`
	ToName    string `json:"toName"`
	Type      int    `json:"type"`
	Content   string `json:"content"`
	Text      string `json:"text"`
}

func (r *inboundEmailRequest) Validate() string {
	if r.ToEmail == "" {
		return "Missing toEmail"
	}
	return ""
}

// InboundReceive appends one ingested email row on behalf of the external
// mail-receiving collaborator, authenticated by the inbound shared secret.
// The tenant is resolved from the recipient's domain, or left null when no
// tenant owns it.
func (h *Handler) InboundReceive(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := auth.FromServiceSecret(c, h.secrets.InboundSecret)
	if !ok || id.Role != auth.RoleService {
		prometheus.RecordAuthError("bad_inbound_secret")
		return respond.Unauthorized(c)
	}

	var req inboundEmailRequest
	if err := c.Bind(&req); err != nil {
		return respond.BadRequest(c, "invalid request")
	}
	if reason := req.Validate(); reason != "" {
		return respond.BadRequest(c, reason)
	}

	ctx := c.Request().Context()

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenantID, err := h.store.ResolveTenantByDomain(ctx, auth.RecipientDomain(req.ToEmail))
	if err != nil {
		log.Error("Tenant resolution failed", zap.Error(err))
		return respond.Internal(c)
	}

	email := model.Email{
		TenantID:   tenantID,
		SendEmail:  req.SendEmail,
		SendName:   req.SendName,
		Subject:    req.Subject,
		ToEmail:    req.ToEmail,
		ToName:     req.ToName,
		CreateTime: time.Now(),
		Type:       req.Type,
		Content:    req.Content,
		Text:       req.Text,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.InsertEmail(ctx, &email); err != nil {
		log.Error("Email insert failed", zap.Error(err))
		return respond.Internal(c)
	}

	prometheus.IngestCounter.Inc()
	log.Info("Email ingested",
		zap.String("to_email", email.ToEmail),
		zap.Bool("tenant_resolved", tenantID != nil))
	return respond.OK(c, echo.Map{"emailId": email.ID})
}
