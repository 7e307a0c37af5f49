package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"

	"inbox-service/internal/model"
	"inbox-service/pkg/jwtutil"
	"inbox-service/pkg/session"
)

// RoleService is the identity produced by the static inbound shared secret.
// It authorizes ingestion only; it is never an admin. The roles admin and
// user come from model.RoleAdmin and model.RoleUser.
const RoleService = "service"

// Identity is the one normalized shape every credential source produces:
// signed-cookie session, bearer token, or the static service token.
type Identity struct {
	UserID   uint
	Role     string
	TenantID *uint
}

// IsAdmin reports tenant-agnostic global visibility.
func (id Identity) IsAdmin() bool {
	return id.Role == model.RoleAdmin
}

const identityKey = "identity"

// SetIdentity stores the authenticated identity on the request context.
func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}

// GetIdentity returns the authenticated identity, if any credential source
// produced one.
func GetIdentity(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// FromSession normalizes the signed-cookie session, when present and valid.
func FromSession(c echo.Context) (Identity, bool) {
	s, ok := session.FromRequest(c)
	if !ok {
		return Identity{}, false
	}
	return Identity{UserID: s.UserID, Role: s.Role, TenantID: s.TenantID}, true
}

// FromBearer normalizes the Authorization bearer token, when present and
// valid.
func FromBearer(c echo.Context) (Identity, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return Identity{}, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return Identity{}, false
	}

	userID, role, tenantID, err := jwtutil.Verify(parts[1])
	if err != nil {
		return Identity{}, false
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		return Identity{}, false
	}
	return Identity{UserID: userID, Role: role, TenantID: tenantID}, true
}

// FromServiceSecret normalizes the static inbound shared secret into the
// service identity. An empty configured secret never matches; the compare
// is constant time. The result carries no user or tenant, only RoleService.
func FromServiceSecret(c echo.Context, secret string) (Identity, bool) {
	if secret == "" {
		return Identity{}, false
	}
	supplied := c.Request().Header.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
		return Identity{}, false
	}
	return Identity{Role: RoleService}, true
}

// Resolve tries each credential source in order: session cookie first, then
// bearer token. Both normalize to the same Identity; there is no
// shared-secret path to an admin identity.
func Resolve(c echo.Context) (Identity, bool) {
	if id, ok := FromSession(c); ok {
		return id, true
	}
	if id, ok := FromBearer(c); ok {
		return id, true
	}
	return Identity{}, false
}
