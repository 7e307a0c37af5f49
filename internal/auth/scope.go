package auth

import (
	"context"
	"errors"
	"strings"

	"inbox-service/internal/model"
	"inbox-service/internal/store"
)

// ErrNotAuthenticated rejects a request with no resolvable identity before
// the data store is touched.
var ErrNotAuthenticated = errors.New("not authenticated")

// RecipientDomain extracts the domain of an address: the substring after
// the last '@', lowercased.
func RecipientDomain(addr string) string {
	i := strings.LastIndex(addr, "@")
	if i < 0 || i == len(addr)-1 {
		return ""
	}
	return strings.ToLower(addr[i+1:])
}

// ResolveEmailScope computes the visibility filter for a recipient lookup
// by an authenticated identity.
//
// Admins get global visibility. A tenant user is confined to their own
// tenant, and the recipient's domain must be registered under that tenant;
// otherwise the lookup is rejected before any email rows are read, so a
// user cannot probe arbitrary domains even with a syntactically valid
// address. The service identity ingests, it never reads.
func ResolveEmailScope(ctx context.Context, st *store.Store, id Identity, toEmail string, limit int) (store.EmailQuery, error) {
	switch id.Role {
	case model.RoleAdmin:
		return store.EmailQuery{ToEmail: toEmail, Limit: limit}, nil

	case model.RoleUser:
		if id.TenantID == nil {
			return store.EmailQuery{}, store.ErrForbidden
		}
		domain := RecipientDomain(toEmail)
		if domain == "" {
			return store.EmailQuery{}, store.ErrForbidden
		}
		owns, err := st.TenantOwnsDomain(ctx, *id.TenantID, domain)
		if err != nil {
			return store.EmailQuery{}, err
		}
		if !owns {
			return store.EmailQuery{}, store.ErrForbidden
		}
		return store.EmailQuery{TenantID: id.TenantID, ToEmail: toEmail, Limit: limit}, nil

	default:
		return store.EmailQuery{}, ErrNotAuthenticated
	}
}

// AuthorizeGuestRecipient resolves the effective recipient for a consumed
// guest link.
//
// An email-scoped link pins the recipient to the scope value regardless of
// caller input. A domain-scoped link requires a recipient whose domain
// exactly equals the scope value (case-insensitive), else ErrForbidden.
func AuthorizeGuestRecipient(link *model.GuestLink, requested string) (string, error) {
	if link.ScopeType == model.ScopeEmail {
		return link.ScopeValue, nil
	}

	recipient := strings.ToLower(strings.TrimSpace(requested))
	if recipient == "" {
		return "", store.ErrForbidden
	}
	if RecipientDomain(recipient) != link.ScopeValue {
		return "", store.ErrForbidden
	}
	return recipient, nil
}

// GuestScope is the visibility filter after link consumption: the link's
// tenant and the authorized recipient exactly, no domain wildcard.
func GuestScope(link *model.GuestLink, recipient string, limit int) store.EmailQuery {
	return store.EmailQuery{TenantID: link.TenantID, ToEmail: recipient, Limit: limit}
}
