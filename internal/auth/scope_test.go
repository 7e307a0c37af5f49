package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inbox-service/internal/model"
	"inbox-service/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "scope_test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	st, err := store.New(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func uintPtr(v uint) *uint { return &v }

func TestRecipientDomain(t *testing.T) {
	cases := []struct {
		addr string
		want string
	}{
		{"sales@acme.com", "acme.com"},
		{"Sales@ACME.COM", "acme.com"},
		{"a@b@acme.com", "acme.com"},
		{"no-at-sign", ""},
		{"trailing@", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RecipientDomain(tc.addr), "addr %q", tc.addr)
	}
}

func TestResolveEmailScopeAdminIsGlobal(t *testing.T) {
	st := newTestStore(t)

	id := Identity{UserID: 1, Role: model.RoleAdmin}
	q, err := ResolveEmailScope(context.Background(), st, id, "anyone@anywhere.org", 50)
	require.NoError(t, err)
	assert.Nil(t, q.TenantID)
	assert.Equal(t, "anyone@anywhere.org", q.ToEmail)
	assert.Equal(t, 50, q.Limit)
}

func TestResolveEmailScopeTenantUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.UpsertDomain(ctx, 5, "acme.com")
	require.NoError(t, err)

	id := Identity{UserID: 2, Role: model.RoleUser, TenantID: uintPtr(5)}

	q, err := ResolveEmailScope(ctx, st, id, "sales@acme.com", 50)
	require.NoError(t, err)
	require.NotNil(t, q.TenantID)
	assert.Equal(t, uint(5), *q.TenantID)
	assert.Equal(t, "sales@acme.com", q.ToEmail)

	// A domain registered to another tenant is rejected before any email
	// rows are read.
	_, err = st.UpsertDomain(ctx, 7, "globex.com")
	require.NoError(t, err)
	_, err = ResolveEmailScope(ctx, st, id, "sales@globex.com", 50)
	assert.ErrorIs(t, err, store.ErrForbidden)

	// Unregistered domain, same outcome.
	_, err = ResolveEmailScope(ctx, st, id, "sales@nowhere.org", 50)
	assert.ErrorIs(t, err, store.ErrForbidden)

	// Malformed recipient address.
	_, err = ResolveEmailScope(ctx, st, id, "not-an-address", 50)
	assert.ErrorIs(t, err, store.ErrForbidden)
}

func TestResolveEmailScopeUserWithoutTenant(t *testing.T) {
	st := newTestStore(t)

	id := Identity{UserID: 3, Role: model.RoleUser}
	_, err := ResolveEmailScope(context.Background(), st, id, "sales@acme.com", 50)
	assert.ErrorIs(t, err, store.ErrForbidden)
}

func TestResolveEmailScopeUnknownRole(t *testing.T) {
	st := newTestStore(t)

	for _, role := range []string{"", RoleService, "superuser"} {
		_, err := ResolveEmailScope(context.Background(), st, Identity{Role: role}, "a@acme.com", 50)
		assert.ErrorIs(t, err, ErrNotAuthenticated, "role %q", role)
	}
}

func TestAuthorizeGuestRecipientEmailScope(t *testing.T) {
	link := &model.GuestLink{ScopeType: model.ScopeEmail, ScopeValue: "pinned@acme.com"}

	// Caller input never widens an email-scoped link.
	for _, requested := range []string{"", "pinned@acme.com", "other@acme.com", "attacker@evil.org"} {
		got, err := AuthorizeGuestRecipient(link, requested)
		require.NoError(t, err)
		assert.Equal(t, "pinned@acme.com", got)
	}
}

func TestAuthorizeGuestRecipientDomainScope(t *testing.T) {
	link := &model.GuestLink{ScopeType: model.ScopeDomain, ScopeValue: "acme.com"}

	got, err := AuthorizeGuestRecipient(link, "sales@acme.com")
	require.NoError(t, err)
	assert.Equal(t, "sales@acme.com", got)

	// Matching is case-insensitive and the result is normalized.
	got, err = AuthorizeGuestRecipient(link, "  Sales@ACME.COM ")
	require.NoError(t, err)
	assert.Equal(t, "sales@acme.com", got)

	for _, requested := range []string{"", "   ", "sales@globex.com", "acme.com", "sales@sub.acme.com"} {
		_, err = AuthorizeGuestRecipient(link, requested)
		assert.ErrorIs(t, err, store.ErrForbidden, "requested %q", requested)
	}
}

func TestGuestScope(t *testing.T) {
	link := &model.GuestLink{TenantID: uintPtr(9), ScopeType: model.ScopeDomain, ScopeValue: "acme.com"}

	q := GuestScope(link, "sales@acme.com", 50)
	require.NotNil(t, q.TenantID)
	assert.Equal(t, uint(9), *q.TenantID)
	assert.Equal(t, "sales@acme.com", q.ToEmail)
	assert.Equal(t, 50, q.Limit)
}
