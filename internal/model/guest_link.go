package model

import "time"

// Guest link scopes. An email-scoped link grants access to exactly one
// recipient address; a domain-scoped link grants access to any recipient
// under one domain.
const (
	ScopeEmail  = "email"
	ScopeDomain = "domain"
)

// GuestLink is a capability token granting limited read access without a
// login. MaxUses of 0 means unlimited. UsedCount never exceeds MaxUses when
// MaxUses > 0: consumption is a single guarded increment in the store.
type GuestLink struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	TenantID        *uint      `json:"tenant_id" gorm:"index"`
	Token           string     `json:"token" gorm:"type:varchar(64);uniqueIndex;not null"`
	ScopeType       string     `json:"scope_type" gorm:"type:varchar(20);not null"`
	ScopeValue      string     `json:"scope_value" gorm:"type:varchar(255);not null"`
	MaxUses         int        `json:"max_uses" gorm:"not null;default:0"`
	UsedCount       int        `json:"used_count" gorm:"not null;default:0"`
	ExpiresAt       *time.Time `json:"expires_at"`
	CreatedByUserID *uint      `json:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
}
