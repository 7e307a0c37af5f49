package model

import "time"

// TenantDomain maps a recipient domain to its owning tenant. The domain is
// stored lowercased and is globally unique, so an inbound recipient resolves
// to at most one tenant.
type TenantDomain struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null"`
	Domain    string    `json:"domain" gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}
