package model

import "time"

// Tenant represents an isolated customer account owning a set of domains,
// users, and visible emails. Tenants are created by admins and never
// deleted in-band.
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}
