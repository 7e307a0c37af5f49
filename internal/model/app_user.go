package model

import "time"

// Roles an AppUser can hold. Admins are tenant-agnostic super-users and
// carry no tenant id; regular users always belong to exactly one tenant.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AppUser represents a login identity. Exactly one identity exists per
// email: the store lowercases the address on every write, so the unique
// index holds case-insensitively.
type AppUser struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TenantID     *uint     `json:"tenant_id" gorm:"index"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
}
