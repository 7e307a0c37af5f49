package model

import "time"

// Email is the append-only ingestion target. TenantID is resolved at
// ingestion time from the recipient's domain, or left null when no tenant
// owns that domain. IsDel is a soft-delete flag; 0 means visible.
type Email struct {
	ID         uint      `json:"emailId" gorm:"primaryKey"`
	TenantID   *uint     `json:"tenantId,omitempty" gorm:"index"`
	SendEmail  string    `json:"sendEmail"`
	SendName   string    `json:"sendName"`
	Subject    string    `json:"subject"`
	ToEmail    string    `json:"toEmail" gorm:"type:varchar(255);index;not null"`
	ToName     string    `json:"toName"`
	CreateTime time.Time `json:"createTime"`
	Type       int       `json:"type"`
	Content    string    `json:"content" gorm:"type:text"`
	Text       string    `json:"text" gorm:"type:text"`
	IsDel      int       `json:"isDel" gorm:"default:0"`
	CreatedAt  time.Time `json:"-"`
}
