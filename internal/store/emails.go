package store

import (
	"context"

	"inbox-service/internal/model"
)

// EmailQuery is the visibility filter computed by the access-scope
// resolver. A nil TenantID means global visibility (admin); an empty
// ToEmail means no recipient filter.
type EmailQuery struct {
	TenantID *uint
	ToEmail  string
	Limit    int
}

// ListEmails returns visible (non-deleted) emails matching the scope,
// newest first.
func (s *Store) ListEmails(ctx context.Context, q EmailQuery) ([]model.Email, error) {
	tx := s.db.WithContext(ctx).Where("is_del = 0")
	if q.TenantID != nil {
		tx = tx.Where("tenant_id = ?", *q.TenantID)
	}
	if q.ToEmail != "" {
		tx = tx.Where("to_email = ?", q.ToEmail)
	}

	var emails []model.Email
	result := tx.Order("create_time desc").Limit(q.Limit).Find(&emails)
	return emails, result.Error
}

// InsertEmail appends one ingested email row.
func (s *Store) InsertEmail(ctx context.Context, email *model.Email) error {
	return s.db.WithContext(ctx).Create(email).Error
}
