package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"inbox-service/internal/model"
)

// Guest link tokens carry 18 bytes of entropy, url-safe encoded. The token
// is the sole capability once issued.
const tokenBytes = 18

func newGuestToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CreateGuestLink inserts a new guest link with a freshly generated token.
// Token uniqueness is enforced by the store's unique index.
func (s *Store) CreateGuestLink(ctx context.Context, link *model.GuestLink) error {
	token, err := newGuestToken()
	if err != nil {
		return err
	}
	link.Token = token
	link.UsedCount = 0
	return s.db.WithContext(ctx).Create(link).Error
}

// ListGuestLinks returns the newest links first.
func (s *Store) ListGuestLinks(ctx context.Context, limit int) ([]model.GuestLink, error) {
	var links []model.GuestLink
	result := s.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Find(&links)
	return links, result.Error
}

// ConsumeGuestLink atomically spends one use of a link. The increment and
// the limit/expiry check are a single conditional UPDATE, so two concurrent
// redemptions of a link with one use left resolve to exactly one success;
// used_count can never exceed max_uses.
//
// When the guarded update matches no row the link is re-read purely to
// classify the failure: ErrNotFound (no such token), ErrExpired, or
// ErrExhausted. A consumed link whose tenant is missing fails ErrForbidden.
func (s *Store) ConsumeGuestLink(ctx context.Context, token string) (*model.GuestLink, error) {
	now := time.Now()
	result := s.db.WithContext(ctx).
		Model(&model.GuestLink{}).
		Where("token = ?", token).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Where("max_uses = 0 OR used_count < max_uses").
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return nil, result.Error
	}

	var link model.GuestLink
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if result.RowsAffected == 0 {
		if link.ExpiresAt != nil && !link.ExpiresAt.After(now) {
			return nil, ErrExpired
		}
		return nil, ErrExhausted
	}

	if link.TenantID == nil {
		return nil, ErrForbidden
	}
	return &link, nil
}
