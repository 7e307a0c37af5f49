package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inbox-service/internal/model"
)

// FindUserByEmail looks up a login identity case-insensitively.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.AppUser, error) {
	var user model.AppUser
	result := s.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(email)).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// CountAdmins reports how many admin users exist. Bootstrap refuses to run
// once this is non-zero.
func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.AppUser{}).
		Where("role = ?", model.RoleAdmin).
		Count(&count)
	return count, result.Error
}

// CreateUser inserts a new login identity. The email is stored lowercased
// so the unique index holds one identity per address regardless of the
// case the caller supplied.
func (s *Store) CreateUser(ctx context.Context, user *model.AppUser) error {
	user.Email = strings.ToLower(user.Email)
	return s.db.WithContext(ctx).Create(user).Error
}

// UpsertUser inserts or replaces the identity for an email address in one
// conflict-resolving statement, then reloads the stored row. The email is
// lowercased before the conflict check, so case variants of one address
// collapse onto a single identity.
func (s *Store) UpsertUser(ctx context.Context, user *model.AppUser) (*model.AppUser, error) {
	user.Email = strings.ToLower(user.Email)
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"tenant_id", "role", "password_hash"}),
	}).Create(user)
	if result.Error != nil {
		return nil, result.Error
	}

	var stored model.AppUser
	if err := s.db.WithContext(ctx).Where("email = ?", user.Email).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListUsers returns the newest user records first.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]model.AppUser, error) {
	var users []model.AppUser
	result := s.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Find(&users)
	return users, result.Error
}
