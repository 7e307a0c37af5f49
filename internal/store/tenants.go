package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inbox-service/internal/model"
)

// UpsertTenant creates a tenant by name, or returns the existing one. The
// unique name constraint resolves concurrent creates to a single row.
func (s *Store) UpsertTenant(ctx context.Context, name string) (*model.Tenant, error) {
	tenant := model.Tenant{Name: name}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&tenant)
	if result.Error != nil {
		return nil, result.Error
	}

	var stored model.Tenant
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindTenant returns a tenant by id.
func (s *Store) FindTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	result := s.db.WithContext(ctx).First(&tenant, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &tenant, nil
}

// ListTenants returns the newest tenants first.
func (s *Store) ListTenants(ctx context.Context, limit int) ([]model.Tenant, error) {
	var tenants []model.Tenant
	result := s.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Find(&tenants)
	return tenants, result.Error
}
