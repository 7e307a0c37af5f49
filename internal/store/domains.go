package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inbox-service/internal/model"
)

// UpsertDomain registers a domain under a tenant. The domain is stored
// lowercased; a conflicting registration reassigns the domain to the new
// tenant in a single statement.
func (s *Store) UpsertDomain(ctx context.Context, tenantID uint, domain string) (*model.TenantDomain, error) {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	record := model.TenantDomain{TenantID: tenantID, Domain: normalized}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "domain"}},
		DoUpdates: clause.AssignmentColumns([]string{"tenant_id"}),
	}).Create(&record)
	if result.Error != nil {
		return nil, result.Error
	}

	var stored model.TenantDomain
	if err := s.db.WithContext(ctx).Where("domain = ?", normalized).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListDomains returns a tenant's registered domains, newest first.
func (s *Store) ListDomains(ctx context.Context, tenantID uint, limit int) ([]model.TenantDomain, error) {
	var domains []model.TenantDomain
	result := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id desc").
		Limit(limit).
		Find(&domains)
	return domains, result.Error
}

// TenantOwnsDomain reports whether the domain is registered under the
// tenant. Used to reject a tenant user probing addresses outside their own
// domains before any email rows are read.
func (s *Store) TenantOwnsDomain(ctx context.Context, tenantID uint, domain string) (bool, error) {
	var record model.TenantDomain
	result := s.db.WithContext(ctx).
		Where("tenant_id = ? AND domain = ?", tenantID, strings.ToLower(domain)).
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}
	return true, nil
}

// ResolveTenantByDomain returns the owning tenant of a domain, or nil when
// no tenant has registered it. Ingestion uses this to stamp new emails.
func (s *Store) ResolveTenantByDomain(ctx context.Context, domain string) (*uint, error) {
	var record model.TenantDomain
	result := s.db.WithContext(ctx).
		Where("domain = ?", strings.ToLower(domain)).
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record.TenantID, nil
}
