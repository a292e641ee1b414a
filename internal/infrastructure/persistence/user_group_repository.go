package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/identity"
	"github.com/distributor/backend/internal/domain/shared"
)

// GormUserGroupRepository implements UserGroupRepository using GORM
type GormUserGroupRepository struct {
	db *gorm.DB
}

// NewGormUserGroupRepository creates a new GormUserGroupRepository
func NewGormUserGroupRepository(db *gorm.DB) *GormUserGroupRepository {
	return &GormUserGroupRepository{db: db}
}

// FindByID finds a group by ID
func (r *GormUserGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.UserGroup, error) {
	var group identity.UserGroup
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByIDForTenant finds a group by ID within a tenant
func (r *GormUserGroupRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserGroup, error) {
	var group identity.UserGroup
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindAllForTenant finds all groups for a tenant
func (r *GormUserGroupRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.UserGroup, error) {
	var groups []identity.UserGroup
	query := r.db.WithContext(ctx).Model(&identity.UserGroup{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("name ASC")

	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Save creates or updates a group
func (r *GormUserGroupRepository) Save(ctx context.Context, group *identity.UserGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// DeleteForTenant deletes a group within a tenant
func (r *GormUserGroupRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.UserGroup{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormUserGroupRepository implements UserGroupRepository
var _ identity.UserGroupRepository = (*GormUserGroupRepository)(nil)
