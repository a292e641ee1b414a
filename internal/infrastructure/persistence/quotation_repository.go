package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/procurement"
	"github.com/distributor/backend/internal/domain/shared"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by ID, items preloaded
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Quotation, error) {
	var quotation procurement.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&quotation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindByIDForTenant finds a quotation by ID within a tenant, items preloaded
func (r *GormQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Quotation, error) {
	var quotation procurement.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&quotation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindAllForTenant finds all quotations for a tenant
func (r *GormQuotationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Quotation, error) {
	var quotations []procurement.Quotation
	query := r.applyFilter(r.db.WithContext(ctx).Model(&procurement.Quotation{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Preload("Items").Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindLatestForProduct finds the most recently dated quotation carrying a
// line for the given product. Ties on date_quoted break by created_at,
// newest first.
func (r *GormQuotationRepository) FindLatestForProduct(ctx context.Context, tenantID, productID uuid.UUID) (*procurement.Quotation, error) {
	var quotation procurement.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items").
		Joins("JOIN quotation_items ON quotation_items.quotation_id = quotations.id").
		Where("quotations.tenant_id = ? AND quotation_items.product_id = ?", tenantID, productID).
		Order("quotations.date_quoted DESC, quotations.created_at DESC").
		First(&quotation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindLatestForProducts resolves the latest quotation per product in one
// round. Products never quoted are absent from the result map.
func (r *GormQuotationRepository) FindLatestForProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*procurement.Quotation, error) {
	result := make(map[uuid.UUID]*procurement.Quotation, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	// all quotations that mention any of the products, newest first;
	// the first hit per product wins
	var quotations []procurement.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items").
		Distinct("quotations.*").
		Joins("JOIN quotation_items ON quotation_items.quotation_id = quotations.id").
		Where("quotations.tenant_id = ? AND quotation_items.product_id IN ?", tenantID, productIDs).
		Order("quotations.date_quoted DESC, quotations.created_at DESC").
		Find(&quotations).Error
	if err != nil {
		return nil, err
	}

	wanted := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}

	for i := range quotations {
		q := &quotations[i]
		for _, item := range q.Items {
			if wanted[item.ProductID] {
				if _, seen := result[item.ProductID]; !seen {
					result[item.ProductID] = q
				}
			}
		}
	}
	return result, nil
}

// Save creates or updates a quotation and its items
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *procurement.Quotation) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(quotation).Error
}

// SaveWithLock saves with an optimistic concurrency check on Version
func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, quotation *procurement.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := quotation.Version
		quotation.Version++

		result := tx.Model(&procurement.Quotation{}).
			Where("id = ? AND version = ?", quotation.ID, currentVersion).
			Select("*").
			Omit("Items", "created_at").
			Updates(quotation)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			quotation.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		for i := range quotation.Items {
			if err := tx.Save(&quotation.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteItem removes a single quotation line
func (r *GormQuotationRepository) DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&procurement.QuotationItem{}, "tenant_id = ? AND id = ?", tenantID, itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForTenant deletes a quotation and its items within a tenant
func (r *GormQuotationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&procurement.QuotationItem{}, "tenant_id = ? AND quotation_id = ?", tenantID, id).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.Quotation{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts quotations for a tenant
func (r *GormQuotationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.Quotation{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateQuotationNumber generates a unique quotation number for a tenant
// Format: QTN-YYMM-XXXX (e.g., QTN-2608-0001)
func (r *GormQuotationRepository) GenerateQuotationNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("QTN-%s-", time.Now().Format("0601"))

	var last procurement.Quotation
	err := r.db.WithContext(ctx).
		Model(&procurement.Quotation{}).
		Where("tenant_id = ? AND quotation_number LIKE ?", tenantID, prefix+"%").
		Order("quotation_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.QuotationNumber != "" {
		parts := strings.Split(last.QuotationNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, QuotationSortFields, "date_quoted")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("date_quoted DESC, created_at DESC")
	}

	return query
}

func (r *GormQuotationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("quotation_number ILIKE ? OR supplier_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "date_from":
			query = query.Where("date_quoted >= ?", value)
		case "date_to":
			query = query.Where("date_quoted <= ?", value)
		}
	}

	return query
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ procurement.QuotationRepository = (*GormQuotationRepository)(nil)
