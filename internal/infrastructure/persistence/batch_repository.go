package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/inventory"
	"github.com/distributor/backend/internal/domain/shared"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryBatch, error) {
	var batch inventory.InventoryBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDForTenant finds a batch by ID within a tenant
func (r *GormBatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryBatch, error) {
	var batch inventory.InventoryBatch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAllForTenant finds all batches for a tenant
func (r *GormBatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryBatch, error) {
	var batches []inventory.InventoryBatch
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryBatch{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByProduct finds all batches for a product
func (r *GormBatchRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.InventoryBatch, error) {
	var batches []inventory.InventoryBatch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryBatch{}).
			Where("tenant_id = ? AND product_id = ?", tenantID, productID),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// SumQuantityForInvoiceItem sums batch quantities linked to an invoice line
func (r *GormBatchRepository) SumQuantityForInvoiceItem(ctx context.Context, tenantID, invoiceItemID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryBatch{}).
		Where("tenant_id = ? AND invoice_item_id = ?", tenantID, invoiceItemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumQuantityForProduct sums batch quantities for a product (stock on hand)
func (r *GormBatchRepository) SumQuantityForProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryBatch{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.InventoryBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// DeleteForTenant deletes a batch within a tenant
func (r *GormBatchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryBatch{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts batches for a tenant
func (r *GormBatchRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.InventoryBatch{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, BatchSortFields, "received_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("received_date DESC, created_at DESC")
	}

	return query
}

func (r *GormBatchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("batch_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "quotation_id":
			query = query.Where("quotation_id = ?", value)
		case "invoice_item_id":
			query = query.Where("invoice_item_id = ?", value)
		}
	}

	return query
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
