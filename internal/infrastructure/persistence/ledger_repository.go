package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/commission"
	"github.com/distributor/backend/internal/domain/shared"
)

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByID finds a ledger entry by ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.LedgerEntry, error) {
	var entry commission.LedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByIDForTenant finds a ledger entry by ID within a tenant
func (r *GormLedgerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.LedgerEntry, error) {
	var entry commission.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByOrderItem finds the entry for an order item, if any
func (r *GormLedgerRepository) FindByOrderItem(ctx context.Context, tenantID, orderItemID uuid.UUID) (*commission.LedgerEntry, error) {
	var entry commission.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_item_id = ?", tenantID, orderItemID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByOrder finds all entries attributed to an order
func (r *GormLedgerRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]commission.LedgerEntry, error) {
	var entries []commission.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAllForTenant finds all entries for a tenant
func (r *GormLedgerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]commission.LedgerEntry, error) {
	var entries []commission.LedgerEntry
	query := r.applyFilter(r.db.WithContext(ctx).Model(&commission.LedgerEntry{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Summarize aggregates the entries matching the filter
func (r *GormLedgerRepository) Summarize(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*commission.Summary, error) {
	query := r.db.WithContext(ctx).Model(&commission.LedgerEntry{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	var row struct {
		TotalAmount   decimal.Decimal
		EntryCount    int64
		DistinctOrder int64
	}
	if err := query.
		Select("COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS entry_count, COUNT(DISTINCT order_id) AS distinct_order").
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &commission.Summary{
		TotalAmount:   row.TotalAmount,
		EntryCount:    row.EntryCount,
		DistinctOrder: row.DistinctOrder,
	}, nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerRepository) Save(ctx context.Context, entry *commission.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// MarkPaid settles the given entries in one statement. Only rows still
// PENDING are touched; already paid or cancelled ids are skipped.
func (r *GormLedgerRepository) MarkPaid(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, paidAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&commission.LedgerEntry{}).
		Where("tenant_id = ? AND id IN ? AND status = ?", tenantID, ids, commission.LedgerStatusPending).
		Updates(map[string]interface{}{
			"status":     commission.LedgerStatusPaid,
			"paid_at":    paidAt,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CancelForOrder voids all pending entries attributed to an order
func (r *GormLedgerRepository) CancelForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&commission.LedgerEntry{}).
		Where("tenant_id = ? AND order_id = ? AND status = ?", tenantID, orderID, commission.LedgerStatusPending).
		Updates(map[string]interface{}{
			"status":     commission.LedgerStatusCancelled,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountForTenant counts entries for a tenant
func (r *GormLedgerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&commission.LedgerEntry{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLedgerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, LedgerSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormLedgerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("agent_name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "agent_id":
			query = query.Where("agent_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "date_from":
			query = query.Where("created_at >= ?", value)
		case "date_to":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ commission.LedgerRepository = (*GormLedgerRepository)(nil)
