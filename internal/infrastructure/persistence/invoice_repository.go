package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/billing"
	"github.com/distributor/backend/internal/domain/shared"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID, items preloaded
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForTenant finds an invoice by ID within a tenant, items preloaded
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByQuotationID finds the invoice linked to a quotation, if any
func (r *GormInvoiceRepository) FindByQuotationID(ctx context.Context, tenantID, quotationID uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND quotation_id = ?", tenantID, quotationID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByItemID finds the invoice owning the given invoice item
func (r *GormInvoiceRepository) FindByItemID(ctx context.Context, tenantID, itemID uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = (?)", tenantID,
			r.db.Model(&billing.InvoiceItem{}).Select("invoice_id").Where("id = ?", itemID)).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// ExistsForQuotation reports whether a quotation has been invoiced
func (r *GormInvoiceRepository) ExistsForQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("tenant_id = ? AND quotation_id = ?", tenantID, quotationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// InvoicedQuotationIDs returns which of the given quotations already have an invoice
func (r *GormInvoiceRepository) InvoicedQuotationIDs(ctx context.Context, tenantID uuid.UUID, quotationIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(quotationIDs))
	if len(quotationIDs) == 0 {
		return result, nil
	}

	var invoiced []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("tenant_id = ? AND quotation_id IN ?", tenantID, quotationIDs).
		Pluck("quotation_id", &invoiced).Error; err != nil {
		return nil, err
	}

	for _, id := range invoiced {
		result[id] = true
	}
	return result, nil
}

// FindAllForTenant finds all invoices for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Preload("Items").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice and its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(invoice).Error
}

// SaveWithLock saves with an optimistic concurrency check on Version
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := invoice.Version
		invoice.Version++

		result := tx.Model(&billing.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, currentVersion).
			Select("*").
			Omit("Items", "created_at").
			Updates(invoice)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			invoice.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		for i := range invoice.Items {
			if err := tx.Save(&invoice.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountForTenant counts invoices for a tenant
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateInvoiceNumber generates a unique invoice number for a tenant
// Format: INV-YYMM-XXXX (e.g., INV-2608-0001)
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", time.Now().Format("0601"))

	var last billing.Invoice
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("tenant_id = ? AND invoice_number LIKE ?", tenantID, prefix+"%").
		Order("invoice_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.InvoiceNumber != "" {
		parts := strings.Split(last.InvoiceNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "date_issued")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("date_issued DESC, created_at DESC")
	}

	return query
}

func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR supplier_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "date_from":
			query = query.Where("date_issued >= ?", value)
		case "date_to":
			query = query.Where("date_issued <= ?", value)
		}
	}

	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
