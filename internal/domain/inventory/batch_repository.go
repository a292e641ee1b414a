package inventory

import (
	"context"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BatchRepository defines the interface for inventory batch persistence
type BatchRepository interface {
	// FindByID finds a batch by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryBatch, error)

	// FindByIDForTenant finds a batch by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryBatch, error)

	// FindAllForTenant finds all batches for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryBatch, error)

	// FindByProduct finds all batches for a product
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]InventoryBatch, error)

	// SumQuantityForInvoiceItem sums batch quantities linked to an
	// invoice line. This is the authoritative received total for the
	// line; callers overwrite, never increment, with the result.
	SumQuantityForInvoiceItem(ctx context.Context, tenantID, invoiceItemID uuid.UUID) (int64, error)

	// SumQuantityForProduct sums batch quantities for a product (stock on hand)
	SumQuantityForProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *InventoryBatch) error

	// DeleteForTenant deletes a batch within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts batches for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
