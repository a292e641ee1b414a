package procurement

import (
	"context"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByID finds a quotation by ID, items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindByIDForTenant finds a quotation by ID within a tenant, items preloaded
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quotation, error)

	// FindAllForTenant finds all quotations for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quotation, error)

	// FindLatestForProduct finds the most recently dated quotation that
	// carries a line for the given product, items preloaded. Ties on
	// date_quoted break by created_at, newest first. Returns
	// shared.ErrNotFound when no quotation references the product.
	FindLatestForProduct(ctx context.Context, tenantID, productID uuid.UUID) (*Quotation, error)

	// FindLatestForProducts resolves the latest quotation per product in
	// one round, keyed by product ID. Products never quoted are absent
	// from the result.
	FindLatestForProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*Quotation, error)

	// Save creates or updates a quotation and its items
	Save(ctx context.Context, quotation *Quotation) error

	// SaveWithLock saves with an optimistic concurrency check on Version
	SaveWithLock(ctx context.Context, quotation *Quotation) error

	// DeleteItem removes a single quotation line
	DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error

	// DeleteForTenant deletes a quotation within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts quotations for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateQuotationNumber generates the next sequential quotation
	// number for the tenant, in the form QTN-YYMM-XXXX
	GenerateQuotationNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
