package sales

import (
	"context"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID, items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForTenant finds an order by ID within a tenant, items preloaded
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindBySubmissionToken finds the order created under a submission
	// token, if any. Lets a replayed submission return the original
	// order instead of creating a duplicate.
	FindBySubmissionToken(ctx context.Context, tenantID uuid.UUID, token string) (*Order, error)

	// FindAllForTenant finds all orders for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByBuyer finds all orders placed by a buyer
	FindByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with an optimistic concurrency check on Version
	SaveWithLock(ctx context.Context, order *Order) error

	// CountForTenant counts orders for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateOrderNumber generates the next sequential order number for
	// the tenant, in the form ORD-YYMM-XXXX
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
