package partner

import (
	"context"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindByIDForTenant finds a supplier by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)

	// FindByName finds a supplier by its name within a tenant
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Supplier, error)

	// FindAllForTenant finds all suppliers for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)

	// FindByIDs finds multiple suppliers by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Supplier, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// DeleteForTenant deletes a supplier within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts suppliers for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByName checks if a supplier with the given name exists in the tenant
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
}
