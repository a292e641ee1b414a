package identity

import (
	"context"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence.
// Finders load group memberships so commission rates can be derived
// without a second round trip.
type UserRepository interface {
	// FindByID finds a user by ID, groups preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForTenant finds a user by ID within a tenant, groups preloaded
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username within a tenant, groups preloaded
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)

	// FindAllForTenant finds all users for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)

	// Save creates or updates a user (including group membership links)
	Save(ctx context.Context, user *User) error

	// CountForTenant counts users for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByUsername checks if a username is taken within a tenant
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
}

// UserGroupRepository defines the interface for user group persistence
type UserGroupRepository interface {
	// FindByID finds a group by ID
	FindByID(ctx context.Context, id uuid.UUID) (*UserGroup, error)

	// FindByIDForTenant finds a group by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*UserGroup, error)

	// FindAllForTenant finds all groups for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]UserGroup, error)

	// Save creates or updates a group
	Save(ctx context.Context, group *UserGroup) error

	// DeleteForTenant deletes a group within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
