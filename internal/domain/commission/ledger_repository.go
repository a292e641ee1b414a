package commission

import (
	"context"
	"time"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary aggregates a filtered slice of the ledger for reporting
type Summary struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	EntryCount    int64           `json:"entry_count"`
	DistinctOrder int64           `json:"distinct_orders"`
}

// LedgerRepository defines the interface for commission persistence
type LedgerRepository interface {
	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindByIDForTenant finds a ledger entry by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntry, error)

	// FindByOrderItem finds the entry for an order item, if any
	FindByOrderItem(ctx context.Context, tenantID, orderItemID uuid.UUID) (*LedgerEntry, error)

	// FindByOrder finds all entries attributed to an order
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]LedgerEntry, error)

	// FindAllForTenant finds all entries for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)

	// Summarize aggregates the entries matching the filter
	Summarize(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*Summary, error)

	// Save creates or updates a ledger entry
	Save(ctx context.Context, entry *LedgerEntry) error

	// MarkPaid settles the given entries in one statement: rows among
	// the ids that are still PENDING become PAID with the given payout
	// date. Returns how many rows were actually updated; ids that were
	// already paid or cancelled are skipped, not errored.
	MarkPaid(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, paidAt time.Time) (int64, error)

	// CancelForOrder voids all pending entries attributed to an order.
	// Returns the number of entries cancelled.
	CancelForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error)

	// CountForTenant counts entries for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
