package commission

import (
	"time"

	"github.com/distributor/backend/internal/domain/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===== Commission DTOs =====

// PayoutRequest settles a batch of pending ledger entries
type PayoutRequest struct {
	EntryIDs []uuid.UUID `json:"entry_ids" binding:"required,min=1"`
	PaidAt   *time.Time  `json:"paid_at"`
}

// PayoutResponse reports how the batch settled: entries already paid
// or cancelled are skipped, not errored
type PayoutResponse struct {
	Requested int64     `json:"requested"`
	Paid      int64     `json:"paid"`
	Skipped   int64     `json:"skipped"`
	PaidAt    time.Time `json:"paid_at"`
}

// LedgerEntryResponse represents a commission entry in API responses
type LedgerEntryResponse struct {
	ID          uuid.UUID               `json:"id"`
	AgentID     uuid.UUID               `json:"agent_id"`
	AgentName   string                  `json:"agent_name"`
	OrderID     uuid.UUID               `json:"order_id"`
	OrderItemID uuid.UUID               `json:"order_item_id"`
	Rate        decimal.Decimal         `json:"rate"`
	Amount      decimal.Decimal         `json:"amount"`
	Status      commission.LedgerStatus `json:"status"`
	PaidAt      *time.Time              `json:"paid_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// LedgerSummaryResponse aggregates a filtered slice of the ledger
type LedgerSummaryResponse struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	EntryCount     int64           `json:"entry_count"`
	DistinctOrders int64           `json:"distinct_orders"`
}

// LedgerListFilter represents filters for listing ledger entries
type LedgerListFilter struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	AgentID  *uuid.UUID `form:"agent_id"`
	OrderID  *uuid.UUID `form:"order_id"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToLedgerEntryResponse converts a domain ledger entry to a response DTO
func ToLedgerEntryResponse(e *commission.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          e.ID,
		AgentID:     e.AgentID,
		AgentName:   e.AgentName,
		OrderID:     e.OrderID,
		OrderItemID: e.OrderItemID,
		Rate:        e.Rate,
		Amount:      e.Amount,
		Status:      e.Status,
		PaidAt:      e.PaidAt,
		CreatedAt:   e.CreatedAt,
	}
}
