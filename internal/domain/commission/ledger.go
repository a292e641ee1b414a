package commission

import (
	"time"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerStatus represents the payout state of a commission entry
type LedgerStatus string

const (
	LedgerStatusPending   LedgerStatus = "PENDING"
	LedgerStatusPaid      LedgerStatus = "PAID"
	LedgerStatusCancelled LedgerStatus = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s LedgerStatus) IsValid() bool {
	switch s {
	case LedgerStatusPending, LedgerStatusPaid, LedgerStatusCancelled:
		return true
	}
	return false
}

// LedgerEntry is one earned commission: an amount owed to an agent for
// one sold order line. The order item reference is unique, which makes
// the database the final guarantor that a line is never commissioned
// twice.
type LedgerEntry struct {
	shared.TenantAggregateRoot
	AgentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AgentName   string          `gorm:"type:varchar(200);not null"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_order_item"`
	Rate        decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status      LedgerStatus    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaidAt      *time.Time      `gorm:""`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "commission_ledger"
}

// NewLedgerEntry creates a pending commission entry
func NewLedgerEntry(tenantID, agentID uuid.UUID, agentName string, orderID, orderItemID uuid.UUID, rate, amount decimal.Decimal) (*LedgerEntry, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent is required")
	}
	if orderID == uuid.Nil || orderItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order and order item references are required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Commission amount must be positive")
	}

	return &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AgentID:             agentID,
		AgentName:           agentName,
		OrderID:             orderID,
		OrderItemID:         orderItemID,
		Rate:                rate,
		Amount:              amount,
		Status:              LedgerStatusPending,
	}, nil
}

// MarkPaid settles the entry. Only pending entries can be paid.
func (e *LedgerEntry) MarkPaid(paidAt time.Time) error {
	if e.Status != LedgerStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending commission can be paid")
	}
	e.Status = LedgerStatusPaid
	e.PaidAt = &paidAt
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// Cancel voids a pending entry, typically because its order was
// cancelled. Paid entries are left alone: money already out the door is
// a clawback conversation, not a status flip.
func (e *LedgerEntry) Cancel() error {
	if e.Status == LedgerStatusCancelled {
		return nil
	}
	if e.Status != LedgerStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending commission can be cancelled")
	}
	e.Status = LedgerStatusCancelled
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}
