package inventory

import (
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for InventoryBatch
const AggregateTypeInventoryBatch = "InventoryBatch"

// Event type constants for InventoryBatch
const (
	EventTypeStockReceived = "StockReceived"
)

// StockReceivedEvent is published when goods arrive into inventory
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	BatchID     uuid.UUID `json:"batch_id"`
	ProductID   uuid.UUID `json:"product_id"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int64     `json:"quantity"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(b *InventoryBatch) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeInventoryBatch, b.ID, b.TenantID),
		BatchID:         b.ID,
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
		Quantity:        b.Quantity,
	}
}
