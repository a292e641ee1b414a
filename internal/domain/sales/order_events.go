package sales

import (
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Order
const AggregateTypeOrder = "Order"

// Event type constants for Order
const (
	EventTypeOrderSubmitted     = "OrderSubmitted"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderSubmittedEvent is published when an order is submitted
type OrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	BuyerID     uuid.UUID       `json:"buyer_id"`
	ItemCount   int             `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderSubmittedEvent creates a new OrderSubmittedEvent
func NewOrderSubmittedEvent(o *Order) *OrderSubmittedEvent {
	return &OrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSubmitted, AggregateTypeOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		ItemCount:       len(o.Items),
		TotalAmount:     o.TotalAmount(),
	}
}

// OrderStatusChangedEvent is published when an order's status changes
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID   `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
