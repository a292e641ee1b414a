package sales

import (
	"context"

	"github.com/distributor/backend/internal/domain/sales"
	"github.com/distributor/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderActivityHandler writes an activity record for each order
// lifecycle event, giving operations a tenant-scoped audit trail in the
// structured logs
type OrderActivityHandler struct {
	logger *zap.Logger
}

// NewOrderActivityHandler creates a new order activity handler
func NewOrderActivityHandler(logger *zap.Logger) *OrderActivityHandler {
	return &OrderActivityHandler{logger: logger.Named("order_activity")}
}

// EventTypes returns the order events this handler subscribes to
func (h *OrderActivityHandler) EventTypes() []string {
	return []string{
		sales.EventTypeOrderSubmitted,
		sales.EventTypeOrderStatusChanged,
	}
}

// Handle records the activity entry
func (h *OrderActivityHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.OrderSubmittedEvent:
		h.logger.Info("order activity: submitted",
			zap.String("tenant_id", e.TenantID().String()),
			zap.String("order_id", e.OrderID.String()),
			zap.String("order_number", e.OrderNumber),
			zap.String("buyer_id", e.BuyerID.String()),
			zap.Int("item_count", e.ItemCount),
			zap.String("total_amount", e.TotalAmount.String()))
	case *sales.OrderStatusChangedEvent:
		h.logger.Info("order activity: status changed",
			zap.String("tenant_id", e.TenantID().String()),
			zap.String("order_id", e.OrderID.String()),
			zap.String("old_status", string(e.OldStatus)),
			zap.String("new_status", string(e.NewStatus)))
	default:
		h.logger.Debug("order activity: unhandled event type",
			zap.String("event_type", event.EventType()))
	}
	return nil
}
