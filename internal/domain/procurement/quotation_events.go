package procurement

import (
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Quotation
const AggregateTypeQuotation = "Quotation"

// Event type constants for Quotation
const (
	EventTypeQuotationCreated = "QuotationCreated"
)

// QuotationCreatedEvent is published when a new quotation is recorded
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID  uuid.UUID `json:"quotation_id"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, q.ID, q.TenantID),
		QuotationID:     q.ID,
		SupplierID:      q.SupplierID,
		SupplierName:    q.SupplierName,
	}
}
