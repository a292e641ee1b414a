package billing

import (
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Invoice
const AggregateTypeInvoice = "Invoice"

// Event type constants for Invoice
const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"
)

// InvoiceCreatedEvent is published when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID    uuid.UUID  `json:"invoice_id"`
	QuotationID  *uuid.UUID `json:"quotation_id,omitempty"`
	SupplierID   uuid.UUID  `json:"supplier_id"`
	SupplierName string     `json:"supplier_name"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		QuotationID:     inv.QuotationID,
		SupplierID:      inv.SupplierID,
		SupplierName:    inv.SupplierName,
	}
}

// InvoiceStatusChangedEvent is published when an invoice's status changes
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID     `json:"invoice_id"`
	OldStatus InvoiceStatus `json:"old_status"`
	NewStatus InvoiceStatus `json:"new_status"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, oldStatus, newStatus InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
