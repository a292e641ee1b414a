package billing

import (
	"strings"
	"time"

	"github.com/distributor/backend/internal/domain/procurement"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of a purchase invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft             InvoiceStatus = "DRAFT"
	InvoiceStatusSent              InvoiceStatus = "SENT"
	InvoiceStatusPaid              InvoiceStatus = "PAID"
	InvoiceStatusPartiallyReceived InvoiceStatus = "PARTIALLY_RECEIVED"
	InvoiceStatusFullyReceived     InvoiceStatus = "FULLY_RECEIVED"
	InvoiceStatusCancelled         InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusPartiallyReceived, InvoiceStatusFullyReceived, InvoiceStatusCancelled:
		return true
	}
	return false
}

// receiveStatusMutable reports whether goods-receipt progress may move
// this status. Cancelled and fully received invoices are settled; the
// receive rollup never touches them.
func (s InvoiceStatus) receiveStatusMutable() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusPartiallyReceived:
		return true
	}
	return false
}

// Invoice is the billing document raised against a quotation (or
// entered standalone) that tracks payment and goods receipt. Receiving
// progress rolls up from its items: quantities received against lines
// drive PARTIALLY_RECEIVED / FULLY_RECEIVED.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	QuotationID        *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_invoice_quotation"`
	SupplierID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierName       string          `gorm:"type:varchar(200);not null"`
	Status             InvoiceStatus   `gorm:"type:varchar(30);not null;default:'DRAFT'"`
	DateIssued         time.Time       `gorm:"not null;index"`
	PaymentDate        *time.Time      `gorm:""`
	TransportationCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes              string          `gorm:"type:text"`
	Items              []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
}

// InvoiceItem is one billed line of an invoice. QuantityReceived is
// never set by hand: it is recomputed as the sum of inventory batches
// linked to the line, so repeated recomputation is idempotent.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description      string          `gorm:"type:varchar(200);not null"`
	Quantity         int64           `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityReceived int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoice creates a new standalone invoice
func NewInvoice(tenantID, supplierID uuid.UUID, supplierName string, dateIssued time.Time, transportationCost decimal.Decimal) (*Invoice, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name is required")
	}
	if transportationCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TRANSPORT_COST", "Transportation cost cannot be negative")
	}
	if dateIssued.IsZero() {
		dateIssued = time.Now()
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		Status:              InvoiceStatusDraft,
		DateIssued:          dateIssued,
		TransportationCost:  transportationCost,
		Items:               make([]InvoiceItem, 0),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// NewInvoiceFromQuotation converts an accepted quotation into an
// invoice: supplier, transport charge and notes carry over, and each
// quotation line becomes a billed line with the product name as its
// description. Enforcing at most one invoice per quotation is left to
// the unique constraint and the pre-check in the application layer.
func NewInvoiceFromQuotation(q *procurement.Quotation) (*Invoice, error) {
	inv, err := NewInvoice(q.TenantID, q.SupplierID, q.SupplierName, time.Now(), q.TransportationCost)
	if err != nil {
		return nil, err
	}
	inv.QuotationID = &q.ID
	inv.Notes = q.Notes
	for i := range q.Items {
		qi := &q.Items[i]
		if _, err := inv.AddItem(qi.ProductID, qi.ProductName, qi.Quantity, qi.QuotedPrice); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// AddItem appends a billed line to the invoice
func (inv *Invoice) AddItem(productID uuid.UUID, description string, quantity int64, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	item := InvoiceItem{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   inv.ID,
		TenantID:    inv.TenantID,
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	inv.Items = append(inv.Items, item)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return &inv.Items[len(inv.Items)-1], nil
}

// FindItem returns the item with the given ID, or nil
func (inv *Invoice) FindItem(itemID uuid.UUID) *InvoiceItem {
	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			return &inv.Items[i]
		}
	}
	return nil
}

// Subtotal returns the goods value of the invoice, before transport
func (inv *Invoice) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range inv.Items {
		total = total.Add(inv.Items[i].TotalPrice())
	}
	return total
}

// TotalAmount returns the goods value plus the transportation charge
func (inv *Invoice) TotalAmount() decimal.Decimal {
	return inv.Subtotal().Add(inv.TransportationCost)
}

// SetStatus moves the invoice to the given status. Entering PAID stamps
// the payment date (now, unless one is supplied); leaving PAID clears
// it, so the date never refers to a payment that is no longer recorded.
func (inv *Invoice) SetStatus(status InvoiceStatus, paymentDate *time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown invoice status: "+string(status))
	}

	old := inv.Status
	inv.Status = status

	if status == InvoiceStatusPaid {
		if paymentDate != nil {
			inv.PaymentDate = paymentDate
		} else if inv.PaymentDate == nil {
			now := time.Now()
			inv.PaymentDate = &now
		}
	} else if old == InvoiceStatusPaid {
		inv.PaymentDate = nil
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	if old != status {
		inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, old, status))
	}
	return nil
}

// Cancel voids the invoice. A cancelled invoice is frozen: goods
// receipt no longer moves its status.
func (inv *Invoice) Cancel() error {
	if inv.Status == InvoiceStatusCancelled {
		return nil
	}
	return inv.SetStatus(InvoiceStatusCancelled, nil)
}

// RefreshReceiveStatus rolls the invoice status forward from receiving
// progress on its items. It only ever acts while the invoice is in a
// pre-settlement state: CANCELLED and FULLY_RECEIVED are never
// overridden, and an invoice with no received goods keeps its status.
func (inv *Invoice) RefreshReceiveStatus() {
	if !inv.Status.receiveStatusMutable() {
		return
	}
	if len(inv.Items) == 0 {
		return
	}

	allReceived := true
	anyReceived := false
	for i := range inv.Items {
		if !inv.Items[i].IsFullyReceived() {
			allReceived = false
		}
		if inv.Items[i].QuantityReceived > 0 {
			anyReceived = true
		}
	}

	old := inv.Status
	switch {
	case allReceived:
		inv.Status = InvoiceStatusFullyReceived
	case anyReceived:
		inv.Status = InvoiceStatusPartiallyReceived
	default:
		return
	}

	if old != inv.Status {
		inv.UpdatedAt = time.Now()
		inv.IncrementVersion()
		inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, old, inv.Status))
	}
}

// TotalPrice returns quantity times unit price for this line
func (ii *InvoiceItem) TotalPrice() decimal.Decimal {
	return ii.UnitPrice.Mul(decimal.NewFromInt(ii.Quantity))
}

// IsFullyReceived returns true once the received quantity covers the
// billed quantity
func (ii *InvoiceItem) IsFullyReceived() bool {
	return ii.QuantityReceived >= ii.Quantity
}

// QuantityRemaining returns the quantity still expected
func (ii *InvoiceItem) QuantityRemaining() int64 {
	remaining := ii.Quantity - ii.QuantityReceived
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SetQuantityReceived replaces the received quantity with a freshly
// computed batch total. Always an absolute assignment, never an
// increment: recomputing from the same batches is a no-op.
func (ii *InvoiceItem) SetQuantityReceived(total int64) error {
	if total < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
	}
	ii.QuantityReceived = total
	ii.UpdatedAt = time.Now()
	return nil
}
