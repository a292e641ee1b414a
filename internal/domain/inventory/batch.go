package inventory

import (
	"time"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryBatch records one physical receipt of goods: a quantity of a
// product that arrived on a date, traced back to the quotation that
// priced it and, when received against a bill, the invoice line it
// fulfils. Stock on hand for a product is the sum of its batches.
type InventoryBatch struct {
	shared.TenantAggregateRoot
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	SupplierID    *uuid.UUID `gorm:"type:uuid;index"`
	QuotationID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	InvoiceItemID *uuid.UUID `gorm:"type:uuid;index"`
	BatchNumber   string     `gorm:"type:varchar(100);not null;index"`
	Quantity      int64      `gorm:"not null"`
	ReceivedDate  time.Time  `gorm:"not null;index"`
	ExpiryDate    *time.Time `gorm:""`
	Notes         string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InventoryBatch) TableName() string {
	return "inventory_batches"
}

// NewInventoryBatch creates a new inventory batch
func NewInventoryBatch(tenantID, productID, quotationID uuid.UUID, batchNumber string, quantity int64, receivedDate time.Time) (*InventoryBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if quotationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_QUOTATION", "Quotation reference is required")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if receivedDate.IsZero() {
		receivedDate = time.Now()
	}

	batch := &InventoryBatch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		QuotationID:         quotationID,
		BatchNumber:         batchNumber,
		Quantity:            quantity,
		ReceivedDate:        receivedDate,
	}

	batch.AddDomainEvent(NewStockReceivedEvent(batch))

	return batch, nil
}

// LinkInvoiceItem ties the batch to the invoice line it fulfils
func (b *InventoryBatch) LinkInvoiceItem(invoiceItemID uuid.UUID) {
	b.InvoiceItemID = &invoiceItemID
	b.UpdatedAt = time.Now()
}

// SetSupplier records which supplier the goods came from
func (b *InventoryBatch) SetSupplier(supplierID uuid.UUID) {
	b.SupplierID = &supplierID
	b.UpdatedAt = time.Now()
}

// SetExpiry records the batch expiry date
func (b *InventoryBatch) SetExpiry(expiry time.Time) error {
	if expiry.Before(b.ReceivedDate) {
		return shared.NewDomainError("INVALID_EXPIRY", "Expiry date cannot precede the received date")
	}
	b.ExpiryDate = &expiry
	b.UpdatedAt = time.Now()
	return nil
}

// IsExpired reports whether the batch has passed its expiry date
func (b *InventoryBatch) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}
