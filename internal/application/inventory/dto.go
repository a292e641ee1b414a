package inventory

import (
	"time"

	"github.com/distributor/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// ===== Inventory batch DTOs =====

// ReceiveGoodsRequest records a delivery against an invoice line
type ReceiveGoodsRequest struct {
	InvoiceID     uuid.UUID  `json:"invoice_id" binding:"required"`
	InvoiceItemID uuid.UUID  `json:"invoice_item_id" binding:"required"`
	BatchNumber   string     `json:"batch_number" binding:"required,min=1,max=100"`
	Quantity      int64      `json:"quantity" binding:"required,min=1"`
	ReceivedDate  *time.Time `json:"received_date"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	Notes         string     `json:"notes"`
}

// CreateBatchRequest records stock that arrived outside any invoice,
// traced directly to the quotation that priced it
type CreateBatchRequest struct {
	ProductID    uuid.UUID  `json:"product_id" binding:"required"`
	QuotationID  uuid.UUID  `json:"quotation_id" binding:"required"`
	SupplierID   *uuid.UUID `json:"supplier_id"`
	BatchNumber  string     `json:"batch_number" binding:"required,min=1,max=100"`
	Quantity     int64      `json:"quantity" binding:"required,min=1"`
	ReceivedDate *time.Time `json:"received_date"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Notes        string     `json:"notes"`
}

// BatchResponse represents an inventory batch in API responses
type BatchResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	SupplierID    *uuid.UUID `json:"supplier_id,omitempty"`
	QuotationID   uuid.UUID  `json:"quotation_id"`
	InvoiceItemID *uuid.UUID `json:"invoice_item_id,omitempty"`
	BatchNumber   string     `json:"batch_number"`
	Quantity      int64      `json:"quantity"`
	ReceivedDate  time.Time  `json:"received_date"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ReceiveGoodsResponse reports the outcome of a goods receipt: the
// batch recorded and the invoice line's refreshed receiving progress
type ReceiveGoodsResponse struct {
	Batch             BatchResponse `json:"batch"`
	InvoiceItemID     uuid.UUID     `json:"invoice_item_id"`
	QuantityReceived  int64         `json:"quantity_received"`
	QuantityRemaining int64         `json:"quantity_remaining"`
	FullyReceived     bool          `json:"fully_received"`
	InvoiceStatus     string        `json:"invoice_status"`
}

// StockResponse reports stock on hand for a product
type StockResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	StockOnHand int64     `json:"stock_on_hand"`
}

// BatchListFilter represents filters for listing batches
type BatchListFilter struct {
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search        string     `form:"search"`
	ProductID     *uuid.UUID `form:"product_id"`
	SupplierID    *uuid.UUID `form:"supplier_id"`
	QuotationID   *uuid.UUID `form:"quotation_id"`
	InvoiceItemID *uuid.UUID `form:"invoice_item_id"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToBatchResponse converts a domain batch to a response DTO
func ToBatchResponse(b *inventory.InventoryBatch) BatchResponse {
	return BatchResponse{
		ID:            b.ID,
		ProductID:     b.ProductID,
		SupplierID:    b.SupplierID,
		QuotationID:   b.QuotationID,
		InvoiceItemID: b.InvoiceItemID,
		BatchNumber:   b.BatchNumber,
		Quantity:      b.Quantity,
		ReceivedDate:  b.ReceivedDate,
		ExpiryDate:    b.ExpiryDate,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
	}
}
