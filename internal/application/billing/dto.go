package billing

import (
	"time"

	"github.com/distributor/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===== Invoice DTOs =====

// CreateInvoiceItemRequest is one billed line of a standalone invoice
type CreateInvoiceItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Description string          `json:"description" binding:"max=200"`
	Quantity    int64           `json:"quantity" binding:"required,min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateInvoiceRequest represents a request to create a standalone
// invoice, not backed by a quotation
type CreateInvoiceRequest struct {
	SupplierID         uuid.UUID                  `json:"supplier_id" binding:"required"`
	DateIssued         *time.Time                 `json:"date_issued"`
	TransportationCost decimal.Decimal            `json:"transportation_cost"`
	Notes              string                     `json:"notes"`
	Items              []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateInvoiceFromQuotationRequest converts a quotation into an invoice
type CreateInvoiceFromQuotationRequest struct {
	QuotationID uuid.UUID `json:"quotation_id" binding:"required"`
}

// UpdateInvoiceStatusRequest moves an invoice to a new lifecycle state
type UpdateInvoiceStatusRequest struct {
	Status      billing.InvoiceStatus `json:"status" binding:"required"`
	PaymentDate *time.Time            `json:"payment_date"`
}

// InvoiceItemResponse is one billed line with its receiving progress
type InvoiceItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	Description       string          `json:"description"`
	Quantity          int64           `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	QuantityReceived  int64           `json:"quantity_received"`
	QuantityRemaining int64           `json:"quantity_remaining"`
	FullyReceived     bool            `json:"fully_received"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                 uuid.UUID             `json:"id"`
	InvoiceNumber      string                `json:"invoice_number"`
	QuotationID        *uuid.UUID            `json:"quotation_id,omitempty"`
	SupplierID         uuid.UUID             `json:"supplier_id"`
	SupplierName       string                `json:"supplier_name"`
	Status             billing.InvoiceStatus `json:"status"`
	DateIssued         time.Time             `json:"date_issued"`
	PaymentDate        *time.Time            `json:"payment_date,omitempty"`
	TransportationCost decimal.Decimal       `json:"transportation_cost"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	TotalAmount        decimal.Decimal       `json:"total_amount"`
	Notes              string                `json:"notes"`
	Items              []InvoiceItemResponse `json:"items"`
	Version            int                   `json:"version"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// InvoiceListResponse represents an invoice in list responses
type InvoiceListResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	QuotationID   *uuid.UUID            `json:"quotation_id,omitempty"`
	SupplierID    uuid.UUID             `json:"supplier_id"`
	SupplierName  string                `json:"supplier_name"`
	Status        billing.InvoiceStatus `json:"status"`
	DateIssued    time.Time             `json:"date_issued"`
	PaymentDate   *time.Time            `json:"payment_date,omitempty"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	CreatedAt     time.Time             `json:"created_at"`
}

// InvoiceListFilter represents filters for listing invoices
type InvoiceListFilter struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		items = append(items, InvoiceItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			Description:       item.Description,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			TotalPrice:        item.TotalPrice(),
			QuantityReceived:  item.QuantityReceived,
			QuantityRemaining: item.QuantityRemaining(),
			FullyReceived:     item.IsFullyReceived(),
		})
	}

	return InvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		QuotationID:        inv.QuotationID,
		SupplierID:         inv.SupplierID,
		SupplierName:       inv.SupplierName,
		Status:             inv.Status,
		DateIssued:         inv.DateIssued,
		PaymentDate:        inv.PaymentDate,
		TransportationCost: inv.TransportationCost,
		Subtotal:           inv.Subtotal(),
		TotalAmount:        inv.TotalAmount(),
		Notes:              inv.Notes,
		Items:              items,
		Version:            inv.Version,
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
	}
}

// ToInvoiceListResponse converts a domain invoice to a list item DTO
func ToInvoiceListResponse(inv *billing.Invoice) InvoiceListResponse {
	return InvoiceListResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		QuotationID:   inv.QuotationID,
		SupplierID:    inv.SupplierID,
		SupplierName:  inv.SupplierName,
		Status:        inv.Status,
		DateIssued:    inv.DateIssued,
		PaymentDate:   inv.PaymentDate,
		TotalAmount:   inv.TotalAmount(),
		CreatedAt:     inv.CreatedAt,
	}
}
