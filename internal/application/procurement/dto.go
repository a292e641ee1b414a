package procurement

import (
	"time"

	"github.com/distributor/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationStatus is derived, not stored: a quotation is PENDING until
// an invoice is raised against it, COMPLETED after.
type QuotationStatus string

const (
	QuotationStatusPending   QuotationStatus = "PENDING"
	QuotationStatusCompleted QuotationStatus = "COMPLETED"
)

// ===== Quotation DTOs =====

// CreateQuotationItemRequest is one priced line of a new quotation
type CreateQuotationItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required,min=0"`
	QuotedPrice decimal.Decimal `json:"quoted_price" binding:"required"`
}

// CreateQuotationRequest represents a request to create a quotation
type CreateQuotationRequest struct {
	SupplierID         uuid.UUID                    `json:"supplier_id" binding:"required"`
	DateQuoted         *time.Time                   `json:"date_quoted"`
	TransportationCost decimal.Decimal              `json:"transportation_cost"`
	Notes              string                       `json:"notes"`
	Items              []CreateQuotationItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateQuotationRequest represents a request to update a quotation header
type UpdateQuotationRequest struct {
	DateQuoted         *time.Time       `json:"date_quoted"`
	TransportationCost *decimal.Decimal `json:"transportation_cost"`
	Notes              *string          `json:"notes"`
}

// UpsertQuotationItemRequest adds or updates a quotation line
type UpsertQuotationItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required,min=0"`
	QuotedPrice decimal.Decimal `json:"quoted_price" binding:"required"`
}

// QuotationItemResponse is one line of a quotation with its derived
// cost breakdown: transport share, and landed cost per unit
type QuotationItemResponse struct {
	ID                   uuid.UUID       `json:"id"`
	ProductID            uuid.UUID       `json:"product_id"`
	ProductName          string          `json:"product_name"`
	Quantity             int64           `json:"quantity"`
	QuotedPrice          decimal.Decimal `json:"quoted_price"`
	TotalItemPrice       decimal.Decimal `json:"total_item_price"`
	TransportShare       decimal.Decimal `json:"transport_share"`
	TransportCostPerUnit decimal.Decimal `json:"transport_cost_per_unit"`
	LandedCostPerUnit    decimal.Decimal `json:"landed_cost_per_unit"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID                 uuid.UUID               `json:"id"`
	QuotationNumber    string                  `json:"quotation_number"`
	SupplierID         uuid.UUID               `json:"supplier_id"`
	SupplierName       string                  `json:"supplier_name"`
	Status             QuotationStatus         `json:"status"`
	DateQuoted         time.Time               `json:"date_quoted"`
	TransportationCost decimal.Decimal         `json:"transportation_cost"`
	TotalValue         decimal.Decimal         `json:"total_value"`
	TotalLandedCost    decimal.Decimal         `json:"total_landed_cost"`
	Notes              string                  `json:"notes"`
	Items              []QuotationItemResponse `json:"items"`
	Version            int                     `json:"version"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// QuotationListResponse represents a quotation in list responses
type QuotationListResponse struct {
	ID                 uuid.UUID       `json:"id"`
	QuotationNumber    string          `json:"quotation_number"`
	SupplierID         uuid.UUID       `json:"supplier_id"`
	SupplierName       string          `json:"supplier_name"`
	Status             QuotationStatus `json:"status"`
	DateQuoted         time.Time       `json:"date_quoted"`
	TransportationCost decimal.Decimal `json:"transportation_cost"`
	TotalValue         decimal.Decimal `json:"total_value"`
	ItemCount          int             `json:"item_count"`
	CreatedAt          time.Time       `json:"created_at"`
}

// QuotationListFilter represents filters for listing quotations
type QuotationListFilter struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToQuotationResponse converts a domain quotation to a response DTO,
// computing the cost breakdown for each line
func ToQuotationResponse(q *procurement.Quotation, invoiced bool) QuotationResponse {
	status := QuotationStatusPending
	if invoiced {
		status = QuotationStatusCompleted
	}

	items := make([]QuotationItemResponse, 0, len(q.Items))
	for i := range q.Items {
		item := &q.Items[i]
		items = append(items, QuotationItemResponse{
			ID:                   item.ID,
			ProductID:            item.ProductID,
			ProductName:          item.ProductName,
			Quantity:             item.Quantity,
			QuotedPrice:          item.QuotedPrice,
			TotalItemPrice:       item.TotalItemPrice(),
			TransportShare:       q.TransportShareFor(item),
			TransportCostPerUnit: q.TransportCostPerUnitFor(item),
			LandedCostPerUnit:    q.LandedCostPerUnitFor(item),
		})
	}

	return QuotationResponse{
		ID:                 q.ID,
		QuotationNumber:    q.QuotationNumber,
		SupplierID:         q.SupplierID,
		SupplierName:       q.SupplierName,
		Status:             status,
		DateQuoted:         q.DateQuoted,
		TransportationCost: q.TransportationCost,
		TotalValue:         q.TotalValue(),
		TotalLandedCost:    q.TotalLandedCost(),
		Notes:              q.Notes,
		Items:              items,
		Version:            q.Version,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

// ToQuotationListResponse converts a domain quotation to a list item DTO
func ToQuotationListResponse(q *procurement.Quotation, invoiced bool) QuotationListResponse {
	status := QuotationStatusPending
	if invoiced {
		status = QuotationStatusCompleted
	}
	return QuotationListResponse{
		ID:                 q.ID,
		QuotationNumber:    q.QuotationNumber,
		SupplierID:         q.SupplierID,
		SupplierName:       q.SupplierName,
		Status:             status,
		DateQuoted:         q.DateQuoted,
		TransportationCost: q.TransportationCost,
		TotalValue:         q.TotalValue(),
		ItemCount:          q.ItemCount(),
		CreatedAt:          q.CreatedAt,
	}
}
