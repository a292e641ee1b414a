package sales

import (
	"time"

	"github.com/distributor/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===== Order DTOs =====

// SubmitOrderItemRequest is one requested line of an order
type SubmitOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// SubmitOrderRequest represents an order submission. The submission
// token makes the call safe to retry: a replay with the same token
// returns the order created the first time.
type SubmitOrderRequest struct {
	BuyerID         uuid.UUID                `json:"buyer_id" binding:"required"`
	SubmissionToken string                   `json:"submission_token" binding:"max=100"`
	Notes           string                   `json:"notes"`
	Items           []SubmitOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest advances an order along the fulfilment path.
// Force bypasses the one-step transition rule for staff corrections.
type UpdateOrderStatusRequest struct {
	Status sales.OrderStatus `json:"status" binding:"required"`
	Force  bool              `json:"force"`
}

// OrderItemResponse is one purchased line with its frozen snapshots
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int64           `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	LandedCost   decimal.Decimal `json:"landed_cost"`
	Profit       decimal.Decimal `json:"profit"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// OrderResponse represents an order in API responses. Replayed is true
// when the submission token matched an order created earlier.
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	BuyerID         uuid.UUID           `json:"buyer_id"`
	BuyerName       string              `json:"buyer_name"`
	Status          sales.OrderStatus   `json:"status"`
	SubmissionToken string              `json:"submission_token,omitempty"`
	Notes           string              `json:"notes"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	TotalProfit     decimal.Decimal     `json:"total_profit"`
	Items           []OrderItemResponse `json:"items"`
	CommissionCount int                 `json:"commission_count"`
	Replayed        bool                `json:"replayed,omitempty"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListResponse represents an order in list responses
type OrderListResponse struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber string            `json:"order_number"`
	BuyerID     uuid.UUID         `json:"buyer_id"`
	BuyerName   string            `json:"buyer_name"`
	Status      sales.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	ItemCount   int               `json:"item_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

// OrderListFilter represents filters for listing orders
type OrderListFilter struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	BuyerID  *uuid.UUID `form:"buyer_id"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			SellingPrice: item.SellingPrice,
			LandedCost:   item.LandedCost,
			Profit:       item.Profit,
			TotalPrice:   item.TotalPrice(),
		})
	}

	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		BuyerID:         o.BuyerID,
		BuyerName:       o.BuyerName,
		Status:          o.Status,
		SubmissionToken: o.SubmissionToken,
		Notes:           o.Notes,
		TotalAmount:     o.TotalAmount(),
		TotalProfit:     o.TotalProfit(),
		Items:           items,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderListResponse converts a domain order to a list item DTO
func ToOrderListResponse(o *sales.Order) OrderListResponse {
	return OrderListResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		BuyerID:     o.BuyerID,
		BuyerName:   o.BuyerName,
		Status:      o.Status,
		TotalAmount: o.TotalAmount(),
		ItemCount:   len(o.Items),
		CreatedAt:   o.CreatedAt,
	}
}
