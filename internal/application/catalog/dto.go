package catalog

import (
	"time"

	"github.com/distributor/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===== Product DTOs =====

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required,min=1,max=64"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Description  string          `json:"description"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
	MembersOnly  bool            `json:"members_only"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	MembersOnly  *bool            `json:"members_only"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MembersOnly  bool            `json:"members_only"`
	IsActive     bool            `json:"is_active"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse represents a product in list responses
type ProductListResponse struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MembersOnly  bool            `json:"members_only"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ProductListFilter represents filters for listing products
type ProductListFilter struct {
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search      string `form:"search"`
	IsActive    *bool  `form:"is_active"`
	MembersOnly *bool  `form:"members_only"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ProductCostResponse carries the derived acquisition cost of a product.
// All monetary figures come from the most recent quotation that priced
// the product; Quoted is false when no quotation ever has.
type ProductCostResponse struct {
	ProductID            uuid.UUID       `json:"product_id"`
	Quoted               bool            `json:"quoted"`
	QuotationID          *uuid.UUID      `json:"quotation_id,omitempty"`
	QuotationNumber      string          `json:"quotation_number,omitempty"`
	SupplierID           *uuid.UUID      `json:"supplier_id,omitempty"`
	SupplierName         string          `json:"supplier_name,omitempty"`
	DateQuoted           *time.Time      `json:"date_quoted,omitempty"`
	QuotedPrice          decimal.Decimal `json:"quoted_price"`
	TransportCostPerUnit decimal.Decimal `json:"transport_cost_per_unit"`
	LandedCostPerUnit    decimal.Decimal `json:"landed_cost_per_unit"`
	StockOnHand          int64           `json:"stock_on_hand"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		SellingPrice: p.SellingPrice,
		MembersOnly:  p.MembersOnly,
		IsActive:     p.IsActive,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToProductListResponse converts a domain product to a list item DTO
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		SellingPrice: p.SellingPrice,
		MembersOnly:  p.MembersOnly,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}
