package partner

import (
	"time"

	"github.com/distributor/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// ===== Supplier DTOs =====

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code          string `json:"code" binding:"required,min=1,max=50"`
	Name          string `json:"name" binding:"required,min=1,max=200"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Phone         string `json:"phone" binding:"max=50"`
	Email         string `json:"email" binding:"omitempty,email,max=200"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=100"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Email         *string `json:"email" binding:"omitempty,email,max=200"`
	Address       *string `json:"address"`
	Notes         *string `json:"notes"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID              `json:"id"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Status        partner.SupplierStatus `json:"status"`
	ContactPerson string                 `json:"contact_person"`
	Phone         string                 `json:"phone"`
	Email         string                 `json:"email"`
	Address       string                 `json:"address"`
	Notes         string                 `json:"notes"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// SupplierListResponse represents a supplier in list responses
type SupplierListResponse struct {
	ID            uuid.UUID              `json:"id"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Status        partner.SupplierStatus `json:"status"`
	ContactPerson string                 `json:"contact_person"`
	Phone         string                 `json:"phone"`
	CreatedAt     time.Time              `json:"created_at"`
}

// SupplierListFilter represents filters for listing suppliers
type SupplierListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Code     string `form:"code"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToSupplierResponse converts a domain supplier to a response DTO
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		Status:        s.Status,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		Notes:         s.Notes,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToSupplierListResponse converts a domain supplier to a list item DTO
func ToSupplierListResponse(s *partner.Supplier) SupplierListResponse {
	return SupplierListResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		Status:        s.Status,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		CreatedAt:     s.CreatedAt,
	}
}
