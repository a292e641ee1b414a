package handler

import (
	"context"

	"github.com/distributor/backend/internal/application/partner"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SupplierHandler handles supplier management routes
type SupplierHandler struct {
	BaseHandler
	service *partner.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(service *partner.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

// RegisterRoutes registers supplier routes. Supplier management is a
// back-office concern, so the whole group is staff-only.
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/suppliers", middleware.StaffOnly())
	{
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.POST("/:id/activate", h.Activate)
		g.POST("/:id/deactivate", h.Deactivate)
	}
}

// Create creates a new supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req partner.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateSupplier(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a supplier by ID
func (h *SupplierHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	resp, err := h.service.GetSupplier(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns suppliers matching the filter
func (h *SupplierHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter partner.SupplierListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	suppliers, total, err := h.service.ListSuppliers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, suppliers, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// Update updates a supplier
func (h *SupplierHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req partner.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateSupplier(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate reactivates a supplier
func (h *SupplierHandler) Activate(c *gin.Context) {
	h.transition(c, h.service.ActivateSupplier)
}

// Deactivate deactivates a supplier, blocking new quotations against it
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.service.DeactivateSupplier)
}

// Delete removes a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.service.DeleteSupplier(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *SupplierHandler) transition(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*partner.SupplierResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	resp, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
