package handler

import (
	"github.com/distributor/backend/internal/application/procurement"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuotationHandler handles supplier quotation routes
type QuotationHandler struct {
	BaseHandler
	service *procurement.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(service *procurement.QuotationService) *QuotationHandler {
	return &QuotationHandler{service: service}
}

// RegisterRoutes registers quotation routes
func (h *QuotationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/quotations", middleware.StaffOnly())
	{
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.PUT("/:id/items", h.UpsertItem)
		g.DELETE("/:id/items/:itemId", h.RemoveItem)
	}
}

// Create creates a new quotation with its line items. Transport cost is
// allocated across the lines pro rata by goods value.
func (h *QuotationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req procurement.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateQuotation(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a quotation with its cost breakdown
func (h *QuotationHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	resp, err := h.service.GetQuotation(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns quotations matching the filter
func (h *QuotationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter procurement.QuotationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	quotations, total, err := h.service.ListQuotations(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotations, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// Update updates a quotation's header fields and reallocates transport
func (h *QuotationHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req procurement.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateQuotation(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpsertItem adds a line to the quotation, or replaces the existing line
// for the same product
func (h *QuotationHandler) UpsertItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req procurement.UpsertQuotationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpsertItem(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem removes a line from the quotation
func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	resp, err := h.service.RemoveItem(c.Request.Context(), tenantID, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a quotation that has not been invoiced
func (h *QuotationHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	if err := h.service.DeleteQuotation(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
