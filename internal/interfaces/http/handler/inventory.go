package handler

import (
	"github.com/distributor/backend/internal/application/inventory"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler handles goods receiving and stock routes
type InventoryHandler struct {
	BaseHandler
	service *inventory.ReceivingService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service *inventory.ReceivingService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/inventory", middleware.StaffOnly())
	{
		g.POST("/receipts", h.ReceiveGoods)
		g.POST("/batches", h.CreateBatch)
		g.GET("/batches", h.ListBatches)
		g.GET("/batches/:id", h.GetBatch)
		g.DELETE("/batches/:id", h.DeleteBatch)
		g.GET("/stock/:productId", h.GetStock)
	}
}

// ReceiveGoods records goods arriving against an invoice item and
// updates the invoice's receiving progress
func (h *InventoryHandler) ReceiveGoods(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req inventory.ReceiveGoodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.ReceiveGoods(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateBatch records a stock batch not tied to an invoice
func (h *InventoryHandler) CreateBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req inventory.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateBatch(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetBatch returns a batch by ID
func (h *InventoryHandler) GetBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	resp, err := h.service.GetBatch(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListBatches returns batches matching the filter
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter inventory.BatchListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	batches, total, err := h.service.ListBatches(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, batches, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// DeleteBatch removes a batch and rolls back its received quantity
func (h *InventoryHandler) DeleteBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	if err := h.service.DeleteBatch(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetStock returns the on-hand quantity for a product across batches
func (h *InventoryHandler) GetStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.service.GetStock(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
