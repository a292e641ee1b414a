package handler

import (
	"github.com/distributor/backend/internal/application/billing"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles purchase invoice routes
type InvoiceHandler struct {
	BaseHandler
	service *billing.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(service *billing.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/invoices", middleware.StaffOnly())
	{
		g.POST("", h.Create)
		g.POST("/from-quotation", h.CreateFromQuotation)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.GET("/quotation/:quotationId", h.GetForQuotation)
		g.PUT("/:id/status", h.UpdateStatus)
		g.POST("/:id/cancel", h.Cancel)
	}
}

// Create creates a standalone invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req billing.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateInvoice(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateFromQuotation materializes a quotation into an invoice, copying
// its lines as receivable quantities. Each quotation can be invoiced
// once.
func (h *InvoiceHandler) CreateFromQuotation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req billing.CreateInvoiceFromQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateFromQuotation(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns an invoice with its receiving progress
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.service.GetInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetForQuotation returns the invoice created from a quotation
func (h *InvoiceHandler) GetForQuotation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	quotationID, err := uuid.Parse(c.Param("quotationId"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	resp, err := h.service.GetInvoiceForQuotation(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns invoices matching the filter
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter billing.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	invoices, total, err := h.service.ListInvoices(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// UpdateStatus moves an invoice along its receiving lifecycle
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req billing.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels an invoice, freeing its quotation for re-invoicing
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.service.CancelInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
