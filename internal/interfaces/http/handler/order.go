package handler

import (
	"github.com/distributor/backend/internal/application/sales"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles sales order routes. Customers submit and cancel
// their own orders; listing across buyers and status changes are
// staff operations.
type OrderHandler struct {
	BaseHandler
	service *sales.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *sales.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders")
	{
		g.POST("", h.Submit)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("/:id/cancel", h.Cancel)
		g.PUT("/:id/status", middleware.StaffOnly(), h.UpdateStatus)
	}
}

// Submit creates an order. The buyer defaults to the caller unless a
// staff user submits on another buyer's behalf. Resubmitting with the
// same submission token returns the original order.
func (h *OrderHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req sales.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	// non-staff callers can only buy for themselves
	if !middleware.GetJWTIsStaff(c) {
		userID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Authentication required")
			return
		}
		if req.BuyerID != userID {
			h.Forbidden(c, "Cannot submit orders for another buyer")
			return
		}
	}

	resp, err := h.service.SubmitOrder(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns an order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.service.GetOrder(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// non-staff callers can only see their own orders
	if !middleware.GetJWTIsStaff(c) {
		userID, err := getUserID(c)
		if err != nil || resp.BuyerID != userID {
			h.NotFound(c, "Order not found")
			return
		}
	}

	h.Success(c, resp)
}

// List returns orders matching the filter. Non-staff callers see only
// their own orders regardless of the filter.
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter sales.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if !middleware.GetJWTIsStaff(c) {
		userID, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "Authentication required")
			return
		}
		orders, err := h.service.ListOrdersForBuyer(c.Request.Context(), tenantID, userID, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, orders)
		return
	}

	orders, total, err := h.service.ListOrders(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// UpdateStatus advances an order along the fulfilment path
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req sales.UpdateOrderStatusRequest
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

// Cancel cancels an order and voids any pending commission on it
func (h *OrderHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	// non-staff callers can only cancel their own orders
	if !middleware.GetJWTIsStaff(c) {
		userID, uerr := getUserID(c)
		if uerr != nil {
			h.Unauthorized(c, "Authentication required")
			return
		}
		existing, gerr := h.service.GetOrder(c.Request.Context(), tenantID, id)
		if gerr != nil {
			h.HandleError(c, gerr)
			return
		}
		if existing.BuyerID != userID {
			h.NotFound(c, "Order not found")
			return
		}
	}

	resp, err := h.service.CancelOrder(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
