package handler

import (
	"fmt"
	"time"

	"github.com/distributor/backend/internal/application/commission"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CommissionHandler handles commission ledger routes. Agents see their
// own entries; payouts and cross-agent statements are staff-only.
type CommissionHandler struct {
	BaseHandler
	service *commission.LedgerService
}

// NewCommissionHandler creates a new commission handler
func NewCommissionHandler(service *commission.LedgerService) *CommissionHandler {
	return &CommissionHandler{service: service}
}

// RegisterRoutes registers commission routes
func (h *CommissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/commissions")
	{
		g.GET("", h.List)
		g.GET("/summary", h.Summary)
		g.GET("/:id", h.Get)

		staff := g.Group("", middleware.StaffOnly())
		{
			staff.POST("/payouts", h.Payout)
			staff.GET("/statement", h.Statement)
		}
	}
}

// scopeFilter restricts non-staff callers to their own ledger entries
func scopeFilter(c *gin.Context, filter *commission.LedgerListFilter) bool {
	if middleware.GetJWTIsStaff(c) {
		return true
	}
	userID, err := getUserID(c)
	if err != nil {
		return false
	}
	filter.AgentID = &userID
	return true
}

// List returns ledger entries matching the filter
func (h *CommissionHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter commission.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	if !scopeFilter(c, &filter) {
		h.Unauthorized(c, "Authentication required")
		return
	}

	entries, total, err := h.service.ListEntries(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// Get returns a ledger entry by ID
func (h *CommissionHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	resp, err := h.service.GetEntry(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// non-staff callers can only see their own entries
	if !middleware.GetJWTIsStaff(c) {
		userID, err := getUserID(c)
		if err != nil || resp.AgentID != userID {
			h.NotFound(c, "Ledger entry not found")
			return
		}
	}

	h.Success(c, resp)
}

// Summary returns the aggregate commission owed for the filter
func (h *CommissionHandler) Summary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter commission.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	if !scopeFilter(c, &filter) {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.service.Summarize(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Payout marks a batch of pending entries as paid. Entries already paid
// or cancelled are reported as skipped, not errored.
func (h *CommissionHandler) Payout(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req commission.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Payout(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Statement streams a CSV statement of ledger entries matching the
// filter, for handing to finance
func (h *CommissionHandler) Statement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter commission.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	filename := fmt.Sprintf("commission-statement-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.WriteStatement(c.Request.Context(), tenantID, filter, c.Writer); err != nil {
		// headers are already out; the truncated download is the signal
		_ = c.Error(err)
	}
}
