package handler

import (
	"context"

	"github.com/distributor/backend/internal/application/identity"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles user administration routes
type UserHandler struct {
	BaseHandler
	service *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *identity.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers user administration routes. Account
// self-service lives under /auth; everything here is staff-only.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/users", middleware.StaffOnly())
	{
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.PUT("/:id/agent", h.AssignAgent)
		g.DELETE("/:id/agent", h.ClearAssignedAgent)
		g.POST("/:id/deactivate", h.Deactivate)
	}
}

// Create creates a new user account
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req identity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateUser(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a user by ID
func (h *UserHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	resp, err := h.service.GetUser(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns users matching the filter
func (h *UserHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter identity.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, users, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// Update updates a user's profile, staff flag, or group membership
func (h *UserHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req identity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateUser(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AssignAgent links a customer to the agent who earns commission on
// their orders
func (h *UserHandler) AssignAgent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req identity.AssignAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.AssignAgent(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ClearAssignedAgent removes a customer's agent link
func (h *UserHandler) ClearAssignedAgent(c *gin.Context) {
	h.transition(c, h.service.ClearAssignedAgent)
}

// Deactivate disables a user account
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.service.DeactivateUser)
}

func (h *UserHandler) transition(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	resp, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
