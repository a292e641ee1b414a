package handler

import (
	"context"

	"github.com/distributor/backend/internal/application/catalog"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles catalog routes. Reads are open to any
// authenticated user; writes and cost lookups are staff-only because
// landed costs reveal supplier pricing.
type ProductHandler struct {
	BaseHandler
	products *catalog.ProductService
	costs    *catalog.ProductCostService
	imports  *catalog.ProductImportService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *catalog.ProductService, costs *catalog.ProductCostService, imports *catalog.ProductImportService) *ProductHandler {
	return &ProductHandler{products: products, costs: costs, imports: imports}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.GET("/sku/:sku", h.GetBySKU)

		staff := g.Group("", middleware.StaffOnly())
		{
			staff.POST("", h.Create)
			staff.POST("/import", h.Import)
			staff.PUT("/:id", h.Update)
			staff.DELETE("/:id", h.Delete)
			staff.POST("/:id/activate", h.Activate)
			staff.POST("/:id/deactivate", h.Deactivate)
			staff.GET("/:id/cost", h.GetCost)
		}
	}
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.products.CreateProduct(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Import bulk-creates products from an uploaded CSV file
func (h *ProductHandler) Import(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "CSV file is required (multipart field 'file')")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot open uploaded file")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	resp, err := h.imports.ImportProducts(c.Request.Context(), tenantID, userID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.products.GetProduct(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetBySKU returns a product by SKU
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	sku := c.Param("sku")
	if sku == "" {
		h.BadRequest(c, "SKU is required")
		return
	}

	resp, err := h.products.GetProductBySKU(c.Request.Context(), tenantID, sku)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetCost returns the product's current landed cost derived from the
// latest quotation that priced it
func (h *ProductHandler) GetCost(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.costs.GetProductCost(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns products matching the filter
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}

	var filter catalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	products, total, err := h.products.ListProducts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, normalizePage(filter.Page), normalizePageSize(filter.PageSize))
}

// Update updates a product
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.products.UpdateProduct(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate puts a product back on sale
func (h *ProductHandler) Activate(c *gin.Context) {
	h.transition(c, h.products.ActivateProduct)
}

// Deactivate takes a product off sale
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.products.DeactivateProduct)
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ProductHandler) transition(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ProductResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant ID is required")
		return
	}
	id, ok := bindID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
