package catalog

import (
	"context"

	"github.com/distributor/backend/internal/domain/catalog"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductService handles product catalog management
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.SellingPrice)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.MembersOnly = req.MembersOnly

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProductBySKU retrieves a product by SKU
func (s *ProductService) GetProductBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// UpdateProduct updates a product's details
func (s *ProductService) UpdateProduct(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	sellingPrice := product.SellingPrice
	if req.SellingPrice != nil {
		sellingPrice = *req.SellingPrice
	}
	membersOnly := product.MembersOnly
	if req.MembersOnly != nil {
		membersOnly = *req.MembersOnly
	}

	if err := product.Update(name, description, sellingPrice, membersOnly); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// ActivateProduct makes a product available for sale
func (s *ProductService) ActivateProduct(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	product.Activate()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// DeactivateProduct removes a product from sale
func (s *ProductService) DeactivateProduct(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	product.Deactivate()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.productRepo.DeleteForTenant(ctx, tenantID, id)
}

// ListProducts retrieves products with pagination and filtering
func (s *ProductService) ListProducts(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}
	if filter.MembersOnly != nil {
		f.Filters["members_only"] = *filter.MembersOnly
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ProductListResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductListResponse(&products[i]))
	}
	return items, total, nil
}
