package partner

import (
	"context"

	"github.com/distributor/backend/internal/domain/partner"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierService handles supplier management
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// CreateSupplier creates a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByName(ctx, tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this name already exists")
	}

	supplier, err := partner.NewSupplier(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.ContactPerson = req.ContactPerson
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	supplier.Notes = req.Notes

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// UpdateSupplier updates a supplier's details
func (s *SupplierService) UpdateSupplier(ctx context.Context, tenantID, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := supplier.Name
	if req.Name != nil && *req.Name != supplier.Name {
		exists, err := s.supplierRepo.ExistsByName(ctx, tenantID, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this name already exists")
		}
		name = *req.Name
	}

	contactPerson := supplier.ContactPerson
	if req.ContactPerson != nil {
		contactPerson = *req.ContactPerson
	}
	phone := supplier.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	email := supplier.Email
	if req.Email != nil {
		email = *req.Email
	}
	address := supplier.Address
	if req.Address != nil {
		address = *req.Address
	}
	notes := supplier.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	if err := supplier.Update(name, contactPerson, phone, email, address, notes); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// ActivateSupplier marks a supplier as active
func (s *SupplierService) ActivateSupplier(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	supplier.Activate()
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// DeactivateSupplier marks a supplier as inactive
func (s *SupplierService) DeactivateSupplier(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	supplier.Deactivate()
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// DeleteSupplier removes a supplier
func (s *SupplierService) DeleteSupplier(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.supplierRepo.DeleteForTenant(ctx, tenantID, id)
}

// ListSuppliers retrieves suppliers with pagination and filtering
func (s *SupplierService) ListSuppliers(ctx context.Context, tenantID uuid.UUID, filter SupplierListFilter) ([]SupplierListResponse, int64, error) {
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
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Code != "" {
		f.Filters["code"] = filter.Code
	}

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]SupplierListResponse, 0, len(suppliers))
	for i := range suppliers {
		items = append(items, ToSupplierListResponse(&suppliers[i]))
	}
	return items, total, nil
}
