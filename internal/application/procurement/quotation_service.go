package procurement

import (
	"context"
	"time"

	"github.com/distributor/backend/internal/domain/billing"
	"github.com/distributor/backend/internal/domain/catalog"
	"github.com/distributor/backend/internal/domain/partner"
	"github.com/distributor/backend/internal/domain/procurement"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrQuotationInvoiced is returned when mutating a quotation that has
// already been converted into an invoice. Invoiced quotations are the
// frozen cost record behind landed costs and must not drift.
var ErrQuotationInvoiced = shared.NewDomainError("QUOTATION_INVOICED", "Quotation has been invoiced and can no longer be modified")

// QuotationService handles supplier quotation management
type QuotationService struct {
	quotationRepo procurement.QuotationRepository
	supplierRepo  partner.SupplierRepository
	productRepo   catalog.ProductRepository
	invoiceRepo   billing.InvoiceRepository
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo procurement.QuotationRepository,
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
	invoiceRepo billing.InvoiceRepository,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		supplierRepo:  supplierRepo,
		productRepo:   productRepo,
		invoiceRepo:   invoiceRepo,
	}
}

// CreateQuotation creates a quotation with its priced lines. Product
// names are snapshotted from the catalog at creation time.
func (s *QuotationService) CreateQuotation(ctx context.Context, tenantID uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("SUPPLIER_INACTIVE", "Cannot create a quotation for an inactive supplier")
	}

	dateQuoted := time.Time{}
	if req.DateQuoted != nil {
		dateQuoted = *req.DateQuoted
	}

	quotation, err := procurement.NewQuotation(tenantID, supplier.ID, supplier.Name, dateQuoted, req.TransportationCost)
	if err != nil {
		return nil, err
	}
	quotation.Notes = req.Notes

	for _, line := range req.Items {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, line.ProductID)
		if err != nil {
			return nil, err
		}
		if _, err := quotation.AddItem(product.ID, product.Name, line.Quantity, line.QuotedPrice); err != nil {
			return nil, err
		}
	}

	number, err := s.quotationRepo.GenerateQuotationNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	quotation.QuotationNumber = number

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	resp := ToQuotationResponse(quotation, false)
	return &resp, nil
}

// GetQuotation retrieves a quotation with its derived cost breakdown
func (s *QuotationService) GetQuotation(ctx context.Context, tenantID, id uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	invoiced, err := s.invoiceRepo.ExistsForQuotation(ctx, tenantID, quotation.ID)
	if err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(quotation, invoiced)
	return &resp, nil
}

// UpdateQuotation updates a quotation header. Invoiced quotations are frozen.
func (s *QuotationService) UpdateQuotation(ctx context.Context, tenantID, id uuid.UUID, req UpdateQuotationRequest) (*QuotationResponse, error) {
	quotation, err := s.mutableQuotation(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.DateQuoted != nil {
		quotation.DateQuoted = *req.DateQuoted
	}
	if req.TransportationCost != nil {
		if req.TransportationCost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_TRANSPORT_COST", "Transportation cost cannot be negative")
		}
		quotation.TransportationCost = *req.TransportationCost
	}
	if req.Notes != nil {
		quotation.Notes = *req.Notes
	}
	quotation.UpdatedAt = time.Now()
	quotation.IncrementVersion()

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	resp := ToQuotationResponse(quotation, false)
	return &resp, nil
}

// UpsertItem adds a line for a product, or re-prices the existing line
// when the product is already quoted. Invoiced quotations are frozen.
func (s *QuotationService) UpsertItem(ctx context.Context, tenantID, id uuid.UUID, req UpsertQuotationItemRequest) (*QuotationResponse, error) {
	quotation, err := s.mutableQuotation(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	var existing *procurement.QuotationItem
	for i := range quotation.Items {
		if quotation.Items[i].ProductID == req.ProductID {
			existing = &quotation.Items[i]
			break
		}
	}

	if existing != nil {
		if err := quotation.UpdateItem(existing.ID, req.Quantity, req.QuotedPrice); err != nil {
			return nil, err
		}
	} else {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
		if err != nil {
			return nil, err
		}
		if _, err := quotation.AddItem(product.ID, product.Name, req.Quantity, req.QuotedPrice); err != nil {
			return nil, err
		}
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	resp := ToQuotationResponse(quotation, false)
	return &resp, nil
}

// RemoveItem deletes a line from a quotation. Invoiced quotations are frozen.
func (s *QuotationService) RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.mutableQuotation(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := quotation.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.DeleteItem(ctx, tenantID, itemID); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	resp := ToQuotationResponse(quotation, false)
	return &resp, nil
}

// DeleteQuotation removes a quotation and its lines. Invoiced
// quotations cannot be deleted.
func (s *QuotationService) DeleteQuotation(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.mutableQuotation(ctx, tenantID, id); err != nil {
		return err
	}
	return s.quotationRepo.DeleteForTenant(ctx, tenantID, id)
}

// ListQuotations retrieves quotations with pagination and filtering.
// Status is resolved against the invoices raised so far, one query for
// the whole page.
func (s *QuotationService) ListQuotations(ctx context.Context, tenantID uuid.UUID, filter QuotationListFilter) ([]QuotationListResponse, int64, error) {
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
	if filter.SupplierID != nil {
		f.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.DateFrom != nil {
		f.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		f.Filters["date_to"] = *filter.DateTo
	}

	quotations, err := s.quotationRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quotationRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(quotations))
	for i := range quotations {
		ids = append(ids, quotations[i].ID)
	}
	invoiced, err := s.invoiceRepo.InvoicedQuotationIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]QuotationListResponse, 0, len(quotations))
	for i := range quotations {
		items = append(items, ToQuotationListResponse(&quotations[i], invoiced[quotations[i].ID]))
	}
	return items, total, nil
}

func (s *QuotationService) mutableQuotation(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Quotation, error) {
	quotation, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	invoiced, err := s.invoiceRepo.ExistsForQuotation(ctx, tenantID, quotation.ID)
	if err != nil {
		return nil, err
	}
	if invoiced {
		return nil, ErrQuotationInvoiced
	}
	return quotation, nil
}
