package billing

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

// ErrQuotationAlreadyInvoiced is returned when converting a quotation
// that already has an invoice. The unique index on quotation_id backs
// this check against races.
var ErrQuotationAlreadyInvoiced = shared.NewDomainError("ALREADY_INVOICED", "Quotation has already been invoiced")

// InvoiceService handles purchase invoice management
type InvoiceService struct {
	invoiceRepo   billing.InvoiceRepository
	quotationRepo procurement.QuotationRepository
	supplierRepo  partner.SupplierRepository
	productRepo   catalog.ProductRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	quotationRepo procurement.QuotationRepository,
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		quotationRepo: quotationRepo,
		supplierRepo:  supplierRepo,
		productRepo:   productRepo,
	}
}

// CreateFromQuotation converts a quotation into an invoice: supplier,
// transport charge and lines carry over. A quotation can be invoiced
// once; afterwards it is frozen and reported as completed.
func (s *InvoiceService) CreateFromQuotation(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceFromQuotationRequest) (*InvoiceResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, req.QuotationID)
	if err != nil {
		return nil, err
	}

	exists, err := s.invoiceRepo.ExistsForQuotation(ctx, tenantID, quotation.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrQuotationAlreadyInvoiced
	}

	invoice, err := billing.NewInvoiceFromQuotation(quotation)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceNumber = number

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// CreateInvoice creates a standalone invoice not backed by a quotation.
// Lines reference catalog products; descriptions default to the
// product name.
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	dateIssued := time.Time{}
	if req.DateIssued != nil {
		dateIssued = *req.DateIssued
	}

	invoice, err := billing.NewInvoice(tenantID, supplier.ID, supplier.Name, dateIssued, req.TransportationCost)
	if err != nil {
		return nil, err
	}
	invoice.Notes = req.Notes

	for _, line := range req.Items {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, line.ProductID)
		if err != nil {
			return nil, err
		}
		description := line.Description
		if description == "" {
			description = product.Name
		}
		if _, err := invoice.AddItem(product.ID, description, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceNumber = number

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// GetInvoiceForQuotation retrieves the invoice raised against a quotation
func (s *InvoiceService) GetInvoiceForQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByQuotationID(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// UpdateStatus moves an invoice to a new lifecycle state. Entering PAID
// stamps the payment date.
func (s *InvoiceService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceStatusRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.SetStatus(req.Status, req.PaymentDate); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// CancelInvoice voids an invoice
func (s *InvoiceService) CancelInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Cancel(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// ListInvoices retrieves invoices with pagination and filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListResponse, int64, error) {
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
	if filter.SupplierID != nil {
		f.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.DateFrom != nil {
		f.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		f.Filters["date_to"] = *filter.DateTo
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]InvoiceListResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceListResponse(&invoices[i]))
	}
	return items, total, nil
}
