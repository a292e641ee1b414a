package billing

import (
	"context"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID, items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForTenant finds an invoice by ID within a tenant, items preloaded
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByQuotationID finds the invoice linked to a quotation, if any.
	// Returns shared.ErrNotFound when the quotation is not yet invoiced.
	FindByQuotationID(ctx context.Context, tenantID, quotationID uuid.UUID) (*Invoice, error)

	// FindByItemID finds the invoice owning the given invoice item,
	// items preloaded
	FindByItemID(ctx context.Context, tenantID, itemID uuid.UUID) (*Invoice, error)

	// ExistsForQuotation reports whether a quotation has been invoiced
	ExistsForQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (bool, error)

	// InvoicedQuotationIDs returns which of the given quotations already
	// have an invoice, for resolving quotation list status in one round
	InvoicedQuotationIDs(ctx context.Context, tenantID uuid.UUID, quotationIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	// FindAllForTenant finds all invoices for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice and its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with an optimistic concurrency check on Version
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// CountForTenant counts invoices for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateInvoiceNumber generates the next sequential invoice number
	// for the tenant, in the form INV-YYMM-XXXX
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
