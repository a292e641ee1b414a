package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/distributor/backend/internal/domain/billing"
	"github.com/distributor/backend/internal/domain/inventory"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReceivingService records goods receipts and keeps invoice receiving
// progress in sync. The received total on an invoice line is never
// incremented in place: it is recomputed as the sum of the batches
// linked to the line, inside the same transaction as the batch write,
// so the line total and the batch rows can never disagree.
type ReceivingService struct {
	db          *persistence.Database
	batchRepo   inventory.BatchRepository
	invoiceRepo billing.InvoiceRepository
	logger      *zap.Logger
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(db *persistence.Database, batchRepo inventory.BatchRepository, invoiceRepo billing.InvoiceRepository, logger *zap.Logger) *ReceivingService {
	return &ReceivingService{
		db:          db,
		batchRepo:   batchRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger.Named("receiving"),
	}
}

// ReceiveGoods records a delivery against an invoice line: a batch is
// written, the line's received total is recomputed from its batches,
// and the invoice status rolls forward to PARTIALLY_RECEIVED or
// FULLY_RECEIVED. Cancelled invoices do not accept receipts.
func (s *ReceivingService) ReceiveGoods(ctx context.Context, tenantID uuid.UUID, req ReceiveGoodsRequest) (*ReceiveGoodsResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == billing.InvoiceStatusCancelled {
		return nil, shared.NewDomainError("INVOICE_CANCELLED", "Cannot receive goods against a cancelled invoice")
	}

	item := invoice.FindItem(req.InvoiceItemID)
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
	}
	if invoice.QuotationID == nil {
		return nil, shared.NewDomainError("NO_QUOTATION", "Invoice is not backed by a quotation; receive the stock as a direct batch instead")
	}
	if req.Quantity > item.QuantityRemaining() {
		return nil, shared.NewDomainError("OVER_RECEIPT", fmt.Sprintf("Cannot receive %d units: only %d remaining on this line", req.Quantity, item.QuantityRemaining()))
	}

	receivedDate := timeOrZero(req.ReceivedDate)
	batch, err := inventory.NewInventoryBatch(tenantID, item.ProductID, *invoice.QuotationID, req.BatchNumber, req.Quantity, receivedDate)
	if err != nil {
		return nil, err
	}
	batch.LinkInvoiceItem(item.ID)
	batch.SetSupplier(invoice.SupplierID)
	batch.Notes = req.Notes
	if req.ExpiryDate != nil {
		if err := batch.SetExpiry(*req.ExpiryDate); err != nil {
			return nil, err
		}
	}

	// batch insert and invoice rollup commit together or not at all
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txBatches := persistence.NewGormBatchRepository(tx)
		txInvoices := persistence.NewGormInvoiceRepository(tx)

		if err := txBatches.Save(ctx, batch); err != nil {
			return err
		}
		return refreshInvoiceItem(ctx, txBatches, txInvoices, tenantID, invoice, item.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("goods received",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("batch_number", batch.BatchNumber),
		zap.Int64("quantity", batch.Quantity))

	item = invoice.FindItem(req.InvoiceItemID)
	return &ReceiveGoodsResponse{
		Batch:             ToBatchResponse(batch),
		InvoiceItemID:     item.ID,
		QuantityReceived:  item.QuantityReceived,
		QuantityRemaining: item.QuantityRemaining(),
		FullyReceived:     item.IsFullyReceived(),
		InvoiceStatus:     string(invoice.Status),
	}, nil
}

// CreateBatch records stock that arrived outside any invoice
func (s *ReceivingService) CreateBatch(ctx context.Context, tenantID uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	receivedDate := timeOrZero(req.ReceivedDate)
	batch, err := inventory.NewInventoryBatch(tenantID, req.ProductID, req.QuotationID, req.BatchNumber, req.Quantity, receivedDate)
	if err != nil {
		return nil, err
	}
	if req.SupplierID != nil {
		batch.SetSupplier(*req.SupplierID)
	}
	batch.Notes = req.Notes
	if req.ExpiryDate != nil {
		if err := batch.SetExpiry(*req.ExpiryDate); err != nil {
			return nil, err
		}
	}

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// GetBatch retrieves a batch by ID
func (s *ReceivingService) GetBatch(ctx context.Context, tenantID, id uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// DeleteBatch removes a batch. When the batch fulfilled an invoice
// line, the line's received total and the invoice status are
// recomputed from the batches that remain.
func (s *ReceivingService) DeleteBatch(ctx context.Context, tenantID, id uuid.UUID) error {
	batch, err := s.batchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	// delete and recompute commit together or not at all
	return s.db.Transaction(func(tx *gorm.DB) error {
		txBatches := persistence.NewGormBatchRepository(tx)
		txInvoices := persistence.NewGormInvoiceRepository(tx)

		if err := txBatches.DeleteForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		if batch.InvoiceItemID == nil {
			return nil
		}
		invoice, err := txInvoices.FindByItemID(ctx, tenantID, *batch.InvoiceItemID)
		if err != nil {
			return err
		}
		return refreshInvoiceItem(ctx, txBatches, txInvoices, tenantID, invoice, *batch.InvoiceItemID)
	})
}

// GetStock reports stock on hand for a product
func (s *ReceivingService) GetStock(ctx context.Context, tenantID, productID uuid.UUID) (*StockResponse, error) {
	total, err := s.batchRepo.SumQuantityForProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return &StockResponse{ProductID: productID, StockOnHand: total}, nil
}

// ListBatches retrieves batches with pagination and filtering
func (s *ReceivingService) ListBatches(ctx context.Context, tenantID uuid.UUID, filter BatchListFilter) ([]BatchResponse, int64, error) {
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
	if filter.ProductID != nil {
		f.Filters["product_id"] = *filter.ProductID
	}
	if filter.SupplierID != nil {
		f.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.QuotationID != nil {
		f.Filters["quotation_id"] = *filter.QuotationID
	}
	if filter.InvoiceItemID != nil {
		f.Filters["invoice_item_id"] = *filter.InvoiceItemID
	}

	batches, err := s.batchRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.batchRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		items = append(items, ToBatchResponse(&batches[i]))
	}
	return items, total, nil
}

// refreshInvoiceItem recomputes one line's received total from its
// batches and rolls the invoice status forward. It runs on the
// transaction-scoped repositories so the caller's batch write and the
// rollup share one commit.
func refreshInvoiceItem(ctx context.Context, batches inventory.BatchRepository, invoices billing.InvoiceRepository, tenantID uuid.UUID, invoice *billing.Invoice, itemID uuid.UUID) error {
	item := invoice.FindItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
	}

	total, err := batches.SumQuantityForInvoiceItem(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	if err := item.SetQuantityReceived(total); err != nil {
		return err
	}
	invoice.RefreshReceiveStatus()

	return invoices.SaveWithLock(ctx, invoice)
}

func timeOrZero(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Time{}
}
