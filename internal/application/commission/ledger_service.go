package commission

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/distributor/backend/internal/domain/commission"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService handles commission reporting and payout. Entries are
// written by order submission; this service only reads, settles, and
// exports them.
type LedgerService struct {
	ledgerRepo commission.LedgerRepository
	logger     *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledgerRepo commission.LedgerRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		logger:     logger.Named("commission"),
	}
}

// GetEntry retrieves a ledger entry by ID
func (s *LedgerService) GetEntry(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// ListEntries retrieves ledger entries with pagination and filtering
func (s *LedgerService) ListEntries(ctx context.Context, tenantID uuid.UUID, filter LedgerListFilter) ([]LedgerEntryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	f := s.toSharedFilter(filter)

	entries, err := s.ledgerRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ledgerRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, ToLedgerEntryResponse(&entries[i]))
	}
	return items, total, nil
}

// Summarize aggregates the entries matching the filter: total amount
// owed, entry count, and how many orders they came from
func (s *LedgerService) Summarize(ctx context.Context, tenantID uuid.UUID, filter LedgerListFilter) (*LedgerSummaryResponse, error) {
	summary, err := s.ledgerRepo.Summarize(ctx, tenantID, s.toSharedFilter(filter))
	if err != nil {
		return nil, err
	}
	return &LedgerSummaryResponse{
		TotalAmount:    summary.TotalAmount,
		EntryCount:     summary.EntryCount,
		DistinctOrders: summary.DistinctOrder,
	}, nil
}

// Payout settles a batch of entries in a single statement. Entries no
// longer pending (already paid, or cancelled with their order) are
// skipped and reported, never double-paid.
func (s *LedgerService) Payout(ctx context.Context, tenantID uuid.UUID, req PayoutRequest) (*PayoutResponse, error) {
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	paid, err := s.ledgerRepo.MarkPaid(ctx, tenantID, req.EntryIDs, paidAt)
	if err != nil {
		return nil, err
	}

	requested := int64(len(req.EntryIDs))
	s.logger.Info("commission payout",
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("requested", requested),
		zap.Int64("paid", paid))

	return &PayoutResponse{
		Requested: requested,
		Paid:      paid,
		Skipped:   requested - paid,
		PaidAt:    paidAt,
	}, nil
}

// WriteStatement exports the entries matching the filter as CSV, one
// row per entry, for handing to agents alongside their payout
func (s *LedgerService) WriteStatement(ctx context.Context, tenantID uuid.UUID, filter LedgerListFilter, w io.Writer) error {
	f := s.toSharedFilter(filter)
	// statements are not paginated; export everything the filter matches
	f.Page = 1
	f.PageSize = 10000

	entries, err := s.ledgerRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"entry_id", "agent", "order_id", "rate_percent", "amount", "status", "earned_at", "paid_at"}); err != nil {
		return err
	}
	for i := range entries {
		e := &entries[i]
		paidAt := ""
		if e.PaidAt != nil {
			paidAt = e.PaidAt.Format(time.RFC3339)
		}
		row := []string{
			e.ID.String(),
			e.AgentName,
			e.OrderID.String(),
			e.Rate.String(),
			e.Amount.StringFixed(2),
			string(e.Status),
			e.CreatedAt.Format(time.RFC3339),
			paidAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *LedgerService) toSharedFilter(filter LedgerListFilter) shared.Filter {
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
	if filter.AgentID != nil {
		f.Filters["agent_id"] = *filter.AgentID
	}
	if filter.OrderID != nil {
		f.Filters["order_id"] = *filter.OrderID
	}
	if filter.DateFrom != nil {
		f.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		f.Filters["date_to"] = *filter.DateTo
	}
	return f
}
