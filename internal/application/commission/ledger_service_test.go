package commission

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/distributor/backend/internal/domain/commission"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newLedgerEntry(t *testing.T, tenantID uuid.UUID, amount decimal.Decimal) *commission.LedgerEntry {
	t.Helper()
	entry, err := commission.NewLedgerEntry(tenantID, uuid.New(), "Agent Smith",
		uuid.New(), uuid.New(), decimal.NewFromInt(50), amount)
	require.NoError(t, err)
	return entry
}

func TestLedgerService_Payout_ReportsSkippedEntries(t *testing.T) {
	ledger := new(MockLedgerRepository)
	service := NewLedgerService(ledger, zap.NewNop())

	ctx := context.Background()
	tenantID := newTestTenantID()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	paidAt := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	// one of the three is already settled, the statement pays two
	ledger.On("MarkPaid", ctx, tenantID, ids, paidAt).Return(int64(2), nil)

	result, err := service.Payout(ctx, tenantID, PayoutRequest{EntryIDs: ids, PaidAt: &paidAt})

	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Requested)
	assert.Equal(t, int64(2), result.Paid)
	assert.Equal(t, int64(1), result.Skipped)
	assert.Equal(t, paidAt, result.PaidAt)
	ledger.AssertExpectations(t)
}

func TestLedgerService_Payout_DefaultsPaidAtToNow(t *testing.T) {
	ledger := new(MockLedgerRepository)
	service := NewLedgerService(ledger, zap.NewNop())

	ctx := context.Background()
	tenantID := newTestTenantID()
	ids := []uuid.UUID{uuid.New()}

	ledger.On("MarkPaid", ctx, tenantID, ids, mock.AnythingOfType("time.Time")).Return(int64(1), nil)

	result, err := service.Payout(ctx, tenantID, PayoutRequest{EntryIDs: ids})

	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), result.PaidAt, time.Minute)
}

func TestLedgerService_Summarize(t *testing.T) {
	ledger := new(MockLedgerRepository)
	service := NewLedgerService(ledger, zap.NewNop())

	ctx := context.Background()
	tenantID := newTestTenantID()
	agentID := uuid.New()

	ledger.On("Summarize", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "PENDING" && f.Filters["agent_id"] == agentID
	})).Return(&commission.Summary{
		TotalAmount:   decimal.NewFromFloat(12.50),
		EntryCount:    3,
		DistinctOrder: 2,
	}, nil)

	result, err := service.Summarize(ctx, tenantID, LedgerListFilter{Status: "PENDING", AgentID: &agentID})

	require.NoError(t, err)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromFloat(12.50)))
	assert.Equal(t, int64(3), result.EntryCount)
	assert.Equal(t, int64(2), result.DistinctOrders)
}

func TestLedgerService_ListEntries_AppliesDefaults(t *testing.T) {
	ledger := new(MockLedgerRepository)
	service := NewLedgerService(ledger, zap.NewNop())

	ctx := context.Background()
	tenantID := newTestTenantID()
	entry := newLedgerEntry(t, tenantID, decimal.NewFromInt(5))

	expected := shared.Filter{Page: 1, PageSize: 20, Filters: map[string]interface{}{}}
	ledger.On("FindAllForTenant", ctx, tenantID, expected).Return([]commission.LedgerEntry{*entry}, nil)
	ledger.On("CountForTenant", ctx, tenantID, expected).Return(int64(1), nil)

	items, total, err := service.ListEntries(ctx, tenantID, LedgerListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, entry.ID, items[0].ID)
	ledger.AssertExpectations(t)
}

func TestLedgerService_WriteStatement_EmitsOneRowPerEntry(t *testing.T) {
	ledger := new(MockLedgerRepository)
	service := NewLedgerService(ledger, zap.NewNop())

	ctx := context.Background()
	tenantID := newTestTenantID()

	pending := newLedgerEntry(t, tenantID, decimal.NewFromFloat(5))
	paid := newLedgerEntry(t, tenantID, decimal.NewFromFloat(1.25))
	require.NoError(t, paid.MarkPaid(time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)))

	ledger.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		// statements export everything the filter matches, unpaginated
		return f.Page == 1 && f.PageSize == 10000
	})).Return([]commission.LedgerEntry{*pending, *paid}, nil)

	var buf bytes.Buffer
	err := service.WriteStatement(ctx, tenantID, LedgerListFilter{}, &buf)

	require.NoError(t, err)
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"entry_id", "agent", "order_id", "rate_percent", "amount", "status", "earned_at", "paid_at"}, rows[0])

	assert.Equal(t, pending.ID.String(), rows[1][0])
	assert.Equal(t, "Agent Smith", rows[1][1])
	assert.Equal(t, "5.00", rows[1][4])
	assert.Equal(t, "PENDING", rows[1][5])
	assert.Empty(t, rows[1][7])

	assert.Equal(t, "1.25", rows[2][4])
	assert.Equal(t, "PAID", rows[2][5])
	assert.Equal(t, "2026-08-15T12:00:00Z", rows[2][7])
}
