package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/commission"
	"github.com/distributor/backend/internal/domain/shared"
)

func newMockLedgerRepository(t *testing.T) (*GormLedgerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormLedgerRepository(gormDB), mock, mockDB
}

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&commission.LedgerEntry{})
	require.NoError(t, err)

	return db
}

func createTestLedgerEntry(t *testing.T, repo *GormLedgerRepository, tenantID, orderID uuid.UUID, amount decimal.Decimal) *commission.LedgerEntry {
	t.Helper()

	entry, err := commission.NewLedgerEntry(tenantID, uuid.New(), "Agent Smith",
		orderID, uuid.New(), decimal.NewFromInt(50), amount)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

// MarkPaid must settle the whole batch in a single UPDATE so a concurrent
// payout of overlapping ids cannot double-pay any row.
func TestGormLedgerRepository_MarkPaid_SingleStatement(t *testing.T) {
	repo, mock, mockDB := newMockLedgerRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	paidAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "commission_ledger" SET .* WHERE tenant_id = \$\d+ AND id IN \(.*\) AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	updated, err := repo.MarkPaid(context.Background(), tenantID, ids, paidAt)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerRepository_MarkPaid(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	orderID := uuid.New()
	paidAt := time.Now().Truncate(time.Second)

	t.Run("empty id list is a no-op", func(t *testing.T) {
		updated, err := repo.MarkPaid(ctx, tenantID, nil, paidAt)
		require.NoError(t, err)
		assert.Zero(t, updated)
	})

	t.Run("settles pending entries and skips settled ones", func(t *testing.T) {
		pending := createTestLedgerEntry(t, repo, tenantID, orderID, decimal.NewFromInt(5))
		alreadyPaid := createTestLedgerEntry(t, repo, tenantID, orderID, decimal.NewFromInt(3))
		cancelled := createTestLedgerEntry(t, repo, tenantID, orderID, decimal.NewFromInt(2))

		require.NoError(t, alreadyPaid.MarkPaid(time.Now()))
		require.NoError(t, repo.Save(ctx, alreadyPaid))
		require.NoError(t, cancelled.Cancel())
		require.NoError(t, repo.Save(ctx, cancelled))

		updated, err := repo.MarkPaid(ctx, tenantID,
			[]uuid.UUID{pending.ID, alreadyPaid.ID, cancelled.ID}, paidAt)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		settled, err := repo.FindByIDForTenant(ctx, tenantID, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, commission.LedgerStatusPaid, settled.Status)
		require.NotNil(t, settled.PaidAt)
		// the bulk update maintains the audit columns like a row save does
		assert.Equal(t, pending.Version+1, settled.Version)
		assert.True(t, settled.UpdatedAt.After(pending.UpdatedAt))

		untouched, err := repo.FindByIDForTenant(ctx, tenantID, cancelled.ID)
		require.NoError(t, err)
		assert.Equal(t, commission.LedgerStatusCancelled, untouched.Status)
	})

	t.Run("does not cross tenants", func(t *testing.T) {
		foreign := createTestLedgerEntry(t, repo, uuid.New(), uuid.New(), decimal.NewFromInt(7))

		updated, err := repo.MarkPaid(ctx, tenantID, []uuid.UUID{foreign.ID}, paidAt)
		require.NoError(t, err)
		assert.Zero(t, updated)
	})
}

func TestGormLedgerRepository_CancelForOrder(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	orderID := uuid.New()

	pending := createTestLedgerEntry(t, repo, tenantID, orderID, decimal.NewFromInt(5))
	paid := createTestLedgerEntry(t, repo, tenantID, orderID, decimal.NewFromInt(3))
	require.NoError(t, paid.MarkPaid(time.Now()))
	require.NoError(t, repo.Save(ctx, paid))
	unrelated := createTestLedgerEntry(t, repo, tenantID, uuid.New(), decimal.NewFromInt(9))

	cancelled, err := repo.CancelForOrder(ctx, tenantID, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)

	got, err := repo.FindByIDForTenant(ctx, tenantID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, commission.LedgerStatusCancelled, got.Status)
	assert.Equal(t, pending.Version+1, got.Version)
	assert.True(t, got.UpdatedAt.After(pending.UpdatedAt))

	// settled payouts survive order cancellation
	got, err = repo.FindByIDForTenant(ctx, tenantID, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, commission.LedgerStatusPaid, got.Status)

	got, err = repo.FindByIDForTenant(ctx, tenantID, unrelated.ID)
	require.NoError(t, err)
	assert.Equal(t, commission.LedgerStatusPending, got.Status)
}

func TestGormLedgerRepository_Summarize(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	orderA := uuid.New()
	orderB := uuid.New()

	createTestLedgerEntry(t, repo, tenantID, orderA, decimal.RequireFromString("5.00"))
	createTestLedgerEntry(t, repo, tenantID, orderA, decimal.RequireFromString("2.50"))
	createTestLedgerEntry(t, repo, tenantID, orderB, decimal.RequireFromString("1.25"))

	summary, err := repo.Summarize(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"status": commission.LedgerStatusPending},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.EntryCount)
	assert.Equal(t, int64(2), summary.DistinctOrder)
	assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("8.75")),
		"expected 8.75, got %s", summary.TotalAmount)
}
