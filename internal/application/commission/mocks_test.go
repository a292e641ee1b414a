package commission

import (
	"context"
	"time"

	"github.com/distributor/backend/internal/domain/commission"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByOrderItem(ctx context.Context, tenantID, orderItemID uuid.UUID) (*commission.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, orderItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]commission.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]commission.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]commission.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]commission.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) Summarize(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*commission.Summary, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Summary), args.Error(1)
}

func (m *MockLedgerRepository) Save(ctx context.Context, entry *commission.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkPaid(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, paidAt time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, ids, paidAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) CancelForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
