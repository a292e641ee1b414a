package commission

import (
	"testing"

	"github.com/distributor/backend/internal/domain/identity"
	"github.com/distributor/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserInGroup(t *testing.T, tenantID uuid.UUID, username string, rate float64) *identity.User {
	t.Helper()
	user, err := identity.NewUser(tenantID, username, "", "hash")
	require.NoError(t, err)
	if rate >= 0 {
		group, err := identity.NewUserGroup(tenantID, username+"-group", decimal.NewFromFloat(rate))
		require.NoError(t, err)
		user.Groups = []identity.UserGroup{*group}
	}
	return user
}

func newSoldItem(t *testing.T, tenantID uuid.UUID, qty int64, price, cost float64) *sales.OrderItem {
	t.Helper()
	order, err := sales.NewOrder(tenantID, uuid.New(), "buyer")
	require.NoError(t, err)
	order.TenantID = tenantID
	item, err := order.AddItem(uuid.New(), "Widget", qty, decimal.NewFromFloat(price), decimal.NewFromFloat(cost))
	require.NoError(t, err)
	return item
}

func TestGenerator_SelfCommission(t *testing.T) {
	tenantID := uuid.New()
	gen := NewGenerator()

	// agent buys for themselves: 5 units, 6.00 sell, 4.00 landed,
	// profit 10.00, 50% rate -> 5.00 pending
	buyer := newUserInGroup(t, tenantID, "agent-buyer", 50)
	item := newSoldItem(t, tenantID, 5, 6.00, 4.00)

	outcome := gen.Evaluate(item, buyer, nil)
	require.False(t, outcome.Skipped())

	entry := outcome.Entry
	assert.Equal(t, buyer.ID, entry.AgentID)
	assert.Equal(t, item.ID, entry.OrderItemID)
	assert.Equal(t, item.OrderID, entry.OrderID)
	assert.Equal(t, LedgerStatusPending, entry.Status)
	assert.True(t, decimal.NewFromFloat(5.00).Equal(entry.Amount), "got %s", entry.Amount)
	assert.True(t, decimal.NewFromInt(50).Equal(entry.Rate))
	assert.Nil(t, entry.PaidAt)
}

func TestGenerator_AssignedAgentFallback(t *testing.T) {
	tenantID := uuid.New()
	gen := NewGenerator()
	item := newSoldItem(t, tenantID, 5, 6.00, 4.00)

	t.Run("plain buyer with assigned agent pays the agent at the agent's rate", func(t *testing.T) {
		buyer := newUserInGroup(t, tenantID, "customer", 0)
		agent := newUserInGroup(t, tenantID, "their-agent", 30)
		require.NoError(t, buyer.AssignAgent(agent.ID))

		outcome := gen.Evaluate(item, buyer, agent)
		require.False(t, outcome.Skipped())
		assert.Equal(t, agent.ID, outcome.Entry.AgentID)
		assert.True(t, decimal.NewFromFloat(3.00).Equal(outcome.Entry.Amount), "got %s", outcome.Entry.Amount)
	})

	t.Run("agent buyer wins over assigned agent", func(t *testing.T) {
		buyer := newUserInGroup(t, tenantID, "agent-buyer", 50)
		other := newUserInGroup(t, tenantID, "other-agent", 30)

		outcome := gen.Evaluate(item, buyer, other)
		require.False(t, outcome.Skipped())
		assert.Equal(t, buyer.ID, outcome.Entry.AgentID)
	})

	t.Run("no recipient at all skips", func(t *testing.T) {
		buyer := newUserInGroup(t, tenantID, "loner", 0)
		outcome := gen.Evaluate(item, buyer, nil)
		assert.True(t, outcome.Skipped())
		assert.Equal(t, SkipNoRecipient, outcome.Skip)
	})
}

func TestGenerator_RateAndAmountGuards(t *testing.T) {
	tenantID := uuid.New()
	gen := NewGenerator()

	t.Run("assigned agent with zero rate skips", func(t *testing.T) {
		buyer := newUserInGroup(t, tenantID, "customer", 0)
		agent := newUserInGroup(t, tenantID, "lapsed-agent", 0)
		outcome := gen.Evaluate(newSoldItem(t, tenantID, 5, 6.00, 4.00), buyer, agent)
		assert.True(t, outcome.Skipped())
		assert.Equal(t, SkipZeroRate, outcome.Skip)
	})

	t.Run("zero profit skips", func(t *testing.T) {
		buyer := newUserInGroup(t, tenantID, "agent-buyer", 50)
		outcome := gen.Evaluate(newSoldItem(t, tenantID, 5, 4.00, 4.00), buyer, nil)
		assert.True(t, outcome.Skipped())
		assert.Equal(t, SkipNonPositiveAmount, outcome.Skip)
	})

	t.Run("negative profit skips", func(t *testing.T) {
		buyer := newUserInGroup(t, tenantID, "agent-buyer", 50)
		outcome := gen.Evaluate(newSoldItem(t, tenantID, 5, 3.00, 4.00), buyer, nil)
		assert.True(t, outcome.Skipped())
		assert.Equal(t, SkipNonPositiveAmount, outcome.Skip)
	})

	t.Run("amount rounds half-up to cents", func(t *testing.T) {
		buyer := newUserInGroup(t, tenantID, "agent-buyer", 33)
		// profit 1.00 * 33% = 0.33
		outcome := gen.Evaluate(newSoldItem(t, tenantID, 1, 5.00, 4.00), buyer, nil)
		require.False(t, outcome.Skipped())
		assert.True(t, decimal.NewFromFloat(0.33).Equal(outcome.Entry.Amount), "got %s", outcome.Entry.Amount)
	})

	t.Run("multi-group recipient earns at their best rate", func(t *testing.T) {
		buyer := newUserInGroup(t, tenantID, "multi", 20)
		better, err := identity.NewUserGroup(tenantID, "elite", decimal.NewFromInt(40))
		require.NoError(t, err)
		buyer.Groups = append(buyer.Groups, *better)

		outcome := gen.Evaluate(newSoldItem(t, tenantID, 5, 6.00, 4.00), buyer, nil)
		require.False(t, outcome.Skipped())
		assert.True(t, decimal.NewFromFloat(4.00).Equal(outcome.Entry.Amount), "got %s", outcome.Entry.Amount)
	})
}
