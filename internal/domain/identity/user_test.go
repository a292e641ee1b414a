package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroup(t *testing.T, tenantID uuid.UUID, name string, pct float64) UserGroup {
	t.Helper()
	g, err := NewUserGroup(tenantID, name, decimal.NewFromFloat(pct))
	require.NoError(t, err)
	return *g
}

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates user with valid input", func(t *testing.T) {
		user, err := NewUser(tenantID, "alice", "alice@example.com", "$2a$10$hash")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsStaff)
		assert.Nil(t, user.AssignedAgentID)
	})

	t.Run("fails with empty username", func(t *testing.T) {
		_, err := NewUser(tenantID, "", "a@b.c", "hash")
		assert.Error(t, err)
	})

	t.Run("fails with empty password hash", func(t *testing.T) {
		_, err := NewUser(tenantID, "alice", "a@b.c", "")
		assert.Error(t, err)
	})

	t.Run("fails with invalid username characters", func(t *testing.T) {
		_, err := NewUser(tenantID, "al ice", "a@b.c", "hash")
		assert.Error(t, err)
	})
}

func TestUser_CommissionRate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("zero when in no groups", func(t *testing.T) {
		user, err := NewUser(tenantID, "bob", "", "hash")
		require.NoError(t, err)
		assert.True(t, user.CommissionRate().IsZero())
		assert.False(t, user.IsAgent())
		assert.False(t, user.IsMember())
	})

	t.Run("zero when groups carry no commission", func(t *testing.T) {
		user, err := NewUser(tenantID, "bob", "", "hash")
		require.NoError(t, err)
		user.Groups = []UserGroup{newTestGroup(t, tenantID, "Members", 0)}
		assert.True(t, user.CommissionRate().IsZero())
		assert.False(t, user.IsAgent())
		assert.True(t, user.IsMember())
	})

	t.Run("picks the highest rate across groups", func(t *testing.T) {
		user, err := NewUser(tenantID, "carol", "", "hash")
		require.NoError(t, err)
		user.Groups = []UserGroup{
			newTestGroup(t, tenantID, "Members", 0),
			newTestGroup(t, tenantID, "Agents", 30),
			newTestGroup(t, tenantID, "Senior Agents", 50),
		}
		assert.True(t, decimal.NewFromInt(50).Equal(user.CommissionRate()))
		assert.True(t, user.IsAgent())
	})
}

func TestUser_AssignAgent(t *testing.T) {
	tenantID := uuid.New()
	user, err := NewUser(tenantID, "dave", "", "hash")
	require.NoError(t, err)

	agentID := uuid.New()
	require.NoError(t, user.AssignAgent(agentID))
	require.NotNil(t, user.AssignedAgentID)
	assert.Equal(t, agentID, *user.AssignedAgentID)

	err = user.AssignAgent(user.ID)
	assert.Error(t, err)

	user.ClearAssignedAgent()
	assert.Nil(t, user.AssignedAgentID)
}

func TestNewUserGroup(t *testing.T) {
	tenantID := uuid.New()

	t.Run("valid group", func(t *testing.T) {
		g, err := NewUserGroup(tenantID, "Agents", decimal.NewFromInt(25))
		require.NoError(t, err)
		assert.True(t, g.IsAgentGroup())
	})

	t.Run("zero-rate group is not an agent group", func(t *testing.T) {
		g, err := NewUserGroup(tenantID, "Members", decimal.Zero)
		require.NoError(t, err)
		assert.False(t, g.IsAgentGroup())
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NewUserGroup(tenantID, "Bad", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("rejects rate over 100", func(t *testing.T) {
		_, err := NewUserGroup(tenantID, "Bad", decimal.NewFromInt(101))
		assert.Error(t, err)
	})
}
