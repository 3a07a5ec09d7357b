package fixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/memory"
)

func TestFixturesConsistent(t *testing.T) {
	groups := map[string]models.Group{}
	for _, g := range Groups() {
		groups[g.ID] = g
	}

	for _, e := range Expenses() {
		g, ok := groups[e.GroupID]
		require.True(t, ok, "expense %s references unknown group %s", e.ID, e.GroupID)
		assert.True(t, g.HasMember(e.PaidBy), "payer of %s is not a member", e.ID)
		assert.True(t, e.Category.Valid(), "expense %s has invalid category", e.ID)

		shares := make(map[string]float64, len(e.Splits))
		for _, sp := range e.Splits {
			shares[sp.UserID] = sp.Amount
		}
		assert.NoError(t, calculator.ValidateCustomSplit(e.Amount, shares, g.Members), "expense %s", e.ID)
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	seeded, err := Seed(ctx, kv, nil)
	require.NoError(t, err)
	assert.True(t, seeded)

	l, err := ledger.Open(ctx, kv)
	require.NoError(t, err)
	assert.Len(t, l.Groups(), 3)
	assert.Len(t, l.Expenses(), 7)
	assert.Nil(t, l.CurrentUser())

	balances := l.GetGroupBalance("group1")
	assert.InDelta(t, 960, calculator.BalanceOf(balances, "user1"), 0.01)
	assert.InDelta(t, -420, calculator.BalanceOf(balances, "user2"), 0.01)
	assert.InDelta(t, 100, calculator.BalanceOf(balances, "user3"), 0.01)

	// A second seed must not clobber user changes.
	require.NoError(t, l.DeleteGroup(ctx, "group3"))
	seeded, err = Seed(ctx, kv, nil)
	require.NoError(t, err)
	assert.False(t, seeded)

	reopened, err := ledger.Open(ctx, kv)
	require.NoError(t, err)
	assert.Len(t, reopened.Groups(), 2)
}

func TestCredentials(t *testing.T) {
	a, err := auth.NewPasswordAuthenticator(bcrypt.MinCost, Credentials()...)
	require.NoError(t, err)

	user, err := a.Authenticate(context.Background(), "jane@example.com", DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, "user-2", user.ID)
	assert.Equal(t, "Jane Smith", user.Name)
}
