package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/cardgame-backend/internal/card"
)

func TestMemoryCatalog(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.UpsertCard(ctx, card.Card{ID: 2, Name: "Netrunner", Rarity: card.RarityRare, Role: card.RoleAttack}))
	require.NoError(t, m.UpsertCard(ctx, card.Card{ID: 1, Name: "Street Thug", Rarity: card.RarityCommon, Role: card.RoleAttack}))

	cards, err := m.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 1, cards[0].ID, "catalog listing is ordered by id")

	require.NoError(t, m.UpsertCard(ctx, card.Card{ID: 1, Name: "Renamed", Rarity: card.RarityCommon, Role: card.RoleAttack}))
	cards, err = m.ListCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", cards[0].Name)

	require.NoError(t, m.DeleteCard(ctx, 1))
	assert.ErrorIs(t, m.DeleteCard(ctx, 1), ErrNotFound)
}

func TestMemoryOwnedOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	thug := card.Card{ID: 1, Name: "Street Thug", Rarity: card.RarityCommon, Role: card.RoleAttack}
	require.NoError(t, m.AddOwned(ctx, []card.PlayerCard{
		{Card: thug, InstanceID: "a"},
		{Card: thug, InstanceID: "b"},
	}))
	require.NoError(t, m.AddOwned(ctx, []card.PlayerCard{{Card: thug, InstanceID: "c"}}))

	owned, err := m.ListOwned(ctx)
	require.NoError(t, err)
	require.Len(t, owned, 3)
	assert.Equal(t, "a", owned[0].InstanceID)
	assert.Equal(t, "c", owned[2].InstanceID)

	require.NoError(t, m.RemoveOwned(ctx, []string{"b"}))
	owned, err = m.ListOwned(ctx)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "a", owned[0].InstanceID)
	assert.Equal(t, "c", owned[1].InstanceID, "listing order survives removal")
}

func TestMemoryBalancesReplace(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.SetBalances(ctx, map[string]int{"eddies": 100, "gems": 5}))
	require.NoError(t, m.SetBalances(ctx, map[string]int{"eddies": 40}))

	balances, err := m.Balances(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"eddies": 40}, balances, "Set replaces the whole map")
}

func TestMemoryProgressAndCooldowns(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.SetDistrictProgress(ctx, map[string]int{"watson": 12}))
	progress, err := m.DistrictProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, progress["watson"])

	expiry := time.Now().Add(3 * time.Minute)
	require.NoError(t, m.SetCooldowns(ctx, map[string]time.Time{"i1": expiry}))
	cooldowns, err := m.Cooldowns(ctx)
	require.NoError(t, err)
	assert.Equal(t, expiry, cooldowns["i1"])

	// returned maps are copies
	progress["watson"] = 999
	progress2, err := m.DistrictProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, progress2["watson"])
}
