package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/cardgame-backend/internal/card"
	"github.com/xtding233/cardgame-backend/internal/store"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "game.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	thug := card.Card{
		ID: 1, Name: "Street Thug", Rarity: card.RarityCommon, Role: card.RoleAttack,
		Stats: card.Stats{Strength: 30}, Tags: []string{"gang"},
	}
	runner := card.Card{
		ID: 2, Name: "Netrunner", Rarity: card.RarityRare, Role: card.RoleAttack,
		Stats: card.Stats{Strength: 65}, Effect: card.EffectSkipTurn,
	}
	require.NoError(t, s.UpsertCard(ctx, runner))
	require.NoError(t, s.UpsertCard(ctx, thug))

	cards, err := s.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, thug, cards[0], "listing is ordered by id")
	assert.Equal(t, runner, cards[1])

	thug.Name = "Renamed"
	require.NoError(t, s.UpsertCard(ctx, thug))
	cards, err = s.ListCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", cards[0].Name)

	require.NoError(t, s.DeleteCard(ctx, 1))
	assert.ErrorIs(t, s.DeleteCard(ctx, 1), store.ErrNotFound)
}

func TestOwnedRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	thug := card.Card{ID: 1, Name: "Street Thug", Rarity: card.RarityCommon, Role: card.RoleAttack}
	require.NoError(t, s.AddOwned(ctx, []card.PlayerCard{
		{Card: thug, InstanceID: "a"},
		{Card: thug, InstanceID: "b"},
	}))
	require.NoError(t, s.AddOwned(ctx, []card.PlayerCard{{Card: thug, InstanceID: "c"}}))

	owned, err := s.ListOwned(ctx)
	require.NoError(t, err)
	require.Len(t, owned, 3)
	assert.Equal(t, "a", owned[0].InstanceID, "insertion order is preserved")
	assert.Equal(t, "c", owned[2].InstanceID)

	require.NoError(t, s.RemoveOwned(ctx, []string{"a", "c"}))
	owned, err = s.ListOwned(ctx)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "b", owned[0].InstanceID)
}

func TestBalancesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	balances, err := s.Balances(ctx)
	require.NoError(t, err)
	assert.Empty(t, balances)

	require.NoError(t, s.SetBalances(ctx, map[string]int{"eddies": 1000, "gems": 50}))
	require.NoError(t, s.SetBalances(ctx, map[string]int{"eddies": 700}))

	balances, err = s.Balances(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"eddies": 700}, balances, "Set replaces the whole table")
}

func TestProgressAndCooldownsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	require.NoError(t, s.SetDistrictProgress(ctx, map[string]int{"watson": 42}))
	progress, err := s.DistrictProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, progress["watson"])

	expiry := time.Now().Add(3 * time.Minute).Truncate(time.Second).UTC()
	require.NoError(t, s.SetCooldowns(ctx, map[string]time.Time{"i1": expiry}))
	cooldowns, err := s.Cooldowns(ctx)
	require.NoError(t, err)
	assert.True(t, cooldowns["i1"].Equal(expiry), "expiry survives the unix round trip")
}
