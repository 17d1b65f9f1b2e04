package craft

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/cardgame-backend/internal/card"
	gameerrors "github.com/xtding233/cardgame-backend/internal/errors"
)

type script struct {
	vals []float64
	i    int
}

func (s *script) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

var craftCatalog = []card.Card{
	{ID: 1, Name: "Street Thug", Rarity: card.RarityCommon, Role: card.RoleAttack},
	{ID: 2, Name: "Netrunner", Rarity: card.RarityRare, Role: card.RoleAttack},
	{ID: 3, Name: "Combat Medic", Rarity: card.RarityRare, Role: card.RoleSupport},
	{ID: 4, Name: "Second Heart", Rarity: card.RarityLegendary, Role: card.RoleSupport},
}

func copies(c card.Card, n int) []card.PlayerCard {
	out := make([]card.PlayerCard, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, card.PlayerCard{Card: c, InstanceID: fmt.Sprintf("%d-%d", c.ID, i)})
	}
	return out
}

func TestResolveConsumesFirstFiveInOrder(t *testing.T) {
	owned := copies(craftCatalog[0], 7)

	// a single scripted draw picks from the two rare cards
	res, err := Resolve(1, owned, craftCatalog, &script{vals: []float64{0.9}})
	require.NoError(t, err)

	assert.Equal(t, []string{"1-0", "1-1", "1-2", "1-3", "1-4"}, res.Consumed)
	assert.Equal(t, card.RarityRare, res.Created.Rarity)
	assert.Equal(t, 3, res.Created.ID, "draw 0.9 over a two-card pool picks the second")
}

func TestResolveUniformPick(t *testing.T) {
	owned := copies(craftCatalog[0], 5)

	res, err := Resolve(1, owned, craftCatalog, &script{vals: []float64{0.1}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created.ID)
}

func TestResolveNotEnoughDuplicates(t *testing.T) {
	owned := copies(craftCatalog[0], 4)

	_, err := Resolve(1, owned, craftCatalog, nil)
	require.Error(t, err)
	assert.Equal(t, gameerrors.CodeNotEnoughDuplicates, gameerrors.CodeOf(err))
}

func TestResolveUnownedCard(t *testing.T) {
	_, err := Resolve(99, nil, craftCatalog, nil)
	require.Error(t, err)
	assert.Equal(t, gameerrors.CodeNotEnoughDuplicates, gameerrors.CodeOf(err))
}

func TestResolveMaxRarity(t *testing.T) {
	owned := copies(craftCatalog[3], 5)

	_, err := Resolve(4, owned, craftCatalog, nil)
	require.Error(t, err)
	assert.Equal(t, gameerrors.CodeMaxRarity, gameerrors.CodeOf(err))
}

func TestResolveNoUpgradePool(t *testing.T) {
	// catalog has rares but no epics
	owned := copies(craftCatalog[1], 5)

	_, err := Resolve(2, owned, craftCatalog, nil)
	require.Error(t, err)
	assert.Equal(t, gameerrors.CodeNoUpgradePool, gameerrors.CodeOf(err))
}
