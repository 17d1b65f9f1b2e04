package battle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/cardgame-backend/internal/card"
	gameerrors "github.com/xtding233/cardgame-backend/internal/errors"
)

type script struct {
	t    *testing.T
	vals []float64
	i    int
}

func (s *script) Float64() float64 {
	require.Less(s.t, s.i, len(s.vals), "random script exhausted")
	v := s.vals[s.i]
	s.i++
	return v
}

func atk(id, strength int) card.PlayerCard {
	return card.PlayerCard{
		Card: card.Card{
			ID: id, Name: fmt.Sprintf("attacker-%d", id),
			Rarity: card.RarityCommon, Role: card.RoleAttack,
			Stats: card.Stats{Strength: strength},
		},
		InstanceID: fmt.Sprintf("i%d", id),
	}
}

func sup(id, healing int) card.PlayerCard {
	return card.PlayerCard{
		Card: card.Card{
			ID: id, Name: fmt.Sprintf("healer-%d", id),
			Rarity: card.RarityCommon, Role: card.RoleSupport,
			Stats: card.Stats{Healing: healing},
		},
		InstanceID: fmt.Sprintf("i%d", id),
	}
}

func withEffect(pc card.PlayerCard, e card.Effect, value int) card.PlayerCard {
	pc.Effect = e
	pc.EffectValue = value
	return pc
}

// a one-card catalog makes opponent hand generation consume no draws
func soloCatalog(c card.Card) []card.Card { return []card.Card{c} }

func startBattle(t *testing.T, b *Battle, deck []card.PlayerCard, catalog []card.Card) {
	t.Helper()
	require.NoError(t, b.BeginDeckSelection())
	require.NoError(t, b.Start(deck, catalog))
}

func TestLifecycle(t *testing.T) {
	b := New(NewNoDrawSource(t))

	err := b.PlayCard("i1")
	assert.Equal(t, gameerrors.CodeBattleNotStarted, gameerrors.CodeOf(err))

	require.NoError(t, b.BeginDeckSelection())
	err = b.BeginDeckSelection()
	assert.Equal(t, gameerrors.CodeBattleWrongStatus, gameerrors.CodeOf(err))

	deck := []card.PlayerCard{atk(1, 10), atk(2, 10), atk(3, 10), atk(4, 10)}
	err = b.Start(deck, soloCatalog(atk(9, 30).Card))
	assert.Equal(t, gameerrors.CodeInvalidDeck, gameerrors.CodeOf(err))

	dup := []card.PlayerCard{atk(1, 10), atk(1, 10), atk(2, 10), atk(3, 10), atk(4, 10)}
	err = b.Start(dup, soloCatalog(atk(9, 30).Card))
	assert.Equal(t, gameerrors.CodeInvalidDeck, gameerrors.CodeOf(err))

	deck = append(deck, atk(5, 10))
	err = b.Start(deck, nil)
	assert.Equal(t, gameerrors.CodeEmptyCatalog, gameerrors.CodeOf(err))

	require.NoError(t, b.Start(deck, soloCatalog(atk(9, 30).Card)))
	assert.Equal(t, StatusInProgress, b.Status())
	assert.Equal(t, TurnPlayer, b.Turn())
	assert.Equal(t, MaxHP, b.PlayerHP())
	assert.Equal(t, MaxHP, b.OpponentHP())
	assert.Len(t, b.OpponentHand(), DeckSize)

	err = b.PlayOpponent()
	assert.Equal(t, gameerrors.CodeNotOpponentTurn, gameerrors.CodeOf(err))

	err = b.PlayCard("missing")
	assert.Equal(t, gameerrors.CodeCardNotInHand, gameerrors.CodeOf(err))
}

// NewNoDrawSource fails the test if any draw is consumed.
func NewNoDrawSource(t *testing.T) *script { return &script{t: t, vals: nil} }

func TestVictoryAndReward(t *testing.T) {
	// the only scripted draw is the victory reward roll
	b := New(&script{t: t, vals: []float64{0.0}})
	deck := []card.PlayerCard{atk(1, 100), atk(2, 100), atk(3, 100), atk(4, 100), atk(5, 100)}
	startBattle(t, b, deck, soloCatalog(atk(9, 30).Card))

	for i := 1; i <= 4; i++ {
		require.NoError(t, b.PlayCard(fmt.Sprintf("i%d", i)))
		require.Equal(t, StatusInProgress, b.Status())
		require.NoError(t, b.PlayOpponent())
	}
	assert.Equal(t, 100, b.OpponentHP())
	assert.Equal(t, MaxHP-4*30, b.PlayerHP())

	require.NoError(t, b.PlayCard("i5"))
	assert.Equal(t, StatusVictory, b.Status())
	assert.Equal(t, RewardMin, b.Reward(), "reward roll of 0 pays the minimum")

	err := b.PlayCard("i5")
	assert.Equal(t, gameerrors.CodeBattleNotStarted, gameerrors.CodeOf(err))
}

func TestHealClampsAtMaxHP(t *testing.T) {
	b := New(NewNoDrawSource(t))
	deck := []card.PlayerCard{sup(1, 50), sup(2, 50), atk(3, 100), atk(4, 100), atk(5, 100)}
	startBattle(t, b, deck, soloCatalog(atk(9, 30).Card))

	require.NoError(t, b.PlayCard("i1"))
	assert.Equal(t, MaxHP, b.PlayerHP(), "healing at full health stays clamped")

	require.NoError(t, b.PlayOpponent())
	assert.Equal(t, MaxHP-30, b.PlayerHP())

	require.NoError(t, b.PlayCard("i2"))
	assert.Equal(t, MaxHP, b.PlayerHP(), "470 + 50 clamps to 500")
}

func TestSkipTurnEffect(t *testing.T) {
	b := New(NewNoDrawSource(t))
	deck := []card.PlayerCard{
		withEffect(atk(1, 50), card.EffectSkipTurn, 0),
		atk(2, 50), atk(3, 50), atk(4, 50), atk(5, 50),
	}
	startBattle(t, b, deck, soloCatalog(atk(9, 30).Card))

	require.NoError(t, b.PlayCard("i1"))
	assert.Equal(t, TurnPlayer, b.Turn(), "opponent turn is skipped")
	assert.Equal(t, MaxHP, b.PlayerHP())

	require.NoError(t, b.PlayCard("i2"))
	assert.Equal(t, TurnOpponent, b.Turn(), "skip applies to one turn only")
}

func TestEnhanceNextAttack(t *testing.T) {
	b := New(NewNoDrawSource(t))
	deck := []card.PlayerCard{
		withEffect(sup(1, 0), card.EffectEnhanceNextAttack, 60),
		atk(2, 100), atk(3, 100), atk(4, 100), atk(5, 100),
	}
	startBattle(t, b, deck, soloCatalog(atk(9, 30).Card))

	require.NoError(t, b.PlayCard("i1"))
	assert.Equal(t, MaxHP, b.OpponentHP())
	require.NoError(t, b.PlayOpponent())

	require.NoError(t, b.PlayCard("i2"))
	assert.Equal(t, MaxHP-160, b.OpponentHP(), "enhancement adds 60 to the next attack")
	require.NoError(t, b.PlayOpponent())

	require.NoError(t, b.PlayCard("i3"))
	assert.Equal(t, MaxHP-260, b.OpponentHP(), "enhancement is consumed by one attack")
}

func TestStealCardEffect(t *testing.T) {
	// one scripted draw picks which opponent card is stolen
	b := New(&script{t: t, vals: []float64{0.0}})
	b.MintID = func() string { return "stolen-1" }

	deck := []card.PlayerCard{
		withEffect(atk(1, 90), card.EffectStealCard, 0),
		atk(2, 50), atk(3, 50), atk(4, 50), atk(5, 50),
	}
	startBattle(t, b, deck, soloCatalog(atk(9, 30).Card))

	require.NoError(t, b.PlayCard("i1"))
	assert.Equal(t, MaxHP-90, b.OpponentHP())
	assert.Len(t, b.OpponentHand(), 4)

	hand := b.PlayerHand()
	require.Len(t, hand, 5, "4 remaining plus 1 stolen")
	assert.Equal(t, "stolen-1", hand[4].InstanceID)
	assert.Equal(t, 9, hand[4].ID)
}

func TestSecondHeartTriggersOnce(t *testing.T) {
	b := New(NewNoDrawSource(t))
	deck := []card.PlayerCard{
		withEffect(sup(1, 80), card.EffectSecondHeart, 0),
		withEffect(sup(2, 80), card.EffectSecondHeart, 0),
		atk(3, 50), atk(4, 50), atk(5, 50),
	}
	startBattle(t, b, deck, soloCatalog(atk(9, 600).Card))

	require.NoError(t, b.PlayCard("i1"))
	require.NoError(t, b.PlayOpponent())
	assert.Equal(t, 1, b.PlayerHP(), "lethal blow leaves 1 HP while armed")
	assert.Equal(t, StatusInProgress, b.Status())

	// re-arming after consumption has no effect
	require.NoError(t, b.PlayCard("i2"))
	require.NoError(t, b.PlayOpponent())
	assert.Equal(t, StatusDefeat, b.Status())
	assert.LessOrEqual(t, b.PlayerHP(), 0)
}

func TestDrawWhenBothHandsEmpty(t *testing.T) {
	b := New(NewNoDrawSource(t))
	deck := []card.PlayerCard{sup(1, 10), sup(2, 10), sup(3, 10), sup(4, 10), sup(5, 10)}
	startBattle(t, b, deck, soloCatalog(sup(9, 10).Card))

	for i := 1; i <= 4; i++ {
		require.NoError(t, b.PlayCard(fmt.Sprintf("i%d", i)))
		require.NoError(t, b.PlayOpponent())
	}
	require.NoError(t, b.PlayCard("i5"))
	assert.Equal(t, StatusInProgress, b.Status(), "opponent still holds a card")

	require.NoError(t, b.PlayOpponent())
	assert.Equal(t, StatusDraw, b.Status())
}

func TestOpponentHealsWhenLow(t *testing.T) {
	attacker := atk(11, 30).Card
	healer := sup(12, 60).Card
	catalog := []card.Card{attacker, healer}

	// 5 hand draws: three attackers, two healers; final draw is the reward
	b := New(&script{t: t, vals: []float64{0.0, 0.0, 0.0, 0.9, 0.9, 0.0}})
	deck := []card.PlayerCard{atk(1, 200), atk(2, 200), atk(3, 200), atk(4, 200), atk(5, 200)}
	startBattle(t, b, deck, catalog)

	require.NoError(t, b.PlayCard("i1"))
	require.NoError(t, b.PlayOpponent())
	assert.Equal(t, MaxHP-30, b.PlayerHP(), "healthy opponent attacks")

	require.NoError(t, b.PlayCard("i2"))
	assert.Equal(t, 100, b.OpponentHP())
	require.NoError(t, b.PlayOpponent())
	assert.Equal(t, 160, b.OpponentHP(), "opponent below 40% heals instead")
	assert.Equal(t, MaxHP-30, b.PlayerHP())

	require.NoError(t, b.PlayCard("i3"))
	assert.Equal(t, StatusVictory, b.Status())
}

func TestSelectableDeckDeduplicates(t *testing.T) {
	a1 := atk(1, 10)
	a2 := atk(1, 10)
	a2.InstanceID = "i1-copy"
	b1 := atk(2, 10)

	selectable := SelectableDeck([]card.PlayerCard{a1, a2, b1})
	require.Len(t, selectable, 2)
	assert.Equal(t, "i1", selectable[0].InstanceID, "first instance of a card id wins")
	assert.Equal(t, 2, selectable[1].ID)
}

func TestReset(t *testing.T) {
	b := New(NewNoDrawSource(t))
	deck := []card.PlayerCard{atk(1, 10), atk(2, 10), atk(3, 10), atk(4, 10), atk(5, 10)}
	startBattle(t, b, deck, soloCatalog(atk(9, 30).Card))

	b.Reset()
	assert.Equal(t, StatusIdle, b.Status())
	assert.Equal(t, TurnNone, b.Turn())
	assert.Empty(t, b.PlayerHand())
	require.NoError(t, b.BeginDeckSelection())
}
