// Package battle implements the 1v1 duel state machine: HP pools, hand
// state, special-effect resolution, and the opponent's heuristic AI.
//
// The engine is synchronous. The opponent move is an explicit step so any
// "thinking" delay stays a UI concern and tests can drive turns directly.
package battle

import (
	"fmt"

	"github.com/xtding233/cardgame-backend/internal/card"
	gameerrors "github.com/xtding233/cardgame-backend/internal/errors"
	"github.com/xtding233/cardgame-backend/internal/id"
	"github.com/xtding233/cardgame-backend/internal/rng"
)

const (
	// MaxHP is the symmetric starting health of both sides.
	MaxHP = 500
	// DeckSize is the exact number of cards in a duel deck.
	DeckSize = 5
	// RewardMin and RewardMax bound the victory payout, inclusive.
	RewardMin = 50
	RewardMax = 199

	logLimit = 5
)

// Status is the duel lifecycle state.
type Status string

const (
	StatusIdle          Status = "idle"
	StatusDeckSelection Status = "deck_selection"
	StatusInProgress    Status = "in_progress"
	StatusVictory       Status = "victory"
	StatusDefeat        Status = "defeat"
	StatusDraw          Status = "draw"
)

// Turn marks whose move it is.
type Turn string

const (
	TurnPlayer   Turn = "player"
	TurnOpponent Turn = "opponent"
	TurnNone     Turn = "none"
)

// Battle holds the ephemeral state of one duel. It is not safe for
// concurrent use; the caller serializes moves.
type Battle struct {
	status Status
	turn   Turn

	playerHP     int
	opponentHP   int
	playerHand   []card.PlayerCard
	opponentHand []card.Card

	pendingEnhancement int
	secondHeartArmed   bool
	secondHeartUsed    bool
	skipOpponentTurn   bool

	reward int
	log    []string

	rng rng.Source

	// MintID generates instance ids for stolen cards. Overridable in tests.
	MintID func() string
}

// New creates an idle battle over the given random source.
func New(src rng.Source) *Battle {
	if src == nil {
		src = rng.Default()
	}
	return &Battle{status: StatusIdle, turn: TurnNone, rng: src, MintID: id.NewID}
}

func (b *Battle) Status() Status { return b.status }
func (b *Battle) Turn() Turn     { return b.turn }
func (b *Battle) PlayerHP() int  { return b.playerHP }
func (b *Battle) OpponentHP() int { return b.opponentHP }
func (b *Battle) Reward() int    { return b.reward }

// PlayerHand returns a copy of the player's remaining hand.
func (b *Battle) PlayerHand() []card.PlayerCard {
	return append([]card.PlayerCard(nil), b.playerHand...)
}

// OpponentHand returns a copy of the opponent's remaining hand.
func (b *Battle) OpponentHand() []card.Card {
	return append([]card.Card(nil), b.opponentHand...)
}

// Log returns the recent battle events, newest first.
func (b *Battle) Log() []string {
	return append([]string(nil), b.log...)
}

// SelectableDeck deduplicates owned cards by card id: the same id cannot be
// picked twice, but the returned entries are real owned instances.
func SelectableDeck(owned []card.PlayerCard) []card.PlayerCard {
	seen := make(map[int]struct{}, len(owned))
	var out []card.PlayerCard
	for _, pc := range owned {
		if _, dup := seen[pc.ID]; dup {
			continue
		}
		seen[pc.ID] = struct{}{}
		out = append(out, pc)
	}
	return out
}

// BeginDeckSelection moves an idle battle into deck selection.
func (b *Battle) BeginDeckSelection() error {
	if b.status != StatusIdle {
		return gameerrors.E(gameerrors.CodeBattleWrongStatus, "battle already underway")
	}
	b.status = StatusDeckSelection
	return nil
}

// Start deals the chosen deck as the player's hand, generates the opponent
// hand from the whole catalog, and resets both HP pools to MaxHP.
func (b *Battle) Start(deck []card.PlayerCard, catalog []card.Card) error {
	if b.status != StatusDeckSelection {
		return gameerrors.E(gameerrors.CodeBattleWrongStatus, "deck selection is not active")
	}
	if len(deck) != DeckSize {
		return gameerrors.E(gameerrors.CodeInvalidDeck, "deck must have exactly %d cards, got %d", DeckSize, len(deck))
	}
	ids := make(map[int]struct{}, DeckSize)
	for _, pc := range deck {
		if _, dup := ids[pc.ID]; dup {
			return gameerrors.E(gameerrors.CodeInvalidDeck, "deck contains card %d twice", pc.ID)
		}
		ids[pc.ID] = struct{}{}
	}
	if len(catalog) == 0 {
		return gameerrors.E(gameerrors.CodeEmptyCatalog, "card catalog is empty")
	}

	b.playerHP = MaxHP
	b.opponentHP = MaxHP
	b.playerHand = append([]card.PlayerCard(nil), deck...)

	// The opponent hand draws uniformly from the entire catalog, duplicates
	// and all rarities included.
	b.opponentHand = make([]card.Card, 0, DeckSize)
	for i := 0; i < DeckSize; i++ {
		b.opponentHand = append(b.opponentHand, catalog[rng.IntN(b.rng, len(catalog))])
	}

	b.pendingEnhancement = 0
	b.secondHeartArmed = false
	b.secondHeartUsed = false
	b.skipOpponentTurn = false
	b.reward = 0
	b.log = nil
	b.addLog("The duel begins.")

	b.turn = TurnPlayer
	b.status = StatusInProgress
	return nil
}

// PlayCard resolves the player's move with the given owned instance: main
// role effect, then special effect, then terminal checks and turn handoff.
func (b *Battle) PlayCard(instanceID string) error {
	if b.status != StatusInProgress {
		return gameerrors.E(gameerrors.CodeBattleNotStarted, "no duel in progress")
	}
	if b.turn != TurnPlayer {
		return gameerrors.E(gameerrors.CodeNotPlayerTurn, "it is not your turn")
	}

	idx := -1
	for i, pc := range b.playerHand {
		if pc.InstanceID == instanceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return gameerrors.E(gameerrors.CodeCardNotInHand, "card is not in your hand")
	}
	played := b.playerHand[idx]
	b.turn = TurnNone

	if played.Role == card.RoleSupport {
		b.playerHP = clampHeal(b.playerHP, played.Stats.Healing)
		b.addLog(fmt.Sprintf("You play %q, restoring %d health.", played.Name, played.Stats.Healing))
	} else {
		total := played.Stats.Strength + b.pendingEnhancement
		if b.pendingEnhancement > 0 {
			b.addLog(fmt.Sprintf("Your attack is enhanced by %d.", b.pendingEnhancement))
			b.pendingEnhancement = 0
		}
		b.opponentHP -= total
		b.addLog(fmt.Sprintf("You attack with %q for %d damage.", played.Name, total))
	}

	b.applySpecialEffect(played.Card)

	b.playerHand = append(b.playerHand[:idx], b.playerHand[idx+1:]...)

	if b.opponentHP <= 0 {
		b.reward = rng.Between(b.rng, RewardMin, RewardMax)
		b.status = StatusVictory
		return nil
	}
	if len(b.playerHand) == 0 && len(b.opponentHand) == 0 {
		b.status = StatusDraw
		return nil
	}

	if b.skipOpponentTurn {
		b.skipOpponentTurn = false
		b.addLog("The opponent's turn is skipped.")
		b.turn = TurnPlayer
		return nil
	}
	b.turn = TurnOpponent
	return nil
}

// applySpecialEffect triggers the played card's effect, independent of role.
func (b *Battle) applySpecialEffect(played card.Card) {
	switch played.Effect {
	case card.EffectSkipTurn:
		b.skipOpponentTurn = true
		b.addLog("System breach! The opponent will skip their next turn.")
	case card.EffectStealCard:
		if len(b.opponentHand) == 0 {
			b.addLog("You try to steal a card, but the opponent has none left.")
			return
		}
		i := rng.IntN(b.rng, len(b.opponentHand))
		stolen := b.opponentHand[i]
		b.opponentHand = append(b.opponentHand[:i], b.opponentHand[i+1:]...)
		b.playerHand = append(b.playerHand, card.PlayerCard{Card: stolen, InstanceID: b.MintID()})
		b.addLog(fmt.Sprintf("You steal %q from the opponent.", stolen.Name))
	case card.EffectEnhanceNextAttack:
		b.pendingEnhancement = played.EffectValue
		b.addLog("Your next attack will be enhanced.")
	case card.EffectSecondHeart:
		if !b.secondHeartUsed {
			b.secondHeartArmed = true
			b.addLog("Second Heart armed.")
		}
	case card.EffectNone:
	}
}

// PlayOpponent resolves the opponent's heuristic move: heal with the best
// support card when below 40% health, otherwise swing the strongest attack
// card, otherwise discard the first card held.
func (b *Battle) PlayOpponent() error {
	if b.status != StatusInProgress {
		return gameerrors.E(gameerrors.CodeBattleNotStarted, "no duel in progress")
	}
	if b.turn != TurnOpponent {
		return gameerrors.E(gameerrors.CodeNotOpponentTurn, "it is not the opponent's turn")
	}

	if len(b.opponentHand) == 0 {
		if len(b.playerHand) == 0 {
			b.status = StatusDraw
			return nil
		}
		b.addLog("The opponent has no cards to play.")
		b.turn = TurnPlayer
		return nil
	}

	idx := b.chooseOpponentCard()
	played := b.opponentHand[idx]

	if played.Role == card.RoleSupport {
		b.opponentHP = clampHeal(b.opponentHP, played.Stats.Healing)
		b.addLog(fmt.Sprintf("The opponent plays %q, restoring %d health.", played.Name, played.Stats.Healing))
	} else {
		damage := played.Stats.Strength
		if b.secondHeartArmed && b.playerHP-damage <= 0 {
			b.playerHP = 1
			b.secondHeartArmed = false
			b.secondHeartUsed = true
			b.addLog("Second Heart saves you from a lethal blow!")
		} else {
			b.playerHP -= damage
		}
		b.addLog(fmt.Sprintf("The opponent attacks with %q for %d damage.", played.Name, damage))
	}

	// Exactly one copy leaves the hand, even when the opponent drew
	// duplicates of the played card.
	b.opponentHand = append(b.opponentHand[:idx], b.opponentHand[idx+1:]...)

	if b.playerHP <= 0 {
		b.status = StatusDefeat
		return nil
	}
	if len(b.playerHand) == 0 && len(b.opponentHand) == 0 {
		b.status = StatusDraw
		return nil
	}
	b.turn = TurnPlayer
	return nil
}

// chooseOpponentCard returns the index of the card the AI plays.
func (b *Battle) chooseOpponentCard() int {
	lowHealth := float64(b.opponentHP) < 0.4*float64(MaxHP)

	if lowHealth {
		best := -1
		for i, c := range b.opponentHand {
			if c.Role != card.RoleSupport {
				continue
			}
			if best < 0 || c.Stats.Healing > b.opponentHand[best].Stats.Healing {
				best = i
			}
		}
		if best >= 0 {
			return best
		}
	}

	best := -1
	for i, c := range b.opponentHand {
		if c.Role != card.RoleAttack {
			continue
		}
		if best < 0 || c.Stats.Strength > b.opponentHand[best].Stats.Strength {
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	return 0
}

// Reset abandons the duel and returns to idle. Nothing is persisted.
func (b *Battle) Reset() {
	*b = Battle{status: StatusIdle, turn: TurnNone, rng: b.rng, MintID: b.MintID}
}

func (b *Battle) addLog(msg string) {
	b.log = append([]string{msg}, b.log...)
	if len(b.log) > logLimit {
		b.log = b.log[:logLimit]
	}
}

func clampHeal(hp, healing int) int {
	hp += healing
	if hp > MaxHP {
		hp = MaxHP
	}
	return hp
}
