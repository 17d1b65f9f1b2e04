// Package chest resolves chest openings into concrete card drops using
// cumulative rarity thresholds. The resolver is pure: the caller debits the
// chest cost and instances the returned catalog cards into owned copies.
package chest

import (
	"github.com/xtding233/cardgame-backend/internal/card"
	gameerrors "github.com/xtding233/cardgame-backend/internal/errors"
	"github.com/xtding233/cardgame-backend/internal/ledger"
	"github.com/xtding233/cardgame-backend/internal/rng"
)

// CardCount is an inclusive range of cards a chest yields.
type CardCount struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Chest is a static purchasable container definition.
type Chest struct {
	ID          string                   `json:"id" yaml:"id"`
	Name        string                   `json:"name" yaml:"name"`
	Description string                   `json:"description,omitempty" yaml:"description,omitempty"`
	Cost        int                      `json:"cost" yaml:"cost"`
	Currency    ledger.Currency          `json:"currency" yaml:"currency"`
	CardCount   CardCount                `json:"card_count" yaml:"card_count"`
	// RarityChances need not sum to exactly 1; entries are walked in global
	// rarity order as cumulative thresholds, defaulting to Common.
	RarityChances map[card.Rarity]float64 `json:"rarity_chances" yaml:"rarity_chances"`
	// RoleFilter restricts drops to one role when the filtered pool allows.
	RoleFilter card.Role `json:"role_filter,omitempty" yaml:"role_filter,omitempty"`
}

// Resolver turns chest definitions into drop lists.
type Resolver struct {
	rng rng.Source
}

// NewResolver creates a resolver over the given random source.
func NewResolver(src rng.Source) *Resolver {
	if src == nil {
		src = rng.Default()
	}
	return &Resolver{rng: src}
}

// Open produces the drop list for one chest opening: N cards with N uniform
// in [CardCount.Min, CardCount.Max]. An empty catalog is a configuration
// error, never a silently empty result.
func (r *Resolver) Open(ch Chest, catalog []card.Card) ([]card.Card, error) {
	if len(catalog) == 0 {
		return nil, gameerrors.E(gameerrors.CodeEmptyCatalog, "card catalog is empty")
	}

	n := rng.Between(r.rng, ch.CardCount.Min, ch.CardCount.Max)
	drops := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		rarity := r.rollRarity(ch)
		pool := candidates(catalog, rarity, ch.RoleFilter)
		drops = append(drops, pool[rng.IntN(r.rng, len(pool))])
	}
	return drops, nil
}

// rollRarity walks the chest's rarity chances in fixed global rarity order,
// accumulating a running sum; the first rarity whose cumulative sum reaches
// the roll wins. Rounding gaps default to Common.
func (r *Resolver) rollRarity(ch Chest) card.Rarity {
	roll := r.rng.Float64()
	cumulative := 0.0
	for _, rarity := range card.RarityOrder {
		chance, ok := ch.RarityChances[rarity]
		if !ok {
			continue
		}
		cumulative += chance
		if roll <= cumulative {
			return rarity
		}
	}
	return card.RarityCommon
}

// candidates applies the fallback chain: (rarity, role) → (rarity, any) →
// (Common, role) → (Common, any) → whole catalog. With a non-empty catalog
// the result is never empty.
func candidates(catalog []card.Card, rarity card.Rarity, role card.Role) []card.Card {
	if role != "" {
		if pool := card.Filter(catalog, rarity, role); len(pool) > 0 {
			return pool
		}
	}
	if pool := card.FilterRarity(catalog, rarity); len(pool) > 0 {
		return pool
	}
	if rarity != card.RarityCommon {
		if role != "" {
			if pool := card.Filter(catalog, card.RarityCommon, role); len(pool) > 0 {
				return pool
			}
		}
		if pool := card.FilterRarity(catalog, card.RarityCommon); len(pool) > 0 {
			return pool
		}
	}
	return catalog
}
