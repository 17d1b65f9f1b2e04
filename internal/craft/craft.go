// Package craft converts 5 duplicate cards into 1 card of the next rarity
// tier. The resolver only decides; the caller applies the result through the
// ledger so rejection paths never touch state.
package craft

import (
	"github.com/xtding233/cardgame-backend/internal/card"
	gameerrors "github.com/xtding233/cardgame-backend/internal/errors"
	"github.com/xtding233/cardgame-backend/internal/rng"
)

// DuplicatesRequired is the number of same-id instances one craft consumes.
const DuplicatesRequired = 5

// Result describes a successful craft: which instances to consume and which
// catalog card to mint one new instance of.
type Result struct {
	Consumed []string // instance ids, exactly DuplicatesRequired of them
	Created  card.Card
}

// Resolve validates a craft of cardID against the owned collection and picks
// the upgrade. Rejections are coded errors with no state implications.
func Resolve(cardID int, owned []card.PlayerCard, catalog []card.Card, src rng.Source) (Result, error) {
	if src == nil {
		src = rng.Default()
	}

	group := card.GroupOwned(owned)[cardID]
	if len(group) < DuplicatesRequired {
		return Result{}, gameerrors.E(gameerrors.CodeNotEnoughDuplicates,
			"need %d copies to craft, have %d", DuplicatesRequired, len(group))
	}

	next, ok := group[0].Rarity.Next()
	if !ok {
		return Result{}, gameerrors.E(gameerrors.CodeMaxRarity, "cannot upgrade a card of maximum rarity")
	}

	pool := card.FilterRarity(catalog, next)
	if len(pool) == 0 {
		return Result{}, gameerrors.E(gameerrors.CodeNoUpgradePool, "no %s cards exist to craft", next)
	}

	// Any 5 will do; take the first encountered in listing order.
	consumed := make([]string, 0, DuplicatesRequired)
	for _, pc := range group[:DuplicatesRequired] {
		consumed = append(consumed, pc.InstanceID)
	}
	return Result{
		Consumed: consumed,
		Created:  pool[rng.IntN(src, len(pool))],
	}, nil
}
