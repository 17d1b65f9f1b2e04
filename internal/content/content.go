// Package content loads the static game content: the card catalog, chest
// and district definitions, shop offers, and the starter grant. Content is
// authored as a single YAML file with built-in defaults when none is given.
package content

import (
	"github.com/xtding233/cardgame-backend/internal/card"
	"github.com/xtding233/cardgame-backend/internal/chest"
	"github.com/xtding233/cardgame-backend/internal/raid"
	"github.com/xtding233/cardgame-backend/internal/shop"
)

// Starter describes the first-run grant: starting balances and the card ids
// minted into a fresh collection.
type Starter struct {
	Eddies  int   `json:"eddies" yaml:"eddies"`
	Gems    int   `json:"gems" yaml:"gems"`
	CardIDs []int `json:"card_ids" yaml:"card_ids"`
}

// Content is the full static content set.
type Content struct {
	Catalog   []card.Card     `json:"catalog" yaml:"catalog"`
	Chests    []chest.Chest   `json:"chests" yaml:"chests"`
	Districts []raid.District `json:"districts" yaml:"districts"`
	Packs     []shop.Pack     `json:"packs" yaml:"packs"`
	Listings  []shop.Listing  `json:"listings" yaml:"listings"`
	Starter   Starter         `json:"starter" yaml:"starter"`
}

// Chest looks up a chest definition by id.
func (c Content) Chest(id string) (chest.Chest, bool) {
	for _, ch := range c.Chests {
		if ch.ID == id {
			return ch, true
		}
	}
	return chest.Chest{}, false
}

// District looks up a district definition by id.
func (c Content) District(id string) (raid.District, bool) {
	for _, d := range c.Districts {
		if d.ID == id {
			return d, true
		}
	}
	return raid.District{}, false
}
