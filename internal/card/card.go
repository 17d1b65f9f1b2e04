// Package card defines the catalog card model shared by every engine:
// rarity and role enumerations, combat stats, special effects, and the
// owned-instance wrapper.
package card

import (
	"errors"
	"fmt"
)

// Rarity is a closed card rarity tier. The ordering Common < Rare < Epic <
// Legendary is total and fixed; Index and Next derive from RarityOrder.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// RarityOrder lists rarities from lowest to highest tier.
var RarityOrder = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool { return r.Index() >= 0 }

// Index returns r's position in RarityOrder, or -1 for unknown rarities.
func (r Rarity) Index() int {
	for i, v := range RarityOrder {
		if v == r {
			return i
		}
	}
	return -1
}

// Less reports whether r is a strictly lower tier than other.
func (r Rarity) Less(other Rarity) bool { return r.Index() < other.Index() }

// Next returns the rarity one tier above r. ok is false at the top tier or
// for unknown rarities.
func (r Rarity) Next() (next Rarity, ok bool) {
	i := r.Index()
	if i < 0 || i+1 >= len(RarityOrder) {
		return "", false
	}
	return RarityOrder[i+1], true
}

// Role determines what playing a card does in combat.
type Role string

const (
	RoleAttack  Role = "attack"
	RoleSupport Role = "support"
)

// Valid reports whether ro is a known role.
func (ro Role) Valid() bool { return ro == RoleAttack || ro == RoleSupport }

// Effect is an optional special effect triggered when a card is played.
// The zero value means the card has no effect.
type Effect string

const (
	EffectNone              Effect = ""
	EffectSkipTurn          Effect = "skip_turn"
	EffectStealCard         Effect = "steal_card"
	EffectEnhanceNextAttack Effect = "enhance_next_attack"
	EffectSecondHeart       Effect = "second_heart"
)

// Valid reports whether e is a known effect (including none).
func (e Effect) Valid() bool {
	switch e {
	case EffectNone, EffectSkipTurn, EffectStealCard, EffectEnhanceNextAttack, EffectSecondHeart:
		return true
	}
	return false
}

// Stats carries the combat numbers of a card. Both values are non-negative
// integers applied as-is; there is no rounding anywhere in the engines.
type Stats struct {
	Strength int `json:"strength" yaml:"strength"`
	Healing  int `json:"healing" yaml:"healing"`
}

// Card is an immutable catalog template. Engines reference cards, they never
// mutate them; edits go through the catalog store.
type Card struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Rarity      Rarity   `json:"rarity" yaml:"rarity"`
	Role        Role     `json:"role" yaml:"role"`
	Stats       Stats    `json:"stats" yaml:"stats"`
	Effect      Effect   `json:"effect,omitempty" yaml:"effect,omitempty"`
	EffectValue int      `json:"effect_value,omitempty" yaml:"effect_value,omitempty"`
	FlavorText  string   `json:"flavor_text,omitempty" yaml:"flavor_text,omitempty"`
	ImageURL    string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

var ErrInvalidCard = errors.New("invalid card")

// Validate checks the semantic constraints of a catalog card.
func (c Card) Validate() error {
	switch {
	case c.ID <= 0:
		return fmt.Errorf("%w: id must be positive", ErrInvalidCard)
	case c.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidCard)
	case !c.Rarity.Valid():
		return fmt.Errorf("%w: unknown rarity %q", ErrInvalidCard, c.Rarity)
	case !c.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", ErrInvalidCard, c.Role)
	case c.Stats.Strength < 0 || c.Stats.Healing < 0:
		return fmt.Errorf("%w: stats must be non-negative", ErrInvalidCard)
	case !c.Effect.Valid():
		return fmt.Errorf("%w: unknown effect %q", ErrInvalidCard, c.Effect)
	case c.EffectValue != 0 && c.Effect != EffectEnhanceNextAttack:
		return fmt.Errorf("%w: effect_value is only used by %s", ErrInvalidCard, EffectEnhanceNextAttack)
	}
	return nil
}

// PlayerCard is an owned instance of a catalog card. Multiple instances may
// share the same card ID; InstanceID is unique per instance.
type PlayerCard struct {
	Card       `yaml:",inline"`
	InstanceID string `json:"instance_id" yaml:"instance_id"`
}
