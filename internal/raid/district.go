package raid

import (
	"time"

	"github.com/xtding233/cardgame-backend/internal/card"
)

const (
	// CooldownDuration is how long a stunned card rests after a raid ends.
	CooldownDuration = 3 * time.Minute
	// CooldownClearFee is the eddies cost to clear one cooldown early.
	CooldownClearFee = 100
	// MaxTeamSize caps the raid team.
	MaxTeamSize = 5
	// stunCheckInterval is how many kills pass between stun rolls.
	stunCheckInterval = 3

	logLimit = 5
)

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// UnlockRequirement gates a district behind kills in a previous one.
type UnlockRequirement struct {
	DistrictID string `json:"district_id" yaml:"district_id"`
	Kills      int    `json:"kills" yaml:"kills"`
}

// District is a static raid zone definition.
type District struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	HPRange     Range   `json:"hp_range" yaml:"hp_range"`
	RewardRange Range   `json:"reward_range" yaml:"reward_range"`
	StunChance  float64 `json:"stun_chance" yaml:"stun_chance"`

	// Enemies draw from LowTier rarity, upgraded to HighTier with
	// probability EliteChance.
	EliteChance float64     `json:"elite_chance" yaml:"elite_chance"`
	LowTier     card.Rarity `json:"low_tier" yaml:"low_tier"`
	HighTier    card.Rarity `json:"high_tier" yaml:"high_tier"`

	// Unlock is nil for the starting district.
	Unlock *UnlockRequirement `json:"unlock,omitempty" yaml:"unlock,omitempty"`
}

// Progress maps district id to cumulative kills across all raids there.
type Progress map[string]int

// Unlocked reports whether the district is available given the progress.
func (p Progress) Unlocked(d District) bool {
	if d.Unlock == nil {
		return true
	}
	return p[d.Unlock.DistrictID] >= d.Unlock.Kills
}
