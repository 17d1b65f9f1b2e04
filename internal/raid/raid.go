// Package raid implements the idle-clicker raid engine: a rotating team of
// attack cards grinds through an endless stream of district enemies, earning
// eddies per kill and risking stuns that put cards on cooldown.
package raid

import (
	"fmt"
	"time"

	"github.com/xtding233/cardgame-backend/internal/card"
	gameerrors "github.com/xtding233/cardgame-backend/internal/errors"
	"github.com/xtding233/cardgame-backend/internal/rng"
)

// Member is one card on the raid team with its per-raid state.
type Member struct {
	card.PlayerCard
	Kills   int
	Stunned bool
}

// Enemy is the current foe.
type Enemy struct {
	Card  card.Card
	MaxHP int
	HP    int
}

// Summary is the durable outcome of a finished raid. The ledger applies it.
type Summary struct {
	DistrictID      string
	Kills           int
	Earnings        int
	Stunned         []string // instance ids to put on cooldown
	KillsByInstance map[string]int
}

// Raid is one running session. It is not safe for concurrent use; the
// caller serializes taps.
type Raid struct {
	district District
	catalog  []card.Card
	team     []Member
	enemy    Enemy

	attackerIdx         int
	kills               int
	earnings            int
	killsSinceStunCheck int
	active              bool

	log []string
	rng rng.Source
}

// EligibleTeam filters owned cards down to those that can raid right now:
// attack role and not on cooldown.
func EligibleTeam(owned []card.PlayerCard, cooldowns map[string]time.Time, now time.Time) []card.PlayerCard {
	var out []card.PlayerCard
	for _, pc := range owned {
		if pc.Role != card.RoleAttack {
			continue
		}
		if expiry, ok := cooldowns[pc.InstanceID]; ok && expiry.After(now) {
			continue
		}
		out = append(out, pc)
	}
	return out
}

// Start validates the team against the district and cooldowns and spawns the
// first enemy.
func Start(d District, team []card.PlayerCard, catalog []card.Card, progress Progress, cooldowns map[string]time.Time, now time.Time, src rng.Source) (*Raid, error) {
	if src == nil {
		src = rng.Default()
	}
	if !progress.Unlocked(d) {
		return nil, gameerrors.E(gameerrors.CodeDistrictLocked,
			"district %s requires %d kills in %s", d.ID, d.Unlock.Kills, d.Unlock.DistrictID)
	}
	if len(team) == 0 || len(team) > MaxTeamSize {
		return nil, gameerrors.E(gameerrors.CodeInvalidTeam,
			"team must have between 1 and %d cards, got %d", MaxTeamSize, len(team))
	}
	if len(catalog) == 0 {
		return nil, gameerrors.E(gameerrors.CodeEmptyCatalog, "card catalog is empty")
	}

	seen := make(map[string]struct{}, len(team))
	members := make([]Member, 0, len(team))
	for _, pc := range team {
		if pc.Role != card.RoleAttack {
			return nil, gameerrors.E(gameerrors.CodeInvalidTeam, "%q is not an attack card", pc.Name)
		}
		if _, dup := seen[pc.InstanceID]; dup {
			return nil, gameerrors.E(gameerrors.CodeInvalidTeam, "team contains instance %s twice", pc.InstanceID)
		}
		seen[pc.InstanceID] = struct{}{}
		if expiry, ok := cooldowns[pc.InstanceID]; ok && expiry.After(now) {
			return nil, gameerrors.E(gameerrors.CodeCardOnCooldown,
				"%q is on cooldown for %s", pc.Name, expiry.Sub(now).Round(time.Second))
		}
		members = append(members, Member{PlayerCard: pc})
	}

	r := &Raid{
		district: d,
		catalog:  append([]card.Card(nil), catalog...),
		team:     members,
		active:   true,
		rng:      src,
	}
	r.spawnEnemy()
	return r, nil
}

func (r *Raid) Active() bool      { return r.active }
func (r *Raid) Kills() int        { return r.kills }
func (r *Raid) Earnings() int     { return r.earnings }
func (r *Raid) Enemy() Enemy      { return r.enemy }
func (r *Raid) District() District { return r.district }

// Team returns a copy of the team with per-raid state.
func (r *Raid) Team() []Member {
	return append([]Member(nil), r.team...)
}

// Attacker returns the member whose turn it is to strike.
func (r *Raid) Attacker() Member {
	return r.team[r.attackerIdx]
}

// Attack resolves one tap: the active attacker deals its strength to the
// enemy. A kill pays out, may trigger a stun roll, and spawns the next
// enemy. The attacker slot then rotates to the next unstunned member.
func (r *Raid) Attack() error {
	if !r.active {
		return gameerrors.E(gameerrors.CodeRaidOver, "raid has ended")
	}

	attacker := &r.team[r.attackerIdx]
	r.enemy.HP -= attacker.Stats.Strength

	if r.enemy.HP <= 0 {
		reward := rng.Between(r.rng, r.district.RewardRange.Min, r.district.RewardRange.Max)
		r.earnings += reward
		r.kills++
		attacker.Kills++
		r.addLog(fmt.Sprintf("%q takes down %q for %d eddies.", attacker.Name, r.enemy.Card.Name, reward))

		r.killsSinceStunCheck++
		if r.killsSinceStunCheck >= stunCheckInterval {
			r.killsSinceStunCheck = 0
			r.rollStun()
		}
		r.spawnEnemy()
	}

	r.rotate()
	return nil
}

// rollStun rolls against the district's stun chance; a hit takes one
// uniformly random active member out of the rotation.
func (r *Raid) rollStun() {
	if !rng.Chance(r.rng, r.district.StunChance) {
		r.addLog("The team shakes off the counterattack.")
		return
	}
	var active []int
	for i, m := range r.team {
		if !m.Stunned {
			active = append(active, i)
		}
	}
	if len(active) == 0 {
		return
	}
	idx := active[rng.IntN(r.rng, len(active))]
	r.team[idx].Stunned = true
	r.addLog(fmt.Sprintf("%q is stunned!", r.team[idx].Name))
}

// End stops the raid and returns its summary for the ledger to commit.
func (r *Raid) End() Summary {
	r.active = false
	return r.Summary()
}

// Summary snapshots the raid outcome so far.
func (r *Raid) Summary() Summary {
	var stunned []string
	tally := make(map[string]int, len(r.team))
	for _, m := range r.team {
		if m.Stunned {
			stunned = append(stunned, m.InstanceID)
		}
		tally[m.InstanceID] = m.Kills
	}
	return Summary{
		DistrictID:      r.district.ID,
		Kills:           r.kills,
		Earnings:        r.earnings,
		Stunned:         stunned,
		KillsByInstance: tally,
	}
}

// rotate advances the attacker slot to the next unstunned member. When every
// member is stunned the raid ends on its own.
func (r *Raid) rotate() {
	for i := 1; i <= len(r.team); i++ {
		idx := (r.attackerIdx + i) % len(r.team)
		if !r.team[idx].Stunned {
			r.attackerIdx = idx
			return
		}
	}
	r.active = false
}

// spawnEnemy rolls the next foe: elite districts upgrade the rarity tier
// with EliteChance, and HP lands uniformly in the district's range. An empty
// tier falls back to Common, then to the whole catalog.
func (r *Raid) spawnEnemy() {
	rarity := r.district.LowTier
	if rng.Chance(r.rng, r.district.EliteChance) {
		rarity = r.district.HighTier
	}
	pool := card.FilterRarity(r.catalog, rarity)
	if len(pool) == 0 {
		pool = card.FilterRarity(r.catalog, card.RarityCommon)
	}
	if len(pool) == 0 {
		pool = r.catalog
	}
	hp := rng.Between(r.rng, r.district.HPRange.Min, r.district.HPRange.Max)
	r.enemy = Enemy{
		Card:  pool[rng.IntN(r.rng, len(pool))],
		MaxHP: hp,
		HP:    hp,
	}
}

// String implements fmt.Stringer for log lines.
func (e Enemy) String() string {
	return fmt.Sprintf("%s (%d/%d HP)", e.Card.Name, e.HP, e.MaxHP)
}

// Log returns the recent raid events, newest first.
func (r *Raid) Log() []string {
	return append([]string(nil), r.log...)
}

func (r *Raid) addLog(msg string) {
	r.log = append([]string{msg}, r.log...)
	if len(r.log) > logLimit {
		r.log = r.log[:logLimit]
	}
}
