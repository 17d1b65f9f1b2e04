package content

import (
	"fmt"
	"strings"
)

// Validate checks the semantic constraints of a content set, collecting all
// violations into one error.
func Validate(c Content) error {
	var errs []string

	if len(c.Catalog) == 0 {
		errs = append(errs, "catalog must not be empty")
	}
	cardIDs := make(map[int]struct{}, len(c.Catalog))
	for i, cc := range c.Catalog {
		if err := cc.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("catalog[%d]: %v", i, err))
			continue
		}
		if _, dup := cardIDs[cc.ID]; dup {
			errs = append(errs, fmt.Sprintf("catalog[%d]: duplicate card id %d", i, cc.ID))
		}
		cardIDs[cc.ID] = struct{}{}
	}

	chestIDs := make(map[string]struct{}, len(c.Chests))
	for i, ch := range c.Chests {
		at := fmt.Sprintf("chests[%d] (%s)", i, ch.ID)
		if ch.ID == "" {
			errs = append(errs, fmt.Sprintf("chests[%d]: id is required", i))
		} else if _, dup := chestIDs[ch.ID]; dup {
			errs = append(errs, at+": duplicate chest id")
		}
		chestIDs[ch.ID] = struct{}{}
		if ch.Cost <= 0 {
			errs = append(errs, at+": cost must be positive")
		}
		if !ch.Currency.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown currency %q", at, ch.Currency))
		}
		if ch.CardCount.Min < 1 || ch.CardCount.Max < ch.CardCount.Min {
			errs = append(errs, at+": card_count must satisfy 1 <= min <= max")
		}
		if len(ch.RarityChances) == 0 {
			errs = append(errs, at+": rarity_chances must not be empty")
		}
		total := 0.0
		for rarity, chance := range ch.RarityChances {
			if !rarity.Valid() {
				errs = append(errs, fmt.Sprintf("%s: unknown rarity %q", at, rarity))
			}
			if chance < 0 || chance > 1 {
				errs = append(errs, fmt.Sprintf("%s: chance for %s must be in [0,1]", at, rarity))
			}
			total += chance
		}
		if total > 1.000001 {
			errs = append(errs, at+": rarity chances must not sum above 1")
		}
		if ch.RoleFilter != "" && !ch.RoleFilter.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown role filter %q", at, ch.RoleFilter))
		}
	}

	districtIDs := make(map[string]struct{}, len(c.Districts))
	for i, d := range c.Districts {
		at := fmt.Sprintf("districts[%d] (%s)", i, d.ID)
		if d.ID == "" {
			errs = append(errs, fmt.Sprintf("districts[%d]: id is required", i))
		} else if _, dup := districtIDs[d.ID]; dup {
			errs = append(errs, at+": duplicate district id")
		}
		districtIDs[d.ID] = struct{}{}
		if d.HPRange.Min < 1 || d.HPRange.Max < d.HPRange.Min {
			errs = append(errs, at+": hp_range must satisfy 1 <= min <= max")
		}
		if d.RewardRange.Min < 0 || d.RewardRange.Max < d.RewardRange.Min {
			errs = append(errs, at+": reward_range must satisfy 0 <= min <= max")
		}
		if d.StunChance < 0 || d.StunChance > 1 {
			errs = append(errs, at+": stun_chance must be in [0,1]")
		}
		if d.EliteChance < 0 || d.EliteChance > 1 {
			errs = append(errs, at+": elite_chance must be in [0,1]")
		}
		if !d.LowTier.Valid() || !d.HighTier.Valid() {
			errs = append(errs, at+": low_tier and high_tier must be known rarities")
		}
		if d.Unlock != nil {
			if _, ok := districtIDs[d.Unlock.DistrictID]; !ok || d.Unlock.DistrictID == d.ID {
				errs = append(errs, fmt.Sprintf("%s: unlock references unknown or later district %q", at, d.Unlock.DistrictID))
			}
			if d.Unlock.Kills <= 0 {
				errs = append(errs, at+": unlock kills must be positive")
			}
		}
	}

	packIDs := make(map[string]struct{}, len(c.Packs))
	for i, p := range c.Packs {
		at := fmt.Sprintf("packs[%d] (%s)", i, p.ID)
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("packs[%d]: id is required", i))
		} else if _, dup := packIDs[p.ID]; dup {
			errs = append(errs, at+": duplicate pack id")
		}
		packIDs[p.ID] = struct{}{}
		if !p.Grants.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown granted currency %q", at, p.Grants))
		}
		if p.Amount <= 0 {
			errs = append(errs, at+": amount must be positive")
		}
		switch {
		case p.PriceCents > 0:
			if p.Cost != 0 || p.CostCurrency != "" {
				errs = append(errs, at+": a real-money pack cannot also have an in-game cost")
			}
		case p.Cost > 0:
			if !p.CostCurrency.Valid() {
				errs = append(errs, fmt.Sprintf("%s: unknown cost currency %q", at, p.CostCurrency))
			}
		default:
			errs = append(errs, at+": either price_cents or cost must be positive")
		}
	}

	listingIDs := make(map[string]struct{}, len(c.Listings))
	for i, l := range c.Listings {
		at := fmt.Sprintf("listings[%d] (%s)", i, l.ID)
		if l.ID == "" {
			errs = append(errs, fmt.Sprintf("listings[%d]: id is required", i))
		} else if _, dup := listingIDs[l.ID]; dup {
			errs = append(errs, at+": duplicate listing id")
		}
		listingIDs[l.ID] = struct{}{}
		if _, ok := cardIDs[l.CardID]; !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown card id %d", at, l.CardID))
		}
		if l.Price <= 0 {
			errs = append(errs, at+": price must be positive")
		}
	}

	if c.Starter.Eddies < 0 || c.Starter.Gems < 0 {
		errs = append(errs, "starter balances must be non-negative")
	}
	for i, cid := range c.Starter.CardIDs {
		if _, ok := cardIDs[cid]; !ok {
			errs = append(errs, fmt.Sprintf("starter.card_ids[%d]: unknown card id %d", i, cid))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("content validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
