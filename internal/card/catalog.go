package card

import "sort"

// FilterRarity returns the catalog cards of the given rarity.
func FilterRarity(catalog []Card, r Rarity) []Card {
	var out []Card
	for _, c := range catalog {
		if c.Rarity == r {
			out = append(out, c)
		}
	}
	return out
}

// Filter returns the catalog cards matching rarity and role. An empty role
// matches any role.
func Filter(catalog []Card, r Rarity, role Role) []Card {
	var out []Card
	for _, c := range catalog {
		if c.Rarity != r {
			continue
		}
		if role != "" && c.Role != role {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ByID looks up a catalog card by its id.
func ByID(catalog []Card, id int) (Card, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// GroupOwned groups owned instances by card id, preserving listing order
// within each group.
func GroupOwned(owned []PlayerCard) map[int][]PlayerCard {
	groups := make(map[int][]PlayerCard)
	for _, pc := range owned {
		groups[pc.ID] = append(groups[pc.ID], pc)
	}
	return groups
}

// DistinctTags returns the sorted set of tags present in the catalog. It is
// recomputed on demand; callers must not cache it across catalog edits.
func DistinctTags(catalog []Card) []string {
	seen := make(map[string]struct{})
	for _, c := range catalog {
		for _, t := range c.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
