package content

import (
	"github.com/xtding233/cardgame-backend/internal/card"
	"github.com/xtding233/cardgame-backend/internal/chest"
	"github.com/xtding233/cardgame-backend/internal/ledger"
	"github.com/xtding233/cardgame-backend/internal/raid"
	"github.com/xtding233/cardgame-backend/internal/shop"
)

// Defaults returns the built-in content set used when no content file is
// configured. It is always valid.
func Defaults() Content {
	return Content{
		Catalog: []card.Card{
			{ID: 1, Name: "Street Thug", Rarity: card.RarityCommon, Role: card.RoleAttack,
				Stats: card.Stats{Strength: 30}, Tags: []string{"gang"}},
			{ID: 2, Name: "Gang Enforcer", Rarity: card.RarityCommon, Role: card.RoleAttack,
				Stats: card.Stats{Strength: 40}, Tags: []string{"gang"}},
			{ID: 3, Name: "Back-Alley Medic", Rarity: card.RarityCommon, Role: card.RoleSupport,
				Stats: card.Stats{Healing: 35}, Tags: []string{"medical"}},
			{ID: 4, Name: "Ripperdoc Intern", Rarity: card.RarityCommon, Role: card.RoleSupport,
				Stats: card.Stats{Healing: 25}, Tags: []string{"medical"}},

			{ID: 5, Name: "Netrunner", Rarity: card.RarityRare, Role: card.RoleAttack,
				Stats: card.Stats{Strength: 65}, Effect: card.EffectSkipTurn, Tags: []string{"net"}},
			{ID: 6, Name: "Solo Mercenary", Rarity: card.RarityRare, Role: card.RoleAttack,
				Stats: card.Stats{Strength: 75}, Tags: []string{"merc"}},
			{ID: 7, Name: "Combat Medic", Rarity: card.RarityRare, Role: card.RoleSupport,
				Stats: card.Stats{Healing: 60}, Tags: []string{"medical"}},

			{ID: 8, Name: "Cyberpsycho", Rarity: card.RarityEpic, Role: card.RoleAttack,
				Stats: card.Stats{Strength: 110}, Tags: []string{"merc"}},
			{ID: 9, Name: "Data Thief", Rarity: card.RarityEpic, Role: card.RoleAttack,
				Stats: card.Stats{Strength: 90}, Effect: card.EffectStealCard, Tags: []string{"net"}},
			{ID: 10, Name: "Trauma Response Team", Rarity: card.RarityEpic, Role: card.RoleSupport,
				Stats: card.Stats{Healing: 100}, Tags: []string{"medical"}},
			{ID: 11, Name: "Weapons Smith", Rarity: card.RarityEpic, Role: card.RoleSupport,
				Stats: card.Stats{Healing: 30}, Effect: card.EffectEnhanceNextAttack, EffectValue: 60,
				Tags: []string{"merc"}},

			{ID: 12, Name: "Legend of the Afterlife", Rarity: card.RarityLegendary, Role: card.RoleAttack,
				Stats: card.Stats{Strength: 180}, Tags: []string{"merc"}},
			{ID: 13, Name: "Blackwall Construct", Rarity: card.RarityLegendary, Role: card.RoleAttack,
				Stats: card.Stats{Strength: 150}, Effect: card.EffectStealCard, Tags: []string{"net"}},
			{ID: 14, Name: "Second Heart", Rarity: card.RarityLegendary, Role: card.RoleSupport,
				Stats: card.Stats{Healing: 80}, Effect: card.EffectSecondHeart, Tags: []string{"medical"}},
		},

		Chests: []chest.Chest{
			{
				ID: "street_cache", Name: "Street Cache",
				Description: "A battered lockbox lifted off a gang stash.",
				Cost:        100, Currency: ledger.Eddies,
				CardCount: chest.CardCount{Min: 1, Max: 2},
				RarityChances: map[card.Rarity]float64{
					card.RarityCommon: 0.75, card.RarityRare: 0.20, card.RarityEpic: 0.05,
				},
			},
			{
				ID: "merc_contract", Name: "Mercenary Contract",
				Description: "Hired muscle only. Attack cards guaranteed.",
				Cost:        150, Currency: ledger.Eddies,
				CardCount: chest.CardCount{Min: 1, Max: 2},
				RarityChances: map[card.Rarity]float64{
					card.RarityCommon: 0.60, card.RarityRare: 0.30, card.RarityEpic: 0.10,
				},
				RoleFilter: card.RoleAttack,
			},
			{
				ID: "corpo_stash", Name: "Corpo Stash",
				Description: "Requisitioned from a corporate warehouse.",
				Cost:        250, Currency: ledger.Eddies,
				CardCount: chest.CardCount{Min: 2, Max: 3},
				RarityChances: map[card.Rarity]float64{
					card.RarityCommon: 0.50, card.RarityRare: 0.35,
					card.RarityEpic:   0.12, card.RarityLegendary: 0.03,
				},
			},
			{
				ID: "militech_vault", Name: "Militech Vault",
				Description: "Top-shelf hardware behind military-grade locks.",
				Cost:        50, Currency: ledger.Gems,
				CardCount: chest.CardCount{Min: 3, Max: 5},
				RarityChances: map[card.Rarity]float64{
					card.RarityRare: 0.50, card.RarityEpic: 0.35, card.RarityLegendary: 0.15,
				},
			},
		},

		Districts: []raid.District{
			{
				ID: "watson", Name: "Watson",
				Description: "Street-level trouble. A place to start.",
				HPRange:     raid.Range{Min: 50, Max: 100},
				RewardRange: raid.Range{Min: 10, Max: 20},
				StunChance:  0.15, EliteChance: 0.10,
				LowTier: card.RarityCommon, HighTier: card.RarityRare,
			},
			{
				ID: "pacifica", Name: "Pacifica",
				Description: "Abandoned combat zone. Bring backup.",
				HPRange:     raid.Range{Min: 150, Max: 300},
				RewardRange: raid.Range{Min: 25, Max: 50},
				StunChance:  0.30, EliteChance: 0.20,
				LowTier: card.RarityRare, HighTier: card.RarityEpic,
				Unlock: &raid.UnlockRequirement{DistrictID: "watson", Kills: 100},
			},
			{
				ID: "city_center", Name: "City Center",
				Description: "Corporate security shoots first.",
				HPRange:     raid.Range{Min: 400, Max: 800},
				RewardRange: raid.Range{Min: 60, Max: 120},
				StunChance:  0.50, EliteChance: 0.25,
				LowTier: card.RarityEpic, HighTier: card.RarityLegendary,
				Unlock: &raid.UnlockRequirement{DistrictID: "pacifica", Kills: 250},
			},
		},

		Packs: []shop.Pack{
			{ID: "eddies_small", Name: "Pocket Change", Grants: ledger.Eddies, Amount: 500,
				CostCurrency: ledger.Gems, Cost: 10},
			{ID: "eddies_large", Name: "Fixer's Cut", Grants: ledger.Eddies, Amount: 2500,
				CostCurrency: ledger.Gems, Cost: 40},
			{ID: "gems_small", Name: "Gem Pouch", Grants: ledger.Gems, Amount: 50, PriceCents: 499},
			{ID: "gems_large", Name: "Gem Crate", Grants: ledger.Gems, Amount: 200, PriceCents: 1499},
		},

		Listings: []shop.Listing{
			{ID: "mkt_solo", CardID: 6, Price: 900},
			{ID: "mkt_trauma", CardID: 10, Price: 1500},
			{ID: "mkt_legend", CardID: 12, Price: 4000},
		},

		Starter: Starter{
			Eddies:  1000,
			Gems:    50,
			CardIDs: []int{1, 5, 9, 11, 14},
		},
	}
}
