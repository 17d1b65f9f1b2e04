// Package store declares the persistence contracts the engines depend on.
// Implementations are single-writer: the caller serializes logical
// operations, each of which is one read-modify-write against the store.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/xtding233/cardgame-backend/internal/card"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// CatalogStore persists the master card catalog.
type CatalogStore interface {
	ListCards(ctx context.Context) ([]card.Card, error)
	UpsertCard(ctx context.Context, c card.Card) error
	DeleteCard(ctx context.Context, id int) error
}

// InventoryStore persists the player's owned card instances.
type InventoryStore interface {
	ListOwned(ctx context.Context) ([]card.PlayerCard, error)
	AddOwned(ctx context.Context, cards []card.PlayerCard) error
	RemoveOwned(ctx context.Context, instanceIDs []string) error
}

// CurrencyStore persists named currency balances.
type CurrencyStore interface {
	Balances(ctx context.Context) (map[string]int, error)
	SetBalances(ctx context.Context, balances map[string]int) error
}

// ProgressStore persists cumulative district kill counts and per-instance
// cooldown expiries.
type ProgressStore interface {
	DistrictProgress(ctx context.Context) (map[string]int, error)
	SetDistrictProgress(ctx context.Context, progress map[string]int) error
	Cooldowns(ctx context.Context) (map[string]time.Time, error)
	SetCooldowns(ctx context.Context, cooldowns map[string]time.Time) error
}

// Store bundles every persistence contract a full game session needs.
type Store interface {
	CatalogStore
	InventoryStore
	CurrencyStore
	ProgressStore
}
