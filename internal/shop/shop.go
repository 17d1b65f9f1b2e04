// Package shop sells currency packs and runs the fixed card marketplace.
// All money movement goes through the ledger; the shop itself holds only
// static pack and listing definitions.
package shop

import (
	"context"
	"sync"

	"github.com/xtding233/cardgame-backend/internal/card"
	gameerrors "github.com/xtding233/cardgame-backend/internal/errors"
	"github.com/xtding233/cardgame-backend/internal/ledger"
)

// CommissionPercent is the marketplace cut on sales, rounded up.
const CommissionPercent = 10

// Pack is a purchasable currency bundle. Packs with PriceCents > 0 are
// real-money offers; purchasing those is stubbed and always rejected.
type Pack struct {
	ID     string          `json:"id" yaml:"id"`
	Name   string          `json:"name" yaml:"name"`
	Grants ledger.Currency `json:"grants" yaml:"grants"`
	Amount int             `json:"amount" yaml:"amount"`

	PriceCents   int             `json:"price_cents,omitempty" yaml:"price_cents,omitempty"`
	CostCurrency ledger.Currency `json:"cost_currency,omitempty" yaml:"cost_currency,omitempty"`
	Cost         int             `json:"cost,omitempty" yaml:"cost,omitempty"`
}

// Listing is a fixed marketplace offer of one catalog card.
type Listing struct {
	ID     string `json:"id" yaml:"id"`
	CardID int    `json:"card_id" yaml:"card_id"`
	Price  int    `json:"price" yaml:"price"` // eddies
}

// Service exposes pack purchases and the marketplace.
type Service struct {
	ledger *ledger.Service

	mu       sync.Mutex
	packs    []Pack
	listings []Listing
}

// NewService creates a shop over the ledger with static offers.
func NewService(led *ledger.Service, packs []Pack, listings []Listing) *Service {
	return &Service{
		ledger:   led,
		packs:    append([]Pack(nil), packs...),
		listings: append([]Listing(nil), listings...),
	}
}

// Packs returns the purchasable currency packs.
func (s *Service) Packs() []Pack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Pack(nil), s.packs...)
}

// Listings returns the marketplace offers still available.
func (s *Service) Listings() []Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Listing(nil), s.listings...)
}

// BuyPack purchases a currency pack. Real-money packs are rejected with a
// stub error; in-game packs debit their cost and credit the granted amount.
func (s *Service) BuyPack(ctx context.Context, packID string) error {
	var pack Pack
	found := false
	s.mu.Lock()
	for _, p := range s.packs {
		if p.ID == packID {
			pack, found = p, true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return gameerrors.E(gameerrors.CodeUnknownPack, "unknown pack %q", packID)
	}

	if pack.PriceCents > 0 {
		return gameerrors.E(gameerrors.CodeRealMoneyStubbed,
			"pack %q costs real money; payment processing is not available", pack.Name)
	}
	if err := s.ledger.Spend(ctx, pack.CostCurrency, pack.Cost); err != nil {
		return err
	}
	return s.ledger.Credit(ctx, pack.Grants, pack.Amount)
}

// BuyListing purchases a marketplace card: debit the price, mint an owned
// instance of the listed catalog card, and delist the offer.
func (s *Service) BuyListing(ctx context.Context, listingID string, catalog []card.Card) (card.PlayerCard, error) {
	s.mu.Lock()
	idx := -1
	for i, l := range s.listings {
		if l.ID == listingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return card.PlayerCard{}, gameerrors.E(gameerrors.CodeUnknownListing, "unknown listing %q", listingID)
	}
	listing := s.listings[idx]
	s.mu.Unlock()

	listed, ok := card.ByID(catalog, listing.CardID)
	if !ok {
		return card.PlayerCard{}, gameerrors.E(gameerrors.CodeUnknownListing,
			"listing %q offers card %d which is no longer in the catalog", listingID, listing.CardID)
	}

	if err := s.ledger.Spend(ctx, ledger.Eddies, listing.Price); err != nil {
		return card.PlayerCard{}, err
	}
	minted, err := s.ledger.Grant(ctx, []card.Card{listed})
	if err != nil {
		return card.PlayerCard{}, err
	}

	s.mu.Lock()
	for i, l := range s.listings {
		if l.ID == listingID {
			s.listings = append(s.listings[:i], s.listings[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return minted[0], nil
}

// Sell destroys an owned instance in exchange for the asked price minus the
// marketplace commission. The net proceeds are credited in eddies.
func (s *Service) Sell(ctx context.Context, instanceID string, price int) (int, error) {
	if price <= 0 {
		return 0, gameerrors.E(gameerrors.CodeInvalidPrice, "sale price must be positive, got %d", price)
	}

	owned := false
	for _, pc := range s.ledger.Owned() {
		if pc.InstanceID == instanceID {
			owned = true
			break
		}
	}
	if !owned {
		return 0, gameerrors.E(gameerrors.CodeCardNotOwned, "instance %s is not in your collection", instanceID)
	}

	if err := s.ledger.Remove(ctx, []string{instanceID}); err != nil {
		return 0, err
	}
	net := price - Commission(price)
	if err := s.ledger.Credit(ctx, ledger.Eddies, net); err != nil {
		return 0, err
	}
	return net, nil
}

// Commission is the marketplace cut on a sale price, rounded up.
func Commission(price int) int {
	return (price*CommissionPercent + 99) / 100
}
