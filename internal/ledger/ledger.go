// Package ledger owns mutation of currency balances and the owned-card set.
// Every operation is commit-then-reflect: the store write happens first and
// the in-memory view is only updated after it succeeds, so memory never
// diverges from what was actually persisted.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xtding233/cardgame-backend/internal/card"
	gameerrors "github.com/xtding233/cardgame-backend/internal/errors"
	"github.com/xtding233/cardgame-backend/internal/id"
	"github.com/xtding233/cardgame-backend/internal/raid"
	"github.com/xtding233/cardgame-backend/internal/store"
)

// Currency names a player balance.
type Currency string

const (
	// Eddies is the primary currency earned from battles and raids.
	Eddies Currency = "eddies"
	// Gems is the premium currency.
	Gems Currency = "gems"
)

// Valid reports whether c is a known currency.
func (c Currency) Valid() bool { return c == Eddies || c == Gems }

// Service mediates all balance and inventory mutations.
type Service struct {
	store store.Store

	mu       sync.Mutex
	balances map[Currency]int
	owned    []card.PlayerCard

	// MintID generates instance ids for granted cards. Overridable in tests.
	MintID func() string
}

// NewService creates a ledger over the given store. Call Load before use.
func NewService(st store.Store) *Service {
	return &Service{store: st, MintID: id.NewID, balances: make(map[Currency]int)}
}

// Load reads balances and owned cards from the store into memory.
func (s *Service) Load(ctx context.Context) error {
	raw, err := s.store.Balances(ctx)
	if err != nil {
		return fmt.Errorf("load balances: %w", err)
	}
	owned, err := s.store.ListOwned(ctx)
	if err != nil {
		return fmt.Errorf("load owned cards: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = make(map[Currency]int, len(raw))
	for k, v := range raw {
		s.balances[Currency(k)] = v
	}
	s.owned = owned
	return nil
}

// Balances returns a copy of the current balances.
func (s *Service) Balances() map[Currency]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[Currency]int, len(s.balances))
	for k, v := range s.balances {
		out[k] = v
	}
	return out
}

// Balance returns the current amount of one currency.
func (s *Service) Balance(cur Currency) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[cur]
}

// Owned returns a copy of the owned card list in listing order.
func (s *Service) Owned() []card.PlayerCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]card.PlayerCard(nil), s.owned...)
}

// Spend debits amount from cur. A spend that would drive the balance
// negative is rejected with no state change.
func (s *Service) Spend(ctx context.Context, cur Currency, amount int) error {
	if !cur.Valid() {
		return gameerrors.E(gameerrors.CodeUnknownCurrency, "unknown currency %q", cur)
	}
	if amount < 0 {
		return gameerrors.E(gameerrors.CodeInsufficientFunds, "negative spend amount")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balances[cur] < amount {
		return gameerrors.E(gameerrors.CodeInsufficientFunds, "not enough %s: have %d, need %d", cur, s.balances[cur], amount)
	}
	next := s.copyBalancesLocked()
	next[cur] -= amount
	if err := s.store.SetBalances(ctx, rawBalances(next)); err != nil {
		return fmt.Errorf("persist balances: %w", err)
	}
	s.balances = next
	return nil
}

// Credit adds amount to cur.
func (s *Service) Credit(ctx context.Context, cur Currency, amount int) error {
	if !cur.Valid() {
		return gameerrors.E(gameerrors.CodeUnknownCurrency, "unknown currency %q", cur)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyBalancesLocked()
	next[cur] += amount
	if err := s.store.SetBalances(ctx, rawBalances(next)); err != nil {
		return fmt.Errorf("persist balances: %w", err)
	}
	s.balances = next
	return nil
}

// Grant mints owned instances of the given catalog cards and persists them.
func (s *Service) Grant(ctx context.Context, cards []card.Card) ([]card.PlayerCard, error) {
	minted := make([]card.PlayerCard, 0, len(cards))
	for _, c := range cards {
		minted = append(minted, card.PlayerCard{Card: c, InstanceID: s.MintID()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.AddOwned(ctx, minted); err != nil {
		return nil, fmt.Errorf("persist granted cards: %w", err)
	}
	s.owned = append(s.owned, minted...)
	return minted, nil
}

// Remove destroys owned instances (crafted away, sold, or revoked).
func (s *Service) Remove(ctx context.Context, instanceIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.RemoveOwned(ctx, instanceIDs); err != nil {
		return fmt.Errorf("persist removed cards: %w", err)
	}
	drop := make(map[string]struct{}, len(instanceIDs))
	for _, iid := range instanceIDs {
		drop[iid] = struct{}{}
	}
	kept := s.owned[:0]
	for _, pc := range s.owned {
		if _, gone := drop[pc.InstanceID]; !gone {
			kept = append(kept, pc)
		}
	}
	s.owned = kept
	return nil
}

// RemoveByCardID destroys every owned instance of a catalog card id. Used
// when a card is deleted from the catalog.
func (s *Service) RemoveByCardID(ctx context.Context, cardID int) error {
	var ids []string
	for _, pc := range s.Owned() {
		if pc.ID == cardID {
			ids = append(ids, pc.InstanceID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return s.Remove(ctx, ids)
}

// DistrictProgress reads cumulative kill counts from the store.
func (s *Service) DistrictProgress(ctx context.Context) (raid.Progress, error) {
	p, err := s.store.DistrictProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("load district progress: %w", err)
	}
	return raid.Progress(p), nil
}

// Cooldowns reads per-instance cooldown expiries from the store.
func (s *Service) Cooldowns(ctx context.Context) (map[string]time.Time, error) {
	cds, err := s.store.Cooldowns(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cooldowns: %w", err)
	}
	return cds, nil
}

// CommitRaid applies a raid summary: credits earnings, adds kills to the
// district's cumulative progress, and puts every stunned instance on
// cooldown until now + raid.CooldownDuration.
func (s *Service) CommitRaid(ctx context.Context, sum raid.Summary, now time.Time) error {
	if err := s.Credit(ctx, Eddies, sum.Earnings); err != nil {
		return err
	}

	progress, err := s.store.DistrictProgress(ctx)
	if err != nil {
		return fmt.Errorf("load district progress: %w", err)
	}
	if progress == nil {
		progress = make(map[string]int)
	}
	progress[sum.DistrictID] += sum.Kills
	if err := s.store.SetDistrictProgress(ctx, progress); err != nil {
		return fmt.Errorf("persist district progress: %w", err)
	}

	if len(sum.Stunned) == 0 {
		return nil
	}
	cooldowns, err := s.store.Cooldowns(ctx)
	if err != nil {
		return fmt.Errorf("load cooldowns: %w", err)
	}
	if cooldowns == nil {
		cooldowns = make(map[string]time.Time)
	}
	expiry := now.Add(raid.CooldownDuration)
	for _, iid := range sum.Stunned {
		cooldowns[iid] = expiry
	}
	if err := s.store.SetCooldowns(ctx, cooldowns); err != nil {
		return fmt.Errorf("persist cooldowns: %w", err)
	}
	return nil
}

// ClearCooldown removes one instance's cooldown early for a fixed fee.
func (s *Service) ClearCooldown(ctx context.Context, instanceID string, now time.Time) error {
	cooldowns, err := s.store.Cooldowns(ctx)
	if err != nil {
		return fmt.Errorf("load cooldowns: %w", err)
	}
	expiry, ok := cooldowns[instanceID]
	if !ok || !expiry.After(now) {
		// nothing to clear
		return nil
	}
	if err := s.Spend(ctx, Eddies, raid.CooldownClearFee); err != nil {
		return err
	}
	delete(cooldowns, instanceID)
	if err := s.store.SetCooldowns(ctx, cooldowns); err != nil {
		return fmt.Errorf("persist cooldowns: %w", err)
	}
	return nil
}

func (s *Service) copyBalancesLocked() map[Currency]int {
	out := make(map[Currency]int, len(s.balances))
	for k, v := range s.balances {
		out[k] = v
	}
	return out
}

func rawBalances(b map[Currency]int) map[string]int {
	out := make(map[string]int, len(b))
	for k, v := range b {
		out[string(k)] = v
	}
	return out
}
