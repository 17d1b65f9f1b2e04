package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xtding233/cardgame-backend/internal/card"
)

// Memory is an in-memory Store used by tests and as a fallback when no
// database path is configured.
type Memory struct {
	mu        sync.RWMutex
	catalog   map[int]card.Card
	owned     map[string]card.PlayerCard
	ownedSeq  []string
	balances  map[string]int
	progress  map[string]int
	cooldowns map[string]time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		catalog:   make(map[int]card.Card),
		owned:     make(map[string]card.PlayerCard),
		balances:  make(map[string]int),
		progress:  make(map[string]int),
		cooldowns: make(map[string]time.Time),
	}
}

func (m *Memory) ListCards(ctx context.Context) ([]card.Card, error) {
	_ = ctx

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]card.Card, 0, len(m.catalog))
	for _, c := range m.catalog {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpsertCard(ctx context.Context, c card.Card) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog[c.ID] = c
	return nil
}

func (m *Memory) DeleteCard(ctx context.Context, id int) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.catalog[id]; !ok {
		return ErrNotFound
	}
	delete(m.catalog, id)
	return nil
}

func (m *Memory) ListOwned(ctx context.Context) ([]card.PlayerCard, error) {
	_ = ctx

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]card.PlayerCard, 0, len(m.ownedSeq))
	for _, iid := range m.ownedSeq {
		if pc, ok := m.owned[iid]; ok {
			out = append(out, pc)
		}
	}
	return out, nil
}

func (m *Memory) AddOwned(ctx context.Context, cards []card.PlayerCard) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pc := range cards {
		if _, ok := m.owned[pc.InstanceID]; !ok {
			m.ownedSeq = append(m.ownedSeq, pc.InstanceID)
		}
		m.owned[pc.InstanceID] = pc
	}
	return nil
}

func (m *Memory) RemoveOwned(ctx context.Context, instanceIDs []string) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, iid := range instanceIDs {
		delete(m.owned, iid)
	}
	return nil
}

func (m *Memory) Balances(ctx context.Context) (map[string]int, error) {
	_ = ctx

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, len(m.balances))
	for k, v := range m.balances {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) SetBalances(ctx context.Context, balances map[string]int) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances = make(map[string]int, len(balances))
	for k, v := range balances {
		m.balances[k] = v
	}
	return nil
}

func (m *Memory) DistrictProgress(ctx context.Context) (map[string]int, error) {
	_ = ctx

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, len(m.progress))
	for k, v := range m.progress {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) SetDistrictProgress(ctx context.Context, progress map[string]int) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	m.progress = make(map[string]int, len(progress))
	for k, v := range progress {
		m.progress[k] = v
	}
	return nil
}

func (m *Memory) Cooldowns(ctx context.Context) (map[string]time.Time, error) {
	_ = ctx

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]time.Time, len(m.cooldowns))
	for k, v := range m.cooldowns {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) SetCooldowns(ctx context.Context, cooldowns map[string]time.Time) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cooldowns = make(map[string]time.Time, len(cooldowns))
	for k, v := range cooldowns {
		m.cooldowns[k] = v
	}
	return nil
}
