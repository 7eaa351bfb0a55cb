package service

import (
	"fmt"
	"sync"
	"time"

	"deepbook_go/internal/domain"
)

// ManagerStore tracks the balance managers known to this client: their
// on-chain object id, the last confirmed object version, and cached per-coin
// balances with a staleness flag.
//
// The stored version advances only through ApplyOutcome or SetVersion, and
// both are called exclusively from the sequencer's completion path for the
// manager, so there is a single writer per entry.
type ManagerStore struct {
	mu       sync.RWMutex
	managers map[string]*domain.BalanceManager
}

// NewManagerStore creates an empty store.
func NewManagerStore() *ManagerStore {
	return &ManagerStore{
		managers: make(map[string]*domain.BalanceManager),
	}
}

// Register adds a balance manager under its logical name.
func (s *ManagerStore) Register(m domain.BalanceManager) error {
	if m.Name == "" || m.ObjectID == "" {
		return fmt.Errorf("manager registration needs name and object id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.managers[m.Name]; exists {
		return fmt.Errorf("manager %q already registered", m.Name)
	}
	if m.Balances == nil {
		m.Balances = make(map[string]domain.CachedBalance)
	}
	s.managers[m.Name] = &m
	return nil
}

// Get returns a copy of the manager. Callers never see store-internal state.
func (s *ManagerStore) Get(name string) (*domain.BalanceManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.managers[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownManager)
	}
	return m.Clone(), nil
}

// Names returns all registered manager names.
func (s *ManagerStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.managers))
	for name := range s.managers {
		out = append(out, name)
	}
	return out
}

// ApplyOutcome advances the stored object version to the version the outcome
// reports for the manager's object. This is the only path by which the
// version advances after a successful mutation.
func (s *ManagerStore) ApplyOutcome(name string, outcome *domain.TransactionOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.managers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownManager)
	}
	if v, ok := outcome.Versions[m.ObjectID]; ok && v > m.Version {
		m.Version = v
	}
	return nil
}

// SetVersion overwrites the stored version with an authoritative value
// refetched from the chain (conflict or unknown-outcome resolution).
func (s *ManagerStore) SetVersion(name string, version uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.managers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownManager)
	}
	m.Version = version
	return nil
}

// Balance returns the cached balance for one coin. A zero-value CachedBalance
// with Fresh=false means the coin has never been fetched.
func (s *ManagerStore) Balance(name, coin string) (domain.CachedBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.managers[name]
	if !ok {
		return domain.CachedBalance{}, fmt.Errorf("%q: %w", name, domain.ErrUnknownManager)
	}
	return m.Balances[coin], nil
}

// SetBalance stores a fresh per-coin balance snapshot from a chain query.
func (s *ManagerStore) SetBalance(name, coin string, raw uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.managers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownManager)
	}
	m.Balances[coin] = domain.CachedBalance{Raw: raw, Fresh: true, UpdatedAt: time.Now()}
	return nil
}

// AdjustBalance applies a confirmed local delta (deposit credit, withdraw
// debit) to a fresh cached balance. If the cache is stale or the debit would
// underflow it, the entry is invalidated instead of guessing.
func (s *ManagerStore) AdjustBalance(name, coin string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.managers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownManager)
	}

	b := m.Balances[coin]
	if !b.Fresh || (delta < 0 && uint64(-delta) > b.Raw) {
		m.Balances[coin] = domain.CachedBalance{Fresh: false}
		return nil
	}
	if delta >= 0 {
		b.Raw += uint64(delta)
	} else {
		b.Raw -= uint64(-delta)
	}
	b.UpdatedAt = time.Now()
	m.Balances[coin] = b
	return nil
}

// InvalidateBalance marks a single coin's cached balance stale without
// touching other coins.
func (s *ManagerStore) InvalidateBalance(name, coin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.managers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownManager)
	}

	b := m.Balances[coin]
	b.Fresh = false
	m.Balances[coin] = b
	return nil
}

// InvalidateAll marks every cached balance of the manager stale. Used when an
// external mutation is observed without coin-level detail.
func (s *ManagerStore) InvalidateAll(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.managers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownManager)
	}
	for coin, b := range m.Balances {
		b.Fresh = false
		m.Balances[coin] = b
	}
	return nil
}

// FindByObjectID maps an on-chain object id back to the logical name.
func (s *ManagerStore) FindByObjectID(objectID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for name, m := range s.managers {
		if m.ObjectID == objectID {
			return name, true
		}
	}
	return "", false
}
