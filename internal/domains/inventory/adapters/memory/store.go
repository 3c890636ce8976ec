package memory

import (
	"context"
	"sync"

	"github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
	"github.com/bloodlink/bloodlink-api/internal/domains/inventory/ports"
)

var _ ports.SeededStore = (*Store)(nil)

// Store keeps institution inventories in process memory.
type Store struct {
	mu     sync.RWMutex
	stocks map[int64][]domain.BloodGroupEntry
}

func NewStore() *Store {
	return &Store{stocks: map[int64][]domain.BloodGroupEntry{}}
}

// Seed installs a zeroed inventory for a freshly registered institution.
func (s *Store) Seed(_ context.Context, institutionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stocks[institutionID]; !ok {
		s.stocks[institutionID] = domain.SeedStock()
	}
	return nil
}

func (s *Store) GetStock(_ context.Context, institutionID int64) ([]domain.BloodGroupEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stock, ok := s.stocks[institutionID]
	if !ok {
		return nil, ports.ErrStockNotFound
	}
	return cloneEntries(stock), nil
}

func (s *Store) ReplaceStock(_ context.Context, institutionID int64, entries []domain.BloodGroupEntry) ([]domain.BloodGroupEntry, error) {
	if err := domain.ValidateEntries(entries); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[institutionID] = cloneEntries(entries)
	return cloneEntries(entries), nil
}

func (s *Store) ApplyDelta(_ context.Context, institutionID int64, deltas []domain.BloodGroupEntry) ([]domain.BloodGroupEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.stocks[institutionID]
	if !ok {
		return nil, ports.ErrStockNotFound
	}
	updated, err := domain.Shift(stock, deltas)
	if err != nil {
		return nil, err
	}
	s.stocks[institutionID] = updated
	return cloneEntries(updated), nil
}

func cloneEntries(entries []domain.BloodGroupEntry) []domain.BloodGroupEntry {
	return append([]domain.BloodGroupEntry{}, entries...)
}
