package store

import (
	"sort"
	"sync"

	"github.com/psantana5/freqtrade-ops/pkg/models"
)

// MemoryStore is an in-memory Store used by tests and by the monitor when
// persistence is disabled
type MemoryStore struct {
	mu      sync.RWMutex
	signals []models.Signal
	nextID  int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// SaveSignal persists a signal and fills in its ID
func (s *MemoryStore) SaveSignal(sig *models.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sig.ID = s.nextID
	s.nextID++
	s.signals = append(s.signals, *sig)
	return nil
}

// ListSignals returns the most recent signals, newest first
func (s *MemoryStore) ListSignals(limit int, pair string) ([]models.Signal, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Signal, 0, limit)
	for _, sig := range s.signals {
		if pair == "" || sig.Pair == pair {
			out = append(out, sig)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountByType aggregates stored signals per signal type
func (s *MemoryStore) CountByType() (map[models.SignalType]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.SignalType]int)
	for _, sig := range s.signals {
		counts[sig.Type]++
	}
	return counts, nil
}

// HealthCheck always succeeds for the in-memory store
func (s *MemoryStore) HealthCheck() error { return nil }

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error { return nil }
