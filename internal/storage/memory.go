package storage

import (
	"context"
	"sort"
	"sync"

	"fillScope/internal/model"
)

// MemoryStore is an in-process FillStore. It backs dry-run scans and tests;
// the semantics (idempotent keys, checkpoint row, query ordering) match the
// Postgres store.
type MemoryStore struct {
	mu          sync.RWMutex
	fills       map[model.FillKey]model.Fill
	checkpoints map[uint64]uint64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		fills:       make(map[model.FillKey]model.Fill),
		checkpoints: make(map[uint64]uint64),
	}
}

// UpsertFills inserts fills, ignoring keys that already exist.
func (s *MemoryStore) UpsertFills(_ context.Context, fills []model.Fill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fill := range fills {
		key := fill.Key()
		if _, ok := s.fills[key]; ok {
			continue
		}
		s.fills[key] = fill
	}
	return nil
}

// SetCheckpoint upserts the checkpoint row for a chain.
func (s *MemoryStore) SetCheckpoint(_ context.Context, chainID uint64, block uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[chainID] = block
	return nil
}

// GetCheckpoint returns the checkpoint for a chain.
func (s *MemoryStore) GetCheckpoint(_ context.Context, chainID uint64) (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	block, ok := s.checkpoints[chainID]
	return block, ok, nil
}

// QueryByTokenIDs returns matching fills, most recent first.
func (s *MemoryStore) QueryByTokenIDs(_ context.Context, tokenIDs []string, window TimeRange) ([]model.Fill, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}
	wanted := make(map[string]struct{}, len(tokenIDs))
	for _, id := range tokenIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	matches := make([]model.Fill, 0)
	for _, fill := range s.fills {
		_, maker := wanted[fill.MakerAssetID]
		_, taker := wanted[fill.TakerAssetID]
		if !maker && !taker {
			continue
		}
		if window.From != 0 && fill.Timestamp < window.From {
			continue
		}
		if window.To != 0 && fill.Timestamp > window.To {
			continue
		}
		matches = append(matches, fill)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].BlockNumber != matches[j].BlockNumber {
			return matches[i].BlockNumber > matches[j].BlockNumber
		}
		return matches[i].LogIndex > matches[j].LogIndex
	})
	return matches, nil
}

// Len returns the number of stored fills.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fills)
}
