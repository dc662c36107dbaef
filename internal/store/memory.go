// internal/store/memory.go
//
// In-memory implementation of ProgressStore.
// Used by tests and by STORE_DRIVER=memory for local runs without a DB file.
//
// Characteristics:
//   - Records keyed by PlayerID; the map key enforces one record per player.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Deep copies on the way in and out so callers never share state.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/phoenix/apps/go-server/internal/apperr"
	"github.com/robalobadob/phoenix/apps/go-server/internal/game"
)

// memory is an in-memory map-based ProgressStore implementation.
type memory struct {
	mu      sync.RWMutex                  // guards records
	records map[string]*game.GameProgress // keyed by PlayerID
}

// NewMemoryStore constructs a new in-memory ProgressStore.
func NewMemoryStore() ProgressStore {
	return &memory{records: make(map[string]*game.GameProgress)}
}

// Insert adds p unless its player already has a record.
func (m *memory) Insert(ctx context.Context, p *game.GameProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[p.PlayerID]; ok {
		return errExists(p.PlayerID)
	}
	cp := p.Clone()
	m.records[p.PlayerID] = &cp
	return nil
}

// FindByPlayer returns a copy of the player's record.
func (m *memory) FindByPlayer(ctx context.Context, playerID string) (*game.GameProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.records[playerID]
	if !ok {
		return nil, errNotFound(playerID)
	}
	cp := p.Clone()
	return &cp, nil
}

// Update replaces the player's record with fn's result under the write lock.
func (m *memory) Update(ctx context.Context, playerID string, fn MutateFunc) (*game.GameProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.records[playerID]
	if !ok {
		return nil, errNotFound(playerID)
	}
	next, err := fn(cur.Clone())
	if err != nil {
		return nil, err
	}
	if err := checkIdentity(cur, &next); err != nil {
		return nil, err
	}
	m.records[playerID] = &next
	out := next.Clone()
	return &out, nil
}

// Ping always succeeds.
func (m *memory) Ping(ctx context.Context) error { return nil }

var _ ProgressStore = (*memory)(nil)

func errNotFound(playerID string) error {
	return apperr.New(apperr.CodeNotFound, "game progress not found for player "+playerID)
}

func errExists(playerID string) error {
	return apperr.New(apperr.CodeAlreadyExists, "game progress already exists for player "+playerID)
}
