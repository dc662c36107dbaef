// internal/moves/catalog.go
//
// The fixed move catalog served by GET /api/moves/available.
//
// Responsibilities:
//   - Load the embedded catalog (assets/moves.json) exactly once.
//   - Check its shape: PerType moves of every type, unique ids, positive
//     damage/cooldown, and exactly one free move per type, which must be
//     the baseline move granted to new players.
//   - Lookups used when validating a player's owned moves.
//
// The catalog is not persisted and never changes at runtime.

package moves

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/robalobadob/phoenix/apps/go-server/assets"
	"github.com/robalobadob/phoenix/apps/go-server/internal/game"
)

// PerType is the number of catalog moves of each type.
const PerType = 5

var (
	initOnce   sync.Once
	catalog    []game.AttackMove          // catalog order
	byID       map[string]game.AttackMove // id → move
	initialErr error
)

// Init loads and checks the embedded catalog.
// Safe to call more than once; later calls return the first result.
func Init() error {
	initOnce.Do(func() {
		raw, err := assets.MovesJSON()
		if err != nil {
			initialErr = fmt.Errorf("moves: read catalog: %w", err)
			return
		}
		list, err := parse(raw)
		if err != nil {
			initialErr = err
			return
		}
		catalog = list
		byID = make(map[string]game.AttackMove, len(list))
		for _, m := range list {
			byID[m.ID] = m
		}
	})
	return initialErr
}

// parse decodes and checks a catalog document.
func parse(raw []byte) ([]game.AttackMove, error) {
	var list []game.AttackMove
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("moves: decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(list))
	perType := make(map[game.MoveType]int)
	free := make(map[game.MoveType]string)
	for _, m := range list {
		if m.ID == "" {
			return nil, fmt.Errorf("moves: entry without id")
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("moves: duplicate id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
		if !m.Type.Valid() {
			return nil, fmt.Errorf("moves: %s has unknown type %q", m.ID, m.Type)
		}
		if m.Damage <= 0 || m.Cooldown <= 0 || m.Cost < 0 {
			return nil, fmt.Errorf("moves: %s has invalid damage/cooldown/cost", m.ID)
		}
		perType[m.Type]++
		if m.Cost == 0 {
			if prev, ok := free[m.Type]; ok {
				return nil, fmt.Errorf("moves: %s and %s are both free %s moves", prev, m.ID, m.Type)
			}
			free[m.Type] = m.ID
		}
	}

	for i, t := range game.MoveTypes {
		if perType[t] != PerType {
			return nil, fmt.Errorf("moves: expected %d %s moves, got %d", PerType, t, perType[t])
		}
		if free[t] != game.BaselineMoves[i] {
			return nil, fmt.Errorf("moves: free %s move is %q, want %q", t, free[t], game.BaselineMoves[i])
		}
	}
	// Ownership flags are client-local.
	for i := range list {
		list[i].IsOwned, list[i].IsEquipped = false, false
	}
	return list, nil
}

// All returns a copy of the catalog in display order.
func All() []game.AttackMove {
	return append([]game.AttackMove(nil), catalog...)
}

// ByID looks up a catalog move.
func ByID(id string) (game.AttackMove, bool) {
	m, ok := byID[id]
	return m, ok
}

// IsKnown reports whether id names a catalog move.
func IsKnown(id string) bool {
	_, ok := byID[id]
	return ok
}

// Baseline returns the free move ids, one per type, in catalog order.
func Baseline() []string {
	out := make([]string, 0, len(game.MoveTypes))
	for _, m := range catalog {
		if m.Cost == 0 {
			out = append(out, m.ID)
		}
	}
	return out
}

// Stats returns the number of loaded moves per type.
func Stats() map[game.MoveType]int {
	out := make(map[game.MoveType]int, len(game.MoveTypes))
	for _, m := range catalog {
		out[m.Type]++
	}
	return out
}
