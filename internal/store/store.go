// Package store persists player progress documents.
//
// Implementations guarantee one record per PlayerID and per-record
// atomicity of Update. There is no version token: concurrent updates to
// the same player are applied one after another, last write wins.
package store

import (
	"context"

	"github.com/robalobadob/phoenix/apps/go-server/internal/apperr"
	"github.com/robalobadob/phoenix/apps/go-server/internal/game"
)

// MutateFunc computes the replacement for a stored record. It receives a
// private copy and runs inside the store's atomic section; returning an
// error aborts the write.
type MutateFunc func(cur game.GameProgress) (game.GameProgress, error)

// ProgressStore defines the persistence interface for progress records.
// Implementations may be backed by memory or SQLite (this package).
type ProgressStore interface {
	// Insert stores a new record.
	// Returns ALREADY_EXISTS if the player already has one.
	Insert(ctx context.Context, p *game.GameProgress) error

	// FindByPlayer retrieves a player's record.
	// Returns NOT_FOUND if the player has none.
	FindByPlayer(ctx context.Context, playerID string) (*game.GameProgress, error)

	// Update atomically replaces a player's record with fn's result.
	// Returns NOT_FOUND (without calling fn) if the player has none.
	Update(ctx context.Context, playerID string, fn MutateFunc) (*game.GameProgress, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// checkIdentity rejects a mutation that changes the record's keys.
func checkIdentity(cur, next *game.GameProgress) error {
	if cur.ID != next.ID || cur.PlayerID != next.PlayerID {
		return apperr.New(apperr.CodeInternal, "update may not change record identity")
	}
	return nil
}
