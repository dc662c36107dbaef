// internal/store/sqlite.go
//
// SQLite-backed ProgressStore.
// Each record is kept as a JSON document in game_progress.doc, next to the
// columns it is addressed by (id, player_id UNIQUE) and its updated_at.
//
// Notes:
//   - The *sql.DB is owned by the caller (opened/closed in main).
//   - Update is one transaction: read doc, apply fn, write doc. With the
//     connection opened using _txlock=immediate, concurrent writers to the
//     same file queue on the write lock instead of deadlocking.
//   - Driver failures surface as UNAVAILABLE; the unique index on
//     player_id surfaces as ALREADY_EXISTS.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/robalobadob/phoenix/apps/go-server/internal/apperr"
	"github.com/robalobadob/phoenix/apps/go-server/internal/game"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a ProgressStore over db. The game_progress table
// must already exist (see the bootstrap scripts in assets/sql).
func NewSQLiteStore(db *sql.DB) ProgressStore {
	return &sqliteStore{db: db}
}

// Insert writes a new document.
func (s *sqliteStore) Insert(ctx context.Context, p *game.GameProgress) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "encode progress", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_progress (id, player_id, doc, updated_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.PlayerID, string(doc), p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errExists(p.PlayerID)
		}
		return apperr.Wrap(apperr.CodeUnavailable, "insert progress", err)
	}
	return nil
}

// FindByPlayer loads and decodes the player's document.
func (s *sqliteStore) FindByPlayer(ctx context.Context, playerID string) (*game.GameProgress, error) {
	row := s.db.QueryRowContext(ctx, `SELECT doc FROM game_progress WHERE player_id = ?`, playerID)
	return scanProgress(row, playerID)
}

// Update replaces the player's document inside a single transaction.
func (s *sqliteStore) Update(ctx context.Context, playerID string, fn MutateFunc) (*game.GameProgress, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnavailable, "begin update", err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := scanProgress(tx.QueryRowContext(ctx,
		`SELECT doc FROM game_progress WHERE player_id = ?`, playerID), playerID)
	if err != nil {
		return nil, err
	}

	next, err := fn(cur.Clone())
	if err != nil {
		return nil, err
	}
	if err := checkIdentity(cur, &next); err != nil {
		return nil, err
	}

	doc, err := json.Marshal(&next)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "encode progress", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE game_progress SET doc = ?, updated_at = ? WHERE id = ?`,
		string(doc), next.UpdatedAt.UTC().Format(time.RFC3339Nano), next.ID,
	); err != nil {
		return nil, apperr.Wrap(apperr.CodeUnavailable, "update progress", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap(apperr.CodeUnavailable, "commit update", err)
	}
	return &next, nil
}

// Ping checks the database connection.
func (s *sqliteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperr.Wrap(apperr.CodeUnavailable, "ping database", err)
	}
	return nil
}

var _ ProgressStore = (*sqliteStore)(nil)

// scanProgress decodes a single doc column into a GameProgress.
func scanProgress(row *sql.Row, playerID string) (*game.GameProgress, error) {
	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound(playerID)
		}
		return nil, apperr.Wrap(apperr.CodeUnavailable, "query progress", err)
	}
	var p game.GameProgress
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "decode progress", err)
	}
	return &p, nil
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY conflict.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
