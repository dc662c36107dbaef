// internal/status/store.go
//
// Client status checks backed by SQLite (table status_checks).
// Responsibilities:
//   - Insert: record a ping from a named client with a UUID and UTC time.
//   - List:   return recent pings, newest first, capped at MaxList.
//
// Timestamps are stored as fixed-width UTC text so ORDER BY created_at
// matches time order.

package status

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/phoenix/apps/go-server/internal/apperr"
)

// MaxList caps how many checks List returns.
const MaxList = 1000

// tsLayout is fixed-width so created_at sorts lexically in time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Check is a single client status ping.
type Check struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store persists status checks in the shared *sql.DB.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store { return &Store{db: db, now: time.Now} }

// Insert records a ping from clientName.
func (s *Store) Insert(ctx context.Context, clientName string) (*Check, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, apperr.Invalid("client_name is required")
	}
	c := &Check{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO status_checks (id, client_name, created_at) VALUES (?, ?, ?)`,
		c.ID, c.ClientName, c.Timestamp.Format(tsLayout),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnavailable, "insert status check", err)
	}
	return c, nil
}

// List returns the newest checks first. limit <= 0 or above MaxList means MaxList.
func (s *Store) List(ctx context.Context, limit int) ([]Check, error) {
	if limit <= 0 || limit > MaxList {
		limit = MaxList
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_name, created_at
		FROM status_checks
		ORDER BY created_at DESC, id
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnavailable, "list status checks", err)
	}
	defer rows.Close()

	out := make([]Check, 0)
	for rows.Next() {
		var c Check
		var created string
		if err := rows.Scan(&c.ID, &c.ClientName, &created); err != nil {
			return nil, apperr.Wrap(apperr.CodeUnavailable, "scan status check", err)
		}
		ts, err := time.Parse(tsLayout, created)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "parse status check time", err)
		}
		c.Timestamp = ts
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.CodeUnavailable, "list status checks", err)
	}
	return out, nil
}
