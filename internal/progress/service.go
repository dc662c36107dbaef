// internal/progress/service.go
//
// Progress lifecycle for a single player: create once, read, and merge
// partial updates. Validation happens here, before anything is written,
// so a rejected request never mutates the stored record.

package progress

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/phoenix/apps/go-server/internal/apperr"
	"github.com/robalobadob/phoenix/apps/go-server/internal/game"
	"github.com/robalobadob/phoenix/apps/go-server/internal/store"
)

// Service owns create/get/update of progress records.
type Service struct {
	store store.ProgressStore
	known func(id string) bool // move catalog lookup
	newID func() string
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs overrides the record id generator (UUIDv4 by default).
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService wires a Service. known reports whether a move id exists in
// the catalog; nil accepts any id.
func NewService(st store.ProgressStore, known func(id string) bool, opts ...Option) *Service {
	s := &Service{
		store: st,
		known: known,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create builds and stores the default record for playerID.
// A second Create for the same player fails with ALREADY_EXISTS.
func (s *Service) Create(ctx context.Context, playerID string, stats *game.PlayerStats) (*game.GameProgress, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, apperr.Invalid("playerId is required")
	}
	if stats != nil {
		if err := stats.Validate(); err != nil {
			return nil, err
		}
	}

	p := game.NewProgress(s.newID(), playerID, stats, s.now())
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("playerId", playerID).Str("progressId", p.ID).Msg("progress created")
	return p, nil
}

// Get returns the stored record for playerID.
func (s *Service) Get(ctx context.Context, playerID string) (*game.GameProgress, error) {
	return s.store.FindByPlayer(ctx, strings.TrimSpace(playerID))
}

// Update merges u into the player's record and returns the result.
// Supplied fields replace stored ones wholesale; UpdatedAt is refreshed.
// A missing player is NOT_FOUND whatever the payload; an invalid payload
// for an existing player aborts the write.
func (s *Service) Update(ctx context.Context, playerID string, u game.ProgressUpdate) (*game.GameProgress, error) {
	playerID = strings.TrimSpace(playerID)
	now := s.now()
	p, err := s.store.Update(ctx, playerID, func(cur game.GameProgress) (game.GameProgress, error) {
		if err := u.Validate(s.known); err != nil {
			return game.GameProgress{}, err
		}
		return cur.Apply(u, now), nil
	})
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Str("playerId", playerID).Msg("progress updated")
	return p, nil
}

// Ping reports store availability.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
