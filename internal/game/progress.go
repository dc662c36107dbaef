// internal/game/progress.go
//
// Pure progress logic: default-state construction, partial-update merge,
// and validation of everything a client may write.
//
// Notes:
//   - Nothing here touches storage or the clock; callers pass ids and times.
//   - Apply never mutates its receiver, so a store can compute the new
//     document and discard it if the write fails.
package game

import (
	"fmt"
	"time"

	"github.com/robalobadob/phoenix/apps/go-server/internal/apperr"
)

// WorldCount is the number of worlds every progress record tracks.
const WorldCount = 10

// BaselineMoves are granted to every new player, one free move per type.
var BaselineMoves = []string{"hold_1", "double_1", "triple_1"}

// DefaultStats returns the stats block of a brand-new player.
func DefaultStats() PlayerStats {
	return PlayerStats{
		Level:     1,
		XP:        0,
		XPToNext:  100,
		Health:    100,
		MaxHealth: 100,
		Coins:     50,
	}
}

// DefaultSettings returns the toggles of a brand-new player.
func DefaultSettings() map[string]bool {
	return map[string]bool{"soundEnabled": true, "musicEnabled": true}
}

// InitialWorlds returns WorldCount entries with only world 1 unlocked.
func InitialWorlds() []WorldProgress {
	out := make([]WorldProgress, WorldCount)
	for i := range out {
		out[i] = WorldProgress{WorldID: i + 1, Unlocked: i == 0}
	}
	return out
}

// NewProgress builds the record created on a player's first request.
// A nil stats uses DefaultStats.
func NewProgress(id, playerID string, stats *PlayerStats, now time.Time) *GameProgress {
	st := DefaultStats()
	if stats != nil {
		st = *stats
	}
	return &GameProgress{
		ID:            id,
		PlayerID:      playerID,
		PlayerStats:   st,
		EquippedMoves: map[MoveType]*AttackMove{},
		OwnedMoves:    append([]string(nil), BaselineMoves...),
		WorldProgress: InitialWorlds(),
		DeathCount:    0,
		Settings:      DefaultSettings(),
		UpdatedAt:     now.UTC(),
	}
}

// Apply returns a copy of p with every supplied field of u replacing the
// stored field wholesale. UpdatedAt is set to now.
func (p *GameProgress) Apply(u ProgressUpdate, now time.Time) GameProgress {
	out := p.Clone()
	if u.PlayerStats != nil {
		out.PlayerStats = *u.PlayerStats
	}
	if u.EquippedMoves != nil {
		out.EquippedMoves = cloneEquipped(*u.EquippedMoves)
	}
	if u.OwnedMoves != nil {
		out.OwnedMoves = append([]string{}, (*u.OwnedMoves)...)
	}
	if u.WorldProgress != nil {
		out.WorldProgress = append([]WorldProgress{}, (*u.WorldProgress)...)
	}
	if u.DeathCount != nil {
		out.DeathCount = *u.DeathCount
	}
	if u.Settings != nil {
		out.Settings = cloneSettings(*u.Settings)
	}
	out.UpdatedAt = now.UTC()
	return out
}

// Clone returns a deep copy of p.
func (p *GameProgress) Clone() GameProgress {
	out := *p
	out.EquippedMoves = cloneEquipped(p.EquippedMoves)
	out.OwnedMoves = append([]string{}, p.OwnedMoves...)
	out.WorldProgress = append([]WorldProgress{}, p.WorldProgress...)
	out.Settings = cloneSettings(p.Settings)
	return out
}

func cloneEquipped(in map[MoveType]*AttackMove) map[MoveType]*AttackMove {
	out := make(map[MoveType]*AttackMove, len(in))
	for k, v := range in {
		if v == nil {
			out[k] = nil
			continue
		}
		m := *v
		out[k] = &m
	}
	return out
}

func cloneSettings(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ---------------------------- validation -----------------------------------

// Validate checks the stats invariants.
func (s PlayerStats) Validate() error {
	switch {
	case s.Level < 1:
		return apperr.Invalid("playerStats.level must be >= 1")
	case s.XP < 0:
		return apperr.Invalid("playerStats.xp must be >= 0")
	case s.XPToNext <= 0:
		return apperr.Invalid("playerStats.xpToNext must be > 0")
	case s.MaxHealth <= 0:
		return apperr.Invalid("playerStats.maxHealth must be > 0")
	case s.Health < 0 || s.Health > s.MaxHealth:
		return apperr.Invalid("playerStats.health must be within 0..maxHealth")
	case s.Coins < 0:
		return apperr.Invalid("playerStats.coins must be >= 0")
	}
	return nil
}

// ValidateWorlds checks a full world sequence: one entry per world id
// 1..WorldCount, world 1 unlocked, completed worlds unlocked.
func ValidateWorlds(ws []WorldProgress) error {
	if len(ws) != WorldCount {
		return apperr.Invalid(fmt.Sprintf("worldProgress must have %d entries, got %d", WorldCount, len(ws)))
	}
	var seen [WorldCount + 1]bool
	for _, w := range ws {
		if w.WorldID < 1 || w.WorldID > WorldCount {
			return apperr.Invalid(fmt.Sprintf("worldProgress: worldId %d out of range 1..%d", w.WorldID, WorldCount))
		}
		if seen[w.WorldID] {
			return apperr.Invalid(fmt.Sprintf("worldProgress: duplicate worldId %d", w.WorldID))
		}
		seen[w.WorldID] = true
		if w.BestTime < 0 || w.HighScore < 0 {
			return apperr.Invalid(fmt.Sprintf("worldProgress: world %d has negative bestTime or highScore", w.WorldID))
		}
		if w.Completed && !w.Unlocked {
			return apperr.Invalid(fmt.Sprintf("worldProgress: world %d completed but locked", w.WorldID))
		}
		if w.WorldID == 1 && !w.Unlocked {
			return apperr.Invalid("worldProgress: world 1 must stay unlocked")
		}
	}
	return nil
}

// ValidateOwnedMoves checks ids are non-empty, unique and known.
func ValidateOwnedMoves(ids []string, known func(id string) bool) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return apperr.Invalid("ownedMoves: empty move id")
		}
		if _, dup := seen[id]; dup {
			return apperr.Invalid(fmt.Sprintf("ownedMoves: duplicate move id %q", id))
		}
		seen[id] = struct{}{}
		if known != nil && !known(id) {
			return apperr.Invalid(fmt.Sprintf("ownedMoves: unknown move id %q", id))
		}
	}
	return nil
}

// ValidateEquippedMoves checks slot keys are move types and that a
// non-empty slot holds a move of its own type.
func ValidateEquippedMoves(eq map[MoveType]*AttackMove) error {
	for slot, m := range eq {
		if !slot.Valid() {
			return apperr.Invalid(fmt.Sprintf("equippedMoves: unknown slot %q", slot))
		}
		if m == nil {
			continue
		}
		if m.ID == "" {
			return apperr.Invalid(fmt.Sprintf("equippedMoves.%s: move id is required", slot))
		}
		if m.Type != slot {
			return apperr.Invalid(fmt.Sprintf("equippedMoves.%s: move %q has type %q", slot, m.ID, m.Type))
		}
	}
	return nil
}

// Validate checks every supplied field. known reports whether a move id
// exists in the catalog; nil skips that check.
func (u ProgressUpdate) Validate(known func(id string) bool) error {
	if u.PlayerStats != nil {
		if err := u.PlayerStats.Validate(); err != nil {
			return err
		}
	}
	if u.EquippedMoves != nil {
		if err := ValidateEquippedMoves(*u.EquippedMoves); err != nil {
			return err
		}
	}
	if u.OwnedMoves != nil {
		if err := ValidateOwnedMoves(*u.OwnedMoves, known); err != nil {
			return err
		}
	}
	if u.WorldProgress != nil {
		if err := ValidateWorlds(*u.WorldProgress); err != nil {
			return err
		}
	}
	if u.DeathCount != nil && *u.DeathCount < 0 {
		return apperr.Invalid("deathCount must be >= 0")
	}
	return nil
}
