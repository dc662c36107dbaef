// internal/game/types.go
//
// Core type definitions for persisted player progress.
// Defines:
//   - PlayerStats:   level/xp/health/coins block.
//   - WorldProgress: per-world unlock and score state.
//   - AttackMove:    a catalog move as the client sees it.
//   - GameProgress:  the single progress record kept per player.
//   - ProgressUpdate: the partial-update payload (every field optional).
//
// JSON field names are camelCase to match the game client.

package game

import (
	"encoding/json"
	"time"
)

// MoveType is the input gesture that triggers a move.
type MoveType string

const (
	MoveHold   MoveType = "hold"
	MoveDouble MoveType = "double"
	MoveTriple MoveType = "triple"
)

// MoveTypes lists every slot type in display order.
var MoveTypes = []MoveType{MoveHold, MoveDouble, MoveTriple}

// Valid reports whether t is one of the known move types.
func (t MoveType) Valid() bool {
	switch t {
	case MoveHold, MoveDouble, MoveTriple:
		return true
	}
	return false
}

// PlayerStats holds the character block of a progress record.
type PlayerStats struct {
	Level     int `json:"level"`
	XP        int `json:"xp"`
	XPToNext  int `json:"xpToNext"`
	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Coins     int `json:"coins"`
}

// UnmarshalJSON fills fields absent from the payload with DefaultStats.
func (s *PlayerStats) UnmarshalJSON(data []byte) error {
	type plain PlayerStats
	v := plain(DefaultStats())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = PlayerStats(v)
	return nil
}

// WorldProgress is the state of a single world (1..WorldCount).
type WorldProgress struct {
	WorldID   int  `json:"worldId"`
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
	BestTime  int  `json:"bestTime"` // milliseconds
	HighScore int  `json:"highScore"`
}

// AttackMove is a purchasable move. IsOwned/IsEquipped are client-local
// flags; the catalog always reports them false.
type AttackMove struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        MoveType `json:"type"`
	Damage      int      `json:"damage"`
	Cooldown    int      `json:"cooldown"` // milliseconds
	Cost        int      `json:"cost"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	IsOwned     bool     `json:"isOwned"`
	IsEquipped  bool     `json:"isEquipped"`
}

// GameProgress is the persisted progress record, one per PlayerID.
type GameProgress struct {
	ID            string                   `json:"id"`       // opaque, never parsed
	PlayerID      string                   `json:"playerId"` // unique business key
	PlayerStats   PlayerStats              `json:"playerStats"`
	EquippedMoves map[MoveType]*AttackMove `json:"equippedMoves"`
	OwnedMoves    []string                 `json:"ownedMoves"`
	WorldProgress []WorldProgress          `json:"worldProgress"`
	DeathCount    int                      `json:"deathCount"`
	Settings      map[string]bool          `json:"settings"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// ProgressUpdate carries only the fields a client wants to overwrite.
// A nil field is left untouched; JSON null decodes to nil as well.
type ProgressUpdate struct {
	PlayerStats   *PlayerStats              `json:"playerStats,omitempty"`
	EquippedMoves *map[MoveType]*AttackMove `json:"equippedMoves,omitempty"`
	OwnedMoves    *[]string                 `json:"ownedMoves,omitempty"`
	WorldProgress *[]WorldProgress          `json:"worldProgress,omitempty"`
	DeathCount    *int                      `json:"deathCount,omitempty"`
	Settings      *map[string]bool          `json:"settings,omitempty"`
}
