package progress

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/robalobadob/phoenix/apps/go-server/internal/apperr"
	"github.com/robalobadob/phoenix/apps/go-server/internal/game"
	"github.com/robalobadob/phoenix/apps/go-server/internal/moves"
	"github.com/robalobadob/phoenix/apps/go-server/internal/store"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	if err := moves.Init(); err != nil {
		t.Fatalf("init catalog: %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)}
	n := 0
	ids := func() string {
		n++
		return "rec-" + strconv.Itoa(n)
	}
	return NewService(store.NewMemoryStore(), moves.IsKnown, WithClock(clock.Now), WithIDs(ids)), clock
}

func TestCreateDefaults(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "  player-1  ", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != "rec-1" || p.PlayerID != "player-1" {
		t.Fatalf("identity = %q/%q", p.ID, p.PlayerID)
	}
	if p.PlayerStats != game.DefaultStats() {
		t.Fatalf("stats = %+v", p.PlayerStats)
	}
	if !reflect.DeepEqual(p.OwnedMoves, []string{"hold_1", "double_1", "triple_1"}) {
		t.Fatalf("owned = %v", p.OwnedMoves)
	}
	unlocked := 0
	for _, w := range p.WorldProgress {
		if w.Unlocked {
			unlocked++
		}
	}
	if len(p.WorldProgress) != 10 || unlocked != 1 || !p.WorldProgress[0].Unlocked {
		t.Fatalf("worlds = %+v", p.WorldProgress)
	}
	if !p.UpdatedAt.Equal(clock.t) {
		t.Fatalf("updatedAt = %v", p.UpdatedAt)
	}

	got, err := svc.Get(ctx, "player-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("get returned %+v, want %+v", got, p)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "   ", nil); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for blank id, got %v", err)
	}
	bad := game.PlayerStats{Level: 1, XPToNext: 100, Health: 200, MaxHealth: 100}
	if _, err := svc.Create(ctx, "p", &bad); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for stats, got %v", err)
	}
	if _, err := svc.Get(ctx, "p"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("rejected create persisted a record: %v", err)
	}
}

func TestCreateTwiceRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "dup", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	override := game.PlayerStats{Level: 5, XPToNext: 10, Health: 1, MaxHealth: 1}
	if _, err := svc.Create(ctx, "dup", &override); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	got, err := svc.Get(ctx, "dup")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "rec-1" || got.PlayerStats != game.DefaultStats() {
		t.Fatalf("first record changed: %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), "never-created"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatsReplacesOnlyStats(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	before, err := svc.Create(ctx, "p", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.t = clock.t.Add(5 * time.Minute)

	st := game.PlayerStats{Level: 3, XP: 40, XPToNext: 300, Health: 75, MaxHealth: 120, Coins: 5}
	updated, err := svc.Update(ctx, "p", game.ProgressUpdate{PlayerStats: &st})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.Equal(clock.t) {
		t.Fatalf("updatedAt = %v, want %v", updated.UpdatedAt, clock.t)
	}

	after, err := svc.Get(ctx, "p")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.PlayerStats != st {
		t.Fatalf("stats = %+v, want %+v", after.PlayerStats, st)
	}

	want := *before
	want.PlayerStats = st
	want.UpdatedAt = clock.t
	if !reflect.DeepEqual(*after, want) {
		t.Fatalf("other fields changed:\n got %+v\nwant %+v", *after, want)
	}
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	deaths := 1
	_, err := svc.Update(context.Background(), "ghost", game.ProgressUpdate{DeathCount: &deaths})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("update created a record: %v", err)
	}
}

func TestUpdateInvalidDoesNotMutate(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	before, err := svc.Create(ctx, "p", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.t = clock.t.Add(time.Hour)

	owned := []string{"hold_1", "not_a_move"}
	deaths := 4
	_, err = svc.Update(ctx, "p", game.ProgressUpdate{OwnedMoves: &owned, DeathCount: &deaths})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	after, err := svc.Get(ctx, "p")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(after, before) {
		t.Fatalf("record changed after rejected update:\n got %+v\nwant %+v", after, before)
	}
}

func TestUpdatePurchaseFlow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, "buyer", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	hold2, _ := moves.ByID("hold_2")
	owned := []string{"hold_1", "double_1", "triple_1", "hold_2"}
	equipped := map[game.MoveType]*game.AttackMove{game.MoveHold: &hold2, game.MoveDouble: nil}
	stats := game.DefaultStats()
	stats.Coins = 0
	worlds := game.InitialWorlds()
	worlds[0].Completed, worlds[0].HighScore, worlds[0].BestTime = true, 1200, 61000
	worlds[1].Unlocked = true

	p, err := svc.Update(ctx, "buyer", game.ProgressUpdate{
		PlayerStats:   &stats,
		OwnedMoves:    &owned,
		EquippedMoves: &equipped,
		WorldProgress: &worlds,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(p.OwnedMoves, owned) || p.EquippedMoves[game.MoveHold].ID != "hold_2" {
		t.Fatalf("moves not applied: %+v", p)
	}
	if !p.WorldProgress[1].Unlocked || p.WorldProgress[2].Unlocked {
		t.Fatalf("worlds = %+v", p.WorldProgress)
	}
	if !reflect.DeepEqual(p.Settings, game.DefaultSettings()) {
		t.Fatalf("settings changed: %v", p.Settings)
	}
}

func TestGetIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, "p", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	a, err := svc.Get(ctx, "p")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, err := svc.Get(ctx, "p")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("consecutive reads differ")
	}
}

func TestUpdateMissingWithInvalidPayloadIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	deaths := -1
	owned := []string{"not_a_move"}
	cases := map[string]game.ProgressUpdate{
		"negative deaths": {DeathCount: &deaths},
		"unknown move":    {OwnedMoves: &owned},
		"bad stats":       {PlayerStats: &game.PlayerStats{Level: 0}},
	}
	for name, u := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), "ghost", u)
			if !errors.Is(err, apperr.ErrNotFound) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}
}

func TestCreateWithPartialStats(t *testing.T) {
	svc, _ := newTestService(t)
	var st game.PlayerStats
	if err := json.Unmarshal([]byte(`{"level":3}`), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p, err := svc.Create(context.Background(), "p", &st)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := game.DefaultStats()
	want.Level = 3
	if p.PlayerStats != want {
		t.Fatalf("stats = %+v, want %+v", p.PlayerStats, want)
	}
}

func TestPlayerIDTrimmedEverywhere(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, "  p1 ", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Get(ctx, "p1\t"); err != nil {
		t.Fatalf("get: %v", err)
	}
	deaths := 2
	p, err := svc.Update(ctx, " p1", game.ProgressUpdate{DeathCount: &deaths})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.PlayerID != "p1" || p.DeathCount != 2 {
		t.Fatalf("unexpected record %+v", p)
	}
}
