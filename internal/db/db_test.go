package db

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/phoenix/apps/go-server/assets"
)

func TestOpenCreatesParentDir(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.db")

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("expected wal journal mode, got %q", mode)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db, assets.Migrations()); err != nil {
			t.Fatalf("migrate pass %d: %v", i+1, err)
		}
	}

	for _, table := range []string{"game_progress", "status_checks"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	var applied int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM _migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", applied)
	}
}

func TestMigrateOrderAndFailure(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	good := fstest.MapFS{
		"002_insert.sql": {Data: []byte(`INSERT INTO things (name) VALUES ('a');`)},
		"001_create.sql": {Data: []byte(`CREATE TABLE things (name TEXT);`)},
		"README.md":      {Data: []byte(`ignored`)},
	}
	if err := Migrate(ctx, db, good); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM things`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("expected one row, got %d (%v)", n, err)
	}

	bad := fstest.MapFS{"003_broken.sql": {Data: []byte(`CREATE TABLE ( nope`)}}
	if err := Migrate(ctx, db, bad); err == nil {
		t.Fatal("expected error for broken script")
	}
	var recorded int
	_ = db.QueryRowContext(ctx, `SELECT COUNT(1) FROM _migrations WHERE name='003_broken.sql'`).Scan(&recorded)
	if recorded != 0 {
		t.Fatal("broken script was recorded as applied")
	}
}

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, MemoryPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	mig := fstest.MapFS{"001_t.sql": {Data: []byte(`CREATE TABLE t (id INTEGER PRIMARY KEY);`)}}
	if err := Migrate(ctx, conn, mig); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// the table must survive across statements on the same database
	if _, err := conn.ExecContext(ctx, `INSERT INTO t (id) VALUES (1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var n int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("count = %d, err = %v", n, err)
	}
}
