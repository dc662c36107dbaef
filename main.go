package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/phoenix/apps/go-server/assets"
	"github.com/robalobadob/phoenix/apps/go-server/internal/db"
	"github.com/robalobadob/phoenix/apps/go-server/internal/httpserver"
	"github.com/robalobadob/phoenix/apps/go-server/internal/moves"
	"github.com/robalobadob/phoenix/apps/go-server/internal/progress"
	"github.com/robalobadob/phoenix/apps/go-server/internal/status"
	"github.com/robalobadob/phoenix/apps/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger, logFile := setupLogging(cfg)
	defer logFile.Close()

	if err := run(cfg); err != nil {
		logger.Error().Err(err).Msg("server exited")
		_ = logFile.Close()
		os.Exit(1)
	}
}

// run wires storage, services and the HTTP server, then blocks until a
// shutdown signal arrives or the listener fails.
func run(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := moves.Init(); err != nil {
		return err
	}
	log.Info().
		Interface("perType", moves.Stats()).
		Strs("baseline", moves.Baseline()).
		Msg("move catalog loaded")

	conn, st, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}()

	svc := progress.NewService(st, moves.IsKnown)
	h := httpserver.New(httpserver.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}, log.Logger, svc, status.NewStore(conn))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("starting go-server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStorage opens the database, applies the bootstrap scripts and builds
// the progress store for the configured driver. Status checks always live
// in SQLite; the memory driver uses an in-memory database for them.
func openStorage(ctx context.Context, cfg Config) (*sql.DB, store.ProgressStore, error) {
	path := cfg.DBPath
	if cfg.StoreDriver == driverMemory {
		path = db.MemoryPath
	}
	conn, err := db.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, conn, assets.Migrations()); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if cfg.StoreDriver == driverMemory {
		return conn, store.NewMemoryStore(), nil
	}
	return conn, store.NewSQLiteStore(conn), nil
}
