// main is the entry point of the Growdevers API.
//
// Startup sequence:
//  1. Load configuration (.env, optional YAML file, environment)
//  2. Initialise the logger
//  3. Build the developer store and load the demonstration dataset
//  4. Register the HTTP routes
//  5. Serve until SIGINT/SIGTERM, then shut down gracefully
//
// Running the server:
//
//	PORT=3000 go run ./cmd/growdevers-api
//
// or with a config file:
//
//	go run ./cmd/growdevers-api --config=config/local.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/growdev/growdevers-api/internal/config"
	"github.com/growdev/growdevers-api/internal/http/router"
	"github.com/growdev/growdevers-api/internal/storage"
	"github.com/growdev/growdevers-api/internal/storage/memory"
	"github.com/growdev/growdevers-api/internal/storage/seed"
	"github.com/growdev/growdevers-api/internal/storage/sqlite"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting growdevers-api",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.StorageBackend),
		slog.String("filter_mode", cfg.FilterMode),
		slog.Bool("require_registered_for_update", cfg.RequireRegisteredForUpdate),
		slog.Bool("cors", cfg.CORS.Enabled),
	)

	store, closer, err := newStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closer.Close()

	if cfg.Seed {
		n, err := seed.Load(store)
		if err != nil {
			log.Error("failed to seed storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info("storage seeded", slog.Int("developers", n))
	}

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr(),
		Handler:      router.New(cfg, store, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// newStorage builds the backend named by cfg.StorageBackend. The returned
// closer releases it on shutdown.
func newStorage(cfg *config.Config) (storage.Storage, io.Closer, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		s, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendMemory, "":
		return memory.New(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// setupLogger returns a text logger at debug level for dev, and a JSON
// logger for staging (debug) and prod (info).
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
