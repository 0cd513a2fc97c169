// Package main contains the entrypoint that initializes the bot factory
// state store, its logging context, and the maintenance scheduler.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"botfactory/internal/config"
	"botfactory/internal/database"
	"botfactory/internal/logging"
	"botfactory/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components and blocks until shutdown, returning an
// exit code. An unwritable store location is the one condition that aborts
// startup.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	channels, err := logging.New(cfg.Log)
	if err != nil {
		slog.Error("Failed to initialize logging channels", "dir", cfg.Log.Dir, "error", err)
		return 1
	}
	defer func() {
		if err := channels.Close(); err != nil {
			slog.Error("Error closing logging channels", "error", err)
		}
	}()
	slog.SetDefault(channels.Main)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		channels.Failure("database", err, "store location unwritable or migration failed")
		return 1
	}
	defer database.CloseDB(db)

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	store := database.NewStore(db, channels.Error)

	if err := store.Ping(ctx); err != nil {
		channels.Failure("database", err, "initial ping failed")
		return 1
	}

	sched, err := scheduler.New(channels.Main, cfg.Scheduler, store)
	if err != nil {
		channels.Failure("scheduler", err, "scheduler construction failed")
		return 1
	}

	channels.Startup()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := sched.Start(); err != nil {
			return err
		}
		<-gCtx.Done()
		return sched.Stop()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		channels.Failure("factory", err, "shutdown with error")
		return 1
	}

	channels.Main.Info("Bot factory stopped gracefully")
	return 0
}
