// Package scheduler runs the periodic database maintenance job using gocron.
// Hosted-bot schedule execution is not handled here; this layer only stores
// schedule rows.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"botfactory/internal/config"
	"botfactory/internal/database"
)

// Scheduler manages scheduled store maintenance using the gocron library.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       config.SchedulerConfig
	store     database.Store

	mu      sync.Mutex
	running bool
}

// New creates a scheduler for the given store.
func New(logger *slog.Logger, cfg config.SchedulerConfig, store database.Store) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    logger.With("component", "scheduler"),
		cfg:       cfg,
		store:     store,
	}, nil
}

// Start registers the enabled jobs and starts the scheduler's ticking.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if s.cfg.MaintenanceEnabled {
		_, err := s.scheduler.NewJob(
			gocron.DurationJob(s.cfg.MaintenanceInterval),
			gocron.NewTask(s.runMaintenance),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule maintenance job: %w", err)
		}
		s.logger.Info("Maintenance job scheduled", "interval", s.cfg.MaintenanceInterval)
	} else {
		s.logger.Info("Maintenance job disabled")
	}

	s.scheduler.Start()
	s.running = true
	return nil
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return nil
}

func (s *Scheduler) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := s.store.RunMaintenance(ctx); err != nil {
		s.logger.Error("Maintenance task failed", "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info("Maintenance task completed", "duration", time.Since(start))
}
