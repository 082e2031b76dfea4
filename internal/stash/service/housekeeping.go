package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/oakmount/stash/internal/stash/store"
)

// HousekeepingService periodically hard-deletes soft-deleted rows so
// tombstones don't accumulate forever: items past retention, then user
// accounts past retention (their remaining items cascade).
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService creates the background cleaner. Non-positive
// interval defaults to 1 hour; non-positive retention to 30 days.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	s.started = true
	go s.run()
	s.Logger.Info("housekeeping service started",
		"interval", s.Interval, "retention", s.Retention)
}

// Stop shuts down the worker and blocks until any in-progress cleanup
// finishes.
func (s *HousekeepingService) Stop() {
	if !s.started {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run once on startup rather than waiting a full interval.
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs each purge independently; one failure doesn't stop the rest.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-s.Retention)
	s.Logger.Debug("starting housekeeping cleanup", "cutoff", cutoff)

	if err := s.Store.Items().PurgeDeletedItems(ctx, cutoff); err != nil {
		s.Logger.Error("failed to purge deleted items", "error", err)
	}

	if err := s.Store.Users().PurgeDeletedUsers(ctx, cutoff); err != nil {
		s.Logger.Error("failed to purge deleted users", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed")
}
