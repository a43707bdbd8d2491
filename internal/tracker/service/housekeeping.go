package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically runs the notification retention sweep
// and purges expired invitations so neither table grows without bound.
type HousekeepingService struct {
	Notifications *NotificationService
	Invitations   *InvitationService
	Logger        *slog.Logger
	Interval      time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(
	notifications *NotificationService,
	invitations *InvitationService,
	logger *slog.Logger,
	interval time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Notifications: notifications,
		Invitations:   invitations,
		Logger:        logger,
		Interval:      interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
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

// cleanup runs each sweep independently - a failure in one won't stop
// the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	s.Logger.Info("starting housekeeping cleanup")

	if deleted, err := s.Notifications.SweepRead(ctx); err != nil {
		s.Logger.Error("failed to sweep read notifications", "error", err)
	} else {
		s.Logger.Debug("swept read notifications", "deleted", deleted)
	}

	if deleted, err := s.Invitations.PurgeExpired(ctx); err != nil {
		s.Logger.Error("failed to purge expired invitations", "error", err)
	} else {
		s.Logger.Debug("purged expired invitations", "deleted", deleted)
	}

	s.Logger.Info("housekeeping cleanup completed")
}
