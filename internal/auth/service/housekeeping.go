package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/keycard/internal/auth/metrics"
	"github.com/aussiebroadwan/keycard/internal/auth/store"
)

// HousekeepingService periodically nulls refresh tokens that are past their
// expiry. Records are kept; only the token is cleared.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Interval time.Duration

	// Now is the clock compared against expires_at. Defaults to time.Now.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(
	store store.Store,
	logger *slog.Logger,
	m *metrics.Metrics,
	interval time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Metrics:  m,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
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
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pass and returns how many tokens were cleared.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.Interval)
	defer cancel()

	n, err := s.Store.RefreshTokens().ClearExpiredRefreshTokens(ctx, s.Now())
	if err != nil {
		s.Logger.Error("failed to clear expired refresh tokens", "error", err)
		return 0
	}

	s.Metrics.AddCleared(n)
	s.Logger.Debug("housekeeping cleanup completed", "cleared_refresh_tokens", n)
	return n
}
