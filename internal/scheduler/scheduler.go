// Package scheduler drives periodic background refreshes of the
// dashboard state.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abdulsamad/weatherx/internal/store"
)

// Scheduler periodically asks the app store to refresh its datasets.
// Supersession inside the store means a scheduled refresh can never
// clobber a user-initiated one that started later.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     *store.Store
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler refreshing appStore every interval.
func New(appStore *store.Store, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     appStore,
		interval:  interval,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", s.interval)
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		st := s.store.State()
		if st.Place == nil {
			s.logger.Debug("skipping scheduled refresh, no place set")
			return
		}
		s.logger.Info("running scheduled refresh", "place", st.Place.Name)
		s.store.Refresh()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
