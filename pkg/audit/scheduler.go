package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the compliance sweep on a cron schedule.
type Scheduler struct {
	sweeper  *Sweeper
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler that runs the sweeper on the given cron
// expression (e.g., "0 2 * * *" for daily at 2 AM).
func NewScheduler(sweeper *Sweeper, schedule string) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "audit.scheduler"),
	}
}

// Start begins scheduled sweeping. An empty schedule disables the scheduler.
// The scheduler stops itself when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("sweep schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("audit scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep executes one scheduled sweep.
func (s *Scheduler) runSweep(ctx context.Context) {
	s.logger.Info("starting scheduled compliance sweep")

	stats, err := s.sweeper.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled sweep failed",
			"documents_processed", stats.Documents,
			"error", err,
		)
		return
	}

	if stats.NewIssues > 0 {
		s.logger.Info("scheduled sweep created issues",
			"documents", stats.Documents,
			"new_issues", stats.NewIssues,
		)
	}
}

// Stop stops the scheduler and waits for a running sweep to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("audit scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when the scheduler
// is idle.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
