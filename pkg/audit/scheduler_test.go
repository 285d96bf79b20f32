package audit

import (
	"context"
	"testing"

	"crmvault-hq/atlas/pkg/storage"
)

// newTestScheduler builds a scheduler over an empty memory store.
func newTestScheduler(t *testing.T, schedule string) *Scheduler {
	t.Helper()

	sweeper := NewSweeper(newSweepEngine(t), storage.NewMemoryStorage(), nil)
	return NewScheduler(sweeper, schedule)
}

// TestScheduler_StartStop tests the running state transitions.
func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler(t, "0 2 * * *")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("failed to start scheduler: %v", err)
	}
	if !s.IsRunning() {
		t.Error("expected scheduler to be running")
	}
	if s.NextRun() == nil {
		t.Error("expected a next run time")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("expected scheduler to be stopped")
	}
}

// TestScheduler_EmptyScheduleIsNoop tests that an empty schedule disables
// the scheduler without error.
func TestScheduler_EmptyScheduleIsNoop(t *testing.T) {
	s := newTestScheduler(t, "")

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IsRunning() {
		t.Error("expected scheduler to stay idle with empty schedule")
	}
}

// TestScheduler_InvalidSchedule tests cron expression validation.
func TestScheduler_InvalidSchedule(t *testing.T) {
	s := newTestScheduler(t, "not a cron expression")

	if err := s.Start(context.Background()); err == nil {
		t.Error("expected error for invalid cron expression")
		s.Stop()
	}
}
