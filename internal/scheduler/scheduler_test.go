package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_RunsJob(t *testing.T) {
	s := New()
	var runs atomic.Int32

	err := s.Add(context.Background(), Job{
		Name:     "tick",
		Interval: time.Second,
		Run:      func(context.Context) { runs.Add(1) },
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if s.Entries() != 1 {
		t.Fatalf("Entries = %d, want 1", s.Entries())
	}

	s.Start()
	deadline := time.Now().Add(5 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	if runs.Load() == 0 {
		t.Fatal("job never ran")
	}
}

func TestScheduler_RejectsZeroInterval(t *testing.T) {
	s := New()
	if err := s.Add(context.Background(), Job{Name: "bad", Run: func(context.Context) {}}); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
