package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named function run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)
}

// Scheduler runs background maintenance jobs on a cron.
type Scheduler struct {
	c *cron.Cron
}

// New returns an idle Scheduler.
func New() *Scheduler {
	return &Scheduler{
		c: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
}

// Add registers job; it first fires one Interval after Start.
func (s *Scheduler) Add(ctx context.Context, job Job) error {
	if job.Interval <= 0 {
		return fmt.Errorf("scheduler: job %q has non-positive interval", job.Name)
	}

	s.c.Schedule(cron.Every(job.Interval), cron.FuncJob(func() {
		start := time.Now()
		job.Run(ctx)
		slog.Debug("scheduler: job finished",
			"job", job.Name,
			"duration_ms", time.Since(start).Milliseconds())
	}))
	slog.Info("scheduler: added job", "job", job.Name, "interval", job.Interval.String())
	return nil
}

// Start runs the cron in its own goroutine.
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop halts the cron and waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.c.Entries())
}
