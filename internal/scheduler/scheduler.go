// Package scheduler runs the periodic background jobs: today the monthly
// net worth snapshot of every owner.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Snapshotter records a net worth snapshot for every known owner.
type Snapshotter interface {
	SnapshotAll(ctx context.Context) (int, error)
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron    *cron.Cron
	jobs    Snapshotter
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a scheduler. Each run is bounded by timeout.
func New(jobs Snapshotter, timeout time.Duration, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Named("cron")}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{cron: c, jobs: jobs, timeout: timeout, logger: logger}
}

// Start registers the snapshot job on schedule (standard 5-field cron) and
// starts the scheduler.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.RunSnapshots); err != nil {
		return fmt.Errorf("schedule net worth snapshots %q: %w", schedule, err)
	}
	s.logger.Info("scheduled net worth snapshot job", zap.String("schedule", schedule))
	s.cron.Start()
	return nil
}

// Stop stops scheduling; the returned context is done when running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunSnapshots is one run of the snapshot job.
func (s *Scheduler) RunSnapshots() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.jobs.SnapshotAll(ctx)
	if err != nil {
		s.logger.Error("net worth snapshot job failed",
			zap.Int("written", n),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("net worth snapshot job done",
		zap.Int("written", n),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
