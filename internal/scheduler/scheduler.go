package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/pipeline"
)

// Runner executes one aggregation run.
type Runner interface {
	Run(ctx context.Context) pipeline.Result
}

// Scheduler owns the main loop: ticks on an interval, runs the pipeline and
// delivers the digest. Runs are serialized across processes by a lock file.
type Scheduler struct {
	runner   Runner
	notifier model.Notifier
	interval time.Duration
	lock     *flock.Flock
	logger   *slog.Logger
}

// NewScheduler creates a scheduler. An empty lockPath disables the
// cross-process lock.
func NewScheduler(runner Runner, notifier model.Notifier, interval time.Duration, lockPath string, logger *slog.Logger) *Scheduler {
	s := &Scheduler{
		runner:   runner,
		notifier: notifier,
		interval: interval,
		logger:   logger,
	}
	if lockPath != "" {
		s.lock = flock.New(lockPath)
	}
	return s
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("run failed", "error", err)
	}
}

// RunOnce runs the pipeline and notifies, unless another process holds the
// run lock. ran reports whether the pipeline executed.
func (s *Scheduler) RunOnce(ctx context.Context) (res pipeline.Result, ran bool, err error) {
	if s.lock != nil {
		locked, err := s.lock.TryLock()
		if err != nil {
			return res, false, fmt.Errorf("acquiring run lock: %w", err)
		}
		if !locked {
			s.logger.Warn("another run holds the lock, skipping", "lock", s.lock.Path())
			return res, false, nil
		}
		defer func() {
			if uerr := s.lock.Unlock(); uerr != nil {
				s.logger.Warn("releasing run lock failed", "error", uerr)
			}
		}()
	}

	res = s.runner.Run(ctx)
	s.logger.Info("run finished",
		"status", string(res.Status),
		"postings", len(res.Postings),
		"failed_sources", len(res.Failed()),
	)

	if s.notifier != nil {
		if err := s.notifier.Notify(res.Postings); err != nil {
			return res, true, fmt.Errorf("notifying: %w", err)
		}
	}
	return res, true, nil
}
