package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/pipeline"
)

// --- Mock implementations ---

type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) Run(_ context.Context) pipeline.Result {
	r.calls.Add(1)
	return pipeline.Result{
		Postings: []model.Posting{{Title: "SWE", Company: "Acme"}},
		Status:   pipeline.StatusLive,
	}
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls int
	got   []model.Posting
	err   error
}

func (n *recordingNotifier) Notify(p []model.Posting) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.got = p
	return n.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce_NotifiesWithPostings(t *testing.T) {
	runner := &countingRunner{}
	n := &recordingNotifier{}
	s := NewScheduler(runner, n, time.Hour, filepath.Join(t.TempDir(), "run.lock"), discardLogger())

	res, ran, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !ran || res.Status != pipeline.StatusLive {
		t.Fatalf("ran = %v, status = %q", ran, res.Status)
	}
	if n.calls != 1 || len(n.got) != 1 {
		t.Errorf("notifier calls = %d, postings = %d", n.calls, len(n.got))
	}
}

func TestRunOnce_NotifierError(t *testing.T) {
	n := &recordingNotifier{err: errors.New("webhook down")}
	s := NewScheduler(&countingRunner{}, n, time.Hour, "", discardLogger())

	_, ran, err := s.RunOnce(context.Background())
	if err == nil || !ran {
		t.Fatalf("expected notify error after a run, got ran=%v err=%v", ran, err)
	}
}

func TestRunOnce_SkipsWhenLockHeld(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "run.lock")
	other := flock.New(lockPath)
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("TryLock: locked=%v err=%v", locked, err)
	}
	defer other.Unlock()

	runner := &countingRunner{}
	s := NewScheduler(runner, &recordingNotifier{}, time.Hour, lockPath, discardLogger())

	_, ran, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if ran {
		t.Error("expected run to be skipped while the lock is held")
	}
	if c := runner.calls.Load(); c != 0 {
		t.Errorf("runner called %d times, want 0", c)
	}
}

func TestRunOnce_ReleasesLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "run.lock")
	runner := &countingRunner{}
	s := NewScheduler(runner, nil, time.Hour, lockPath, discardLogger())

	for i := 0; i < 2; i++ {
		if _, ran, err := s.RunOnce(context.Background()); err != nil || !ran {
			t.Fatalf("run %d: ran=%v err=%v", i, ran, err)
		}
	}
	if c := runner.calls.Load(); c != 2 {
		t.Errorf("runner called %d times, want 2", c)
	}
}

func TestScheduler_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, &recordingNotifier{}, 20*time.Millisecond, "", discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run returned %v, want nil", err)
	}
	if c := runner.calls.Load(); c < 2 {
		t.Errorf("expected at least 2 runs (immediate + tick), got %d", c)
	}
}
