package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLatestRunsEmpty(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.LatestRuns()
	if err != nil {
		t.Fatalf("LatestRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestRecordRunThenLatestRuns(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	records := []model.SourceRun{
		{Source: "simplify/summer", RanAt: base, OK: true, Rows: 40, Accepted: 5, Duration: 250 * time.Millisecond},
		{Source: "vansh/new-grad", RanAt: base, OK: false, Error: "HTTP 404"},
		{Source: "simplify/summer", RanAt: base.Add(time.Hour), OK: true, Rows: 42, Accepted: 3},
	}
	for _, r := range records {
		if err := s.RecordRun(r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := s.LatestRuns()
	if err != nil {
		t.Fatalf("LatestRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	// Ordered by source name.
	if runs[0].Source != "simplify/summer" {
		t.Errorf("runs[0].Source = %q", runs[0].Source)
	}
	if runs[0].Rows != 42 || runs[0].Accepted != 3 {
		t.Errorf("expected latest summer run, got %+v", runs[0])
	}
	if !runs[0].RanAt.Equal(base.Add(time.Hour)) {
		t.Errorf("RanAt = %v", runs[0].RanAt)
	}
	if runs[1].OK || runs[1].Error != "HTTP 404" {
		t.Errorf("expected failed run with error, got %+v", runs[1])
	}
}

func TestRecordRunKeepsDuration(t *testing.T) {
	s := newTestStore(t)
	run := model.SourceRun{Source: "a/b", RanAt: time.Now(), OK: true, Duration: 1500 * time.Millisecond}
	if err := s.RecordRun(run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := s.LatestRuns()
	if err != nil {
		t.Fatalf("LatestRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)

	old := model.SourceRun{Source: "old/repo", RanAt: time.Now().Add(-48 * time.Hour), OK: true}
	fresh := model.SourceRun{Source: "fresh/repo", RanAt: time.Now(), OK: true}
	for _, r := range []model.SourceRun{old, fresh} {
		if err := s.RecordRun(r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	if err := s.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	runs, err := s.LatestRuns()
	if err != nil {
		t.Fatalf("LatestRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Source != "fresh/repo" {
		t.Fatalf("expected only fresh run to survive, got %+v", runs)
	}
}

func TestNopStore(t *testing.T) {
	var s model.RunStore = NewNopStore()
	if err := s.RecordRun(model.SourceRun{Source: "x/y"}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	runs, err := s.LatestRuns()
	if err != nil || runs != nil {
		t.Fatalf("LatestRuns = %v, %v", runs, err)
	}
}
