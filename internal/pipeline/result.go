package pipeline

import (
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

// Status summarizes how a run's posting list was produced.
type Status string

const (
	StatusLive          Status = "live"           // every source answered
	StatusPartial       Status = "partial"        // some sources failed, live list non-empty
	StatusEmptyFallback Status = "empty_fallback" // nothing survived, curated list returned
	StatusFatalFallback Status = "fatal_fallback" // run aborted, curated list returned
)

// Fallback reports whether the postings are the curated list.
func (s Status) Fallback() bool {
	return s == StatusEmptyFallback || s == StatusFatalFallback
}

// SourceReport describes one source's contribution to a run.
type SourceReport struct {
	Name     string
	Source   string // owner/repo
	Format   string // table format found, empty when none
	Rows     int
	Rejected int
	Accepted int
	Duration time.Duration
	Err      error
}

// Result is the outcome of one run. Postings is never nil.
type Result struct {
	Postings []model.Posting
	Status   Status
	Sources  []SourceReport  // completion order
	Merged   []model.Posting // recent rows of every source before dedup, filter and cap
	Err      error           // set for StatusFatalFallback
	RanAt    time.Time
}

// Failed returns the reports of sources that could not be fetched.
func (r Result) Failed() []SourceReport {
	var out []SourceReport
	for _, s := range r.Sources {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

func (r SourceReport) run(ranAt time.Time) model.SourceRun {
	run := model.SourceRun{
		Source:   r.Name,
		RanAt:    ranAt,
		OK:       r.Err == nil,
		Rows:     r.Rows,
		Accepted: r.Accepted,
		Duration: r.Duration,
	}
	if r.Err != nil {
		run.Error = r.Err.Error()
	}
	return run
}
