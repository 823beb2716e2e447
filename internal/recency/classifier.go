package recency

import "time"

const (
	DefaultMaxAgeDays    = 7
	DefaultHistoryWindow = 72 * time.Hour
)

// Signal names the evidence a verdict was based on.
type Signal string

const (
	SignalAge     Signal = "age"
	SignalHistory Signal = "history"
	SignalDefault Signal = "default"
)

// Verdict is the classifier's decision for one row.
type Verdict struct {
	Recent    bool
	DateAdded time.Time
	Signal    Signal
}

// Classifier decides whether a row is fresh enough to report. It holds a
// fixed clock so that every row in a run is judged against the same instant.
type Classifier struct {
	now           time.Time
	maxAgeDays    int
	historyWindow time.Duration
}

// NewClassifier returns a classifier evaluated at now. Non-positive limits
// fall back to the defaults (7 days of age text, 3 days of change history).
func NewClassifier(now time.Time, maxAgeDays int, historyWindow time.Duration) *Classifier {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultMaxAgeDays
	}
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Classifier{now: now, maxAgeDays: maxAgeDays, historyWindow: historyWindow}
}

// Classify judges a row by its raw age text, falling back to the newest
// document revision and finally to including the row stamped with now.
// revisions must be ordered newest first.
func (c *Classifier) Classify(age string, revisions []time.Time) Verdict {
	if a, err := ParseAge(age); err == nil {
		recent := a.Unit != Days || a.Quantity <= c.maxAgeDays
		return Verdict{Recent: recent, DateAdded: c.now.Add(-a.Duration()), Signal: SignalAge}
	}

	if len(revisions) > 0 && !revisions[0].IsZero() {
		latest := revisions[0]
		return Verdict{
			Recent:    c.now.Sub(latest) <= c.historyWindow,
			DateAdded: latest,
			Signal:    SignalHistory,
		}
	}

	return Verdict{Recent: true, DateAdded: c.now, Signal: SignalDefault}
}
