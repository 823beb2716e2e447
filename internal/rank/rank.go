// Package rank applies the final freshness window and size cap.
package rank

import (
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

const (
	DefaultWindow = 7 * 24 * time.Hour
	DefaultLimit  = 8
)

// Limiter keeps recent postings and caps the list. It never reorders.
type Limiter struct {
	Window time.Duration
	Limit  int
}

// Apply returns the first Limit postings whose DateAdded lies within Window
// of now, in input order. Postings dated after now are dropped.
func (l Limiter) Apply(postings []model.Posting, now time.Time) []model.Posting {
	window, limit := l.Window, l.Limit
	if window <= 0 {
		window = DefaultWindow
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	cutoff := now.Add(-window)
	out := make([]model.Posting, 0, min(limit, len(postings)))
	for _, p := range postings {
		if len(out) == limit {
			break
		}
		if p.DateAdded.Before(cutoff) || p.DateAdded.After(now) {
			continue
		}
		out = append(out, p)
	}
	return out
}
