// Package fallback provides the curated list shown when no live postings
// are available.
package fallback

import (
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

// Postings returns the curated fallback list stamped with now.
func Postings(now time.Time) []model.Posting {
	return []model.Posting{
		{
			Title:     "Software Engineer - New Grad",
			Company:   "Google",
			Location:  "Mountain View, CA",
			Link:      "https://careers.google.com",
			Source:    "Google Careers",
			DateAdded: now,
		},
		{
			Title:     "Frontend Developer - Entry Level",
			Company:   "Meta",
			Location:  "Menlo Park, CA",
			Link:      "https://careers.meta.com",
			Source:    "Meta Careers",
			DateAdded: now,
		},
		{
			Title:     "Software Development Engineer I",
			Company:   "Amazon",
			Location:  "Seattle, WA",
			Link:      "https://amazon.jobs",
			Source:    "Amazon Jobs",
			DateAdded: now,
		},
	}
}
