package model

import (
	"context"
	"time"
)

// Posting is one job opening extracted from a listing document.
type Posting struct {
	Title     string    `json:"title"`         // role name, formatting stripped
	Company   string    `json:"company"`       // company display name
	Location  string    `json:"location"`      // free text, "Remote" when the table leaves it blank
	Link      string    `json:"link"`          // absolute apply link or a generated search URL
	Source    string    `json:"source"`        // identifier of the originating repository
	Age       string    `json:"age,omitempty"` // raw recency text from the table ("2d", "5h"), may be empty
	DateAdded time.Time `json:"date_added"`    // best-effort posting time, never zero
}

// SourceRef addresses a listing document inside a GitHub repository.
type SourceRef struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// ID returns the owner/repo identifier of the source.
func (r SourceRef) ID() string {
	return r.Owner + "/" + r.Repo
}

// Document is the raw text of a listing document plus its recent change history.
type Document struct {
	Text      string
	Revisions []time.Time // newest first
	FetchedAt time.Time
}

// SourceRun is the bookkeeping record of one source within one pipeline run.
type SourceRun struct {
	Source   string
	RanAt    time.Time
	OK       bool
	Rows     int // table rows that passed validation
	Accepted int // rows that passed the recency check
	Error    string
	Duration time.Duration
}

// DocumentFetcher retrieves a listing document and its change history.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context) (Document, error)
}

// Notifier delivers the final posting list.
type Notifier interface {
	Notify(postings []Posting) error
}

// PostingFilter decides whether a posting matches the user's criteria.
type PostingFilter interface {
	Match(p Posting) bool
}

// RunStore keeps per-source run bookkeeping for operators.
type RunStore interface {
	RecordRun(run SourceRun) error
	LatestRuns() ([]SourceRun, error)
}
