// Package pipeline runs every configured source concurrently and turns the
// merged rows into the final posting list.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/gradboard/internal/dedup"
	"github.com/amishk599/gradboard/internal/fallback"
	"github.com/amishk599/gradboard/internal/filter"
	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/rank"
	"github.com/amishk599/gradboard/internal/recency"
	"github.com/amishk599/gradboard/internal/table"
)

// Source is one listing document to read on every run.
type Source struct {
	Name    string
	Fetcher model.DocumentFetcher
	Origin  table.Origin
}

// Options tunes recency and ranking. Zero values select the defaults.
type Options struct {
	MaxResults    int
	FreshWindow   time.Duration
	MaxAgeDays    int
	HistoryWindow time.Duration
	SearchSuffix  string
}

// Pipeline owns one aggregation run: fetch, parse, dedup, filter, rank.
type Pipeline struct {
	sources []Source
	filter  model.PostingFilter
	store   model.RunStore
	opts    Options
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a pipeline. A nil filter passes everything; a nil store
// discards run bookkeeping.
func New(sources []Source, f model.PostingFilter, rs model.RunStore, opts Options, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		sources: sources,
		filter:  f,
		store:   rs,
		opts:    opts,
		now:     time.Now,
		logger:  logger,
	}
}

type sourceOutcome struct {
	report   SourceReport
	postings []model.Posting
}

// Run executes one run. It never fails: fetch errors only shrink the merged
// list, and an empty or aborted run answers with the curated fallback.
func (p *Pipeline) Run(ctx context.Context) (res Result) {
	now := p.now()
	res.RanAt = now

	defer func() {
		if r := recover(); r != nil {
			res = p.fatal(now, res, &model.PipelineFatalError{
				Stage: "post-processing",
				Err:   fmt.Errorf("panic: %v", r),
			})
		}
	}()

	parser := table.NewParser(
		recency.NewClassifier(now, p.opts.MaxAgeDays, p.opts.HistoryWindow),
		p.opts.SearchSuffix,
	)

	outcomes := make(chan sourceOutcome, len(p.sources))
	var g errgroup.Group
	for _, src := range p.sources {
		g.Go(func() error {
			return p.runSource(ctx, parser, src, outcomes)
		})
	}
	groupErr := g.Wait()
	close(outcomes)

	var merged []model.Posting
	for o := range outcomes {
		res.Sources = append(res.Sources, o.report)
		merged = append(merged, o.postings...)
	}
	res.Merged = merged
	p.record(now, res.Sources)

	if groupErr != nil {
		return p.fatal(now, res, groupErr)
	}

	unique := dedup.Deduplicate(merged)
	matched := filter.Apply(p.filter, unique)
	final := rank.Limiter{Window: p.opts.FreshWindow, Limit: p.opts.MaxResults}.Apply(matched, now)

	failed := len(res.Failed())
	p.logger.Info("pipeline run complete",
		"sources", len(p.sources),
		"failed", failed,
		"merged", len(merged),
		"unique", len(unique),
		"matched", len(matched),
		"final", len(final),
	)

	switch {
	case len(final) == 0:
		p.logger.Info("no live postings, using fallback list")
		res.Postings = fallback.Postings(now)
		res.Status = StatusEmptyFallback
	case failed > 0:
		res.Postings = final
		res.Status = StatusPartial
	default:
		res.Postings = final
		res.Status = StatusLive
	}
	return res
}

// runSource fetches and parses one source and always sends exactly one
// outcome. Fetch errors stay local; only a panic is returned to the group.
func (p *Pipeline) runSource(ctx context.Context, parser *table.Parser, src Source, out chan<- sourceOutcome) (err error) {
	start := time.Now()
	o := sourceOutcome{report: SourceReport{Name: src.Name, Source: src.Origin.Source}}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("source panicked", "source", src.Name, "panic", r, "stack", string(debug.Stack()))
			err = &model.PipelineFatalError{Stage: "source " + src.Name, Err: fmt.Errorf("panic: %v", r)}
			o.postings = nil
			o.report.Err = err
		}
		o.report.Duration = time.Since(start)
		out <- o
	}()

	doc, fetchErr := src.Fetcher.FetchDocument(ctx)
	if fetchErr != nil {
		p.logger.Warn("source fetch failed", "source", src.Name, "error", fetchErr)
		o.report.Err = fetchErr
		return nil
	}

	postings, stats := parser.Parse(src.Origin, doc)
	if stats.Format == "" {
		p.logger.Warn("no listing table found", "source", src.Name)
	}
	o.postings = postings
	o.report.Format = stats.Format
	o.report.Rows = stats.Rows
	o.report.Rejected = stats.Rejected
	o.report.Accepted = len(postings)

	p.logger.Debug("source parsed",
		"source", src.Name,
		"format", stats.Format,
		"rows", stats.Rows,
		"rejected", stats.Rejected,
		"stale", stats.Stale,
		"accepted", len(postings),
	)
	return nil
}

func (p *Pipeline) fatal(now time.Time, partial Result, err error) Result {
	p.logger.Error("pipeline run failed, using fallback list", "error", err)
	return Result{
		Postings: fallback.Postings(now),
		Status:   StatusFatalFallback,
		Sources:  partial.Sources,
		Merged:   partial.Merged,
		Err:      err,
		RanAt:    now,
	}
}

func (p *Pipeline) record(now time.Time, reports []SourceReport) {
	if p.store == nil {
		return
	}
	for _, r := range reports {
		if err := p.store.RecordRun(r.run(now)); err != nil {
			p.logger.Warn("recording source run failed", "source", r.Name, "error", err)
		}
	}
}
