// Package table locates the listing table inside a free-form document and
// decodes its rows into postings.
package table

import (
	"strings"

	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/recency"
)

// Origin identifies where a document came from.
type Origin struct {
	Source  string // posting Source value
	BaseURL string // resolves relative links; may be empty
}

// Entry is a valid row together with its recency verdict.
type Entry struct {
	Row     Row
	Verdict recency.Verdict
}

// Posting converts the entry into a posting attributed to source.
func (e Entry) Posting(source string) model.Posting {
	return e.Row.posting(source, e.Verdict)
}

// Stats summarizes one parse.
type Stats struct {
	Format   string // "markdown", "html" or "" when no table was found
	Rows     int    // rows that passed validation
	Rejected int    // rows dropped by validation
	Stale    int    // valid rows the classifier judged too old
}

// Parser decodes listing tables. It is safe for concurrent use.
type Parser struct {
	classifier   *recency.Classifier
	searchSuffix string
}

// NewParser returns a parser that judges rows with classifier and builds
// fallback search links with searchSuffix appended to the company name.
func NewParser(classifier *recency.Classifier, searchSuffix string) *Parser {
	return &Parser{classifier: classifier, searchSuffix: searchSuffix}
}

// Parse returns the postings of all recent rows in doc.
func (p *Parser) Parse(origin Origin, doc model.Document) ([]model.Posting, Stats) {
	entries, stats := p.Scan(origin, doc)

	postings := make([]model.Posting, 0, len(entries))
	for _, e := range entries {
		if !e.Verdict.Recent {
			stats.Stale++
			continue
		}
		postings = append(postings, e.Row.posting(origin.Source, e.Verdict))
	}
	return postings, stats
}

// Scan returns every valid row of the first listing table in doc with its
// verdict, stale rows included. A document without a recognizable table
// yields no entries and no error.
func (p *Parser) Scan(origin Origin, doc model.Document) ([]Entry, Stats) {
	entries, stats := p.scanMarkdown(origin, doc)
	if stats.Format == "" && containsHTMLTable(doc.Text) {
		return p.scanHTML(origin, doc)
	}
	return entries, stats
}

type scanState int

const (
	seekingTable scanState = iota
	inTable
	done
)

func (p *Parser) scanMarkdown(origin Origin, doc model.Document) ([]Entry, Stats) {
	var (
		entries []Entry
		stats   Stats
		builder rowBuilder
		state   = seekingTable
	)

	for _, line := range strings.Split(doc.Text, "\n") {
		line = strings.TrimRight(line, "\r")

		switch state {
		case seekingTable:
			if !isHeaderLine(line) {
				continue
			}
			cols, ok := resolveColumns(splitRow(line))
			if !ok {
				continue
			}
			builder = rowBuilder{cols: cols, baseURL: origin.BaseURL, searchSuffix: p.searchSuffix}
			stats.Format = "markdown"
			state = inTable

		case inTable:
			if endsTable(line) {
				state = done
				continue
			}
			if !strings.Contains(line, "|") {
				continue
			}
			cells := splitRow(line)
			if isSeparatorRow(cells) {
				continue
			}
			row, err := builder.build(cells)
			if err != nil {
				stats.Rejected++
				continue
			}
			stats.Rows++
			entries = append(entries, Entry{Row: row, Verdict: p.classify(row, doc)})
		}

		if state == done {
			break
		}
	}

	return entries, stats
}

func (p *Parser) classify(row Row, doc model.Document) recency.Verdict {
	return p.classifier.Classify(row.Age, doc.Revisions)
}

// splitRow splits a pipe-delimited line into trimmed cells. Escaped pipes
// stay inside their cell; the empty cells produced by leading and trailing
// delimiters are dropped.
func splitRow(line string) []string {
	trimmed := strings.TrimSpace(line)

	var (
		cells []string
		cur   strings.Builder
	)
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c == '\\' && i+1 < len(trimmed) && trimmed[i+1] == '|' {
			cur.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	cells = append(cells, strings.TrimSpace(cur.String()))

	if strings.HasPrefix(trimmed, "|") && len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if strings.HasSuffix(trimmed, "|") && !strings.HasSuffix(trimmed, `\|`) && len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !isSeparator(c) {
			return false
		}
	}
	return true
}

// endsTable reports whether line closes the table: a section heading or a
// total-count marker.
func endsTable(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		return true
	}
	text := strings.ToLower(stripFormatting(trimmed))
	return strings.Contains(text, "total:") || strings.Contains(text, "total count")
}
