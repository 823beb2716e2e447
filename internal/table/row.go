package table

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/recency"
)

const defaultLocation = "Remote"

var errRowRejected = errors.New("row rejected")

// Row is one validated table row with display-ready fields.
type Row struct {
	Company  string
	Title    string
	Location string
	Age      string
	Link     string
}

// rowBuilder carries the per-document context needed to build rows.
type rowBuilder struct {
	cols         Columns
	baseURL      string
	searchSuffix string
}

// build validates raw cells and constructs a Row. Structurally invalid rows
// are rejected with errRowRejected.
func (b rowBuilder) build(cells []string) (Row, error) {
	rawTitle := b.cols.cell(cells, RoleTitle)

	company := stripFormatting(b.cols.cell(cells, RoleCompany))
	if company == "" || isHeaderToken(company) || isSeparator(company) || utf8.RuneCountInString(company) <= 1 {
		return Row{}, errRowRejected
	}

	title := stripFormatting(rawTitle)
	if title == "" || isSeparator(title) || isHeaderToken(title) {
		return Row{}, errRowRejected
	}

	location := stripFormatting(b.cols.cell(cells, RoleLocation))
	if location == "" {
		location = defaultLocation
	}

	return Row{
		Company:  company,
		Title:    title,
		Location: location,
		Age:      stripFormatting(b.cols.cell(cells, RoleAge)),
		Link:     b.link(rawTitle, cells, company),
	}, nil
}

// link picks the role cell's own link, then any "apply"/"here" link in the
// row, then a search URL for the company.
func (b rowBuilder) link(rawTitle string, cells []string, company string) string {
	for _, l := range findLinks(rawTitle) {
		if u := resolveLink(b.baseURL, l.URL); u != "" {
			return u
		}
	}
	for _, c := range cells {
		for _, l := range findLinks(c) {
			if !applyTextRegex.MatchString(l.Text) {
				continue
			}
			if u := resolveLink(b.baseURL, l.URL); u != "" {
				return u
			}
		}
	}
	return searchLink(company, b.searchSuffix)
}

// isSeparator reports whether s consists only of dashes (and alignment colons).
func isSeparator(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "-") {
		return false
	}
	return strings.Trim(s, "-:— ") == ""
}

// posting stamps the row with its source and recency verdict.
func (r Row) posting(source string, v recency.Verdict) model.Posting {
	return model.Posting{
		Title:     r.Title,
		Company:   r.Company,
		Location:  r.Location,
		Link:      r.Link,
		Source:    source,
		Age:       r.Age,
		DateAdded: v.DateAdded,
	}
}
