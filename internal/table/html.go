package table

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/gradboard/internal/model"
)

func containsHTMLTable(text string) bool {
	return strings.Contains(strings.ToLower(text), "<table")
}

// scanHTML decodes the first <table> whose header resolves to listing
// columns. Cells are passed on as inner HTML so link extraction and
// formatting removal behave exactly as for markdown cells.
func (p *Parser) scanHTML(origin Origin, doc model.Document) ([]Entry, Stats) {
	var (
		entries []Entry
		stats   Stats
	)

	gq, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Text))
	if err != nil {
		return nil, stats
	}

	gq.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		headerRow := tbl.Find("thead tr").First()
		if headerRow.Length() == 0 {
			headerRow = tbl.Find("tr").First()
		}
		headers := cellTexts(headerRow)
		if !isHeaderLine(strings.Join(headers, " | ")) {
			return true
		}
		cols, ok := resolveColumns(headers)
		if !ok {
			return true
		}

		builder := rowBuilder{cols: cols, baseURL: origin.BaseURL, searchSuffix: p.searchSuffix}
		stats.Format = "html"

		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if tr.IsSelection(headerRow) || tr.Find("th").Length() > 0 {
				return
			}
			cells := cellMarkup(tr)
			if len(cells) == 0 || isSeparatorRow(cells) {
				return
			}
			row, err := builder.build(cells)
			if err != nil {
				stats.Rejected++
				return
			}
			stats.Rows++
			entries = append(entries, Entry{Row: row, Verdict: p.classify(row, doc)})
		})
		return false
	})

	return entries, stats
}

func cellTexts(tr *goquery.Selection) []string {
	var out []string
	tr.Find("th, td").Each(func(_ int, c *goquery.Selection) {
		out = append(out, strings.TrimSpace(c.Text()))
	})
	return out
}

func cellMarkup(tr *goquery.Selection) []string {
	var out []string
	tr.Find("td").Each(func(_ int, c *goquery.Selection) {
		inner, err := c.Html()
		if err != nil {
			inner = c.Text()
		}
		out = append(out, strings.TrimSpace(inner))
	})
	return out
}
