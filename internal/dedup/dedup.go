// Package dedup collapses postings that describe the same opening.
package dedup

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/amishk599/gradboard/internal/model"
)

var folder = cases.Fold()

// Key returns the canonical identity of a posting: title and company,
// case-folded, accents removed and stripped of everything but letters and
// digits.
func Key(p model.Posting) string {
	return canonical(p.Title + p.Company)
}

func canonical(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = folder.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Deduplicate keeps the first posting for each key, preserving input order.
func Deduplicate(postings []model.Posting) []model.Posting {
	seen := make(map[string]struct{}, len(postings))
	out := make([]model.Posting, 0, len(postings))
	for _, p := range postings {
		k := Key(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}
