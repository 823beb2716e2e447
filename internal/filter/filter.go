package filter

import (
	"strings"

	"github.com/amishk599/gradboard/internal/model"
)

// Criteria holds the keyword lists a posting is checked against.
// Matching is case-insensitive substring; empty include lists match all.
type Criteria struct {
	TitleKeywords    []string
	TitleExclude     []string
	Locations        []string
	ExcludeLocations []string
}

// TitleAndLocationFilter keeps postings whose title and location satisfy
// the include lists and hit none of the exclude lists.
type TitleAndLocationFilter struct {
	titleInclude    []string
	titleExclude    []string
	locationInclude []string
	locationExclude []string
}

// NewTitleAndLocationFilter lower-cases the criteria once so Match stays cheap.
func NewTitleAndLocationFilter(c Criteria) *TitleAndLocationFilter {
	return &TitleAndLocationFilter{
		titleInclude:    lowerAll(c.TitleKeywords),
		titleExclude:    lowerAll(c.TitleExclude),
		locationInclude: lowerAll(c.Locations),
		locationExclude: lowerAll(c.ExcludeLocations),
	}
}

// Match reports whether p passes every list.
func (f *TitleAndLocationFilter) Match(p model.Posting) bool {
	title := strings.ToLower(p.Title)
	location := strings.ToLower(p.Location)

	if len(f.titleInclude) > 0 && !containsAny(title, f.titleInclude) {
		return false
	}
	if containsAny(title, f.titleExclude) {
		return false
	}
	if len(f.locationInclude) > 0 && !containsAny(location, f.locationInclude) {
		return false
	}
	return !containsAny(location, f.locationExclude)
}

// Apply returns the postings that match, preserving order.
func Apply(f model.PostingFilter, postings []model.Posting) []model.Posting {
	out := make([]model.Posting, 0, len(postings))
	for _, p := range postings {
		if f == nil || f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
