package filter

import (
	"testing"

	"github.com/amishk599/gradboard/internal/model"
)

func posting(title, location string) model.Posting {
	return model.Posting{Title: title, Location: location}
}

func TestTitleAndLocationFilter_Match(t *testing.T) {
	tests := []struct {
		name      string
		criteria  Criteria
		posting   model.Posting
		wantMatch bool
	}{
		{
			name:      "matches both title and location",
			criteria:  Criteria{TitleKeywords: []string{"software", "backend"}, Locations: []string{"CA", "Remote"}},
			posting:   posting("Software Engineering Intern", "Remote"),
			wantMatch: true,
		},
		{
			name:      "title match but location miss",
			criteria:  Criteria{TitleKeywords: []string{"software"}, Locations: []string{"Remote"}},
			posting:   posting("Software Intern", "London, UK"),
			wantMatch: false,
		},
		{
			name:      "case insensitive matching",
			criteria:  Criteria{TitleKeywords: []string{"DATA"}, Locations: []string{"ny"}},
			posting:   posting("data science intern", "New York, NY"),
			wantMatch: true,
		},
		{
			name:      "excluded title keyword wins",
			criteria:  Criteria{TitleKeywords: []string{"intern"}, TitleExclude: []string{"phd"}},
			posting:   posting("PhD Research Intern", "Seattle, WA"),
			wantMatch: false,
		},
		{
			name:      "excluded location",
			criteria:  Criteria{ExcludeLocations: []string{"canada"}},
			posting:   posting("SWE Intern", "Toronto, Canada"),
			wantMatch: false,
		},
		{
			name:      "blank keywords are ignored",
			criteria:  Criteria{TitleKeywords: []string{"  "}},
			posting:   posting("Any Role", "Anywhere"),
			wantMatch: true,
		},
		{
			name:      "empty keyword lists pass all",
			criteria:  Criteria{},
			posting:   posting("Any Role", "Anywhere"),
			wantMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTitleAndLocationFilter(tt.criteria)
			if got := f.Match(tt.posting); got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	in := []model.Posting{
		posting("Backend Intern", "Remote"),
		posting("Sales Intern", "Remote"),
		posting("Frontend Intern", "Austin, TX"),
	}
	f := NewTitleAndLocationFilter(Criteria{TitleExclude: []string{"sales"}})

	got := Apply(f, in)
	if len(got) != 2 {
		t.Fatalf("got %d postings, want 2", len(got))
	}
	if got[0].Title != "Backend Intern" || got[1].Title != "Frontend Intern" {
		t.Errorf("unexpected order: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestApply_NilFilterKeepsAll(t *testing.T) {
	got := Apply(nil, []model.Posting{posting("a", "b")})
	if len(got) != 1 {
		t.Fatalf("got %d postings, want 1", len(got))
	}
}
