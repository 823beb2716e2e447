package fallback

import (
	"testing"
	"time"
)

func TestPostings(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	got := Postings(now)

	if len(got) != 3 {
		t.Fatalf("expected 3 postings, got %d", len(got))
	}
	wantCompanies := []string{"Google", "Meta", "Amazon"}
	for i, p := range got {
		if p.Company != wantCompanies[i] {
			t.Errorf("posting %d company = %q, want %q", i, p.Company, wantCompanies[i])
		}
		if !p.DateAdded.Equal(now) {
			t.Errorf("posting %d DateAdded = %v, want %v", i, p.DateAdded, now)
		}
		if p.Title == "" || p.Link == "" || p.Location == "" || p.Source == "" {
			t.Errorf("posting %d has empty fields: %+v", i, p)
		}
	}
}

func TestPostings_FreshSlice(t *testing.T) {
	now := time.Now()
	a := Postings(now)
	a[0].Company = "changed"
	if b := Postings(now); b[0].Company != "Google" {
		t.Errorf("Postings should return a fresh slice, got %q", b[0].Company)
	}
}
