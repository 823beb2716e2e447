package rank

import (
	"fmt"
	"testing"
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func postingsAged(ages ...time.Duration) []model.Posting {
	out := make([]model.Posting, len(ages))
	for i, a := range ages {
		out[i] = model.Posting{Title: fmt.Sprintf("role-%d", i), Company: "co", DateAdded: now.Add(-a)}
	}
	return out
}

func TestApply_DropsOutsideWindow(t *testing.T) {
	in := postingsAged(time.Hour, 8*24*time.Hour, 7*24*time.Hour, 2*time.Hour)
	out := Limiter{}.Apply(in, now)
	if len(out) != 3 {
		t.Fatalf("expected 3 postings, got %d", len(out))
	}
	for i, want := range []string{"role-0", "role-2", "role-3"} {
		if out[i].Title != want {
			t.Errorf("out[%d] = %s, want %s", i, out[i].Title, want)
		}
	}
}

func TestApply_CapsAtLimitPreservingOrder(t *testing.T) {
	ages := make([]time.Duration, 12)
	for i := range ages {
		ages[i] = time.Duration(12-i) * time.Hour
	}
	out := Limiter{}.Apply(postingsAged(ages...), now)
	if len(out) != DefaultLimit {
		t.Fatalf("expected %d postings, got %d", DefaultLimit, len(out))
	}
	if out[0].Title != "role-0" || out[7].Title != "role-7" {
		t.Errorf("order changed: first %s, last %s", out[0].Title, out[7].Title)
	}
}

func TestApply_CustomLimit(t *testing.T) {
	out := Limiter{Window: time.Hour, Limit: 2}.Apply(postingsAged(time.Minute, 2*time.Hour, time.Minute, time.Minute), now)
	if len(out) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(out))
	}
	if out[1].Title != "role-2" {
		t.Errorf("out[1] = %s, want role-2", out[1].Title)
	}
}

func TestApply_DropsFutureDates(t *testing.T) {
	in := postingsAged(time.Hour, -time.Minute, 0, -200*365*24*time.Hour)
	out := Limiter{}.Apply(in, now)
	if len(out) != 2 {
		t.Fatalf("expected 2 postings, got %d: %+v", len(out), out)
	}
	if out[0].Title != "role-0" || out[1].Title != "role-2" {
		t.Errorf("unexpected postings kept: %s, %s", out[0].Title, out[1].Title)
	}
}
