package recency

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"
)

func TestParseAge(t *testing.T) {
	tests := []struct {
		input string
		want  Age
	}{
		{"3h", Age{3, Hours}},
		{"45m", Age{45, Minutes}},
		{"1d", Age{1, Days}},
		{"0d", Age{0, Days}},
		{" 12d ", Age{12, Days}},
		{"2 days", Age{2, Days}},
		{"5 hrs", Age{5, Hours}},
		{"10MIN", Age{10, Minutes}},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseAge(tc.input)
			if err != nil {
				t.Fatalf("ParseAge(%q): %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseAge(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseAge_Rejects(t *testing.T) {
	for _, input := range []string{"", "new", "d3", "1mo", "2w", "3h ago", "h", "-1d", "1.5h", "9999999999h", "999999999999999m", "200000d", "99999999999999999999d"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAge(input)
			if err == nil {
				t.Fatalf("ParseAge(%q): expected error", input)
			}
			if !errors.Is(err, ErrInvalidAge) {
				t.Errorf("ParseAge(%q) error = %v, want ErrInvalidAge", input, err)
			}
		})
	}
}

func TestAgeDuration(t *testing.T) {
	tests := []struct {
		age  Age
		want time.Duration
	}{
		{Age{45, Minutes}, 45 * time.Minute},
		{Age{3, Hours}, 3 * time.Hour},
		{Age{2, Days}, 48 * time.Hour},
	}
	for _, tc := range tests {
		if got := tc.age.Duration(); got != tc.want {
			t.Errorf("%v.Duration() = %v, want %v", tc.age, got, tc.want)
		}
	}
}

func TestParseAge_LargestQuantities(t *testing.T) {
	for _, u := range []Unit{Minutes, Hours, Days} {
		limit := int(math.MaxInt64 / int64(u.duration()))
		a, err := ParseAge(strconv.Itoa(limit) + u.String())
		if err != nil {
			t.Fatalf("ParseAge(%d %s): %v", limit, u, err)
		}
		if a.Duration() <= 0 {
			t.Errorf("%v.Duration() = %v, want positive", a, a.Duration())
		}
		if _, err := ParseAge(strconv.Itoa(limit+1) + u.String()); !errors.Is(err, ErrInvalidAge) {
			t.Errorf("ParseAge(%d %s) error = %v, want ErrInvalidAge", limit+1, u, err)
		}
	}
}
