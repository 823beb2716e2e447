package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/gradboard/internal/model"
	"github.com/amishk599/gradboard/internal/pipeline"
)

func sampleResult() pipeline.Result {
	ranAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return pipeline.Result{
		Status: pipeline.StatusPartial,
		RanAt:  ranAt,
		Postings: []model.Posting{{
			Title:     "Software Engineer",
			Company:   "Stripe",
			Location:  "Remote",
			Link:      "https://stripe.com/jobs/1",
			Source:    "acme/jobs",
			Age:       "1d",
			DateAdded: ranAt.Add(-24 * time.Hour),
		}},
		Sources: []pipeline.SourceReport{
			{Name: "good", Source: "acme/jobs", Format: "markdown", Rows: 4, Accepted: 1, Duration: 120 * time.Millisecond},
			{Name: "bad", Source: "acme/other", Err: errors.New("HTTP 404")},
		},
	}
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	writeResult(&buf, sampleResult())
	out := buf.String()

	for _, want := range []string{"Status: partial", "HTTP 404", " 1. Stripe: Software Engineer", "1 day ago", "https://stripe.com/jobs/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeResultJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("writeResultJSON: %v", err)
	}

	var got jsonResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status != "partial" || len(got.Postings) != 1 || len(got.Sources) != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.Sources[0].DurationMS != 120 || got.Sources[1].Error != "HTTP 404" {
		t.Errorf("unexpected sources: %+v", got.Sources)
	}
	if !strings.Contains(buf.String(), `"date_added"`) {
		t.Errorf("expected snake_case posting fields in %s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Stripe", 10); got != "Stripe" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("Société Générale", 8); got != "Société…" {
		t.Errorf("truncate long = %q", got)
	}
}
