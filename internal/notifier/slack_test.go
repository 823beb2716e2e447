package notifier

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func samplePosting(title, company string) model.Posting {
	return model.Posting{
		Company:   company,
		Title:     title,
		Location:  "Remote",
		Link:      "https://example.com/apply",
		Source:    "simplify/summer-internships",
		Age:       "2d",
		DateAdded: testNow.Add(-48 * time.Hour),
	}
}

func newTestSlack(url string, client *http.Client) *SlackNotifier {
	n := NewSlackNotifier(url, client, discardLogger())
	n.now = func() time.Time { return testNow }
	n.hook.sleep = func(time.Duration) {}
	return n
}

func TestSlackNotifier_EmptyPostings(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestSlack(srv.URL, srv.Client())
	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_SingleDigestForManyPostings(t *testing.T) {
	var calls atomic.Int32
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestSlack(srv.URL, srv.Client())
	postings := []model.Posting{
		samplePosting("SWE Intern", "acme"),
		samplePosting("Data Intern", "Beta"),
		samplePosting("ML Intern", "Gamma"),
	}
	if err := n.Notify(postings); err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	if c := calls.Load(); c != 1 {
		t.Fatalf("expected 1 HTTP call, got %d", c)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// header + (section + context) per posting + divider
	if want := 1 + 2*len(postings) + 1; len(payload.Blocks) != want {
		t.Fatalf("expected %d blocks, got %d", want, len(payload.Blocks))
	}
	if payload.Blocks[0].Type != "header" {
		t.Errorf("block[0] type = %q, want header", payload.Blocks[0].Type)
	}

	first := payload.Blocks[1]
	if !strings.HasPrefix(first.Text.Text, "*1. SWE Intern*") {
		t.Errorf("first section = %q", first.Text.Text)
	}
	if !strings.Contains(first.Text.Text, "*Company:* Acme") {
		t.Errorf("company should be capitalized: %q", first.Text.Text)
	}
	if first.Accessory == nil || first.Accessory.URL != "https://example.com/apply" {
		t.Errorf("missing apply button: %+v", first.Accessory)
	}

	ctxText := payload.Blocks[2].Elements[0].Text
	if !strings.Contains(ctxText, "2 days ago") {
		t.Errorf("context = %q, want relative time", ctxText)
	}
	if payload.Blocks[len(payload.Blocks)-1].Type != "divider" {
		t.Errorf("last block should be a divider")
	}
}

func TestSlackNotifier_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newTestSlack(srv.URL, srv.Client())
	err := n.Notify([]model.Posting{samplePosting("A", "X")})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 {
		t.Errorf("expected HTTPError 500, got %v", err)
	}
}

func TestSlackNotifier_RateLimited(t *testing.T) {
	var calls atomic.Int32
	var slept time.Duration
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestSlack(srv.URL, srv.Client())
	n.hook.sleep = func(d time.Duration) { slept = d }

	if err := n.Notify([]model.Posting{samplePosting("Rate Limited", "Test")}); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
	if slept != 2*time.Second {
		t.Errorf("slept %v, want 2s", slept)
	}
}

func TestSendTestMessage(t *testing.T) {
	rec := &recordingNotifier{}
	if err := SendTestMessage(rec); err != nil {
		t.Fatalf("SendTestMessage: %v", err)
	}
	if len(rec.got) != 1 || rec.got[0].Source != "test" {
		t.Fatalf("unexpected postings: %+v", rec.got)
	}
}

type recordingNotifier struct {
	got []model.Posting
}

func (r *recordingNotifier) Notify(p []model.Posting) error {
	r.got = append(r.got, p...)
	return nil
}
