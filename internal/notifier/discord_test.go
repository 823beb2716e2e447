package notifier

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

func TestDiscordNotifier_EmbedFormat(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		// Discord answers webhook posts with 204.
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(srv.URL, srv.Client(), discardLogger())
	n.now = func() time.Time { return testNow }

	postings := []model.Posting{
		samplePosting("SWE Intern", "Acme"),
		samplePosting("New Grad SWE", "Beta"),
	}
	if err := n.Notify(postings); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	var payload discordPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(payload.Embeds))
	}
	embed := payload.Embeds[0]
	if embed.Color != 0x0066cc {
		t.Errorf("color = %#x", embed.Color)
	}
	if embed.Timestamp != "2026-03-10T12:00:00Z" {
		t.Errorf("timestamp = %q", embed.Timestamp)
	}
	if len(embed.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(embed.Fields))
	}
	if embed.Fields[1].Name != "2. New Grad SWE" {
		t.Errorf("field name = %q", embed.Fields[1].Name)
	}
	wantValue := "**Company:** Beta\n**Location:** Remote\n**Source:** simplify/summer-internships\n[Apply Here](https://example.com/apply)"
	if embed.Fields[1].Value != wantValue {
		t.Errorf("field value = %q, want %q", embed.Fields[1].Value, wantValue)
	}
}

func TestDiscordNotifier_CapsFields(t *testing.T) {
	postings := make([]model.Posting, 30)
	for i := range postings {
		postings[i] = samplePosting(fmt.Sprintf("Role %d", i), "Co")
	}
	payload := buildDiscordPayload(postings, testNow)
	if got := len(payload.Embeds[0].Fields); got != discordMaxFields {
		t.Errorf("fields = %d, want %d", got, discordMaxFields)
	}
}

func TestDiscordNotifier_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify([]model.Posting{samplePosting("A", "B")}); err == nil {
		t.Fatal("expected error for 400 response")
	}
}
