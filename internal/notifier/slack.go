package notifier

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/gradboard/internal/model"
	"github.com/dustin/go-humanize"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends the digest to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	hook webhook
	now  func() time.Time
}

// NewSlackNotifier returns a notifier that posts one Block Kit message per digest.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		hook: newWebhook("slack", webhookURL, httpClient, logger),
		now:  time.Now,
	}
}

// Notify posts the whole list as a single message. An empty list sends nothing.
func (s *SlackNotifier) Notify(postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	if err := s.hook.send(buildSlackPayload(postings, s.now())); err != nil {
		return fmt.Errorf("slack digest: %w", err)
	}
	s.hook.logger.Info("slack digest sent", "postings", len(postings))
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type      string        `json:"type"`
	Text      *slackText    `json:"text,omitempty"`
	Fields    []slackText   `json:"fields,omitempty"`
	Elements  []slackText   `json:"elements,omitempty"`
	Accessory *slackElement `json:"accessory,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style,omitempty"`
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildSlackPayload(postings []model.Posting, now time.Time) slackPayload {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🎯 Fresh Internships & New Grad Roles"},
		},
	}

	for i, p := range postings {
		blocks = append(blocks,
			slackBlock{
				Type: "section",
				Text: &slackText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*%d. %s*\n*Company:* %s\n*Location:* %s", i+1, p.Title, capitalize(p.Company), p.Location),
				},
				Accessory: &slackElement{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Apply"},
					URL:   p.Link,
					Style: "primary",
				},
			},
			slackBlock{
				Type: "context",
				Elements: []slackText{
					{Type: "mrkdwn", Text: "Added " + humanize.RelTime(p.DateAdded, now, "ago", "from now") + " • " + p.Source},
				},
			},
		)
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{
		Text:   fmt.Sprintf("%d new opportunities", len(postings)),
		Blocks: blocks,
	}
}
