package notifier

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

// Ensure DiscordNotifier implements model.Notifier.
var _ model.Notifier = (*DiscordNotifier)(nil)

const (
	discordColor = 0x0066cc
	// Discord rejects embeds with more than 25 fields.
	discordMaxFields = 25
)

// DiscordNotifier posts the digest as a single embed via a Discord webhook.
type DiscordNotifier struct {
	hook webhook
	now  func() time.Time
}

// NewDiscordNotifier returns a notifier for the given Discord webhook URL.
func NewDiscordNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		hook: newWebhook("discord", webhookURL, httpClient, logger),
		now:  time.Now,
	}
}

// Notify sends one embed holding a numbered field per posting.
func (d *DiscordNotifier) Notify(postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	if err := d.hook.send(buildDiscordPayload(postings, d.now())); err != nil {
		return fmt.Errorf("discord digest: %w", err)
	}
	d.hook.logger.Info("discord digest sent", "postings", len(postings))
	return nil
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp"`
	Footer      discordFooter  `json:"footer"`
	Fields      []discordField `json:"fields"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

func buildDiscordPayload(postings []model.Posting, now time.Time) discordPayload {
	embed := discordEmbed{
		Title:       "🎯 Daily Fresh Internships & New Grad Opportunities",
		Description: "Curated opportunities delivered straight to the community!",
		Color:       discordColor,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Footer:      discordFooter{Text: "Gradboard • Daily Updates"},
	}
	for i, p := range postings {
		if i == discordMaxFields {
			break
		}
		embed.Fields = append(embed.Fields, discordField{
			Name: fmt.Sprintf("%d. %s", i+1, p.Title),
			Value: fmt.Sprintf("**Company:** %s\n**Location:** %s\n**Source:** %s\n[Apply Here](%s)",
				p.Company, p.Location, p.Source, p.Link),
		})
	}
	return discordPayload{Embeds: []discordEmbed{embed}}
}
