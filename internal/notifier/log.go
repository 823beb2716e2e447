package notifier

import (
	"log/slog"

	"github.com/amishk599/gradboard/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes the digest to the given logger, one record per posting.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each posting via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each posting in digest order. Stdout logging does not fail.
func (n *LogNotifier) Notify(postings []model.Posting) error {
	for i, p := range postings {
		args := []any{
			"rank", i + 1,
			"company", p.Company,
			"title", p.Title,
			"location", p.Location,
			"source", p.Source,
			"link", p.Link,
			"date_added", p.DateAdded,
		}
		if p.Age != "" {
			args = append(args, "age", p.Age)
		}
		n.logger.Info("opportunity", args...)
	}
	return nil
}
