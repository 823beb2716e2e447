// Package source retrieves listing documents and their change history from
// GitHub repositories.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

const (
	DefaultRawBaseURL = "https://raw.githubusercontent.com"
	DefaultAPIBaseURL = "https://api.github.com"
	DefaultWebBaseURL = "https://github.com"
)

// HistoryFetcher returns recent revision timestamps of a document, newest first.
type HistoryFetcher interface {
	Revisions(ctx context.Context) ([]time.Time, error)
}

// GitHubSource fetches one listing document from a repository.
type GitHubSource struct {
	ref        model.SourceRef
	rawBaseURL string
	token      string
	client     *http.Client
	history    HistoryFetcher
	logger     *slog.Logger
	now        func() time.Time
}

// NewGitHubSource creates a fetcher for ref. history may be nil, in which
// case documents carry no revisions.
func NewGitHubSource(ref model.SourceRef, rawBaseURL, token string, client *http.Client, history HistoryFetcher, logger *slog.Logger) *GitHubSource {
	if rawBaseURL == "" {
		rawBaseURL = DefaultRawBaseURL
	}
	return &GitHubSource{
		ref:        ref,
		rawBaseURL: strings.TrimRight(rawBaseURL, "/"),
		token:      token,
		client:     client,
		history:    history,
		logger:     logger,
		now:        time.Now,
	}
}

// FetchDocument downloads the raw document and its recent revisions. A
// history failure only costs the revisions; a document failure fails the
// whole fetch with a *model.SourceFetchError.
func (s *GitHubSource) FetchDocument(ctx context.Context) (model.Document, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", s.rawBaseURL, s.ref.Owner, s.ref.Repo, s.ref.Branch, strings.TrimLeft(s.ref.Path, "/"))

	headers := map[string]string{"Accept": "text/plain"}
	if s.token != "" {
		headers["Authorization"] = "Bearer " + s.token
	}
	body, err := get(ctx, s.client, url, headers)
	if err != nil {
		return model.Document{}, &model.SourceFetchError{Source: s.ref.ID(), Err: err}
	}

	doc := model.Document{Text: string(body), FetchedAt: s.now()}

	if s.history != nil {
		revs, err := s.history.Revisions(ctx)
		if err != nil {
			s.logger.Warn("change history unavailable", "source", s.ref.ID(), "error", err)
		} else {
			doc.Revisions = revs
		}
	}

	return doc, nil
}

// BlobBaseURL returns the URL that relative links inside the document
// resolve against: the directory holding the document on github.com.
func BlobBaseURL(webBaseURL string, ref model.SourceRef) string {
	if webBaseURL == "" {
		webBaseURL = DefaultWebBaseURL
	}
	dir := path.Dir("/" + strings.TrimLeft(ref.Path, "/"))
	if dir == "/" {
		dir = ""
	}
	return fmt.Sprintf("%s/%s/%s/blob/%s%s/", strings.TrimRight(webBaseURL, "/"), ref.Owner, ref.Repo, ref.Branch, dir)
}
