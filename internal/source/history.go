package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/amishk599/gradboard/internal/model"
)

// DefaultHistoryDepth is how many recent revisions are requested.
const DefaultHistoryDepth = 10

// APIHistory reads commit timestamps from the GitHub REST API.
type APIHistory struct {
	ref        model.SourceRef
	apiBaseURL string
	token      string
	depth      int
	client     *http.Client
}

// NewAPIHistory creates a history fetcher backed by the commits endpoint.
func NewAPIHistory(ref model.SourceRef, apiBaseURL, token string, depth int, client *http.Client) *APIHistory {
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &APIHistory{
		ref:        ref,
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		token:      token,
		depth:      depth,
		client:     client,
	}
}

type commitEntry struct {
	Commit struct {
		Author struct {
			Date string `json:"date"`
		} `json:"author"`
		Committer struct {
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// Revisions returns up to depth commit timestamps touching the document.
func (h *APIHistory) Revisions(ctx context.Context) ([]time.Time, error) {
	q := url.Values{}
	q.Set("path", strings.TrimLeft(h.ref.Path, "/"))
	q.Set("sha", h.ref.Branch)
	q.Set("per_page", fmt.Sprintf("%d", h.depth))
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?%s", h.apiBaseURL, h.ref.Owner, h.ref.Repo, q.Encode())

	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if h.token != "" {
		headers["Authorization"] = "Bearer " + h.token
	}

	body, err := get(ctx, h.client, endpoint, headers)
	if err != nil {
		return nil, fmt.Errorf("commit history for %s: %w", h.ref.ID(), err)
	}

	var commits []commitEntry
	if err := json.Unmarshal(body, &commits); err != nil {
		return nil, fmt.Errorf("commit history for %s: %w", h.ref.ID(), err)
	}

	revs := make([]time.Time, 0, len(commits))
	for _, c := range commits {
		raw := c.Commit.Committer.Date
		if raw == "" {
			raw = c.Commit.Author.Date
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		revs = append(revs, t)
	}
	return newestFirst(revs, h.depth), nil
}

// AtomHistory reads commit timestamps from the public commits Atom feed,
// which needs no API token and is not subject to REST rate limits.
type AtomHistory struct {
	ref        model.SourceRef
	webBaseURL string
	depth      int
	client     *http.Client
	parser     *gofeed.Parser
}

// NewAtomHistory creates a history fetcher backed by the commits feed.
func NewAtomHistory(ref model.SourceRef, webBaseURL string, depth int, client *http.Client) *AtomHistory {
	if webBaseURL == "" {
		webBaseURL = DefaultWebBaseURL
	}
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &AtomHistory{
		ref:        ref,
		webBaseURL: strings.TrimRight(webBaseURL, "/"),
		depth:      depth,
		client:     client,
		parser:     gofeed.NewParser(),
	}
}

// Revisions returns up to depth entry timestamps from the feed.
func (h *AtomHistory) Revisions(ctx context.Context) ([]time.Time, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/commits/%s/%s.atom",
		h.webBaseURL, h.ref.Owner, h.ref.Repo, h.ref.Branch, strings.TrimLeft(h.ref.Path, "/"))

	body, err := get(ctx, h.client, endpoint, map[string]string{"Accept": "application/atom+xml"})
	if err != nil {
		return nil, fmt.Errorf("commit feed for %s: %w", h.ref.ID(), err)
	}

	feed, err := h.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("commit feed for %s: %w", h.ref.ID(), err)
	}

	revs := make([]time.Time, 0, len(feed.Items))
	for _, item := range feed.Items {
		switch {
		case item.UpdatedParsed != nil:
			revs = append(revs, *item.UpdatedParsed)
		case item.PublishedParsed != nil:
			revs = append(revs, *item.PublishedParsed)
		}
	}
	return newestFirst(revs, h.depth), nil
}

func newestFirst(revs []time.Time, depth int) []time.Time {
	sort.Slice(revs, func(i, j int) bool { return revs[i].After(revs[j]) })
	if len(revs) > depth {
		revs = revs[:depth]
	}
	return revs
}
