package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

// webhook posts JSON payloads to an incoming-webhook URL. A single 429 is
// honoured by sleeping for Retry-After and posting once more.
type webhook struct {
	name       string
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	sleep      func(time.Duration)
}

func newWebhook(name, url string, httpClient *http.Client, logger *slog.Logger) webhook {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return webhook{name: name, url: url, httpClient: httpClient, logger: logger, sleep: time.Sleep}
}

func (w webhook) send(payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", w.name, err)
	}

	status, retryAfter, err := w.post(body)
	if err != nil {
		return err
	}
	if status == http.StatusTooManyRequests {
		w.logger.Warn(w.name+" rate limited, retrying", "retry_after", retryAfter)
		w.sleep(retryAfter)
		status, _, err = w.post(body)
		if err != nil {
			return err
		}
	}
	if status < 200 || status >= 300 {
		return &model.HTTPError{StatusCode: status, Err: fmt.Errorf("%s webhook rejected payload", w.name)}
	}
	return nil
}

func (w webhook) post(body []byte) (int, time.Duration, error) {
	resp, err := w.httpClient.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to %s: %w", w.name, err)
	}
	defer resp.Body.Close()

	retryAfter := time.Second
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		retryAfter = time.Duration(secs) * time.Second
	}
	return resp.StatusCode, retryAfter, nil
}

// SendTestMessage sends a single sample posting to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	test := model.Posting{
		Title:     "Test Notification: Integration Verified",
		Company:   "Gradboard",
		Location:  "Everywhere",
		Link:      "https://github.com/amishk599/gradboard",
		Source:    "test",
		Age:       "0d",
		DateAdded: time.Now(),
	}
	return n.Notify([]model.Posting{test})
}
