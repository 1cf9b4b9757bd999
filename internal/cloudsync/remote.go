package cloudsync

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPConfig configures an HTTPRemote.
type HTTPConfig struct {
	URL       string
	Token     string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
}

// HTTPRemote stores snapshots with a JSON PUT to a single URL.
type HTTPRemote struct {
	client *resty.Client
	url    string
}

// NewHTTPRemote returns a remote for cfg. Server errors are retried.
func NewHTTPRemote(cfg HTTPConfig) *HTTPRemote {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(5 * cfg.RetryWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &HTTPRemote{client: client, url: cfg.URL}
}

// Push uploads doc.
func (r *HTTPRemote) Push(ctx context.Context, doc Document) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(doc).
		Put(r.url)
	if err != nil {
		return fmt.Errorf("pushing snapshot: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("pushing snapshot: remote returned %s", resp.Status())
	}
	return nil
}
