// Package usage delivers usage records to an external webhook. Delivery is
// best effort: the caller logs failures and moves on.
package usage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/aikomi/reviewgen/review"
)

// Config represents webhook sink configuration.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Webhook posts usage records as JSON to a configured endpoint. It implements
// review.UsageSink.
type Webhook struct {
	url    string
	client *http.Client

	// onFailure, when set, observes delivery failures (metrics).
	onFailure func()
}

// NewWebhook creates a webhook sink. Returns nil when no URL is configured,
// which disables usage accounting at the generator.
func NewWebhook(cfg Config) *Webhook {
	if cfg.URL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		url: cfg.URL,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
	}
}

// OnFailure registers a callback invoked once per failed delivery.
func (w *Webhook) OnFailure(fn func()) *Webhook {
	w.onFailure = fn
	return w
}

// Record delivers one usage record. A non-2xx response counts as failure.
func (w *Webhook) Record(ctx context.Context, rec *review.UsageRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return w.failed(errors.Wrap(err, "marshal usage record"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return w.failed(errors.Wrap(err, "build usage request"))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return w.failed(errors.Wrap(err, "post usage record"))
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // cleanup

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return w.failed(errors.Errorf("usage webhook: HTTP %d", resp.StatusCode))
	}
	return nil
}

func (w *Webhook) failed(err error) error {
	if w.onFailure != nil {
		w.onFailure()
	}
	return err
}
