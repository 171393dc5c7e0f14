package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

var _ Notifier = (*Webhook)(nil)

// Webhook posts each notification as a small JSON document to a configured
// endpoint.
type Webhook struct {
	url string
	cli *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		cli: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]any{"text": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.cli.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("post notification: unexpected status %s", resp.Status)
	}
	return nil
}
