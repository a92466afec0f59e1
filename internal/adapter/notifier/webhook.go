package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mysql-backup-service/internal/domain"
)

// HTTPClient allows tests to substitute the transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Webhook posts the run summary as JSON to a configured URL.
type Webhook struct {
	url    string
	client HTTPClient
}

type webhookPayload struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func NewWebhook(url string) *Webhook {
	return &Webhook{url: url, client: http.DefaultClient}
}

func NewWebhookWithClient(url string, client HTTPClient) *Webhook {
	return &Webhook{url: url, client: client}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Send(ctx context.Context, subject, message string) error {
	body, err := json.Marshal(webhookPayload{Subject: subject, Message: message})
	if err != nil {
		return &domain.DispatchError{Channel: w.Name(), Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return &domain.DispatchError{Channel: w.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return &domain.DispatchError{Channel: w.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.DispatchError{Channel: w.Name(), Err: fmt.Errorf("webhook returned status %d", resp.StatusCode)}
	}

	return nil
}
