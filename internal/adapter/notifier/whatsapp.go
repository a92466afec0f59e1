package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mysql-backup-service/internal/domain"
)

// WhatsApp sends the run summary to a group through a WhatsApp gateway API.
type WhatsApp struct {
	apiURL  string
	groupID string
	client  HTTPClient
}

type whatsappPayload struct {
	GroupID string `json:"group_id"`
	Message string `json:"message"`
}

func NewWhatsApp(apiURL, groupID string) *WhatsApp {
	return &WhatsApp{apiURL: apiURL, groupID: groupID, client: http.DefaultClient}
}

func NewWhatsAppWithClient(apiURL, groupID string, client HTTPClient) *WhatsApp {
	return &WhatsApp{apiURL: apiURL, groupID: groupID, client: client}
}

func (w *WhatsApp) Name() string { return "whatsapp" }

func (w *WhatsApp) Send(ctx context.Context, subject, message string) error {
	body, err := json.Marshal(whatsappPayload{
		GroupID: w.groupID,
		Message: subject + "\n\n" + message,
	})
	if err != nil {
		return &domain.DispatchError{Channel: w.Name(), Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.apiURL, bytes.NewReader(body))
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
		return &domain.DispatchError{Channel: w.Name(), Err: fmt.Errorf("whatsapp API returned status %d", resp.StatusCode)}
	}

	return nil
}
