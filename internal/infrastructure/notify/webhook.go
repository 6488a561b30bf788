// Package notify delivers outbound, fire-and-forget notifications
// (email triggers rendered by a downstream service). Failures are
// logged; they never block or fail the write that produced them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/ports"
)

const webhookTimeout = 10 * time.Second

// WebhookSender POSTs notifications as JSON to a configured endpoint.
type WebhookSender struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

func NewWebhookSender(url string, log zerolog.Logger) *WebhookSender {
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
		log:    log,
	}
}

func (w *WebhookSender) Send(ctx context.Context, n ports.Notification) error {
	if w.url == "" {
		// No endpoint configured; notifications are log-only.
		w.log.Info().Str("kind", n.Kind).Str("tenant_id", n.TenantID).Msg("notification (no endpoint configured)")
		return nil
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}
