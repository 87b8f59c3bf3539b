package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/replyradar/internal/models"
)

const webhookRequestTimeout = 15 * time.Second

// DiscordWebhook delivers the notification card to a Discord channel.
type DiscordWebhook struct {
	URL    string
	Client *http.Client
}

func NewDiscordWebhook(url string) *DiscordWebhook {
	return &DiscordWebhook{
		URL:    url,
		Client: &http.Client{Timeout: webhookRequestTimeout},
	}
}

// Send posts the embed card. A delivery failure is an error for the
// caller to log; it never aborts the run.
func (w *DiscordWebhook) Send(ctx context.Context, payload models.WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("[DiscordWebhook] Failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("[DiscordWebhook] Request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("[DiscordWebhook] Unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	slog.Info("[DiscordWebhook] Notification delivered", slog.Int("embeds", len(payload.Embeds)))
	return nil
}
