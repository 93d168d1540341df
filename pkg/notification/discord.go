package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/vignesh-goutham/tradelog/pkg/types"
)

// DiscordNotificationService announces logged trades on a Discord webhook
type DiscordNotificationService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// DiscordWebhookPayload represents the payload sent to Discord webhook
type DiscordWebhookPayload struct {
	Content string `json:"content"`
}

// NewDiscordNotificationService creates a new Discord notification service. It is a
// no-op when webhookURL is empty.
func NewDiscordNotificationService(webhookURL string) *DiscordNotificationService {
	return &DiscordNotificationService{
		webhookURL: webhookURL,
		enabled:    webhookURL != "",
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled reports whether a webhook is configured
func (d *DiscordNotificationService) Enabled() bool {
	return d.enabled
}

// sendNotification sends a notification to Discord
func (d *DiscordNotificationService) sendNotification(ctx context.Context, message string) error {
	if !d.enabled {
		return nil
	}

	jsonData, err := json.Marshal(DiscordWebhookPayload{Content: message})
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build Discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Discord notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyTradeLogged sends a notification when a new trade is written
func (d *DiscordNotificationService) NotifyTradeLogged(ctx context.Context, trade types.TradeRecord) error {
	icon := "📈"
	if trade.IsShort() {
		icon = "📉"
	}

	message := fmt.Sprintf("%s **Trade Logged**\n"+
		"**%s** %s (%s)\n"+
		"Qty: %s\n"+
		"Entry: %s\n"+
		"Opened: %s",
		icon, trade.Symbol, trade.Direction, trade.Status,
		formatNumber(trade.Qty), formatNumber(trade.EntryPrice), trade.OpenedAt)

	if trade.IsClosed() {
		message += fmt.Sprintf("\nExit: %s", formatNumber(trade.ExitPrice))
	}
	if trade.TradeID != "" {
		message += fmt.Sprintf("\nTrade ID: %s", trade.TradeID)
	}

	return d.sendNotification(ctx, message)
}

func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", f)
}
