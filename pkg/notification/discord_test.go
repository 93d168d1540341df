package notification

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vignesh-goutham/tradelog/pkg/types"
)

func TestNotifyTradeLogged(t *testing.T) {
	var received DiscordWebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	svc := NewDiscordNotificationService(server.URL)
	trade := types.TradeRecord{
		TradeID:    "abc",
		Symbol:     "AAPL",
		Direction:  types.DirectionShort,
		Status:     types.StatusClosed,
		Qty:        10,
		EntryPrice: 150,
		ExitPrice:  140,
		OpenedAt:   "2024-01-01",
	}

	require.NoError(t, svc.NotifyTradeLogged(context.Background(), trade))

	assert.Contains(t, received.Content, "**AAPL** SHORT (CLOSED)")
	assert.Contains(t, received.Content, "Exit: 140")
	assert.Contains(t, received.Content, "Trade ID: abc")
}

func TestNotifyTradeLoggedErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewDiscordNotificationService(server.URL)
	err := svc.NotifyTradeLogged(context.Background(), types.TradeRecord{Symbol: "AAPL", Qty: math.NaN()})

	assert.EqualError(t, err, "Discord webhook returned status 429")
}

func TestDisabledServiceIsNoop(t *testing.T) {
	svc := NewDiscordNotificationService("")

	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.NotifyTradeLogged(context.Background(), types.TradeRecord{}))
}
