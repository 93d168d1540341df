package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vignesh-goutham/tradelog/pkg/store"
	"github.com/vignesh-goutham/tradelog/pkg/types"
)

func TestKeysEscapeSeparators(t *testing.T) {
	s := &Store{prefix: "trading_log"}

	assert.Equal(t, "trading_log:trade:a%3Ab:c", s.tradeKey("a:b", "c"))
	assert.NotEqual(t, s.tradeKey("a:b", "c"), s.tradeKey("a", "b:c"))
	assert.Equal(t, "trading_log:idx:u1", s.indexKey("u1"))
}

func TestTranslateError(t *testing.T) {
	err := translateError(errors.New("dial tcp: connection refused"))

	var backendErr *store.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "RedisError", backendErr.Code)
	assert.NotErrorIs(t, err, store.ErrConflict)
}

// Runs against a live server when REDIS_URL is set
func TestStoreAgainstRedis(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, redisURL, "tradelog-test-"+uuid.NewString())
	require.NoError(t, err)
	defer s.Close()

	record := types.TradeRecord{
		PartitionKey: "u1",
		SortKey:      "t1",
		Symbol:       "AAPL",
		Direction:    types.DirectionLong,
		Qty:          10,
		EntryPrice:   150,
		Status:       types.StatusOpen,
		OpenedAt:     "2024-01-01",
	}
	require.NoError(t, s.PutTrade(ctx, record))

	duplicate := record
	duplicate.Symbol = "MSFT"
	assert.ErrorIs(t, s.PutTrade(ctx, duplicate), store.ErrConflict)

	trades, err := s.ListTrades(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "AAPL", trades[0].Symbol)
	assert.Equal(t, "t1", trades[0].SortKey)
}
