package sqlite

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vignesh-goutham/tradelog/pkg/store"
	"github.com/vignesh-goutham/tradelog/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "tradelog.db"), "trading_log")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTrade(sk string) types.TradeRecord {
	return types.TradeRecord{
		PartitionKey: "u1",
		SortKey:      sk,
		TradeID:      "abc",
		Symbol:       "AAPL",
		Direction:    types.DirectionLong,
		Qty:          10,
		EntryPrice:   150,
		ExitPrice:    0,
		Status:       types.StatusOpen,
		OpenedAt:     "2024-01-01",
	}
}

func TestPutTradeFirstWriterWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleTrade("t1")
	second := sampleTrade("t1")
	second.Symbol = "MSFT"

	require.NoError(t, s.PutTrade(ctx, first))
	err := s.PutTrade(ctx, second)
	assert.ErrorIs(t, err, store.ErrConflict)

	trades, err := s.ListTrades(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "AAPL", trades[0].Symbol)
}

func TestPutTradeRoundTripsPassThroughValues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	record := sampleTrade("t1")
	record.Strategy = "breakout"
	record.ClosedAt = "2024-01-02"
	record.Notes = map[string]any{"tags": []any{"earnings"}}
	record.Status = types.StatusClosed
	record.ExitPrice = 160

	require.NoError(t, s.PutTrade(ctx, record))
	require.NoError(t, s.PutTrade(ctx, sampleTrade("t0")))

	trades, err := s.ListTrades(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "t0", trades[0].SortKey)
	assert.Nil(t, trades[0].Strategy)
	assert.Nil(t, trades[0].Notes)
	assert.Equal(t, record, trades[1])
}

func TestPutTradeNaNIsBackendError(t *testing.T) {
	s := newTestStore(t)

	record := sampleTrade("t1")
	record.Qty = math.NaN()

	err := s.PutTrade(context.Background(), record)

	var backendErr *store.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.NotErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, "SQLITE_CONSTRAINT", backendErr.Code)
}

func TestOpenReportsUnusableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := Open(filepath.Join(blocker, "data", "tradelog.db"), "trading_log")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating db dir")
}
