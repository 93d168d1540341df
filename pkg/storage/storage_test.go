package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vignesh-goutham/tradelog/pkg/config"
	"github.com/vignesh-goutham/tradelog/pkg/store"
	"github.com/vignesh-goutham/tradelog/pkg/types"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{name: "memory", backend: config.BackendMemory},
		{name: "sqlite", backend: config.BackendSQLite},
		{name: "unknown", backend: "cassandra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.StoreBackend = tt.backend
			cfg.SQLitePath = filepath.Join(t.TempDir(), "trades.db")

			s, err := Open(context.Background(), cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()

			record := types.TradeRecord{
				PartitionKey: "u1",
				SortKey:      "t1",
				Symbol:       "AAPL",
				Direction:    types.DirectionLong,
				Qty:          1,
				EntryPrice:   100,
				Status:       types.StatusOpen,
				OpenedAt:     "2024-01-01",
			}
			ctx := context.Background()
			require.NoError(t, s.PutTrade(ctx, record))
			assert.ErrorIs(t, s.PutTrade(ctx, record), store.ErrConflict)

			trades, err := s.ListTrades(ctx, "u1")
			require.NoError(t, err)
			assert.Len(t, trades, 1)
		})
	}
}
