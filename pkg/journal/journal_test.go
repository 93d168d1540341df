package journal

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vignesh-goutham/tradelog/pkg/types"
)

func closedTrade(symbol string, direction types.Direction, qty, entry, exit float64) types.TradeRecord {
	return types.TradeRecord{
		Symbol:     symbol,
		Direction:  direction,
		Status:     types.StatusClosed,
		Qty:        qty,
		EntryPrice: entry,
		ExitPrice:  exit,
	}
}

func TestRealizedPnL(t *testing.T) {
	tests := []struct {
		name     string
		trade    types.TradeRecord
		expected decimal.Decimal
		ok       bool
	}{
		{
			name:     "long winner",
			trade:    closedTrade("AAPL", types.DirectionLong, 10, 150, 160.5),
			expected: decimal.NewFromInt(105),
			ok:       true,
		},
		{
			name:     "short winner",
			trade:    closedTrade("TSLA", types.DirectionShort, 2, 800, 750),
			expected: decimal.NewFromInt(100),
			ok:       true,
		},
		{
			name:     "short loser",
			trade:    closedTrade("TSLA", types.DirectionShort, 1, 100, 110.25),
			expected: decimal.NewFromFloat(-10.25),
			ok:       true,
		},
		{
			name:     "open trade",
			trade:    types.TradeRecord{Status: types.StatusOpen, Qty: 1, EntryPrice: 1},
			expected: decimal.Zero,
		},
		{
			name:     "nan quantity",
			trade:    closedTrade("AAPL", types.DirectionLong, math.NaN(), 150, 160),
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pnl, ok := RealizedPnL(tt.trade)

			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.expected.Equal(pnl), "expected %s, got %s", tt.expected, pnl)
		})
	}
}

func TestSummarize(t *testing.T) {
	trades := []types.TradeRecord{
		closedTrade("AAPL", types.DirectionLong, 10, 150, 160),
		closedTrade("AAPL", types.DirectionLong, 5, 150, 140),
		closedTrade("TSLA", types.DirectionShort, 2, 800, 750),
		closedTrade("MSFT", types.DirectionLong, 1, 300, 300),
		closedTrade("NVDA", types.DirectionLong, math.Inf(1), 1, 2),
		{Symbol: "AMZN", Status: types.StatusOpen, Qty: 3, EntryPrice: 120},
	}

	summary := Summarize(trades)

	assert.Equal(t, 6, summary.Trades)
	assert.Equal(t, 1, summary.Open)
	assert.Equal(t, 5, summary.Closed)
	assert.Equal(t, 2, summary.Wins)
	assert.Equal(t, 1, summary.Losses)
	assert.Equal(t, 1, summary.Skipped)
	assert.True(t, decimal.NewFromInt(150).Equal(summary.RealizedPnL), "got %s", summary.RealizedPnL)
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, summary.Symbols())
	assert.True(t, decimal.NewFromInt(50).Equal(summary.BySymbol["AAPL"]))
	assert.True(t, decimal.NewFromInt(50).Equal(summary.WinRate()), "got %s", summary.WinRate())
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.Trades)
	assert.True(t, summary.RealizedPnL.IsZero())
	assert.True(t, summary.WinRate().IsZero())
	assert.Empty(t, summary.Symbols())
}
