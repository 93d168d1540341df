package journal

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vignesh-goutham/tradelog/pkg/types"
)

// Summary aggregates a set of logged trades
type Summary struct {
	Trades  int
	Open    int
	Closed  int
	Wins    int
	Losses  int
	Skipped int // closed trades whose numbers are not finite

	RealizedPnL decimal.Decimal
	BySymbol    map[string]decimal.Decimal
}

// RealizedPnL returns the profit or loss of a closed trade. ok is false for open
// trades and for trades carrying NaN or infinite quantities or prices.
func RealizedPnL(trade types.TradeRecord) (pnl decimal.Decimal, ok bool) {
	if !trade.IsClosed() || !finite(trade.Qty, trade.EntryPrice, trade.ExitPrice) {
		return decimal.Zero, false
	}

	qty := decimal.NewFromFloat(trade.Qty)
	entry := decimal.NewFromFloat(trade.EntryPrice)
	exit := decimal.NewFromFloat(trade.ExitPrice)

	if trade.IsShort() {
		return entry.Sub(exit).Mul(qty), true
	}
	return exit.Sub(entry).Mul(qty), true
}

// Summarize computes counts and realized PnL over trades
func Summarize(trades []types.TradeRecord) Summary {
	summary := Summary{
		RealizedPnL: decimal.Zero,
		BySymbol:    make(map[string]decimal.Decimal),
	}

	for _, trade := range trades {
		summary.Trades++
		if !trade.IsClosed() {
			summary.Open++
			continue
		}
		summary.Closed++

		pnl, ok := RealizedPnL(trade)
		if !ok {
			summary.Skipped++
			continue
		}

		switch {
		case pnl.IsPositive():
			summary.Wins++
		case pnl.IsNegative():
			summary.Losses++
		}

		summary.RealizedPnL = summary.RealizedPnL.Add(pnl)
		summary.BySymbol[trade.Symbol] = summary.BySymbol[trade.Symbol].Add(pnl)
	}

	return summary
}

// Symbols returns the symbols with realized PnL in sorted order
func (s Summary) Symbols() []string {
	symbols := make([]string, 0, len(s.BySymbol))
	for symbol := range s.BySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// WinRate is the percentage of scored closed trades that made money
func (s Summary) WinRate() decimal.Decimal {
	scored := s.Closed - s.Skipped
	if scored == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.Wins)).Div(decimal.NewFromInt(int64(scored))).Mul(decimal.NewFromInt(100))
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
