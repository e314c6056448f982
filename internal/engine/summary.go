package engine

import (
	"github.com/mayurbaviskarpune/stock/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// summarize reduces a completed trade log into the symbol's report record.
// Win rate is the share of follow trades (either direction) and is defined
// as zero for an empty log.
func summarize(ticker string, trades []types.Trade, initialCapital decimal.Decimal) types.SymbolSummary {
	s := types.SymbolSummary{
		Ticker:       ticker,
		TotalTrades:  len(trades),
		WinRate:      decimal.Zero,
		FinalCapital: initialCapital,
	}

	for _, t := range trades {
		switch t.Trend {
		case types.TrendUpsideFollow:
			s.UpsideFollow++
		case types.TrendDownsideFollow:
			s.DownsideFollow++
		case types.TrendUpsideFake:
			s.UpsideFake++
		case types.TrendDownsideFake:
			s.DownsideFake++
		}
	}

	if len(trades) > 0 {
		s.FinalCapital = trades[len(trades)-1].Capital
		follows := decimal.NewFromInt(int64(s.UpsideFollow + s.DownsideFollow))
		s.WinRate = follows.Mul(hundred).
			Div(decimal.NewFromInt(int64(s.TotalTrades))).
			Round(2)
	}
	s.Profit = s.FinalCapital.Sub(initialCapital)

	return s
}
