package engine

import (
	"testing"

	"github.com/mayurbaviskarpune/stock/types"
	"github.com/shopspring/decimal"
)

func TestSummarize(t *testing.T) {
	entry := decimal.NewFromInt(100)

	tests := []struct {
		name        string
		trades      []types.Trade
		wantWinRate string
		wantFinal   string
		wantProfit  string
	}{
		{
			name:        "no trades keeps initial capital and zero win rate",
			trades:      nil,
			wantWinRate: "0",
			wantFinal:   "100000",
			wantProfit:  "0",
		},
		{
			name: "all follow trades",
			trades: []types.Trade{
				{Trend: types.TrendUpsideFollow, Entry: &entry, Capital: decimal.NewFromInt(110000)},
				{Trend: types.TrendDownsideFollow, Entry: &entry, Capital: decimal.NewFromInt(117332)},
			},
			wantWinRate: "100",
			wantFinal:   "117332",
			wantProfit:  "17332",
		},
		{
			name: "mixed trades round to two decimals",
			trades: []types.Trade{
				{Trend: types.TrendUpsideFollow, Entry: &entry, Capital: decimal.NewFromInt(105000)},
				{Trend: types.TrendUpsideFake, Entry: &entry, Capital: decimal.NewFromInt(104000)},
				{Trend: types.TrendNeutral, Capital: decimal.NewFromInt(104000)},
			},
			wantWinRate: "33.33",
			wantFinal:   "104000",
			wantProfit:  "4000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarize("AAPL", tt.trades, decimal.NewFromInt(100000))
			if got.Ticker != "AAPL" {
				t.Errorf("ticker = %q, want AAPL", got.Ticker)
			}
			if got.TotalTrades != len(tt.trades) {
				t.Errorf("total trades = %d, want %d", got.TotalTrades, len(tt.trades))
			}
			if !got.WinRate.Equal(decimal.RequireFromString(tt.wantWinRate)) {
				t.Errorf("win rate = %s, want %s", got.WinRate, tt.wantWinRate)
			}
			if !got.FinalCapital.Equal(decimal.RequireFromString(tt.wantFinal)) {
				t.Errorf("final capital = %s, want %s", got.FinalCapital, tt.wantFinal)
			}
			if !got.Profit.Equal(decimal.RequireFromString(tt.wantProfit)) {
				t.Errorf("profit = %s, want %s", got.Profit, tt.wantProfit)
			}
		})
	}
}

func TestSummarize_CountsEveryCategory(t *testing.T) {
	entry := decimal.NewFromInt(10)
	trades := []types.Trade{
		{Trend: types.TrendUpsideFollow, Entry: &entry, Capital: decimal.NewFromInt(1)},
		{Trend: types.TrendUpsideFollow, Entry: &entry, Capital: decimal.NewFromInt(2)},
		{Trend: types.TrendUpsideFake, Entry: &entry, Capital: decimal.NewFromInt(3)},
		{Trend: types.TrendDownsideFollow, Entry: &entry, Capital: decimal.NewFromInt(4)},
		{Trend: types.TrendDownsideFake, Entry: &entry, Capital: decimal.NewFromInt(5)},
		{Trend: types.TrendNeutral, Capital: decimal.NewFromInt(5)},
	}

	got := summarize("TCS", trades, decimal.NewFromInt(0))
	if got.UpsideFollow != 2 || got.UpsideFake != 1 || got.DownsideFollow != 1 || got.DownsideFake != 1 {
		t.Errorf("counts = up %d/%d down %d/%d, want up 2/1 down 1/1",
			got.UpsideFollow, got.UpsideFake, got.DownsideFollow, got.DownsideFake)
	}
	if got.TotalTrades != 6 {
		t.Errorf("total trades = %d, want 6", got.TotalTrades)
	}
	// 3 follows out of 6 trades.
	if !got.WinRate.Equal(decimal.NewFromInt(50)) {
		t.Errorf("win rate = %s, want 50", got.WinRate)
	}
}
