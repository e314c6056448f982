package types

import "github.com/shopspring/decimal"

// SymbolSummary is the aggregate result of one symbol's simulation.
type SymbolSummary struct {
	Ticker         string
	TotalTrades    int
	UpsideFollow   int
	DownsideFollow int
	UpsideFake     int
	DownsideFake   int
	WinRate        decimal.Decimal // percent, 0 when there are no trades
	FinalCapital   decimal.Decimal
	Profit         decimal.Decimal
}

// Outcome is the tagged result of one symbol's full pipeline. A failed
// symbol carries its error here instead of aborting the run; Summary and
// Trades are only set when Err is nil.
type Outcome struct {
	Ticker  string
	Trades  []Trade
	Summary *SymbolSummary
	Err     error
}
