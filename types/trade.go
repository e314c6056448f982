package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trend is the daily breakout classification. The string values are the
// exact labels written to trade logs and summary sheets.
type Trend string

const (
	TrendUpsideFollow   Trend = "Upside Follow"
	TrendUpsideFake     Trend = "Upside Fake"
	TrendDownsideFollow Trend = "Downside Follow"
	TrendDownsideFake   Trend = "Downside Fake"
	TrendNeutral        Trend = "Neutral"
)

// Breakout reports whether the session broke the reference candle at all.
func (t Trend) Breakout() bool {
	return t != TrendNeutral
}

// Upside reports whether the session broke the reference high.
func (t Trend) Upside() bool {
	return t == TrendUpsideFollow || t == TrendUpsideFake
}

// Follow reports whether the session closed in the direction of the break.
// Follow trades are the winning trades for the win-rate calculation.
func (t Trend) Follow() bool {
	return t == TrendUpsideFollow || t == TrendDownsideFollow
}

// Trade is one day's simulation result. Entry is nil on neutral sessions;
// Exit always records the session's last close even when no position was
// taken. Capital is the running balance after the day's PnL is realized.
type Trade struct {
	Date     time.Time
	Trend    Trend
	Entry    *decimal.Decimal
	Exit     decimal.Decimal
	Quantity int64
	PnL      decimal.Decimal
	Capital  decimal.Decimal
}
