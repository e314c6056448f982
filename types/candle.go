package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Candle struct {
	AssetId   int             `json:"id"`
	Ticker    string          `json:"ticker"`
	Open      decimal.Decimal `json:"open"`
	Close     decimal.Decimal `json:"close"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Volume    decimal.Decimal `json:"volume"`
	Interval  Interval        `json:"interval"`
	Timestamp time.Time       `json:"timestamp"`
}

// Date truncates the candle timestamp to its calendar day, keeping the
// series' location. Candles sharing a Date belong to the same session.
func (c Candle) Date() time.Time {
	y, m, d := c.Timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Timestamp.Location())
}
