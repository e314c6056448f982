package engine

import (
	"github.com/mayurbaviskarpune/stock/types"
	"github.com/shopspring/decimal"
)

// classify decides a session's trend and breakout entry level from its
// reference candle, extremes and last close. The upside check runs strictly
// before the downside check: a day that breaks both sides of the reference
// candle is classified upside only.
func classify(s daySession) (types.Trend, *decimal.Decimal) {
	refHigh := s.reference.High
	refLow := s.reference.Low

	for _, c := range s.candles {
		if c.High.GreaterThan(refHigh) {
			entry := refHigh
			if s.lastClose.GreaterThan(entry) {
				return types.TrendUpsideFollow, &entry
			}
			return types.TrendUpsideFake, &entry
		}
	}

	for _, c := range s.candles {
		if c.Low.LessThan(refLow) {
			entry := refLow
			if s.lastClose.LessThan(entry) {
				return types.TrendDownsideFollow, &entry
			}
			return types.TrendDownsideFake, &entry
		}
	}

	return types.TrendNeutral, nil
}
