package engine

import (
	"fmt"

	"github.com/mayurbaviskarpune/stock/types"
	"github.com/shopspring/decimal"
)

// simulate folds the sessions, in chronological order, into a trade log
// with compounding capital. Each day's position is sized with the whole of
// the capital carried in from the previous day: quantity is the integer
// floor of capital divided by the entry price. Neutral days produce a
// zero-quantity trade so the log keeps one row per session.
func simulate(sessions []daySession, initialCapital decimal.Decimal) ([]types.Trade, error) {
	trades := make([]types.Trade, 0, len(sessions))
	capital := initialCapital

	for _, s := range sessions {
		trend, entry := classify(s)

		trade := types.Trade{
			Date:  s.date,
			Trend: trend,
			Entry: entry,
			Exit:  s.lastClose,
			PnL:   decimal.Zero,
		}

		if entry != nil {
			if !entry.IsPositive() {
				return nil, fmt.Errorf("session %s: entry %s: %w",
					s.date.Format("2006-01-02"), entry, ErrInvalidPrice)
			}
			qty := capital.Div(*entry).Floor()
			trade.Quantity = qty.IntPart()
			if trend.Upside() {
				trade.PnL = s.lastClose.Sub(*entry).Mul(qty)
			} else {
				trade.PnL = entry.Sub(s.lastClose).Mul(qty)
			}
		}

		capital = capital.Add(trade.PnL)
		trade.Capital = capital
		trades = append(trades, trade)
	}

	return trades, nil
}
