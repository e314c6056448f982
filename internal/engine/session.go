package engine

import (
	"errors"
	"time"

	"github.com/mayurbaviskarpune/stock/types"
	"github.com/shopspring/decimal"
)

// Global error declarations.
var (
	ErrNoData             = errors.New("no candles in series")
	ErrInvalidPrice       = errors.New("non-positive breakout entry price")
	ErrNoSymbolsProcessed = errors.New("no symbols processed")
)

// daySession is one trading day's slice of the intraday series. The
// reference candle is the first bar of the day; its high and low are the
// breakout trigger levels for the rest of the session.
type daySession struct {
	date      time.Time
	reference types.Candle
	candles   []types.Candle
	lastClose decimal.Decimal
}

// buildSessions partitions an ordered candle series into per-day sessions,
// preserving date order. The series must already be sorted ascending by
// timestamp; sessions are the consecutive runs of equal calendar dates.
func buildSessions(series []types.Candle) ([]daySession, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}

	var sessions []daySession
	for _, c := range series {
		day := c.Date()
		if len(sessions) == 0 || !sessions[len(sessions)-1].date.Equal(day) {
			sessions = append(sessions, daySession{date: day, reference: c})
		}
		cur := &sessions[len(sessions)-1]
		cur.candles = append(cur.candles, c)
		cur.lastClose = c.Close
	}
	return sessions, nil
}
