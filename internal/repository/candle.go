package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mayurbaviskarpune/stock/types"
)

// GetCandles returns the stored candles for one asset and timeframe,
// ordered ascending by timestamp.
func (db *Database) GetCandles(ctx context.Context, assetId int, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	if _, ok := types.IntervalToTime[interval]; !ok {
		return nil, ErrIntervalNotSupported
	}
	candles, err := db.candles.GetCandles(ctx, int32(assetId), string(interval), start, end)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoCandles
		}
		return nil, err
	}
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return convertCandles(candles, interval, ticker), nil
}

// SaveCandles bulk-inserts a fetched series for the asset.
func (db *Database) SaveCandles(ctx context.Context, asset *types.Asset, candles []types.Candle) (int64, error) {
	if len(candles) == 0 {
		return 0, nil
	}
	interval := candles[0].Interval
	if _, ok := types.IntervalToTime[interval]; !ok {
		return 0, ErrIntervalNotSupported
	}
	rows := make([]candleRow, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, candleRow{
			AssetID:   int32(asset.Id),
			Timestamp: c.Timestamp,
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		})
	}
	return db.candles.CopyCandles(ctx, string(interval), rows)
}

// GetSeries loads a ticker's candle series. This is the engine's series
// source when the run is configured against stored data.
func (db *Database) GetSeries(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	asset, err := db.GetAssetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return db.GetCandles(ctx, asset.Id, ticker, interval, start, end)
}

func convertCandles(candleDAOs []candleRow, interval types.Interval, ticker string) []types.Candle {
	var candles []types.Candle
	for _, dao := range candleDAOs {
		candles = append(candles, types.Candle{
			AssetId:   int(dao.AssetID),
			Ticker:    ticker,
			Open:      dao.Open,
			Close:     dao.Close,
			High:      dao.High,
			Low:       dao.Low,
			Volume:    dao.Volume,
			Interval:  interval,
			Timestamp: dao.Timestamp,
		})
	}
	return candles
}
