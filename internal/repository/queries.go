package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQueries is the pgx-backed implementation of the repository interfaces.
type pgxQueries struct {
	pool *pgxpool.Pool
}

const getAssetByTickerSQL = `
SELECT id, ticker, name, type, created_at, modified_at
FROM assets
WHERE ticker = $1`

const upsertAssetSQL = `
INSERT INTO assets (ticker, name, type, created_at, modified_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (ticker) DO UPDATE SET modified_at = now()
RETURNING id, ticker, name, type, created_at, modified_at`

const getCandlesSQL = `
SELECT asset_id, ts, open, high, low, close, volume
FROM candles
WHERE asset_id = $1 AND interval = $2 AND ts >= $3 AND ts <= $4
ORDER BY ts ASC`

func (q *pgxQueries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	var row assetRow
	err := q.pool.QueryRow(ctx, getAssetByTickerSQL, ticker).
		Scan(&row.ID, &row.Ticker, &row.Name, &row.Type, &row.CreatedAt, &row.ModifiedAt)
	return row, err
}

func (q *pgxQueries) UpsertAsset(ctx context.Context, ticker, name, assetType string) (assetRow, error) {
	var row assetRow
	err := q.pool.QueryRow(ctx, upsertAssetSQL, ticker, name, assetType).
		Scan(&row.ID, &row.Ticker, &row.Name, &row.Type, &row.CreatedAt, &row.ModifiedAt)
	return row, err
}

func (q *pgxQueries) GetCandles(ctx context.Context, assetID int32, interval string, start, end time.Time) ([]candleRow, error) {
	rows, err := q.pool.Query(ctx, getCandlesSQL, assetID, interval, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []candleRow
	for rows.Next() {
		var row candleRow
		if err := rows.Scan(&row.AssetID, &row.Timestamp, &row.Open, &row.High, &row.Low, &row.Close, &row.Volume); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (q *pgxQueries) CopyCandles(ctx context.Context, interval string, rows []candleRow) (int64, error) {
	return q.pool.CopyFrom(
		ctx,
		pgx.Identifier{"candles"},
		[]string{"asset_id", "interval", "ts", "open", "high", "low", "close", "volume"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{r.AssetID, interval, r.Timestamp, r.Open, r.High, r.Low, r.Close, r.Volume}, nil
		}),
	)
}
