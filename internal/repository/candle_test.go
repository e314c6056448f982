package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mayurbaviskarpune/stock/types"
	"github.com/shopspring/decimal"
)

var testInterval = types.Hour
var startTime = time.UnixMilli(0)
var endTime = startTime.Add(time.Hour * 5)

type mockCandlesRepository struct {
	sqlError error
	empty    bool
	copied   *[]candleRow
}

func TestDatabase_GetCandles(t *testing.T) {
	type args struct {
		assetId  int
		interval types.Interval
		start    time.Time
		end      time.Time
	}
	tests := []struct {
		name    string
		args    args
		want    []types.Candle
		sqlErr  error
		empty   bool
		wantErr error
	}{
		{"should throw ErrNoCandles", args{999, testInterval, startTime, endTime}, nil, nil, true, ErrNoCandles},
		{"should throw ErrNoCandles on no rows", args{999, testInterval, startTime, endTime}, nil, pgx.ErrNoRows, false, ErrNoCandles},
		{"should throw ErrIntervalNotSupported", args{999, types.Interval("W"), startTime, endTime}, nil, nil, false, ErrIntervalNotSupported},
		{"should return candles", args{999, testInterval, startTime, endTime}, mockCandles(999, startTime, endTime), nil, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{
				candles: mockCandlesRepository{
					sqlError: tt.sqlErr,
					empty:    tt.empty,
				},
			}
			got, err := db.GetCandles(context.Background(), tt.args.assetId, "AAPL", tt.args.interval, tt.args.start, tt.args.end)

			if err != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetCandles() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("GetCandles() returned %d candles, want %d", len(got), len(tt.want))
			}
			for i := 0; i < len(tt.want); i++ {
				if got[i].AssetId != tt.args.assetId {
					t.Errorf("GetCandles() %s assetId got = %v, want %v", got[i].Timestamp, got[i].AssetId, tt.want[i].AssetId)
					break
				}
				if got[i].Interval != tt.args.interval {
					t.Errorf("GetCandles() %s interval got = %v, want %v", got[i].Timestamp, got[i].Interval, tt.want[i].Interval)
					break
				}
				if !got[i].High.Equal(tt.want[i].High) {
					t.Errorf("GetCandles() %s high got = %v, want %v", got[i].Timestamp, got[i].High, tt.want[i].High)
					break
				}
			}
		})
	}
}

func TestDatabase_SaveCandles(t *testing.T) {
	var copied []candleRow
	db := &Database{candles: mockCandlesRepository{copied: &copied}}
	asset := &types.Asset{Id: 7, Ticker: "AAPL"}

	n, err := db.SaveCandles(context.Background(), asset, mockCandles(7, startTime, endTime))
	if err != nil {
		t.Fatalf("SaveCandles() error = %v", err)
	}
	if int(n) != len(copied) {
		t.Errorf("SaveCandles() reported %d rows, copied %d", n, len(copied))
	}
	for i, row := range copied {
		if row.AssetID != 7 {
			t.Errorf("row %d assetId = %d, want 7", i, row.AssetID)
		}
	}
}

func TestDatabase_SaveCandles_Empty(t *testing.T) {
	db := &Database{candles: mockCandlesRepository{}}
	n, err := db.SaveCandles(context.Background(), &types.Asset{Id: 1}, nil)
	if err != nil {
		t.Fatalf("SaveCandles() error = %v", err)
	}
	if n != 0 {
		t.Errorf("SaveCandles() = %d, want 0", n)
	}
}

func (m mockCandlesRepository) GetCandles(_ context.Context, assetID int32, _ string, start, end time.Time) ([]candleRow, error) {
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	if m.empty {
		return nil, nil
	}
	var candles []candleRow
	i := start
	for i.Before(end) {
		candles = append(candles, candleRow{
			Timestamp: i,
			AssetID:   assetID,
			Open:      decimal.NewFromInt(i.UnixMilli()),
			High:      decimal.NewFromInt(i.UnixMilli()),
			Low:       decimal.NewFromInt(i.UnixMilli()),
			Close:     decimal.NewFromInt(i.UnixMilli()),
			Volume:    decimal.NewFromInt(i.UnixMilli()),
		})
		i = i.Add(types.IntervalToTime[testInterval])
	}
	return candles, nil
}

func (m mockCandlesRepository) CopyCandles(_ context.Context, _ string, rows []candleRow) (int64, error) {
	if m.sqlError != nil {
		return 0, m.sqlError
	}
	if m.copied != nil {
		*m.copied = append(*m.copied, rows...)
	}
	return int64(len(rows)), nil
}

func mockCandles(assetId int, start, end time.Time) []types.Candle {
	var candles []types.Candle
	i := start
	for i.Before(end) {
		candles = append(candles, types.Candle{
			Timestamp: i,
			Interval:  testInterval,
			AssetId:   assetId,
			Open:      decimal.NewFromInt(i.UnixMilli()),
			High:      decimal.NewFromInt(i.UnixMilli()),
			Low:       decimal.NewFromInt(i.UnixMilli()),
			Close:     decimal.NewFromInt(i.UnixMilli()),
			Volume:    decimal.NewFromInt(i.UnixMilli()),
		})
		i = i.Add(types.IntervalToTime[testInterval])
	}
	return candles
}
