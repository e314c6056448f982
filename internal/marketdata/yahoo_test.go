package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mayurbaviskarpune/stock/pkg/logger"
	"github.com/mayurbaviskarpune/stock/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [
      {
        "meta": {"symbol": "TCS.NS", "currency": "INR"},
        "timestamp": [1736133300, 1736136900, 1736140500],
        "indicators": {
          "quote": [
            {
              "open":   [4100.5, 4110.0, 0],
              "high":   [4120.0, 4150.25, 4160.0],
              "low":    [4090.0, 4105.0, 4120.0],
              "close":  [4110.0, 4148.0, 4155.0],
              "volume": [120000, 98000, 87000]
            }
          ]
        }
      }
    ],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:             srv.URL,
		Timeout:             5 * time.Second,
		MaxRequestPerMinute: 6000,
		CacheExpiration:     time.Minute,
		CacheCleanup:        time.Minute,
		Timezone:            "Asia/Kolkata",
	}, logger.NewNop())
	require.NoError(t, err)
	return client, srv
}

func TestGetSeries_DecodesAndCleans(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/TCS.NS", r.URL.Path)
		assert.Equal(t, "60m", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody)
	})

	start := time.Unix(1736130000, 0)
	end := time.Unix(1736150000, 0)
	candles, err := client.GetSeries(context.Background(), "TCS.NS", types.Hour, start, end)
	require.NoError(t, err)

	// The third bar has a zero open and is dropped.
	require.Len(t, candles, 2)
	assert.Equal(t, "TCS.NS", candles[0].Ticker)
	assert.Equal(t, "4100.5", candles[0].Open.String())
	assert.Equal(t, "4150.25", candles[1].High.String())
	assert.True(t, candles[0].Timestamp.Before(candles[1].Timestamp))

	// Timestamps are normalized to the exchange timezone.
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, loc.String(), candles[0].Timestamp.Location().String())
}

func TestGetSeries_CachesSeries(t *testing.T) {
	var hits int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody)
	})

	start := time.Unix(1736130000, 0)
	end := time.Unix(1736150000, 0)
	_, err := client.GetSeries(context.Background(), "TCS.NS", types.Hour, start, end)
	require.NoError(t, err)
	_, err = client.GetSeries(context.Background(), "TCS.NS", types.Hour, start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}

func TestGetSeries_EmptyResult(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	})

	_, err := client.GetSeries(context.Background(), "NODATA.NS", types.Hour, time.Unix(0, 0), time.Unix(1, 0))
	assert.ErrorIs(t, err, ErrNoSeries)
}

func TestGetSeries_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetSeries(context.Background(), "TCS.NS", types.Hour, time.Unix(0, 0), time.Unix(1, 0))
	assert.Error(t, err)
}

func TestGetSeries_UnsupportedInterval(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.GetSeries(context.Background(), "TCS.NS", types.Interval("W"), time.Unix(0, 0), time.Unix(1, 0))
	assert.Error(t, err)
}
