package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mayurbaviskarpune/stock/pkg/logger"
	"github.com/mayurbaviskarpune/stock/types"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

var ErrNoSeries = errors.New("no usable bars for symbol")

// intervalToYahoo maps our interval codes to the chart API's interval
// parameter.
var intervalToYahoo = map[types.Interval]string{
	types.OneMinute:      "1m",
	types.FiveMinutes:    "5m",
	types.FifteenMinutes: "15m",
	types.ThirtyMinutes:  "30m",
	types.Hour:           "60m",
	types.Day:            "1d",
}

type Config struct {
	BaseURL             string
	Timeout             time.Duration
	MaxRequestPerMinute int
	CacheExpiration     time.Duration
	CacheCleanup        time.Duration
	Timezone            string
}

// Client downloads and cleans intraday series from the Yahoo Finance chart
// API. Downloads are rate limited and cached so a multi-symbol run does not
// refetch a series it already has.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	cache   *gocache.Cache
	log     *logger.Logger
	loc     *time.Location
}

func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.MaxRequestPerMinute < 1 {
		cfg.MaxRequestPerMinute = 1
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36")

	secondsPerRequest := time.Minute / time.Duration(cfg.MaxRequestPerMinute)

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		cache:   gocache.New(cfg.CacheExpiration, cfg.CacheCleanup),
		log:     log,
		loc:     loc,
	}, nil
}

// chartResponse is the chart API's JSON envelope, reduced to the fields we
// read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// GetSeries fetches, cleans and orders one symbol's series. Timestamps are
// converted to the configured exchange timezone; bars with a missing or
// zero OHLCV field are dropped, matching the cleaning the simulation
// expects from its input.
func (c *Client) GetSeries(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	yahooInterval, ok := intervalToYahoo[interval]
	if !ok {
		return nil, fmt.Errorf("interval %q not supported by chart api", interval)
	}

	cacheKey := fmt.Sprintf("%s|%s|%d|%d", ticker, interval, start.Unix(), end.Unix())
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]types.Candle), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var chart chartResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&chart).
		SetQueryParams(map[string]string{
			"period1":        fmt.Sprintf("%d", start.Unix()),
			"period2":        fmt.Sprintf("%d", end.Unix()),
			"interval":       yahooInterval,
			"includePrePost": "false",
			"events":         "div,split",
		}).
		Get("/v8/finance/chart/" + ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.log.Error("chart api returned non-OK status",
			logger.StringField("ticker", ticker),
			logger.IntField("status_code", resp.StatusCode()))
		return nil, fmt.Errorf("chart api status %d for %s", resp.StatusCode(), ticker)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error for %s: %v", ticker, chart.Chart.Error)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoSeries)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	candles := make([]types.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}
		// Zero values mean the bar is incomplete.
		if quote.Open[i] == 0 || quote.High[i] == 0 || quote.Low[i] == 0 ||
			quote.Close[i] == 0 || quote.Volume[i] == 0 {
			continue
		}
		candles = append(candles, types.Candle{
			Ticker:    ticker,
			Open:      decimal.NewFromFloat(quote.Open[i]),
			High:      decimal.NewFromFloat(quote.High[i]),
			Low:       decimal.NewFromFloat(quote.Low[i]),
			Close:     decimal.NewFromFloat(quote.Close[i]),
			Volume:    decimal.NewFromInt(quote.Volume[i]),
			Interval:  interval,
			Timestamp: time.Unix(ts, 0).In(c.loc),
		})
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoSeries)
	}

	// The simulation assumes ascending order; guarantee it here.
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	c.cache.SetDefault(cacheKey, candles)
	c.log.Debug("series fetched",
		logger.StringField("ticker", ticker),
		logger.IntField("bars", len(candles)))
	return candles, nil
}
