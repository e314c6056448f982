package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/mayurbaviskarpune/stock/pkg/logger"
	"github.com/mayurbaviskarpune/stock/types"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type seriesSource interface {
	GetSeries(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
}

// Params is the read-only run configuration shared by every symbol task.
type Params struct {
	InitialCapital decimal.Decimal
	Interval       types.Interval
	Start          time.Time
	End            time.Time
	MaxConcurrency int
}

type Engine struct {
	source seriesSource
	params Params
	log    *logger.Logger
}

func NewEngine(source seriesSource, params Params, log *logger.Logger) *Engine {
	if params.MaxConcurrency < 1 {
		params.MaxConcurrency = 1
	}
	return &Engine{
		source: source,
		params: params,
		log:    log,
	}
}

// Run simulates every ticker and returns one Outcome per ticker, in input
// order. Symbols run concurrently on a bounded pool; a symbol's failure is
// recorded in its Outcome and never aborts the others.
func (e *Engine) Run(ctx context.Context, tickers []string) []types.Outcome {
	outcomes := make([]types.Outcome, len(tickers))
	bar := initProgressBar(len(tickers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.params.MaxConcurrency)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			outcomes[i] = e.runSymbol(ctx, ticker)
			bar.Add(1)
			return nil
		})
	}
	// Workers report failures through their Outcome, never as an error.
	g.Wait()

	for _, out := range outcomes {
		if out.Err != nil {
			e.log.Warn("symbol skipped",
				logger.StringField("ticker", out.Ticker),
				logger.ErrorField(out.Err))
		}
	}
	return outcomes
}

// runSymbol is one symbol's full pipeline: load series, build sessions,
// simulate, summarize. Strictly sequential within the symbol because each
// day's sizing depends on the previous day's capital.
func (e *Engine) runSymbol(ctx context.Context, ticker string) types.Outcome {
	out := types.Outcome{Ticker: ticker}

	series, err := e.source.GetSeries(ctx, ticker, e.params.Interval, e.params.Start, e.params.End)
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", ticker, err)
		return out
	}

	sessions, err := buildSessions(series)
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", ticker, err)
		return out
	}

	trades, err := simulate(sessions, e.params.InitialCapital)
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", ticker, err)
		return out
	}

	summary := summarize(ticker, trades, e.params.InitialCapital)
	out.Trades = trades
	out.Summary = &summary
	return out
}

// Successes filters the outcomes down to the completed summaries, keeping
// input order. Returns ErrNoSymbolsProcessed when every symbol failed, so
// the aggregate report step never runs on an empty set.
func Successes(outcomes []types.Outcome) ([]types.SymbolSummary, error) {
	summaries := make([]types.SymbolSummary, 0, len(outcomes))
	for _, out := range outcomes {
		if out.Err == nil && out.Summary != nil {
			summaries = append(summaries, *out.Summary)
		}
	}
	if len(summaries) == 0 {
		return nil, ErrNoSymbolsProcessed
	}
	return summaries, nil
}

func initProgressBar(symbols int) *progressbar.ProgressBar {
	return progressbar.NewOptions(symbols,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
