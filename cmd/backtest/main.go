package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mayurbaviskarpune/stock/internal/config"
	"github.com/mayurbaviskarpune/stock/internal/engine"
	"github.com/mayurbaviskarpune/stock/internal/marketdata"
	"github.com/mayurbaviskarpune/stock/internal/report"
	"github.com/mayurbaviskarpune/stock/internal/repository"
	"github.com/mayurbaviskarpune/stock/pkg/logger"
	"github.com/mayurbaviskarpune/stock/types"
	"github.com/spf13/cobra"
)

var (
	configPath string
	capital    string
)

func main() {
	root := &cobra.Command{
		Use:           "backtest",
		Short:         "Intraday breakout backtester",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the breakout simulation and write the reports",
		RunE:  runBacktest,
	}
	runCmd.Flags().StringVar(&capital, "capital", "", "override the configured initial capital")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download series from Yahoo Finance and store them in Postgres",
		RunE:  runFetch,
	}

	root.AddCommand(runCmd, fetchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if capital != "" {
		cfg.InitialCapital = capital
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newYahooClient(cfg *config.Config, log *logger.Logger) (*marketdata.Client, error) {
	return marketdata.NewClient(marketdata.Config{
		BaseURL:             cfg.Yahoo.BaseURL,
		Timeout:             cfg.Yahoo.Timeout.Std(),
		MaxRequestPerMinute: cfg.Yahoo.MaxRequestPerMinute,
		CacheExpiration:     cfg.Yahoo.CacheExpiration.Std(),
		CacheCleanup:        cfg.Yahoo.CacheCleanup.Std(),
		Timezone:            cfg.Timezone,
	}, log)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	tickers, err := cfg.LoadTickers()
	if err != nil {
		return err
	}
	window, err := cfg.Dates()
	if err != nil {
		return err
	}
	initialCapital, err := cfg.Capital()
	if err != nil {
		return err
	}

	var source interface {
		GetSeries(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
	}
	switch cfg.Source {
	case "postgres":
		db, err := repository.NewDatabase(cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		source = &db
	default:
		client, err := newYahooClient(cfg, log)
		if err != nil {
			return err
		}
		source = client
	}

	eng := engine.NewEngine(source, engine.Params{
		InitialCapital: initialCapital,
		Interval:       types.ConvertInterval[cfg.Interval],
		Start:          window[0],
		End:            window[1],
		MaxConcurrency: cfg.Run.MaxConcurrency,
	}, log)

	outcomes := eng.Run(cmd.Context(), tickers)
	summaries, err := engine.Successes(outcomes)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, out := range outcomes {
		if out.Err != nil {
			continue
		}
		name := strings.ReplaceAll(out.Ticker, "/", "_")
		workbook := filepath.Join(cfg.Output.Dir, name+"_Backtest.xlsx")
		if err := report.WriteBacktestWorkbook(workbook, out.Trades, initialCapital); err != nil {
			return fmt.Errorf("write workbook for %s: %w", out.Ticker, err)
		}
		if cfg.Output.WriteCSV {
			if err := report.WriteTradesCSVFile(filepath.Join(cfg.Output.Dir, name+"_Backtest.csv"), out.Trades); err != nil {
				return fmt.Errorf("write csv for %s: %w", out.Ticker, err)
			}
		}
	}

	summaryPath := filepath.Join(cfg.Output.Dir, cfg.Output.SummaryFile)
	if err := report.WriteMasterSummary(summaryPath, summaries); err != nil {
		return err
	}
	log.Info("reports written",
		logger.StringField("dir", cfg.Output.Dir),
		logger.IntField("symbols", len(summaries)))

	fmt.Println()
	return report.PrintSummary(os.Stdout, summaries, initialCapital)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required to store fetched series")
	}

	tickers, err := cfg.LoadTickers()
	if err != nil {
		return err
	}
	window, err := cfg.Dates()
	if err != nil {
		return err
	}

	client, err := newYahooClient(cfg, log)
	if err != nil {
		return err
	}
	db, err := repository.NewDatabase(cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	interval := types.ConvertInterval[cfg.Interval]
	for _, ticker := range tickers {
		candles, err := client.GetSeries(cmd.Context(), ticker, interval, window[0], window[1])
		if err != nil {
			log.Warn("fetch failed",
				logger.StringField("ticker", ticker),
				logger.ErrorField(err))
			continue
		}
		asset, err := db.UpsertAsset(cmd.Context(), ticker, ticker, types.AssetTypeStock)
		if err != nil {
			return fmt.Errorf("upsert asset %s: %w", ticker, err)
		}
		stored, err := db.SaveCandles(cmd.Context(), asset, candles)
		if err != nil {
			return fmt.Errorf("store candles for %s: %w", ticker, err)
		}
		log.Info("series stored",
			logger.StringField("ticker", ticker),
			logger.IntField("candles", int(stored)))
	}
	return nil
}
