package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mayurbaviskarpune/stock/types"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Duration makes time.Duration parseable from YAML strings like "15s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	Tickers     []string `yaml:"tickers"`
	TickersFile string   `yaml:"tickers_file"`

	StartDate      string `yaml:"start_date"`
	EndDate        string `yaml:"end_date"`
	Interval       string `yaml:"interval"`
	InitialCapital string `yaml:"initial_capital"`
	Source         string `yaml:"source"`
	Timezone       string `yaml:"timezone"`

	Yahoo struct {
		BaseURL             string   `yaml:"base_url"`
		Timeout             Duration `yaml:"timeout"`
		MaxRequestPerMinute int      `yaml:"max_request_per_minute"`
		CacheExpiration     Duration `yaml:"cache_expiration"`
		CacheCleanup        Duration `yaml:"cache_cleanup"`
	} `yaml:"yahoo"`

	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`

	Output struct {
		Dir         string `yaml:"dir"`
		SummaryFile string `yaml:"summary_file"`
		WriteCSV    bool   `yaml:"write_csv"`
	} `yaml:"output"`

	Run struct {
		MaxConcurrency int `yaml:"max_concurrency"`
	} `yaml:"run"`

	Logger struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"`
	} `yaml:"logger"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Yahoo.BaseURL = v
	}

	// Defaults
	if cfg.Interval == "" {
		cfg.Interval = "60"
	}
	if cfg.InitialCapital == "" {
		cfg.InitialCapital = "100000"
	}
	if cfg.Source == "" {
		cfg.Source = "yahoo"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Kolkata"
	}
	if cfg.Yahoo.BaseURL == "" {
		cfg.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Yahoo.Timeout == 0 {
		cfg.Yahoo.Timeout = Duration(15 * time.Second)
	}
	if cfg.Yahoo.MaxRequestPerMinute == 0 {
		cfg.Yahoo.MaxRequestPerMinute = 30
	}
	if cfg.Yahoo.CacheExpiration == 0 {
		cfg.Yahoo.CacheExpiration = Duration(15 * time.Minute)
	}
	if cfg.Yahoo.CacheCleanup == 0 {
		cfg.Yahoo.CacheCleanup = Duration(30 * time.Minute)
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "reports"
	}
	if cfg.Output.SummaryFile == "" {
		cfg.Output.SummaryFile = "Master_Summary.xlsx"
	}
	if cfg.Run.MaxConcurrency == 0 {
		cfg.Run.MaxConcurrency = 4
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Encoding == "" {
		cfg.Logger.Encoding = "console"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and parseable.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 && c.TickersFile == "" {
		return fmt.Errorf("tickers or tickers_file is required")
	}
	if _, err := c.Dates(); err != nil {
		return err
	}
	if _, ok := types.ConvertInterval[c.Interval]; !ok {
		return fmt.Errorf("interval %q is not supported", c.Interval)
	}
	capital, err := c.Capital()
	if err != nil {
		return err
	}
	if !capital.IsPositive() {
		return fmt.Errorf("initial_capital must be positive")
	}
	switch c.Source {
	case "yahoo", "postgres":
	default:
		return fmt.Errorf("source must be yahoo or postgres, got %q", c.Source)
	}
	if c.Source == "postgres" && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required when source is postgres")
	}
	return nil
}

// Capital parses the configured initial capital.
func (c *Config) Capital() (decimal.Decimal, error) {
	capital, err := decimal.NewFromString(c.InitialCapital)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse initial_capital %q: %w", c.InitialCapital, err)
	}
	return capital, nil
}

// Dates parses start_date and end_date in the configured timezone. The end
// date is exclusive and extended to the end of its day so an intraday run
// covers the last configured session.
func (c *Config) Dates() (window [2]time.Time, err error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return window, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	start, err := time.ParseInLocation(dateLayout, c.StartDate, loc)
	if err != nil {
		return window, fmt.Errorf("parse start_date %q: %w", c.StartDate, err)
	}
	end, err := time.ParseInLocation(dateLayout, c.EndDate, loc)
	if err != nil {
		return window, fmt.Errorf("parse end_date %q: %w", c.EndDate, err)
	}
	end = end.AddDate(0, 0, 1)
	if !start.Before(end) {
		return window, fmt.Errorf("start_date %s must not be after end_date %s", c.StartDate, c.EndDate)
	}
	return [2]time.Time{start, end}, nil
}

// LoadTickers returns the configured ticker list, merging the inline list
// with the tickers file when one is configured. Blank lines and lines
// starting with # are skipped.
func (c *Config) LoadTickers() ([]string, error) {
	tickers := append([]string(nil), c.Tickers...)
	if c.TickersFile != "" {
		data, err := os.ReadFile(c.TickersFile)
		if err != nil {
			return nil, fmt.Errorf("read tickers file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			tickers = append(tickers, line)
		}
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers configured")
	}
	return tickers, nil
}
