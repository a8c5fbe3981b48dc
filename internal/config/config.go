package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jwtly10/pivotbook/internal/pivot"
)

// Config holds all run configuration.
type Config struct {
	Instrument string `yaml:"instrument"`
	Data       struct {
		CSVPath  string `yaml:"csv_path"`
		Timezone string `yaml:"timezone"`
	} `yaml:"data"`
	Pivot struct {
		WindowSize  int    `yaml:"window_size"`
		PeriodCount int    `yaml:"period_count"`
		PeriodUnit  string `yaml:"period_unit"`
		MaxLen      int    `yaml:"max_len"`
	} `yaml:"pivot"`
	Strategy struct {
		VWAPWindow      int     `yaml:"vwap_window"`
		Threshold       float64 `yaml:"threshold"`
		OrderSize       float64 `yaml:"order_size"`
		MaxNotional     float64 `yaml:"max_notional"`
		UseTypicalPrice bool    `yaml:"use_typical_price"`
	} `yaml:"strategy"`
	Backtest struct {
		InitialBalance float64 `yaml:"initial_balance"`
	} `yaml:"backtest"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		DebugTopics string `yaml:"debug_topics"`
	} `yaml:"logging"`
	Export struct {
		PinePath string `yaml:"pine_path"`
	} `yaml:"export"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
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

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PIVOTBOOK_CSV"); v != "" {
		cfg.Data.CSVPath = v
	}
	if v := os.Getenv("PIVOTBOOK_INSTRUMENT"); v != "" {
		cfg.Instrument = v
	}
	if v := os.Getenv("PIVOTBOOK_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pivot.WindowSize = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DEBUG_TOPICS"); v != "" {
		cfg.Logging.DebugTopics = v
	}
	if v := os.Getenv("PINE_PATH"); v != "" {
		cfg.Export.PinePath = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Instrument == "" {
		cfg.Instrument = "EURUSD1"
	}
	if cfg.Data.Timezone == "" {
		cfg.Data.Timezone = "UTC"
	}
	if cfg.Pivot.WindowSize == 0 {
		cfg.Pivot.WindowSize = 30
	}
	if cfg.Pivot.PeriodCount == 0 {
		cfg.Pivot.PeriodCount = 1
	}
	if cfg.Pivot.PeriodUnit == "" {
		cfg.Pivot.PeriodUnit = "day"
	}
	if cfg.Strategy.VWAPWindow == 0 {
		cfg.Strategy.VWAPWindow = 30
	}
	if cfg.Strategy.Threshold == 0 {
		cfg.Strategy.Threshold = 0.001
	}
	if cfg.Strategy.OrderSize == 0 {
		cfg.Strategy.OrderSize = 1000
	}
	if cfg.Strategy.MaxNotional == 0 {
		cfg.Strategy.MaxNotional = 10000
	}
	if cfg.Backtest.InitialBalance == 0 {
		cfg.Backtest.InitialBalance = 10000
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Data.CSVPath == "" {
		return fmt.Errorf("data.csv_path is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.PivotConfig(); err != nil {
		return err
	}
	if c.Pivot.MaxLen < 0 {
		return fmt.Errorf("pivot.max_len must not be negative")
	}
	if c.Strategy.VWAPWindow < 1 {
		return fmt.Errorf("strategy.vwap_window must be positive")
	}
	if c.Strategy.Threshold < 0 {
		return fmt.Errorf("strategy.threshold must not be negative")
	}
	if c.Strategy.OrderSize <= 0 {
		return fmt.Errorf("strategy.order_size must be positive")
	}
	if c.Strategy.MaxNotional <= 0 {
		return fmt.Errorf("strategy.max_notional must be positive")
	}
	if c.Backtest.InitialBalance <= 0 {
		return fmt.Errorf("backtest.initial_balance must be positive")
	}
	return nil
}

// PivotConfig resolves the pivot section into engine configuration.
func (c *Config) PivotConfig() (pivot.Config, error) {
	if c.Pivot.WindowSize < 1 {
		return pivot.Config{}, fmt.Errorf("pivot.window_size: %w", pivot.ErrInvalidWindow)
	}
	period, err := pivot.ParsePeriod(c.Pivot.PeriodCount, c.Pivot.PeriodUnit)
	if err != nil {
		return pivot.Config{}, fmt.Errorf("pivot period: %w", err)
	}
	return pivot.Config{
		WindowSize: c.Pivot.WindowSize,
		Period:     period,
		MaxLen:     c.Pivot.MaxLen,
	}, nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Data.Timezone)
	if err != nil {
		return nil, fmt.Errorf("data.timezone: %w", err)
	}
	return loc, nil
}
