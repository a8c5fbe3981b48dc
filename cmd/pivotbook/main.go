package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/jwtly10/pivotbook/internal/backtest"
	"github.com/jwtly10/pivotbook/internal/config"
	"github.com/jwtly10/pivotbook/internal/feed"
	"github.com/jwtly10/pivotbook/internal/logging"
	"github.com/jwtly10/pivotbook/internal/pivot"
	"github.com/jwtly10/pivotbook/internal/recorder"
	"github.com/jwtly10/pivotbook/internal/strategy"
	"github.com/jwtly10/pivotbook/internal/tradingview"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	if err := run(); err != nil {
		slog.Error("Backtest failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/pivotbook.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logging.Configure(cfg.Logging.DebugTopics)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	pivotCfg, err := cfg.PivotConfig()
	if err != nil {
		return err
	}

	bars, err := feed.LoadCSV(cfg.Data.CSVPath, loc)
	if err != nil {
		return err
	}
	slog.Info("Loaded bars", "count", len(bars), "instrument", cfg.Instrument)

	seq, err := pivot.NewSequenceView(pivotCfg)
	if err != nil {
		return err
	}
	snap, err := pivot.NewSnapshotView(pivotCfg)
	if err != nil {
		return err
	}

	momentum, err := strategy.NewMomentum(strategy.MomentumConfig{
		Instrument:      cfg.Instrument,
		VWAPWindow:      cfg.Strategy.VWAPWindow,
		Threshold:       cfg.Strategy.Threshold,
		OrderSize:       cfg.Strategy.OrderSize,
		MaxNotional:     cfg.Strategy.MaxNotional,
		UseTypicalPrice: cfg.Strategy.UseTypicalPrice,
	}, seq, snap)
	if err != nil {
		return err
	}

	engine := backtest.NewEngine(bars, cfg.Backtest.InitialBalance)
	engine.Subscribe(seq.OnBar)
	engine.Subscribe(snap.OnBar)

	results := engine.Run(momentum)

	stats := results.Calculate()
	stats.Print()

	fmt.Println()
	results.PrintTradesBetween(len(results.Trades)-5, len(results.Trades))

	if err := pivot.CrossCheckAll(seq, snap); err != nil {
		slog.Error("Pivot views disagree at end of run", "error", err)
	} else {
		slog.Info("Pivot views agree", "mismatches_during_run", momentum.Mismatches())
	}

	_, records := snap.CurrentLevels()

	rec, err := newRecorder(cfg.Database.SQLitePath)
	if err != nil {
		return err
	}
	defer rec.Close()

	r := recorder.NewRun(cfg.Instrument, pivotCfg)
	r.InitialBalance = results.InitialBalance
	r.FinalBalance = results.FinalBalance
	r.Mismatches = momentum.Mismatches()
	r.Pivots = records
	r.Trades = results.Trades
	if err := rec.RecordRun(r); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	tradingview.DumpPineScript(results.Trades, records)
	if cfg.Export.PinePath != "" {
		if err := tradingview.ExportFile(cfg.Export.PinePath, results.Trades, records); err != nil {
			return err
		}
	}

	return nil
}

func newRecorder(path string) (recorder.Recorder, error) {
	if path == "" {
		return recorder.NewNoopRecorder(), nil
	}
	return recorder.NewSQLiteRecorder(path)
}
