package recorder

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder writes runs, pivot tables and trades to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("SQLite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id              TEXT PRIMARY KEY,
			started_at      INTEGER NOT NULL,
			instrument      TEXT NOT NULL,
			window_size     INTEGER NOT NULL,
			period          TEXT NOT NULL,
			initial_balance REAL,
			final_balance   REAL,
			mismatches      INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS pivot_levels (
			run_id TEXT NOT NULL REFERENCES runs(id),
			date   INTEGER NOT NULL,
			high   REAL,
			low    REAL,
			close  REAL,
			pp     REAL,
			r1     REAL,
			r2     REAL,
			r3     REAL,
			s1     REAL,
			s2     REAL,
			s3     REAL,
			PRIMARY KEY (run_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS trades (
			run_id       TEXT NOT NULL REFERENCES runs(id),
			trade_id     INTEGER NOT NULL,
			direction    TEXT,
			entry_time   INTEGER,
			exit_time    INTEGER,
			entry_price  REAL,
			exit_price   REAL,
			size         REAL,
			stop_loss    REAL,
			take_profit  REAL,
			pnl          REAL,
			entry_reason TEXT,
			exit_reason  TEXT,
			PRIMARY KEY (run_id, trade_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_entry ON trades(entry_time)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run and all of its rows in one transaction.
func (r *SQLiteRecorder) RecordRun(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	id := run.ID.String()
	if _, err := tx.Exec(`INSERT INTO runs
		(id, started_at, instrument, window_size, period, initial_balance, final_balance, mismatches)
		VALUES (?,?,?,?,?,?,?,?)`,
		id, run.StartedAt.Unix(), run.Instrument, run.WindowSize, run.Period.String(),
		run.InitialBalance, run.FinalBalance, run.Mismatches,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	pivotStmt, err := tx.Prepare(`INSERT INTO pivot_levels
		(run_id, date, high, low, close, pp, r1, r2, r3, s1, s2, s3)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare pivot insert: %w", err)
	}
	defer pivotStmt.Close()

	for _, p := range run.Pivots {
		if _, err := pivotStmt.Exec(id, p.Date.Unix(), p.High, p.Low, p.Close,
			p.PP, p.R1, p.R2, p.R3, p.S1, p.S2, p.S3); err != nil {
			return fmt.Errorf("insert pivot %s: %w", p.Date, err)
		}
	}

	tradeStmt, err := tx.Prepare(`INSERT INTO trades
		(run_id, trade_id, direction, entry_time, exit_time, entry_price, exit_price,
		 size, stop_loss, take_profit, pnl, entry_reason, exit_reason)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare trade insert: %w", err)
	}
	defer tradeStmt.Close()

	for _, t := range run.Trades {
		if _, err := tradeStmt.Exec(id, t.ID, string(t.Direction), t.EntryTime.Unix(), t.ExitTime.Unix(),
			t.EntryPrice, t.ExitPrice, t.Size, t.StopLoss, t.TakeProfit, t.PnL,
			t.EntryReason, t.ExitReason); err != nil {
			return fmt.Errorf("insert trade %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.Info("Recorded run", "id", id, "pivots", len(run.Pivots), "trades", len(run.Trades))
	return nil
}

func (r *SQLiteRecorder) Close() error {
	slog.Info("Closing SQLite recorder")
	return r.db.Close()
}
