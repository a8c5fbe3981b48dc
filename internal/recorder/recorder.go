package recorder

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwtly10/pivotbook/internal/account"
	"github.com/jwtly10/pivotbook/internal/pivot"
)

// Run is everything persisted for one backtest.
type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	Instrument string
	WindowSize int
	Period     pivot.Period

	InitialBalance float64
	FinalBalance   float64
	Mismatches     int

	Pivots []pivot.Record
	Trades []account.Trade
}

// NewRun stamps a run with a fresh ID.
func NewRun(instrument string, cfg pivot.Config) *Run {
	return &Run{
		ID:         uuid.New(),
		StartedAt:  time.Now().UTC(),
		Instrument: instrument,
		WindowSize: cfg.WindowSize,
		Period:     cfg.Period,
	}
}

// Recorder persists backtest runs for later analysis.
type Recorder interface {
	RecordRun(run *Run) error
	Close() error
}
