package pivot

import (
	"github.com/jwtly10/pivotbook/internal/logging"
	"github.com/jwtly10/pivotbook/internal/types"
)

var pivotLog = logging.New("pivot")

// Accumulator turns a stream of bars into a table of forward-shifted pivot
// levels. Every bucket in the window produces levels keyed to the start of
// the following period, so today's range is tomorrow's support/resistance.
//
// An Accumulator is not safe for concurrent use; each view owns its own.
type Accumulator struct {
	window *Window
	period Period
	table  *Table

	prev    Bucket
	hasPrev bool
}

func NewAccumulator(windowSize int, period Period) (*Accumulator, error) {
	if _, err := NewPeriod(period.Count, period.Unit); err != nil {
		return nil, err
	}
	w, err := NewWindow(windowSize)
	if err != nil {
		return nil, err
	}
	return &Accumulator{
		window: w,
		period: period,
		table:  NewTable(),
	}, nil
}

// Update pushes bar into the window and, once the window is full, re-resamples
// it and merges every changed bucket into the table. It returns the live
// table (not a copy) and true, or nil and false while the window is filling.
func (a *Accumulator) Update(bar types.Bar) (*Table, bool) {
	a.window.Push(bar)
	if !a.window.Full() {
		return nil, false
	}

	for _, b := range Resample(a.window.Bars(), a.period) {
		if a.hasPrev && b.Same(a.prev) {
			continue
		}

		date := a.period.Next(b.Start)
		rec := a.table.Merge(date, b.High, b.Low, b.Close)
		a.prev = b
		a.hasPrev = true

		if pivotLog.Enabled() {
			pivotLog.Debug("Merged bucket",
				"bucket", b.Start,
				"date", date,
				"high", rec.High,
				"low", rec.Low,
				"close", rec.Close,
				"pp", rec.PP)
		}
	}

	return a.table, true
}

// Table returns the live table. It is empty until the window first fills.
func (a *Accumulator) Table() *Table {
	return a.table
}

func (a *Accumulator) Period() Period {
	return a.period
}

func (a *Accumulator) WindowSize() int {
	return a.window.Size()
}
