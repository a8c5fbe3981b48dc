package pivot

import (
	"fmt"

	"github.com/jwtly10/pivotbook/internal/logging"
	"github.com/jwtly10/pivotbook/internal/types"
)

var sequenceLog = logging.New("sequence")

// SequenceView exposes pivot levels as seven parallel date-ordered series.
//
// A date is appended once, when it has stabilised: that is when a later
// date exists in the table and no further bar can change it. The most recent
// date is still open and is kept as a provisional record, which LastLevel
// reports until the date is appended.
type SequenceView struct {
	acc    *Accumulator
	series map[Level]*Series

	appended   int // table records already appended to the series
	pending    Record
	hasPending bool
}

func NewSequenceView(cfg Config) (*SequenceView, error) {
	acc, err := cfg.newAccumulator()
	if err != nil {
		return nil, fmt.Errorf("sequence view: %w", err)
	}

	series := make(map[Level]*Series, len(AllLevels))
	for _, l := range AllLevels {
		series[l] = NewSeries(cfg.MaxLen)
	}

	return &SequenceView{
		acc:    acc,
		series: series,
	}, nil
}

// OnBar feeds one bar through the view's accumulator.
func (s *SequenceView) OnBar(bar types.Bar) {
	table, ok := s.acc.Update(bar)
	if !ok || table.Len() == 0 {
		return
	}

	last := table.Len() - 1
	for s.appended < last {
		s.appendRecord(table.At(s.appended))
		s.appended++
	}

	s.pending = table.At(last)
	s.hasPending = true
}

func (s *SequenceView) appendRecord(r Record) {
	for _, l := range AllLevels {
		v, _ := r.Get(l)
		s.series[l].Append(r.Date, v)
	}
	sequenceLog.Debug("Appended pivot levels", "date", r.Date, "pp", r.PP, "r1", r.R1, "s1", r.S1)
}

// LevelSeries returns the stabilised dates and values for one level.
func (s *SequenceView) LevelSeries(level Level) (*Series, error) {
	series, ok := s.series[level]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	return series, nil
}

// LastLevel returns the most recent value for level, including the still-open
// date. ok is false until the window has filled.
func (s *SequenceView) LastLevel(level Level) (Point, bool) {
	if s.hasPending {
		v, ok := s.pending.Get(level)
		if !ok {
			return Point{}, false
		}
		return Point{Date: s.pending.Date, Value: v}, true
	}
	series, ok := s.series[level]
	if !ok {
		return Point{}, false
	}
	return series.Last()
}

// Pending returns the record for the still-open date, if any.
func (s *SequenceView) Pending() (Record, bool) {
	return s.pending, s.hasPending
}

// Ready reports whether the view has produced any levels yet.
func (s *SequenceView) Ready() bool {
	return s.hasPending
}
