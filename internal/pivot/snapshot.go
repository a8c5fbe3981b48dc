package pivot

import (
	"fmt"
	"time"

	"github.com/jwtly10/pivotbook/internal/logging"
	"github.com/jwtly10/pivotbook/internal/types"
)

var snapshotLog = logging.New("snapshot")

// defaultHistoryLen bounds History when Config.MaxLen is 0.
const defaultHistoryLen = 10000

// Observation is what the snapshot view saw after one bar. Ready is false
// for bars processed before the window filled.
type Observation struct {
	Time   time.Time
	Latest Record
	Ready  bool
}

// SnapshotView reports the whole pivot table after every bar. It is the
// slow, obvious counterpart of SequenceView and runs on its own accumulator
// so the two can be checked against each other.
type SnapshotView struct {
	acc        *Accumulator
	history    []Observation
	historyLen int
}

func NewSnapshotView(cfg Config) (*SnapshotView, error) {
	acc, err := cfg.newAccumulator()
	if err != nil {
		return nil, fmt.Errorf("snapshot view: %w", err)
	}
	historyLen := cfg.MaxLen
	if historyLen <= 0 {
		historyLen = defaultHistoryLen
	}
	return &SnapshotView{
		acc:        acc,
		historyLen: historyLen,
	}, nil
}

// Update feeds bar through the accumulator and returns every record in date
// order, or nil while the window is still filling.
func (s *SnapshotView) Update(bar types.Bar) []Record {
	table, ok := s.acc.Update(bar)

	obs := Observation{Time: bar.Timestamp}
	var out []Record
	if ok {
		out = table.Records()
		if len(out) > 0 {
			obs.Latest = out[len(out)-1]
			obs.Ready = true
		}
	}
	s.record(obs)

	if ok {
		snapshotLog.Debug("Snapshot updated", "timestamp", bar.Timestamp, "dates", len(out))
	}
	return out
}

// OnBar adapts Update to a bar subscription.
func (s *SnapshotView) OnBar(bar types.Bar) {
	s.Update(bar)
}

func (s *SnapshotView) record(obs Observation) {
	s.history = append(s.history, obs)
	if len(s.history) > s.historyLen {
		s.history = s.history[len(s.history)-s.historyLen:]
	}
}

// CurrentLevels returns all dates and records computed so far, or nil, nil if
// nothing has been computed yet.
func (s *SnapshotView) CurrentLevels() ([]time.Time, []Record) {
	table := s.acc.Table()
	if table.Len() == 0 {
		return nil, nil
	}
	return table.Dates(), table.Records()
}

// Latest returns the record for the most recent date.
func (s *SnapshotView) Latest() (Record, bool) {
	return s.acc.Table().Last()
}

// Get returns the record for one date.
func (s *SnapshotView) Get(date time.Time) (Record, bool) {
	return s.acc.Table().Get(date)
}

// History returns one observation per processed bar, oldest first, keeping
// at most MaxLen (or defaultHistoryLen when MaxLen is 0) of the most recent.
// Callers must not modify the slice.
func (s *SnapshotView) History() []Observation {
	return s.history
}
