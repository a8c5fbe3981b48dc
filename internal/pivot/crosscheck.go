package pivot

import (
	"errors"
	"fmt"
)

var ErrViewMismatch = errors.New("pivot views disagree")

// CrossCheck compares the sequence view's latest levels with the snapshot
// view's latest record. Values are compared exactly; both views run the same
// arithmetic on the same bars.
//
// Before either view has data the check passes only if both are empty.
func CrossCheck(seq *SequenceView, snap *SnapshotView) error {
	pending, seqReady := seq.Pending()
	latest, snapReady := snap.Latest()
	if seqReady != snapReady {
		return fmt.Errorf("%w: sequence ready=%t, snapshot ready=%t", ErrViewMismatch, seqReady, snapReady)
	}
	if !seqReady {
		return nil
	}

	if !pending.Date.Equal(latest.Date) {
		return fmt.Errorf("%w: latest date %s vs %s", ErrViewMismatch, pending.Date, latest.Date)
	}
	if err := compareLevels(pending.Levels, latest.Levels); err != nil {
		return fmt.Errorf("%w at %s", err, latest.Date)
	}
	return nil
}

// CrossCheckAll runs CrossCheck and then checks every date still held by the
// sequence series against the snapshot table.
func CrossCheckAll(seq *SequenceView, snap *SnapshotView) error {
	if err := CrossCheck(seq, snap); err != nil {
		return err
	}

	for _, l := range AllLevels {
		series := seq.series[l]
		for i, d := range series.Dates() {
			rec, ok := snap.Get(d)
			if !ok {
				return fmt.Errorf("%w: snapshot has no record for %s", ErrViewMismatch, d)
			}
			want, _ := rec.Get(l)
			if got := series.Values()[i]; !sameFloat(got, want) {
				return fmt.Errorf("%w: %s at %s: sequence %v, snapshot %v", ErrViewMismatch, l, d, got, want)
			}
		}
	}
	return nil
}

func compareLevels(a, b Levels) error {
	for _, l := range AllLevels {
		x, _ := a.Get(l)
		y, _ := b.Get(l)
		if !sameFloat(x, y) {
			return fmt.Errorf("%w: %s sequence %v, snapshot %v", ErrViewMismatch, l, x, y)
		}
	}
	return nil
}

// sameFloat treats two NaNs as equal so degenerate data does not report a
// mismatch.
func sameFloat(a, b float64) bool {
	return a == b || (a != a && b != b)
}
