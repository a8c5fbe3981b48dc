package pivot

import "fmt"

const (
	PP Level = "PP"
	R1 Level = "R1"
	R2 Level = "R2"
	R3 Level = "R3"
	S1 Level = "S1"
	S2 Level = "S2"
	S3 Level = "S3"
)

// Level names one of the seven pivot prices.
type Level string

// AllLevels is the canonical level order used by every view.
var AllLevels = []Level{PP, R1, R2, R3, S1, S2, S3}

// ParseLevel validates a level name such as "PP" or "S2".
func ParseLevel(s string) (Level, error) {
	for _, l := range AllLevels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Levels are the classic floor-trader pivot levels for one period.
type Levels struct {
	PP float64
	R1 float64
	R2 float64
	R3 float64
	S1 float64
	S2 float64
	S3 float64
}

// Calculate computes the pivot levels from a period's high, low and close.
// NaN and Inf inputs propagate.
func Calculate(h, l, c float64) Levels {
	pp := (h + l + c) / 3
	return Levels{
		PP: pp,
		R1: 2*pp - l,
		R2: pp + h - l,
		R3: h + 2*(pp-l),
		S1: 2*pp - h,
		S2: pp - h + l,
		S3: l - 2*(h-pp),
	}
}

// Get returns the value for level. Unknown levels return 0, false.
func (lv Levels) Get(level Level) (float64, bool) {
	switch level {
	case PP:
		return lv.PP, true
	case R1:
		return lv.R1, true
	case R2:
		return lv.R2, true
	case R3:
		return lv.R3, true
	case S1:
		return lv.S1, true
	case S2:
		return lv.S2, true
	case S3:
		return lv.S3, true
	}
	return 0, false
}

// Ascending returns S3..R3 in price order for a well-formed period
// (low <= close <= high).
func (lv Levels) Ascending() []float64 {
	return []float64{lv.S3, lv.S2, lv.S1, lv.PP, lv.R1, lv.R2, lv.R3}
}
