package pivot

import (
	"slices"
	"time"

	"github.com/jwtly10/pivotbook/internal/logging"
	"github.com/jwtly10/pivotbook/internal/types"
)

var resampleLog = logging.New("resample")

// Bucket is the high/low/close reduction of every bar in one period.
type Bucket struct {
	Start time.Time
	High  float64
	Low   float64
	Close float64
	Bars  int

	closeAt time.Time
}

// Same reports whether b and o describe the same period with the same
// high/low/close. The bar count is ignored.
func (b Bucket) Same(o Bucket) bool {
	return b.Start.Equal(o.Start) && b.High == o.High && b.Low == o.Low && b.Close == o.Close
}

// Resample groups bars into calendar-aligned buckets of period p, ordered by
// bucket start. It is stateless: the same input always gives the same output.
// Close is taken from the latest timestamp in the bucket, ties going to the
// bar that appears later in the input.
func Resample(bars []types.Bar, p Period) []Bucket {
	if len(bars) == 0 {
		return nil
	}

	buckets := make([]Bucket, 0, 4)
	index := make(map[int64]int, 4)

	for _, bar := range bars {
		start := p.Start(bar.Timestamp)
		key := start.UnixNano()

		i, ok := index[key]
		if !ok {
			index[key] = len(buckets)
			buckets = append(buckets, Bucket{
				Start:   start,
				High:    bar.High,
				Low:     bar.Low,
				Close:   bar.Close,
				Bars:    1,
				closeAt: bar.Timestamp,
			})
			continue
		}

		b := &buckets[i]
		if bar.High > b.High {
			b.High = bar.High
		}
		if bar.Low < b.Low {
			b.Low = bar.Low
		}
		if !bar.Timestamp.Before(b.closeAt) {
			b.Close = bar.Close
			b.closeAt = bar.Timestamp
		}
		b.Bars++
	}

	slices.SortFunc(buckets, func(a, b Bucket) int {
		return a.Start.Compare(b.Start)
	})

	if resampleLog.Enabled() {
		resampleLog.Debug("Resampled window", "bars", len(bars), "buckets", len(buckets), "period", p.String())
	}
	return buckets
}
