package pivot

import (
	"math"
	"time"
)

// Record holds the accumulated high/low/close for the period a set of levels
// applies to, plus the levels themselves.
type Record struct {
	Date  time.Time
	High  float64
	Low   float64
	Close float64
	Levels
}

// Table is an insertion-ordered map of date -> Record. Dates are never
// removed; existing records are updated in place by Merge.
type Table struct {
	records []*Record
	index   map[int64]int
}

func NewTable() *Table {
	return &Table{index: make(map[int64]int)}
}

// Merge folds a bucket's high/low/close into the record for date, creating
// it if needed. High only widens up, low only widens down, close is always
// overwritten, and the levels are recomputed from the result.
func (t *Table) Merge(date time.Time, high, low, close float64) Record {
	key := date.UnixNano()
	i, ok := t.index[key]
	if !ok {
		i = len(t.records)
		t.index[key] = i
		t.records = append(t.records, &Record{
			Date: date,
			High: math.Inf(-1),
			Low:  math.Inf(1),
		})
	}

	r := t.records[i]
	if high > r.High {
		r.High = high
	}
	if low < r.Low {
		r.Low = low
	}
	r.Close = close
	r.Levels = Calculate(r.High, r.Low, r.Close)
	return *r
}

func (t *Table) Len() int {
	return len(t.records)
}

// Get returns a copy of the record for date.
func (t *Table) Get(date time.Time) (Record, bool) {
	i, ok := t.index[date.UnixNano()]
	if !ok {
		return Record{}, false
	}
	return *t.records[i], true
}

// At returns a copy of the i-th record in insertion order.
func (t *Table) At(i int) Record {
	return *t.records[i]
}

// Last returns the most recently inserted record.
func (t *Table) Last() (Record, bool) {
	if len(t.records) == 0 {
		return Record{}, false
	}
	return *t.records[len(t.records)-1], true
}

// Dates returns every key in insertion order.
func (t *Table) Dates() []time.Time {
	out := make([]time.Time, len(t.records))
	for i, r := range t.records {
		out[i] = r.Date
	}
	return out
}

// Records returns copies of every record in insertion order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	for i, r := range t.records {
		out[i] = *r
	}
	return out
}
