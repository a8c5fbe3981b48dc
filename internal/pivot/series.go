package pivot

import "time"

// Point is one dated level value.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an append-only (date, value) sequence. With a positive maxLen
// the oldest entries are discarded once the series grows past it.
type Series struct {
	dates  []time.Time
	values []float64
	maxLen int
}

func NewSeries(maxLen int) *Series {
	return &Series{maxLen: maxLen}
}

func (s *Series) Append(date time.Time, value float64) {
	s.dates = append(s.dates, date)
	s.values = append(s.values, value)
	if s.maxLen > 0 && len(s.values) > s.maxLen {
		drop := len(s.values) - s.maxLen
		s.dates = s.dates[drop:]
		s.values = s.values[drop:]
	}
}

// Dates returns the series dates. Callers must not modify the slice.
func (s *Series) Dates() []time.Time {
	return s.dates
}

// Values returns the series values. Callers must not modify the slice.
func (s *Series) Values() []float64 {
	return s.values
}

func (s *Series) Len() int {
	return len(s.values)
}

func (s *Series) Last() (Point, bool) {
	if len(s.values) == 0 {
		return Point{}, false
	}
	n := len(s.values) - 1
	return Point{Date: s.dates[n], Value: s.values[n]}, true
}
