package pivot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidWindow = errors.New("window size must be positive")
	ErrInvalidPeriod = errors.New("period count must be positive")
	ErrInvalidUnit   = errors.New("invalid period unit")
	ErrUnknownLevel  = errors.New("unknown pivot level")
)

const (
	Minute Unit = iota + 1
	Hour
	Day
	Week
	Month
)

// Unit is the calendar unit a Period is measured in.
type Unit int

var unitNames = map[Unit]string{
	Minute: "minute",
	Hour:   "hour",
	Day:    "day",
	Week:   "week",
	Month:  "month",
}

func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

func (u Unit) valid() bool {
	_, ok := unitNames[u]
	return ok
}

// ParseUnit resolves a unit name. Long names are case-insensitive; the short
// aliases follow the resampling codes Min, H, D, W and M.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "Min", "min", "T":
		return Minute, nil
	case "H", "h":
		return Hour, nil
	case "D", "d":
		return Day, nil
	case "W", "w":
		return Week, nil
	case "M":
		return Month, nil
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minute", "minutes":
		return Minute, nil
	case "hour", "hours", "hourly":
		return Hour, nil
	case "day", "days", "daily":
		return Day, nil
	case "week", "weeks", "weekly":
		return Week, nil
	case "month", "months", "monthly":
		return Month, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
}

// Period is count × unit, e.g. "1 day" or "4 hour".
type Period struct {
	Count int
	Unit  Unit
}

// NewPeriod validates count and unit once so the hot path never has to.
func NewPeriod(count int, unit Unit) (Period, error) {
	if count < 1 {
		return Period{}, fmt.Errorf("%w: got %d", ErrInvalidPeriod, count)
	}
	if !unit.valid() {
		return Period{}, fmt.Errorf("%w: %s", ErrInvalidUnit, unit)
	}
	return Period{Count: count, Unit: unit}, nil
}

// ParsePeriod is NewPeriod with the unit given by name.
func ParsePeriod(count int, unit string) (Period, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return Period{}, err
	}
	return NewPeriod(count, u)
}

func (p Period) String() string {
	return fmt.Sprintf("%d %s", p.Count, p.Unit)
}

// mondayOffset is the number of days from 1970-01-01 (a Thursday) to the
// first Monday.
const mondayOffset = 4

// Start returns the start of the period containing t, in t's location.
//
// Periods are numbered continuously from 1970-01-01 00:00 wall-clock time in
// t's location and never restart at midnight or new year. Every civil day
// counts as 1440 minutes, so bucket edges stay on the same local times across
// DST changes.
func (p Period) Start(t time.Time) time.Time {
	return p.at(p.index(t), t.Location())
}

// Next returns the start of the period after the one containing t. For a
// period start this is its end boundary.
func (p Period) Next(t time.Time) time.Time {
	return p.at(p.index(t)+1, t.Location())
}

// index numbers the period containing t.
func (p Period) index(t time.Time) int64 {
	n := int64(p.Count)
	switch p.Unit {
	case Minute:
		return floorDiv(civilMinutes(t), n)
	case Hour:
		return floorDiv(civilMinutes(t), 60*n)
	case Day:
		return floorDiv(floorDiv(civilMinutes(t), minutesPerDay), n)
	case Week:
		return floorDiv(floorDiv(civilMinutes(t), minutesPerDay)-mondayOffset, 7*n)
	case Month:
		y, m, _ := t.Date()
		return floorDiv(int64(y-1970)*12+int64(m)-1, n)
	}
	panic(fmt.Sprintf("pivot: unhandled unit %s", p.Unit))
}

// at returns the start instant of period idx in loc.
func (p Period) at(idx int64, loc *time.Location) time.Time {
	n := int64(p.Count)
	var minutes int64
	switch p.Unit {
	case Minute:
		minutes = idx * n
	case Hour:
		minutes = idx * n * 60
	case Day:
		minutes = idx * n * minutesPerDay
	case Week:
		minutes = (idx*7*n + mondayOffset) * minutesPerDay
	case Month:
		first := time.Date(1970, time.Month(1+idx*n), 1, 0, 0, 0, 0, time.UTC)
		minutes = floorDiv(first.Unix(), 60)
	default:
		panic(fmt.Sprintf("pivot: unhandled unit %s", p.Unit))
	}
	return civilTime(minutes, loc)
}

const minutesPerDay = 24 * 60

// civilMinutes counts wall-clock minutes from 1970-01-01 00:00 in t's
// location. Seconds are dropped.
func civilMinutes(t time.Time) int64 {
	y, m, d := t.Date()
	h, mi, _ := t.Clock()
	days := floorDiv(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix(), 24*60*60)
	return days*minutesPerDay + int64(h)*60 + int64(mi)
}

// civilTime is the inverse of civilMinutes. A wall-clock time skipped by a
// DST jump resolves to the instant of the jump, the first real instant at or
// after it.
func civilTime(minutes int64, loc *time.Location) time.Time {
	t := time.Date(1970, 1, 1, 0, int(minutes), 0, 0, loc)
	switch got := civilMinutes(t); {
	case got < minutes:
		_, end := t.ZoneBounds()
		return end
	case got > minutes:
		start, _ := t.ZoneBounds()
		return start
	}
	return t
}

func floorDiv(a, n int64) int64 {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}
