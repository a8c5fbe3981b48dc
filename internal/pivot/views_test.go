package pivot

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViews(t *testing.T, cfg Config) (*SequenceView, *SnapshotView) {
	t.Helper()
	seq, err := NewSequenceView(cfg)
	require.NoError(t, err)
	snap, err := NewSnapshotView(cfg)
	require.NoError(t, err)
	return seq, snap
}

func TestViews_TwoFullDays(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))

	day1 := TimeFromString("2024-01-01T00:00:00Z")
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)
	bars := randomWalk(day1, time.Minute, 2*24*60, 11)

	seq, snap := newViews(t, Config{WindowSize: len(bars), Period: mustPeriod(1, Day)})
	for _, b := range bars {
		seq.OnBar(b)
		snap.OnBar(b)
	}

	// Expected forecast for day 2 comes from day 1's range
	var high, low float64 = bars[0].High, bars[0].Low
	for _, b := range bars[:24*60] {
		high = max(high, b.High)
		low = min(low, b.Low)
	}
	want := Calculate(high, low, bars[24*60-1].Close)

	series, err := seq.LevelSeries(PP)
	require.NoError(t, err)
	require.Equal(t, 1, series.Len(), "only day 2's forecast is stable")
	assert.Equal(t, day2, series.Dates()[0])
	assert.Equal(t, want.PP, series.Values()[0])

	dates, records := snap.CurrentLevels()
	require.Len(t, dates, 2)
	assert.Equal(t, []time.Time{day2, day3}, dates)
	assert.Equal(t, want, records[0].Levels)

	// Day 3 is the still-open forecast built from day 2
	last, ok := seq.LastLevel(PP)
	require.True(t, ok)
	assert.Equal(t, day3, last.Date)
	assert.Equal(t, records[1].PP, last.Value)

	assert.NoError(t, CrossCheckAll(seq, snap))
}

func TestViews_GateUntilWindowFull(t *testing.T) {
	bars := randomWalk(TimeFromString("2024-01-01T00:00:00Z"), time.Minute, 40, 5)
	seq, snap := newViews(t, Config{WindowSize: 30, Period: mustPeriod(15, Minute)})

	for i, b := range bars {
		seq.OnBar(b)
		out := snap.Update(b)

		_, seqOK := seq.LastLevel(PP)
		dates, records := snap.CurrentLevels()
		if i < 29 {
			assert.False(t, seqOK, "bar %d: sequence should report no data", i)
			assert.Nil(t, out)
			assert.Nil(t, dates)
			assert.Nil(t, records)
			continue
		}
		assert.True(t, seqOK, "bar %d: sequence should report data", i)
		assert.NotEmpty(t, out, "bar %d: snapshot should report data", i)
		assert.NotNil(t, dates)
	}

	history := snap.History()
	require.Len(t, history, 40)
	assert.False(t, history[28].Ready)
	assert.True(t, history[29].Ready)
}

func TestViews_AgreeOnEveryBar(t *testing.T) {
	configs := []Config{
		{WindowSize: 600, Period: mustPeriod(1, Day)},
		{WindowSize: 240, Period: mustPeriod(4, Hour)},
		{WindowSize: 90, Period: mustPeriod(15, Minute)},
		{WindowSize: 4000, Period: mustPeriod(1, Week)},
	}
	bars := randomWalk(TimeFromString("2024-01-01T00:00:00Z"), time.Minute, 3*24*60, 42)

	for _, cfg := range configs {
		seq, snap := newViews(t, cfg)
		for i, b := range bars {
			seq.OnBar(b)
			snap.OnBar(b)
			require.NoError(t, CrossCheck(seq, snap), "%s window %d bar %d", cfg.Period, cfg.WindowSize, i)
		}
		assert.NoError(t, CrossCheckAll(seq, snap), "%s window %d", cfg.Period, cfg.WindowSize)
	}
}

func TestSequenceView_AppendsEachDateOnce(t *testing.T) {
	bars := randomWalk(TimeFromString("2024-01-01T00:00:00Z"), time.Minute, 12*60, 9)
	seq, _ := newViews(t, Config{WindowSize: 120, Period: mustPeriod(1, Hour)})

	for _, b := range bars {
		seq.OnBar(b)
	}

	for _, l := range AllLevels {
		series, err := seq.LevelSeries(l)
		require.NoError(t, err)
		dates := series.Dates()
		// 12 hourly buckets -> 12 dates, the last still open
		require.Len(t, dates, 11, "level %s", l)
		for i := 1; i < len(dates); i++ {
			assert.True(t, dates[i].After(dates[i-1]), "level %s dates should strictly increase", l)
		}
	}
}

func TestSnapshotView_MonotonicWidening(t *testing.T) {
	bars := randomWalk(TimeFromString("2024-01-01T00:00:00Z"), time.Minute, 2*24*60, 21)
	_, snap := newViews(t, Config{WindowSize: 300, Period: mustPeriod(1, Day)})

	seen := map[time.Time]Record{}
	for _, b := range bars {
		for _, rec := range snap.Update(b) {
			if prev, ok := seen[rec.Date]; ok {
				assert.GreaterOrEqual(t, rec.High, prev.High, "high for %s should never shrink", rec.Date)
				assert.LessOrEqual(t, rec.Low, prev.Low, "low for %s should never grow", rec.Date)
			}
			seen[rec.Date] = rec
		}
	}
	assert.Len(t, seen, 2)
}

func TestViews_MaxLen(t *testing.T) {
	bars := randomWalk(TimeFromString("2024-01-01T00:00:00Z"), time.Minute, 10*60, 13)
	seq, snap := newViews(t, Config{WindowSize: 60, Period: mustPeriod(1, Hour), MaxLen: 3})

	for _, b := range bars {
		seq.OnBar(b)
		snap.OnBar(b)
	}

	series, err := seq.LevelSeries(R1)
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
	assert.Len(t, snap.History(), 3)
	assert.NoError(t, CrossCheckAll(seq, snap))
}

func TestSnapshotView_HistoryBoundedByDefault(t *testing.T) {
	bars := randomWalk(TimeFromString("2024-01-01T00:00:00Z"), time.Minute, defaultHistoryLen+5, 21)
	snap, err := NewSnapshotView(Config{WindowSize: 1, Period: mustPeriod(1, Day)})
	require.NoError(t, err)

	for _, b := range bars {
		snap.OnBar(b)
	}

	history := snap.History()
	require.Len(t, history, defaultHistoryLen)
	assert.Equal(t, bars[5].Timestamp, history[0].Time)
	assert.Equal(t, bars[len(bars)-1].Timestamp, history[len(history)-1].Time)
}

func TestSequenceView_UnknownLevel(t *testing.T) {
	seq, _ := newViews(t, Config{WindowSize: 1, Period: mustPeriod(1, Day)})

	_, err := seq.LevelSeries(Level("R4"))
	assert.ErrorIs(t, err, ErrUnknownLevel)

	_, ok := seq.LastLevel(Level("R4"))
	assert.False(t, ok)
}

func TestViews_InvalidConfig(t *testing.T) {
	_, err := NewSequenceView(Config{WindowSize: 0, Period: mustPeriod(1, Day)})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewSnapshotView(Config{WindowSize: 10, Period: Period{Count: 1}})
	assert.ErrorIs(t, err, ErrInvalidUnit)
}
