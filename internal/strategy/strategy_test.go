package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/jwtly10/pivotbook/internal/account"
	"github.com/jwtly10/pivotbook/internal/backtest"
	"github.com/jwtly10/pivotbook/internal/pivot"
	"github.com/jwtly10/pivotbook/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVWAP_RollingWindow(t *testing.T) {
	v := NewVWAP(2, false)

	v.Update(types.Bar{Close: 10, Volume: 1})
	assert.False(t, v.Ready())

	v.Update(types.Bar{Close: 20, Volume: 3})
	require.True(t, v.Ready())
	assert.Equal(t, 17.5, v.Value())

	// First bar drops out of the window
	v.Update(types.Bar{Close: 30, Volume: 1})
	assert.Equal(t, 22.5, v.Value())
}

func TestVWAP_TypicalPrice(t *testing.T) {
	v := NewVWAP(1, true)

	v.Update(types.Bar{High: 12, Low: 6, Close: 9, Volume: 5})

	assert.Equal(t, 9.0, v.Value())
}

func TestVWAP_ZeroVolumeNotReady(t *testing.T) {
	v := NewVWAP(1, false)

	v.Update(types.Bar{Close: 10, Volume: 0})

	assert.False(t, v.Ready())
	assert.Equal(t, 0.0, v.Value())
}

func TestBracket(t *testing.T) {
	levels := pivot.Calculate(110, 90, 100) // S3 70, S2 80, S1 90, PP 100, R1 110, R2 120, R3 130

	below, above, ok := Bracket(levels, 104)
	require.True(t, ok)
	assert.InDelta(t, 100, below, 1e-9)
	assert.InDelta(t, 110, above, 1e-9)

	// Above R3 the target is projected one R1-S1 band out
	below, above, ok = Bracket(levels, 140)
	require.True(t, ok)
	assert.InDelta(t, 130, below, 1e-9)
	assert.InDelta(t, 160, above, 1e-9)

	_, _, ok = Bracket(pivot.Calculate(100, 100, 100), 100)
	assert.False(t, ok, "flat periods have no usable band")

	_, _, ok = Bracket(pivot.Calculate(math.NaN(), 1, 1), 1)
	assert.False(t, ok)
}

func TestOpenLongAndShort(t *testing.T) {
	levels := pivot.Calculate(110, 90, 100)
	bar := types.Bar{Close: 104}

	long, ok := OpenLong(bar, levels, 1000, "test")
	require.True(t, ok)
	assert.Equal(t, types.BUY, long.Action)
	assert.Less(t, long.SL, long.Price)
	assert.Greater(t, long.TP, long.Price)

	short, ok := OpenShort(bar, levels, 1000, "test")
	require.True(t, ok)
	assert.Equal(t, types.SELL, short.Action)
	assert.Greater(t, short.SL, short.Price)
	assert.Less(t, short.TP, short.Price)
}

func TestNewMomentum_Validation(t *testing.T) {
	seq, snap := views(t, 10)
	valid := MomentumConfig{VWAPWindow: 30, Threshold: 0.001, OrderSize: 1000, MaxNotional: 10000}

	_, err := NewMomentum(valid, seq, snap)
	require.NoError(t, err)

	bad := valid
	bad.VWAPWindow = 0
	_, err = NewMomentum(bad, seq, snap)
	assert.Error(t, err)

	bad = valid
	bad.OrderSize = 0
	_, err = NewMomentum(bad, seq, snap)
	assert.Error(t, err)

	_, err = NewMomentum(valid, nil, snap)
	assert.Error(t, err)
}

func TestMomentum_NoSignalsUntilReady(t *testing.T) {
	seq, snap := views(t, 60)
	m, err := NewMomentum(MomentumConfig{VWAPWindow: 5, Threshold: 0, OrderSize: 1, MaxNotional: 10000}, seq, snap)
	require.NoError(t, err)

	bars := trend(t0, 30, 0.001)
	acc := account.NewAccount(10000)
	for i, b := range bars {
		seq.OnBar(b)
		snap.OnBar(b)
		assert.Empty(t, m.OnBar(bars, i, acc), "bar %d: pivots are not ready", i)
	}
}

func TestMomentum_BacktestUptrend(t *testing.T) {
	seq, snap := views(t, 60)
	m, err := NewMomentum(MomentumConfig{
		Instrument:  "EURUSD1",
		VWAPWindow:  10,
		Threshold:   0.001,
		OrderSize:   1000,
		MaxNotional: 10000,
	}, seq, snap)
	require.NoError(t, err)

	bars := trend(t0, 300, 0.001)
	engine := backtest.NewEngine(bars, 10000)
	engine.Subscribe(seq.OnBar)
	engine.Subscribe(snap.OnBar)

	results := engine.Run(m)

	assert.Equal(t, 0, m.Mismatches(), "pivot views should agree on every bar")
	require.NotEmpty(t, results.Trades)
	for _, trade := range results.Trades {
		assert.Equal(t, account.LONG, trade.Direction, "an uptrend should only produce longs")
		assert.False(t, trade.EntryTime.Before(bars[59].Timestamp), "no entries before pivots are ready")
	}
	assert.NoError(t, pivot.CrossCheckAll(seq, snap))
}

func views(t *testing.T, window int) (*pivot.SequenceView, *pivot.SnapshotView) {
	t.Helper()
	period, err := pivot.NewPeriod(15, pivot.Minute)
	require.NoError(t, err)
	cfg := pivot.Config{WindowSize: window, Period: period}

	seq, err := pivot.NewSequenceView(cfg)
	require.NoError(t, err)
	snap, err := pivot.NewSnapshotView(cfg)
	require.NoError(t, err)
	return seq, snap
}

// trend builds minute bars whose close rises by step every bar.
func trend(start time.Time, n int, step float64) []types.Bar {
	bars := make([]types.Bar, n)
	for i := range bars {
		c := 1.0 + float64(i)*step
		bars[i] = types.Bar{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Open:      c - step,
			High:      c + 0.0005,
			Low:       c - step - 0.0005,
			Close:     c,
			Volume:    100,
		}
	}
	return bars
}
