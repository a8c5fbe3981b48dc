package strategy

import (
	"fmt"
	"log/slog"

	"github.com/jwtly10/pivotbook/internal/account"
	"github.com/jwtly10/pivotbook/internal/logging"
	"github.com/jwtly10/pivotbook/internal/pivot"
	"github.com/jwtly10/pivotbook/internal/types"
)

var momentumLog = logging.New("momentum")

type MomentumConfig struct {
	Instrument      string
	VWAPWindow      int
	Threshold       float64 // fraction of VWAP, e.g. 0.001
	OrderSize       float64 // units per entry
	MaxNotional     float64 // absolute exposure cap, in price units
	UseTypicalPrice bool
}

// Momentum goes long when price closes above VWAP by more than the
// threshold and short when it closes below, while exposure is inside
// MaxNotional. Stops and targets come from the latest pivot levels.
//
// The pivot views are fed by the engine's bar subscription; Momentum only
// reads them, and checks on every bar that they agree.
type Momentum struct {
	cfg  MomentumConfig
	vwap *VWAP
	seq  *pivot.SequenceView
	snap *pivot.SnapshotView

	mismatches int
}

func NewMomentum(cfg MomentumConfig, seq *pivot.SequenceView, snap *pivot.SnapshotView) (*Momentum, error) {
	if cfg.VWAPWindow < 1 {
		return nil, fmt.Errorf("vwap window must be positive, got %d", cfg.VWAPWindow)
	}
	if cfg.Threshold < 0 {
		return nil, fmt.Errorf("threshold must not be negative, got %v", cfg.Threshold)
	}
	if cfg.OrderSize <= 0 {
		return nil, fmt.Errorf("order size must be positive, got %v", cfg.OrderSize)
	}
	if seq == nil || snap == nil {
		return nil, fmt.Errorf("momentum strategy needs both pivot views")
	}

	return &Momentum{
		cfg:  cfg,
		vwap: NewVWAP(cfg.VWAPWindow, cfg.UseTypicalPrice),
		seq:  seq,
		snap: snap,
	}, nil
}

func (m *Momentum) OnBar(bars []types.Bar, currentIndex int, acc *account.Account) []types.Signal {
	bar := bars[currentIndex]
	m.vwap.Update(bar)

	if err := pivot.CrossCheck(m.seq, m.snap); err != nil {
		m.mismatches++
		slog.Error("Pivot views disagree", "timestamp", bar.Timestamp, "error", err)
	}

	if !IndicatorsReady(m.vwap, m.seq) {
		return nil
	}

	levels, _ := m.seq.Pending()
	vwap := m.vwap.Value()
	notional := acc.NetSize() * bar.Close

	momentumLog.Debug("Momentum check",
		"timestamp", bar.Timestamp,
		"close", bar.Close,
		"vwap", vwap,
		"pp", levels.PP,
		"pivotDate", levels.Date,
		"notional", notional)

	var (
		signal types.Signal
		ok     bool
	)
	switch {
	case bar.Close > vwap*(1+m.cfg.Threshold) && notional <= m.cfg.MaxNotional:
		signal, ok = OpenLong(bar, levels.Levels, m.cfg.OrderSize, "close above vwap")
	case bar.Close < vwap*(1-m.cfg.Threshold) && notional >= -m.cfg.MaxNotional:
		signal, ok = OpenShort(bar, levels.Levels, m.cfg.OrderSize, "close below vwap")
	}
	if !ok {
		return nil
	}

	momentumLog.Info("Momentum entry", "action", signal.Action, "price", signal.Price, "sl", signal.SL, "tp", signal.TP)
	return []types.Signal{signal}
}

// Mismatches is the number of bars on which the two pivot views disagreed.
func (m *Momentum) Mismatches() int {
	return m.mismatches
}

func (m *Momentum) VWAP() *VWAP {
	return m.vwap
}

func (m *Momentum) Instrument() string {
	return m.cfg.Instrument
}
