package account

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jwtly10/pivotbook/internal/types"
)

const (
	LONG  Direction = "LONG"
	SHORT Direction = "SHORT"

	ReasonStopLoss   = "STOP_LOSS"
	ReasonTakeProfit = "TAKE_PROFIT"
	ReasonEndOfTest  = "END_OF_BACKTEST"
)

type Direction string

type Account struct {
	Balance        float64
	openPositions  []*Position
	nextPositionID int
}

type Position struct {
	ID         int
	OpenTime   time.Time
	Direction  Direction
	EntryPrice float64
	Size       float64
	StopLoss   float64 // 0 = none
	TakeProfit float64 // 0 = none
	Reason     string
}

type Trade struct {
	ID          int
	EntryTime   time.Time
	ExitTime    time.Time
	Direction   Direction
	EntryPrice  float64
	ExitPrice   float64
	Size        float64
	StopLoss    float64
	TakeProfit  float64
	PnL         float64
	PnLPercent  float64
	EntryReason string
	ExitReason  string
}

func (t Trade) Print() {
	fmt.Printf("#%d | %s | Entry: %.5f @ %s | Exit: %.5f @ %s | P&L: %.2f | %s\n",
		t.ID,
		t.Direction,
		t.EntryPrice,
		t.EntryTime.Format("2006-01-02 15:04"),
		t.ExitPrice,
		t.ExitTime.Format("2006-01-02 15:04"),
		t.PnL,
		t.ExitReason,
	)
}

func NewAccount(initialBalance float64) *Account {
	return &Account{
		Balance:        initialBalance,
		openPositions:  []*Position{},
		nextPositionID: 1,
	}
}

func (a *Account) OpenTrade(signal types.Signal, timestamp time.Time) *Position {
	slog.Info("Opening trade", "action", signal.Action, "id", a.nextPositionID, "price", signal.Price, "size", signal.Size, "tp", signal.TP, "sl", signal.SL, "reason", signal.Reason, "timestamp", timestamp)

	var dir Direction
	switch signal.Action {
	case types.BUY:
		dir = LONG
	case types.SELL:
		dir = SHORT
	}

	pos := &Position{
		ID:         a.nextPositionID,
		OpenTime:   timestamp,
		Direction:  dir,
		EntryPrice: signal.Price,
		Size:       signal.Size,
		StopLoss:   signal.SL,
		TakeProfit: signal.TP,
		Reason:     signal.Reason,
	}

	a.nextPositionID++
	a.openPositions = append(a.openPositions, pos)

	return pos
}

// CheckExits checks all open positions against the given bar for stop loss or take profit hits.
// When both are inside the bar's range the stop loss wins.
func (a *Account) CheckExits(bar types.Bar) []Trade {
	var closedTrades []Trade
	remainingPositions := []*Position{}

	for _, pos := range a.openPositions {
		exitPrice, reason, hit := exitFor(pos, bar)
		if !hit {
			remainingPositions = append(remainingPositions, pos)
			continue
		}
		slog.Debug("Exit level hit", "position_id", pos.ID, "reason", reason, "price", exitPrice, "bar_high", bar.High, "bar_low", bar.Low, "timestamp", bar.Timestamp)
		closedTrades = append(closedTrades, a.closePosition(pos, exitPrice, bar.Timestamp, reason))
	}

	a.openPositions = remainingPositions
	return closedTrades
}

func exitFor(pos *Position, bar types.Bar) (float64, string, bool) {
	if pos.Direction == LONG {
		if pos.StopLoss != 0 && bar.Low <= pos.StopLoss {
			return pos.StopLoss, ReasonStopLoss, true
		}
		if pos.TakeProfit != 0 && bar.High >= pos.TakeProfit {
			return pos.TakeProfit, ReasonTakeProfit, true
		}
		return 0, "", false
	}

	if pos.StopLoss != 0 && bar.High >= pos.StopLoss {
		return pos.StopLoss, ReasonStopLoss, true
	}
	if pos.TakeProfit != 0 && bar.Low <= pos.TakeProfit {
		return pos.TakeProfit, ReasonTakeProfit, true
	}
	return 0, "", false
}

func (a *Account) closePosition(pos *Position, exitPrice float64, exitTime time.Time, reason string) Trade {
	var pnl float64

	if pos.Direction == LONG {
		pnl = (exitPrice - pos.EntryPrice) * pos.Size
	} else {
		pnl = (pos.EntryPrice - exitPrice) * pos.Size
	}

	a.Balance += pnl

	slog.Info("Closed position", "id", pos.ID, "direction", pos.Direction, "exit_price", exitPrice, "pnl", pnl, "reason", reason, "timestamp", exitTime)

	return Trade{
		ID:          pos.ID,
		EntryTime:   pos.OpenTime,
		ExitTime:    exitTime,
		Direction:   pos.Direction,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   exitPrice,
		Size:        pos.Size,
		StopLoss:    pos.StopLoss,
		TakeProfit:  pos.TakeProfit,
		PnL:         pnl,
		PnLPercent:  (pnl / (pos.EntryPrice * pos.Size)) * 100,
		EntryReason: pos.Reason,
		ExitReason:  reason,
	}
}

func (a *Account) CloseAll(lastBar types.Bar) []Trade {
	var trades []Trade

	for _, pos := range a.openPositions {
		trade := a.closePosition(pos, lastBar.Close, lastBar.Timestamp, ReasonEndOfTest)
		trades = append(trades, trade)
	}

	a.openPositions = []*Position{}
	return trades
}

func (a *Account) OpenPositions() []*Position {
	return a.openPositions
}

func (a *Account) PositionCount() int {
	return len(a.openPositions)
}

// NetSize is the signed open size: longs positive, shorts negative.
func (a *Account) NetSize() float64 {
	var net float64
	for _, pos := range a.openPositions {
		if pos.Direction == LONG {
			net += pos.Size
		} else {
			net -= pos.Size
		}
	}
	return net
}
