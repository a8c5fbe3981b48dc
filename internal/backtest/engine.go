package backtest

import (
	"log/slog"

	"github.com/jwtly10/pivotbook/internal/account"
	"github.com/jwtly10/pivotbook/internal/types"
)

// BarListener is notified of every bar before the strategy sees it.
type BarListener func(bar types.Bar)

type Engine struct {
	Bars           []types.Bar
	initialBalance float64
	listeners      []BarListener
}

func NewEngine(bars []types.Bar, initialBalance float64) *Engine {
	return &Engine{
		Bars:           bars,
		initialBalance: initialBalance,
	}
}

// Subscribe registers l for new-bar notifications. Listeners run in
// registration order, synchronously, on every bar.
func (e *Engine) Subscribe(l BarListener) {
	e.listeners = append(e.listeners, l)
}

type Strategy interface {
	OnBar(bars []types.Bar, currentIndex int, account *account.Account) []types.Signal
}

func (e *Engine) Run(strategy Strategy) *Results {
	acc := account.NewAccount(e.initialBalance)
	results := &Results{
		InitialBalance: e.initialBalance,
		Trades:         []account.Trade{},
	}

	slog.Debug("Starting backtest", "initial_balance", e.initialBalance, "total_bars", len(e.Bars), "listeners", len(e.listeners))

	for i, bar := range e.Bars {
		closedTrades := acc.CheckExits(bar)
		results.Trades = append(results.Trades, closedTrades...)

		for _, l := range e.listeners {
			l(bar)
		}

		signals := strategy.OnBar(e.Bars, i, acc)

		for _, signal := range signals {
			if signal.Type == types.OPEN {
				acc.OpenTrade(signal, bar.Timestamp)
			}
		}
	}

	if len(e.Bars) > 0 {
		// Close anything at the end
		lastBar := e.Bars[len(e.Bars)-1]
		remainingTrades := acc.CloseAll(lastBar)
		results.Trades = append(results.Trades, remainingTrades...)
	}

	results.FinalBalance = acc.Balance
	results.BarsProcessed = len(e.Bars)

	slog.Debug("Backtest finished", "final_balance", results.FinalBalance, "trades", len(results.Trades))
	return results
}
