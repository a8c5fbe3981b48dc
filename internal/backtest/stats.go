package backtest

import (
	"fmt"
	"time"

	"github.com/jwtly10/pivotbook/internal/account"
)

type Statistics struct {
	// Basic
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	LongTrades    int
	ShortTrades   int
	WinRate       float64

	// P&L
	TotalPnL        float64
	TotalPnLPercent float64
	GrossProfit     float64
	GrossLoss       float64
	ProfitFactor    float64
	LargestWin      float64
	LargestLoss     float64

	// Averages
	AvgWin        float64
	AvgLoss       float64
	ExpectedValue float64

	// Risk
	MaxDrawdown        float64
	MaxDrawdownPercent float64

	// Duration
	AvgTradeDuration time.Duration
}

func (r *Results) Calculate() *Statistics {
	if r.stats != nil {
		return r.stats
	}

	stats := &Statistics{
		TotalTrades: len(r.Trades),
	}

	if len(r.Trades) == 0 {
		r.stats = stats
		return stats
	}

	var totalWin, totalLoss float64
	var totalDuration time.Duration
	peak := r.InitialBalance
	var maxDD float64
	runningBalance := r.InitialBalance

	for _, trade := range r.Trades {
		if trade.Direction == account.LONG {
			stats.LongTrades++
		} else {
			stats.ShortTrades++
		}

		if trade.PnL > 0 {
			stats.WinningTrades++
			totalWin += trade.PnL
			stats.LargestWin = max(stats.LargestWin, trade.PnL)
		} else if trade.PnL < 0 {
			stats.LosingTrades++
			totalLoss += trade.PnL // Already negative
			stats.LargestLoss = min(stats.LargestLoss, trade.PnL)
		}

		runningBalance += trade.PnL
		if runningBalance > peak {
			peak = runningBalance
		}
		if dd := peak - runningBalance; dd > maxDD {
			maxDD = dd
		}

		totalDuration += trade.ExitTime.Sub(trade.EntryTime)
	}

	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100

	stats.GrossProfit = totalWin
	stats.GrossLoss = totalLoss
	stats.TotalPnL = r.FinalBalance - r.InitialBalance
	if r.InitialBalance != 0 {
		stats.TotalPnLPercent = (stats.TotalPnL / r.InitialBalance) * 100
	}

	if totalLoss != 0 {
		stats.ProfitFactor = totalWin / -totalLoss
	}

	if stats.WinningTrades > 0 {
		stats.AvgWin = totalWin / float64(stats.WinningTrades)
	}
	if stats.LosingTrades > 0 {
		stats.AvgLoss = totalLoss / float64(stats.LosingTrades)
	}
	stats.ExpectedValue = stats.TotalPnL / float64(stats.TotalTrades)

	stats.MaxDrawdown = maxDD
	if peak > 0 {
		stats.MaxDrawdownPercent = (maxDD / peak) * 100
	}

	stats.AvgTradeDuration = totalDuration / time.Duration(stats.TotalTrades)

	r.stats = stats
	return stats
}

func (s *Statistics) Print() {
	fmt.Println("\n=== Backtest Results ===")
	fmt.Printf("Total Trades:     %d (%d long / %d short)\n", s.TotalTrades, s.LongTrades, s.ShortTrades)
	fmt.Printf("Winning Trades:   %d (%.2f%%)\n", s.WinningTrades, s.WinRate)
	fmt.Printf("Losing Trades:    %d\n\n", s.LosingTrades)

	fmt.Printf("Total P&L:        %.2f (%.2f%%)\n", s.TotalPnL, s.TotalPnLPercent)
	fmt.Printf("Gross Profit:     %.2f\n", s.GrossProfit)
	fmt.Printf("Gross Loss:       %.2f\n", s.GrossLoss)
	fmt.Printf("Profit Factor:    %.2f\n", s.ProfitFactor)
	fmt.Printf("Largest Win:      %.2f\n", s.LargestWin)
	fmt.Printf("Largest Loss:     %.2f\n\n", s.LargestLoss)

	fmt.Printf("Avg Win:          %.2f\n", s.AvgWin)
	fmt.Printf("Avg Loss:         %.2f\n", s.AvgLoss)
	fmt.Printf("Expected Value:   %.2f per trade\n\n", s.ExpectedValue)

	fmt.Printf("Max Drawdown:     %.2f (%.2f%%)\n", s.MaxDrawdown, s.MaxDrawdownPercent)
	fmt.Printf("Avg Duration:     %s\n", s.AvgTradeDuration.Round(time.Minute))
}

func (r *Results) PrintTradesBetween(from, to int) {
	from = max(from, 0)
	to = min(to, len(r.Trades))
	if from > to {
		from = to
	}

	fmt.Println("\n=== Trade List ===")
	for _, trade := range r.Trades[from:to] {
		trade.Print()
	}
}
