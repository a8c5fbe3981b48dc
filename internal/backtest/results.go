package backtest

import "github.com/jwtly10/pivotbook/internal/account"

type Results struct {
	InitialBalance float64
	FinalBalance   float64
	BarsProcessed  int
	Trades         []account.Trade

	stats *Statistics
}
