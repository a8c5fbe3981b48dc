package types

import "time"

const (
	BUY  Action = "BUY"
	SELL Action = "SELL"

	OPEN Type = "OPEN_TRADE"
)

// Bar is one OHLCV observation. Bars are owned by the feed and never mutated
// once they have been published.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// TypicalPrice returns (H+L+C)/3
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

type Action string
type Type string

type Signal struct {
	Type   Type   // OPEN_TRADE
	Action Action // "BUY", "SELL"
	Price  float64
	TP     float64 // 0 = no take profit
	SL     float64 // 0 = no stop loss
	Size   float64 // Units
	Reason string
}
