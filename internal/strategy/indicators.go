package strategy

import (
	"github.com/jwtly10/pivotbook/internal/logging"
	"github.com/jwtly10/pivotbook/internal/types"
)

var vwapLog = logging.New("vwap")

type Indicator interface {
	Ready() bool
}

// VWAP - rolling Volume Weighted Average Price over the last period bars
type VWAP struct {
	period          int
	useTypicalPrice bool

	prices  []float64
	volumes []float64
	sumPV   float64
	sumV    float64
}

func NewVWAP(period int, useTypicalPrice bool) *VWAP {
	return &VWAP{
		period:          period,
		useTypicalPrice: useTypicalPrice,
		prices:          make([]float64, 0, period+1),
		volumes:         make([]float64, 0, period+1),
	}
}

func (v *VWAP) Update(bar types.Bar) {
	price := bar.Close
	if v.useTypicalPrice {
		price = bar.TypicalPrice()
	}

	v.prices = append(v.prices, price)
	v.volumes = append(v.volumes, bar.Volume)
	v.sumPV += price * bar.Volume
	v.sumV += bar.Volume

	if len(v.prices) > v.period {
		v.sumPV -= v.prices[0] * v.volumes[0]
		v.sumV -= v.volumes[0]
		v.prices = v.prices[1:]
		v.volumes = v.volumes[1:]
	}

	vwapLog.Debug("VWAP updated", "period", v.period, "price", price, "volume", bar.Volume, "value", v.Value(), "ready", v.Ready())
}

// Value returns the VWAP of the current window, or 0 if there is no volume.
func (v *VWAP) Value() float64 {
	if v.sumV == 0 {
		return 0
	}
	return v.sumPV / v.sumV
}

func (v *VWAP) Ready() bool {
	return len(v.prices) >= v.period && v.sumV != 0
}
