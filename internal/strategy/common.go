package strategy

import (
	"sort"

	"github.com/jwtly10/pivotbook/internal/pivot"
	"github.com/jwtly10/pivotbook/internal/types"
)

// IndicatorsReady calls .Ready() on all indicators and returns true if all are ready
func IndicatorsReady(indicators ...Indicator) bool {
	for _, ind := range indicators {
		if !ind.Ready() {
			return false
		}
	}
	return true
}

// Bracket returns the nearest pivot level strictly below and strictly above
// price. When price sits outside S3..R3 the missing side is projected one
// R1-S1 band away. ok is false when the levels are degenerate.
func Bracket(levels pivot.Levels, price float64) (below, above float64, ok bool) {
	asc := levels.Ascending()
	sort.Float64s(asc)

	band := levels.R1 - levels.S1
	if !(band > 0) {
		return 0, 0, false
	}

	below, above = price-band, price+band
	for _, lv := range asc {
		if lv < price {
			below = lv
		}
	}
	for i := len(asc) - 1; i >= 0; i-- {
		if asc[i] > price {
			above = asc[i]
		}
	}
	return below, above, true
}

// OpenLong creates a long market signal with its stop at the pivot level
// below price and its target at the level above.
func OpenLong(bar types.Bar, levels pivot.Levels, size float64, reason string) (types.Signal, bool) {
	below, above, ok := Bracket(levels, bar.Close)
	if !ok {
		return types.Signal{}, false
	}
	return types.Signal{
		Type:   types.OPEN,
		Action: types.BUY,
		Price:  bar.Close,
		SL:     below,
		TP:     above,
		Size:   size,
		Reason: reason,
	}, true
}

// OpenShort mirrors OpenLong.
func OpenShort(bar types.Bar, levels pivot.Levels, size float64, reason string) (types.Signal, bool) {
	below, above, ok := Bracket(levels, bar.Close)
	if !ok {
		return types.Signal{}, false
	}
	return types.Signal{
		Type:   types.OPEN,
		Action: types.SELL,
		Price:  bar.Close,
		SL:     above,
		TP:     below,
		Size:   size,
		Reason: reason,
	}, true
}
