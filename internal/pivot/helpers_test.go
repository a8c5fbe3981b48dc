package pivot

import (
	"math/rand"
	"time"

	"github.com/jwtly10/pivotbook/internal/types"
)

func TimeFromString(timeStr string) (t time.Time) {
	t, _ = time.Parse(time.RFC3339, timeStr)
	return
}

func bar(ts string, high, low, close float64) types.Bar {
	return types.Bar{
		Timestamp: TimeFromString(ts),
		Open:      close,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    100,
	}
}

// randomWalk builds n bars spaced step apart from start, seeded so runs
// are reproducible.
func randomWalk(start time.Time, step time.Duration, n int, seed int64) []types.Bar {
	rng := rand.New(rand.NewSource(seed))
	bars := make([]types.Bar, 0, n)
	price := 1.3000
	for i := 0; i < n; i++ {
		open := price
		price += (rng.Float64() - 0.5) * 0.001
		high := max(open, price) + rng.Float64()*0.0005
		low := min(open, price) - rng.Float64()*0.0005
		bars = append(bars, types.Bar{
			Timestamp: start.Add(time.Duration(i) * step),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    float64(100 + rng.Intn(900)),
		})
	}
	return bars
}

func mustPeriod(count int, unit Unit) Period {
	p, err := NewPeriod(count, unit)
	if err != nil {
		panic(err)
	}
	return p
}
