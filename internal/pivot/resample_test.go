package pivot

import (
	"testing"
	"time"

	"github.com/jwtly10/pivotbook/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample_Daily(t *testing.T) {
	bars := []types.Bar{
		bar("2024-01-01T09:00:00Z", 1.3100, 1.3050, 1.3080),
		bar("2024-01-01T12:00:00Z", 1.3122, 1.3070, 1.3110),
		bar("2024-01-01T23:59:00Z", 1.3095, 1.3047, 1.3092),
		bar("2024-01-02T00:00:00Z", 1.3200, 1.3100, 1.3150),
	}

	buckets := Resample(bars, mustPeriod(1, Day))

	require.Len(t, buckets, 2)

	assert.Equal(t, TimeFromString("2024-01-01T00:00:00Z"), buckets[0].Start)
	assert.Equal(t, 1.3122, buckets[0].High)
	assert.Equal(t, 1.3047, buckets[0].Low)
	assert.Equal(t, 1.3092, buckets[0].Close)
	assert.Equal(t, 3, buckets[0].Bars)

	assert.Equal(t, TimeFromString("2024-01-02T00:00:00Z"), buckets[1].Start)
	assert.Equal(t, 1.3150, buckets[1].Close)
}

func TestResample_CloseFollowsTimestamp(t *testing.T) {
	bars := []types.Bar{
		bar("2024-01-01T10:00:00Z", 5, 1, 3),
		bar("2024-01-01T08:00:00Z", 4, 2, 2),
	}

	buckets := Resample(bars, mustPeriod(1, Day))

	require.Len(t, buckets, 1)
	assert.Equal(t, 3.0, buckets[0].Close, "close should come from the latest timestamp")
}

func TestResample_SkipsEmptyPeriods(t *testing.T) {
	bars := []types.Bar{
		bar("2024-01-01T10:00:00Z", 5, 1, 3),
		bar("2024-01-04T10:00:00Z", 6, 2, 4),
	}

	buckets := Resample(bars, mustPeriod(1, Day))

	require.Len(t, buckets, 2, "days without bars should not produce buckets")
	assert.Equal(t, TimeFromString("2024-01-04T00:00:00Z"), buckets[1].Start)
}

func TestResample_Deterministic(t *testing.T) {
	bars := randomWalk(TimeFromString("2024-01-01T00:00:00Z"), time.Minute, 500, 7)
	p := mustPeriod(1, Hour)

	assert.Equal(t, Resample(bars, p), Resample(bars, p))
	assert.Nil(t, Resample(nil, p))
}

func TestBucket_Same(t *testing.T) {
	a := Bucket{Start: TimeFromString("2024-01-01T00:00:00Z"), High: 2, Low: 1, Close: 1.5, Bars: 3}
	b := a
	b.Bars = 10
	assert.True(t, a.Same(b), "bar count should not affect equality")

	c := a
	c.Start = TimeFromString("2024-01-02T00:00:00Z")
	assert.False(t, a.Same(c), "different periods are never the same bucket")
}
