package rates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestRateOn(t *testing.T) {
	s := NewSeries(
		Point{Date: d(2024, 1, 2), Rate: 810},
		Point{Date: d(2024, 1, 5), Rate: 825},
		Point{Date: d(2024, 1, 9), Rate: 840},
	)

	r, ok := s.RateOn(d(2024, 1, 5))
	assert.True(t, ok)
	assert.Equal(t, 825.0, r)

	// Weekend gap falls back to the prior trading day.
	r, ok = s.RateOn(d(2024, 1, 7))
	assert.True(t, ok)
	assert.Equal(t, 825.0, r)

	r, ok = s.RateOn(d(2024, 2, 1))
	assert.True(t, ok)
	assert.Equal(t, 840.0, r)

	_, ok = s.RateOn(d(2024, 1, 1))
	assert.False(t, ok)

	_, ok = Series(nil).RateOn(d(2024, 1, 1))
	assert.False(t, ok)
}

func TestInterpolateIdentityAtAnchor(t *testing.T) {
	snap := NewSnapshot(d(2024, 1, 1),
		Point{Date: d(2024, 3, 1), Rate: 1000},
		Point{Date: d(2024, 6, 1), Rate: 1100},
	)
	r, ok := snap.Interpolate(d(2024, 1, 1), 950)
	assert.True(t, ok)
	assert.Equal(t, 950.0, r)
}

func TestInterpolateExactAtNodes(t *testing.T) {
	snap := NewSnapshot(d(2024, 1, 1),
		Point{Date: d(2024, 3, 1), Rate: 1000},
		Point{Date: d(2024, 6, 1), Rate: 1100},
	)
	for _, p := range snap.Points {
		r, ok := snap.Interpolate(p.Date, 950)
		assert.True(t, ok)
		assert.Equal(t, p.Rate, r)
	}
}

func TestInterpolateBetweenNodes(t *testing.T) {
	snap := NewSnapshot(d(2024, 1, 1),
		Point{Date: d(2024, 3, 1), Rate: 1000},
		Point{Date: d(2024, 6, 1), Rate: 1100},
	)
	r, ok := snap.Interpolate(d(2024, 4, 15), 950)
	assert.True(t, ok)
	assert.Greater(t, r, 1000.0)
	assert.Less(t, r, 1100.0)
	// 45 elapsed of 92 days between the bracketing nodes.
	assert.InDelta(t, 1000+100*45.0/92.0, r, 1e-9)
}

func TestInterpolateExtrapolatesPastLastNode(t *testing.T) {
	snap := NewSnapshot(d(2024, 1, 1),
		Point{Date: d(2024, 3, 1), Rate: 1000},
		Point{Date: d(2024, 6, 1), Rate: 1100},
	)
	// 92-day final segment, slope 100/92 per day, 30 days past the end.
	r, ok := snap.Interpolate(d(2024, 7, 1), 950)
	assert.True(t, ok)
	assert.InDelta(t, 1100+100.0/92.0*30, r, 1e-9)
}

func TestInterpolateAnchorOnlyCurve(t *testing.T) {
	snap := NewSnapshot(d(2024, 1, 1))

	// A single point cannot carry a slope.
	_, ok := snap.Interpolate(d(2024, 2, 1), 950)
	assert.False(t, ok)

	// The anchor itself still resolves exactly.
	r, ok := snap.Interpolate(d(2024, 1, 1), 950)
	assert.True(t, ok)
	assert.Equal(t, 950.0, r)
}

func TestInterpolateBeforeCurve(t *testing.T) {
	snap := NewSnapshot(d(2024, 1, 1), Point{Date: d(2024, 3, 1), Rate: 1000})
	_, ok := snap.Interpolate(d(2023, 12, 1), 950)
	assert.False(t, ok)
}

func TestInterpolateZeroDaySpan(t *testing.T) {
	snap := NewSnapshot(d(2024, 1, 1),
		Point{Date: d(2024, 1, 1), Rate: 960},
		Point{Date: d(2024, 1, 1), Rate: 970},
	)
	r, ok := snap.Interpolate(d(2024, 1, 1), 950)
	assert.True(t, ok)
	// Duplicate-date nodes must not divide by zero; the last node on the
	// target date wins.
	assert.Equal(t, 970.0, r)
}
