// Package rates holds the two rate structures the engine consumes: a daily
// spot series ("rate as of date" lookup) and a forward snapshot (market
// implied rates by maturity as observed on an anchor date) with linear
// interpolation and extrapolation along the day axis.
package rates

import (
	"sort"
	"time"

	"github.com/rustyeddy/treasury/dates"
)

// Point is a single (date, rate) observation.
type Point struct {
	Date time.Time
	Rate float64
}

// Series is a daily spot series, one point per trading day.
type Series []Point

// NewSeries copies and date-sorts points into a Series.
func NewSeries(points ...Point) Series {
	s := make(Series, len(points))
	copy(s, points)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
	return s
}

// RateOn returns the rate of the entry with the largest date <= date.
// The bool is false when no such entry exists. Callers that need a neutral
// default (e.g. 1.0 for a spot ratio) apply it themselves; the series never
// invents values.
func (s Series) RateOn(date time.Time) (float64, bool) {
	target := dates.Normalize(date)
	// First index strictly after target.
	i := sort.Search(len(s), func(i int) bool {
		return dates.Normalize(s[i].Date).After(target)
	})
	if i == 0 {
		return 0, false
	}
	return s[i-1].Rate, true
}

// Latest returns the most recent point in the series.
func (s Series) Latest() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Snapshot is a forward curve as observed on Anchor: each point carries the
// market-implied rate for that maturity date. Points are kept sorted
// ascending by date.
type Snapshot struct {
	Anchor time.Time
	Points []Point
}

// NewSnapshot builds a Snapshot, sorting the forward points by date.
func NewSnapshot(anchor time.Time, points ...Point) Snapshot {
	ps := make([]Point, len(points))
	copy(ps, points)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Date.Before(ps[j].Date) })
	return Snapshot{Anchor: anchor, Points: ps}
}

// Interpolate resolves the rate for target against the curve formed by the
// anchor observation (anchor date, anchorRate) followed by the snapshot's
// forward points.
//
// Exact at nodes: a target landing on a curve date returns that node's rate
// with no interpolation error. Between two nodes the rate is linear in
// elapsed days. Past the last node the curve extrapolates linearly using the
// slope of the last two nodes. The bool is false when the curve is empty or
// the target precedes every node.
func (snap Snapshot) Interpolate(target time.Time, anchorRate float64) (float64, bool) {
	combined := make([]Point, 0, len(snap.Points)+1)
	if !snap.Anchor.IsZero() {
		combined = append(combined, Point{Date: snap.Anchor, Rate: anchorRate})
	}
	combined = append(combined, snap.Points...)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Date.Before(combined[j].Date)
	})
	if len(combined) == 0 {
		return 0, false
	}

	tgt := dates.Normalize(target)
	var before, after *Point
	for i := range combined {
		p := &combined[i]
		pd := dates.Normalize(p.Date)
		if !pd.After(tgt) {
			before = p
			continue
		}
		after = p
		break
	}

	switch {
	case before == nil:
		// Target precedes the whole curve.
		return 0, false
	case dates.Normalize(before.Date).Equal(tgt):
		return before.Rate, true
	case after != nil:
		span := dates.DayCount(before.Date, after.Date)
		if span == 0 {
			return before.Rate, true
		}
		elapsed := dates.DayCount(before.Date, tgt)
		return before.Rate + (after.Rate-before.Rate)*float64(elapsed)/float64(span), true
	case len(combined) >= 2:
		// Beyond the last node: project the slope of the final segment.
		last := combined[len(combined)-1]
		prev := combined[len(combined)-2]
		span := dates.DayCount(prev.Date, last.Date)
		if span == 0 {
			return last.Rate, true
		}
		slope := (last.Rate - prev.Rate) / float64(span)
		extra := dates.DayCount(last.Date, tgt)
		return last.Rate + slope*float64(extra), true
	default:
		return 0, false
	}
}
