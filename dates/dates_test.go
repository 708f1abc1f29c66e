package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestDayCount(t *testing.T) {
	assert.Equal(t, 0, DayCount(d(2024, 1, 1), d(2024, 1, 1)))
	assert.Equal(t, 1, DayCount(d(2024, 1, 1), d(2024, 1, 2)))
	assert.Equal(t, 182, DayCount(d(2024, 1, 1), d(2024, 7, 1)))
	assert.Equal(t, 366, DayCount(d(2024, 1, 1), d(2025, 1, 1))) // leap year
}

func TestDayCountInvalid(t *testing.T) {
	assert.Equal(t, 0, DayCount(time.Time{}, d(2024, 1, 1)))
	assert.Equal(t, 0, DayCount(d(2024, 1, 1), time.Time{}))
	assert.Equal(t, 0, DayCount(d(2024, 2, 1), d(2024, 1, 1)))
}

func TestDayCountNormalizesTimezones(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	// 23:00 in ART is already the next day in UTC, Normalize keeps the
	// calendar date stable either way.
	start := time.Date(2024, 1, 1, 23, 0, 0, 0, loc)
	end := time.Date(2024, 1, 10, 1, 0, 0, 0, loc)
	assert.Equal(t, DayCount(Normalize(start), Normalize(end)), DayCount(start, end))
}

func TestDayCountAdditive(t *testing.T) {
	d1 := d(2024, 1, 1)
	d2 := d(2024, 3, 15)
	d3 := d(2024, 12, 31)
	assert.Equal(t, DayCount(d1, d3), DayCount(d1, d2)+DayCount(d2, d3))
}

func TestBusinessDayCount(t *testing.T) {
	// Mon 2024-01-01 through Fri 2024-01-05: days strictly after Monday.
	assert.Equal(t, 4, BusinessDayCount(d(2024, 1, 1), d(2024, 1, 5), nil))
	// Full week including weekend.
	assert.Equal(t, 5, BusinessDayCount(d(2024, 1, 1), d(2024, 1, 8), nil))
	assert.Equal(t, 0, BusinessDayCount(d(2024, 1, 5), d(2024, 1, 5), nil))
	assert.Equal(t, 0, BusinessDayCount(d(2024, 1, 8), d(2024, 1, 1), nil))
}

func TestBusinessDayCountHolidays(t *testing.T) {
	hols := NewHolidaySet(d(2024, 1, 3))
	assert.Equal(t, 3, BusinessDayCount(d(2024, 1, 1), d(2024, 1, 5), hols))
	assert.True(t, hols.Contains(d(2024, 1, 3)))
	assert.False(t, hols.Contains(d(2024, 1, 4)))
}
