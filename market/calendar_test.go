package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradingDatesSkipsWeekends(t *testing.T) {
	t.Parallel()

	cal := NewCalendar(9, 15, 15, 30, time.UTC)

	// 2024-01-01 is a Monday.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

	dates := cal.TradingDates(start, end)
	require.Len(t, dates, 10)

	for _, d := range dates {
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
	assert.True(t, dates[0].Equal(start))
}

func TestTradingDatesSkipsHolidays(t *testing.T) {
	t.Parallel()

	holiday := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(9, 15, 15, 30, time.UTC, holiday)

	dates := cal.TradingDates(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	)

	require.Len(t, dates, 4)
	for _, d := range dates {
		assert.False(t, d.Equal(holiday))
	}
}

func TestIsOpen(t *testing.T) {
	t.Parallel()

	cal := NewCalendar(9, 15, 15, 30, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before open", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), false},
		{"at open", time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC), true},
		{"midday", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), true},
		{"at close", time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC), true},
		{"after close", time.Date(2024, 1, 1, 15, 31, 0, 0, time.UTC), false},
		{"saturday", time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cal.IsOpen(tt.at))
		})
	}
}

func TestSeriesThrough(t *testing.T) {
	t.Parallel()

	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	s := Series{
		{Time: d(1), Close: 10},
		{Time: d(2), Close: 11},
		{Time: d(3), Close: 12},
	}

	assert.Len(t, s.Through(d(2)), 2)
	assert.Len(t, s.Through(d(9)), 3)
	assert.Empty(t, s.Through(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestSeriesReturns(t *testing.T) {
	t.Parallel()

	s := Series{{Close: 100}, {Close: 110}, {Close: 99}}
	r := s.Returns()
	require.Len(t, r, 2)
	assert.InDelta(t, 0.10, r[0], 1e-9)
	assert.InDelta(t, -0.10, r[1], 1e-9)
}

func TestSector(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "IT", Sector("TCS.NS"))
	assert.Equal(t, "BANKING", Sector("HDFCBANK.NS"))
	assert.Equal(t, "OTHERS", Sector("UNKNOWN.NS"))
}
