package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCalendar(t *testing.T) *Calendar {
	t.Helper()
	c, err := NewCalendar()
	require.NoError(t, err)
	return c
}

func shanghaiTime(t *testing.T, y int, m time.Month, d, hh, mm, ss int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

func hongkongTime(t *testing.T, y int, m time.Month, d, hh, mm, ss int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Hong_Kong")
	require.NoError(t, err)
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

func TestIsOpen_SessionBoundariesInclusive(t *testing.T) {
	c := mustCalendar(t)

	// 2025-09-03 is a Wednesday with no holiday in either table.
	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"one second before morning open", shanghaiTime(t, 2025, 9, 3, 9, 29, 59), false},
		{"exactly morning open", shanghaiTime(t, 2025, 9, 3, 9, 30, 0), true},
		{"mid morning", shanghaiTime(t, 2025, 9, 3, 10, 15, 0), true},
		{"exactly morning close", shanghaiTime(t, 2025, 9, 3, 11, 30, 0), true},
		{"one second after morning close", shanghaiTime(t, 2025, 9, 3, 11, 30, 1), false},
		{"lunch break", shanghaiTime(t, 2025, 9, 3, 12, 30, 0), false},
		{"exactly afternoon open", shanghaiTime(t, 2025, 9, 3, 13, 0, 0), true},
		{"exactly afternoon close", shanghaiTime(t, 2025, 9, 3, 15, 0, 0), true},
		{"one second after afternoon close", shanghaiTime(t, 2025, 9, 3, 15, 0, 1), false},
		{"evening", shanghaiTime(t, 2025, 9, 3, 18, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, c.IsOpen(ExchangeAShare, tt.at))
		})
	}
}

func TestIsOpen_HKSessionsDifferFromAShare(t *testing.T) {
	c := mustCalendar(t)

	// 11:45 local: A股 is at lunch (closed since 11:30) but the 港股
	// morning session runs until 12:00.
	at := hongkongTime(t, 2025, 9, 3, 11, 45, 0)
	assert.True(t, c.IsOpen(ExchangeHK, at))
	assert.False(t, c.IsOpen(ExchangeAShare, at))

	// 15:30: A股 closed at 15:00, 港股 trades until 16:00.
	at = hongkongTime(t, 2025, 9, 3, 15, 30, 0)
	assert.True(t, c.IsOpen(ExchangeHK, at))
	assert.False(t, c.IsOpen(ExchangeAShare, at))

	assert.True(t, c.IsOpen(ExchangeHK, hongkongTime(t, 2025, 9, 3, 16, 0, 0)))
	assert.False(t, c.IsOpen(ExchangeHK, hongkongTime(t, 2025, 9, 3, 16, 0, 1)))
}

func TestIsOpen_HolidayOverridesWeekday(t *testing.T) {
	c := mustCalendar(t)

	// 2025-10-01 is a Wednesday inside a session window, but it is 国庆节.
	at := shanghaiTime(t, 2025, 10, 1, 10, 0, 0)
	assert.False(t, c.IsTradingDay(ExchangeAShare, at))
	assert.False(t, c.IsOpen(ExchangeAShare, at))

	// 港股 observes 2025-10-01 too but not 2025-10-02.
	assert.False(t, c.IsOpen(ExchangeHK, hongkongTime(t, 2025, 10, 1, 10, 0, 0)))
	assert.True(t, c.IsOpen(ExchangeHK, hongkongTime(t, 2025, 10, 2, 10, 0, 0)))
}

func TestIsOpen_Weekend(t *testing.T) {
	c := mustCalendar(t)

	// 2025-09-06 is a Saturday.
	at := shanghaiTime(t, 2025, 9, 6, 10, 0, 0)
	assert.False(t, c.IsTradingDay(ExchangeAShare, at))
	assert.False(t, c.IsOpen(ExchangeAShare, at))
}

func TestIsOpen_ImpliesTradingDay(t *testing.T) {
	c := mustCalendar(t)

	start := shanghaiTime(t, 2025, 9, 29, 0, 0, 0)
	for i := 0; i < 14*24; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		for _, ex := range []Exchange{ExchangeAShare, ExchangeHK} {
			if c.IsOpen(ex, at) {
				assert.True(t, c.IsTradingDay(ex, at), "open at %v but not a trading day", at)
			}
		}
	}
}

func TestIsOpen_UnknownExchange(t *testing.T) {
	c := mustCalendar(t)
	assert.False(t, c.IsOpen(Exchange("美股"), shanghaiTime(t, 2025, 9, 3, 10, 0, 0)))
}

func TestIsOpen_Idempotent(t *testing.T) {
	c := mustCalendar(t)
	at := shanghaiTime(t, 2025, 9, 3, 10, 0, 0)
	first := c.IsOpen(ExchangeAShare, at)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.IsOpen(ExchangeAShare, at))
	}
}

func TestNextSession_SameDayAfternoon(t *testing.T) {
	c := mustCalendar(t)

	// During lunch the next window is today's afternoon session.
	start, end, err := c.NextSession(ExchangeAShare, shanghaiTime(t, 2025, 9, 3, 12, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, shanghaiTime(t, 2025, 9, 3, 13, 0, 0), start)
	assert.Equal(t, shanghaiTime(t, 2025, 9, 3, 15, 0, 0), end)
}

func TestNextSession_SkipsWeekend(t *testing.T) {
	c := mustCalendar(t)

	// Friday 2025-09-05 after close: next window is Monday morning.
	start, end, err := c.NextSession(ExchangeAShare, shanghaiTime(t, 2025, 9, 5, 16, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, shanghaiTime(t, 2025, 9, 8, 9, 30, 0), start)
	assert.Equal(t, shanghaiTime(t, 2025, 9, 8, 11, 30, 0), end)
}

func TestNextSession_SkipsHolidaySpan(t *testing.T) {
	c := mustCalendar(t)

	// 2025-09-30 after close: Oct 1-7 are 国庆 holidays, next trading day
	// is Wednesday 2025-10-08.
	start, _, err := c.NextSession(ExchangeAShare, shanghaiTime(t, 2025, 9, 30, 16, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, shanghaiTime(t, 2025, 10, 8, 9, 30, 0), start)
}

func TestNextSession_ExhaustedScanFails(t *testing.T) {
	c := mustCalendar(t)

	// Block out every candidate day in the scan window; the bounded scan
	// must surface a configuration error, not loop or default.
	c.AddHolidays(ExchangeAShare,
		"2025-09-04", "2025-09-05", "2025-09-08", "2025-09-09", "2025-09-10",
		"2025-09-11", "2025-09-12",
	)
	_, _, err := c.NextSession(ExchangeAShare, shanghaiTime(t, 2025, 9, 3, 16, 0, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no trading session")
}

func TestAddHolidays_ConfiguredDateCloses(t *testing.T) {
	c := mustCalendar(t)

	at := shanghaiTime(t, 2025, 9, 3, 10, 0, 0)
	require.True(t, c.IsOpen(ExchangeAShare, at))

	c.AddHolidays(ExchangeAShare, "2025-09-03")
	assert.False(t, c.IsOpen(ExchangeAShare, at))
}

func TestFilterOpen(t *testing.T) {
	c := mustCalendar(t)
	codes := []string{"600000", "00700", "sh000300", "HSI", "AAPL"}

	// 10:00 local: both markets open. The unknown code is dropped.
	at := shanghaiTime(t, 2025, 9, 3, 10, 0, 0)
	got := c.FilterOpen(codes, at)
	assert.ElementsMatch(t, []string{"600000", "sh000300"}, got[ExchangeAShare])
	assert.ElementsMatch(t, []string{"00700", "HSI"}, got[ExchangeHK])

	// 15:30: only 港股 remains open.
	at = shanghaiTime(t, 2025, 9, 3, 15, 30, 0)
	got = c.FilterOpen(codes, at)
	assert.Empty(t, got[ExchangeAShare])
	assert.ElementsMatch(t, []string{"00700", "HSI"}, got[ExchangeHK])

	// Saturday: nothing.
	at = shanghaiTime(t, 2025, 9, 6, 10, 0, 0)
	got = c.FilterOpen(codes, at)
	assert.Empty(t, got[ExchangeAShare])
	assert.Empty(t, got[ExchangeHK])
}

func TestIndexFollowsExchangeSession(t *testing.T) {
	c := mustCalendar(t)

	// An index is gated exactly by its exchange; sample across two weeks
	// of hourly instants.
	start := shanghaiTime(t, 2025, 9, 29, 0, 0, 0)
	for i := 0; i < 14*24; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		hsiOpen := len(c.FilterOpen([]string{"HSI"}, at)[ExchangeHK]) == 1
		assert.Equal(t, c.IsOpen(ExchangeHK, at), hsiOpen, "at %v", at)
	}
}

func TestShouldRunCycle(t *testing.T) {
	c := mustCalendar(t)

	open := shanghaiTime(t, 2025, 9, 3, 10, 0, 0)     // both markets open
	hkOnly := shanghaiTime(t, 2025, 9, 3, 15, 30, 0)  // only 港股 open
	weekend := shanghaiTime(t, 2025, 9, 6, 10, 0, 0)  // all closed

	assert.False(t, c.ShouldRunCycle(nil, open))
	assert.False(t, c.ShouldRunCycle([]string{}, open))
	assert.False(t, c.ShouldRunCycle([]string{"AAPL"}, open))

	assert.True(t, c.ShouldRunCycle([]string{"600000"}, open))
	assert.False(t, c.ShouldRunCycle([]string{"600000"}, hkOnly))
	assert.True(t, c.ShouldRunCycle([]string{"00700"}, hkOnly))
	assert.True(t, c.ShouldRunCycle([]string{"600000", "00700"}, hkOnly))

	assert.False(t, c.ShouldRunCycle([]string{"600000", "00700"}, weekend))
}

func TestStatusMessage(t *testing.T) {
	c := mustCalendar(t)

	open := c.StatusMessage(ExchangeAShare, shanghaiTime(t, 2025, 9, 3, 10, 0, 0))
	assert.Contains(t, open, "开市中")

	closed := c.StatusMessage(ExchangeAShare, shanghaiTime(t, 2025, 9, 6, 10, 0, 0))
	assert.Contains(t, closed, "休市")
	assert.Contains(t, closed, "2025-09-08 09:30")
}

func TestStatusMessage_DegradesWhenNextSessionFails(t *testing.T) {
	c := mustCalendar(t)
	c.AddHolidays(ExchangeAShare,
		"2025-09-04", "2025-09-05", "2025-09-08", "2025-09-09", "2025-09-10",
		"2025-09-11", "2025-09-12",
	)

	// Status reporting must never propagate the next-session failure.
	msg := c.StatusMessage(ExchangeAShare, shanghaiTime(t, 2025, 9, 3, 16, 0, 0))
	assert.Equal(t, "🔴 A股市场当前休市", msg)
}
