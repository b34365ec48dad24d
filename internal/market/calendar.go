package market

import (
	"fmt"
	"time"
)

// Exchange identifies one of the two supported markets.
type Exchange string

const (
	ExchangeAShare Exchange = "A股"
	ExchangeHK     Exchange = "港股"
)

// TimeOfDay is a wall-clock time within one exchange-local day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) seconds() int { return t.Hour*3600 + t.Minute*60 }

// Session is one contiguous intraday trading window, boundaries inclusive.
type Session struct {
	Start TimeOfDay
	End   TimeOfDay
}

// descriptor holds everything the calendar knows about one exchange. The
// tables are read-only after the calendar is constructed.
type descriptor struct {
	name     Exchange
	loc      *time.Location
	weekdays map[time.Weekday]bool
	sessions []Session
	holidays map[string]bool // exchange-local dates, "2006-01-02"
}

// maxScanDays bounds the forward scan for the next trading day; hitting the
// bound means the static tables are broken, not that the market is closed.
const maxScanDays = 10

var monToFri = map[time.Weekday]bool{
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Thursday:  true,
	time.Friday:    true,
}

// Calendar answers session and trading-day questions for the supported
// exchanges. All queries are pure functions of the instant and the static
// tables, so repeated queries at the same instant always agree.
type Calendar struct {
	exchanges map[Exchange]*descriptor
}

// NewCalendar builds a calendar with the built-in session and holiday tables.
func NewCalendar() (*Calendar, error) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return nil, fmt.Errorf("load Asia/Shanghai: %w", err)
	}
	hongkong, err := time.LoadLocation("Asia/Hong_Kong")
	if err != nil {
		return nil, fmt.Errorf("load Asia/Hong_Kong: %w", err)
	}

	c := &Calendar{exchanges: map[Exchange]*descriptor{
		ExchangeAShare: {
			name:     ExchangeAShare,
			loc:      shanghai,
			weekdays: monToFri,
			sessions: []Session{
				{Start: TimeOfDay{9, 30}, End: TimeOfDay{11, 30}},
				{Start: TimeOfDay{13, 0}, End: TimeOfDay{15, 0}},
			},
			holidays: toSet(aShareHolidays),
		},
		ExchangeHK: {
			name:     ExchangeHK,
			loc:      hongkong,
			weekdays: monToFri,
			sessions: []Session{
				{Start: TimeOfDay{9, 30}, End: TimeOfDay{12, 0}},
				{Start: TimeOfDay{13, 0}, End: TimeOfDay{16, 0}},
			},
			holidays: toSet(hkHolidays),
		},
	}}
	return c, nil
}

// AddHolidays merges extra holiday dates ("2006-01-02") into an exchange's
// table. Intended for setup time, before the calendar is shared.
func (c *Calendar) AddHolidays(ex Exchange, dates ...string) {
	d, ok := c.exchanges[ex]
	if !ok {
		return
	}
	for _, date := range dates {
		d.holidays[date] = true
	}
}

// IsTradingDay reports whether the instant falls on a business weekday that
// is not a holiday, both judged on the exchange's local calendar. Holidays
// only subtract days; they never turn a weekend into a trading day.
func (c *Calendar) IsTradingDay(ex Exchange, instant time.Time) bool {
	d, ok := c.exchanges[ex]
	if !ok {
		return false
	}
	local := instant.In(d.loc)
	if !d.weekdays[local.Weekday()] {
		return false
	}
	return !d.holidays[local.Format("2006-01-02")]
}

// IsOpen reports whether the exchange is in session at the given instant.
// Session boundaries are inclusive on both ends: the instant exactly at
// close is still open.
func (c *Calendar) IsOpen(ex Exchange, instant time.Time) bool {
	d, ok := c.exchanges[ex]
	if !ok {
		return false
	}
	if !c.IsTradingDay(ex, instant) {
		return false
	}
	local := instant.In(d.loc)
	sec := local.Hour()*3600 + local.Minute()*60 + local.Second()
	for _, s := range d.sessions {
		if s.Start.seconds() <= sec && sec <= s.End.seconds() {
			return true
		}
	}
	return false
}

// NextSession returns the start and end of the next trading window after the
// given instant. If the local day is a trading day with a window still ahead,
// that window is returned anchored to today; otherwise the scan moves forward
// day by day, bounded to maxScanDays, and returns the first window of the
// next trading day. Exhausting the bound is a configuration error.
func (c *Calendar) NextSession(ex Exchange, instant time.Time) (time.Time, time.Time, error) {
	d, ok := c.exchanges[ex]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown exchange %q", ex)
	}
	local := instant.In(d.loc)

	if c.IsTradingDay(ex, local) {
		sec := local.Hour()*3600 + local.Minute()*60 + local.Second()
		for _, s := range d.sessions {
			if sec < s.Start.seconds() {
				return d.anchor(local, s.Start), d.anchor(local, s.End), nil
			}
		}
	}

	for i := 1; i <= maxScanDays; i++ {
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, d.loc).AddDate(0, 0, i)
		if c.IsTradingDay(ex, day) {
			first := d.sessions[0]
			return d.anchor(day, first.Start), d.anchor(day, first.End), nil
		}
	}
	return time.Time{}, time.Time{}, fmt.Errorf("no trading session for %s within %d days", ex, maxScanDays)
}

func (d *descriptor) anchor(day time.Time, t TimeOfDay) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, d.loc)
}

// FilterOpen classifies every ticker and groups those whose exchange is open
// at the instant. Tickers that fail classification are dropped; they are
// untracked by the calendar, never treated as always-open.
func (c *Calendar) FilterOpen(codes []string, instant time.Time) map[Exchange][]string {
	result := map[Exchange][]string{
		ExchangeAShare: {},
		ExchangeHK:     {},
	}
	for _, code := range codes {
		cls, ok := Classify(code)
		if !ok {
			continue
		}
		if c.IsOpen(cls.Exchange, instant) {
			result[cls.Exchange] = append(result[cls.Exchange], code)
		}
	}
	return result
}

// ShouldRunCycle is the cheap pre-check before a monitoring cycle: true iff
// the ticker set is non-empty and at least one represented exchange is open.
func (c *Calendar) ShouldRunCycle(codes []string, instant time.Time) bool {
	if len(codes) == 0 {
		return false
	}
	var hasAShare, hasHK bool
	for _, code := range codes {
		cls, ok := Classify(code)
		if !ok {
			continue
		}
		switch cls.Exchange {
		case ExchangeAShare:
			hasAShare = true
		case ExchangeHK:
			hasHK = true
		}
	}
	if hasAShare && c.IsOpen(ExchangeAShare, instant) {
		return true
	}
	if hasHK && c.IsOpen(ExchangeHK, instant) {
		return true
	}
	return false
}

// StatusMessage renders a human-readable market status line. It never fails:
// when NextSession cannot find a window it degrades to a generic closed
// message instead of propagating the error.
func (c *Calendar) StatusMessage(ex Exchange, instant time.Time) string {
	if c.IsOpen(ex, instant) {
		return fmt.Sprintf("🟢 %s市场当前开市中", ex)
	}
	start, _, err := c.NextSession(ex, instant)
	if err != nil {
		return fmt.Sprintf("🔴 %s市场当前休市", ex)
	}
	return fmt.Sprintf("🔴 %s市场当前休市，下次开市时间: %s", ex, start.Format("2006-01-02 15:04"))
}

func toSet(dates []string) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	return set
}
