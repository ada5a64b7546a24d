package market

import "time"

// Calendar models market sessions: which dates trade and the intraday
// open/close window used by the live agent.
type Calendar struct {
	// OpenHour/OpenMinute and CloseHour/CloseMinute bound the session clock.
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
	Location    *time.Location

	holidays map[string]struct{}
}

// NewCalendar builds a Calendar with the given session window. holidays are
// dates (any clock time) that never trade.
func NewCalendar(openHour, openMin, closeHour, closeMin int, loc *time.Location, holidays ...time.Time) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	hs := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		hs[h.Format("2006-01-02")] = struct{}{}
	}
	return &Calendar{
		OpenHour:    openHour,
		OpenMinute:  openMin,
		CloseHour:   closeHour,
		CloseMinute: closeMin,
		Location:    loc,
		holidays:    hs,
	}
}

// DefaultCalendar returns the NSE session: 09:15-15:30 IST, weekdays.
func DefaultCalendar() *Calendar {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*3600+1800)
	}
	return NewCalendar(9, 15, 15, 30, loc)
}

// IsTradingDay reports whether t falls on a weekday that is not a holiday.
func (c *Calendar) IsTradingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[t.In(c.Location).Format("2006-01-02")]
	return !holiday
}

// IsOpen reports whether the market session is open at t.
func (c *Calendar) IsOpen(t time.Time) bool {
	if !c.IsTradingDay(t) {
		return false
	}
	lt := t.In(c.Location)
	mins := lt.Hour()*60 + lt.Minute()
	open := c.OpenHour*60 + c.OpenMinute
	close := c.CloseHour*60 + c.CloseMinute
	return mins >= open && mins <= close
}

// TradingDates returns every trading date in [start, end], inclusive, in
// order. Times are normalized to midnight in the calendar's location.
func (c *Calendar) TradingDates(start, end time.Time) []time.Time {
	var dates []time.Time
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, c.Location)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, c.Location)
	for !day.After(last) {
		if c.IsTradingDay(day) {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}
