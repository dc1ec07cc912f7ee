package market

import "time"

// StocksCalendar models the NYSE regular session: Mon-Fri 09:30-16:00 New York time.
// Holidays are full-day closures keyed by New York calendar date.
type StocksCalendar struct {
	loc      *time.Location
	openMin  int // minutes after midnight
	closeMin int
	holidays map[string]struct{}
}

// NewStocksCalendar creates a regular-session calendar with optional holidays ("2006-01-02")
func NewStocksCalendar(holidays ...string) *StocksCalendar {
	set := make(map[string]struct{}, len(holidays))
	for _, day := range holidays {
		set[day] = struct{}{}
	}

	return &StocksCalendar{
		loc:      newYork(),
		openMin:  9*60 + 30,
		closeMin: 16 * 60,
		holidays: set,
	}
}

// IsOpen reports whether the regular session is running at the given instant.
// The close minute itself is outside the session.
func (c *StocksCalendar) IsOpen(_ string, at time.Time) bool {
	local := at.In(c.loc)

	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return false
	}

	if _, closed := c.holidays[local.Format(time.DateOnly)]; closed {
		return false
	}

	minute := local.Hour()*60 + local.Minute()
	return minute >= c.openMin && minute < c.closeMin
}

// CryptoCalendar is always open
type CryptoCalendar struct{}

func (CryptoCalendar) IsOpen(string, time.Time) bool { return true }

// ForexCalendar models the spot FX week: Sunday 17:00 to Friday 17:00 New York time
type ForexCalendar struct {
	loc *time.Location
}

// NewForexCalendar creates a forex calendar
func NewForexCalendar() *ForexCalendar {
	return &ForexCalendar{loc: newYork()}
}

func (c *ForexCalendar) IsOpen(_ string, at time.Time) bool {
	local := at.In(c.loc)

	switch local.Weekday() {
	case time.Saturday:
		return false
	case time.Sunday:
		return local.Hour() >= 17
	case time.Friday:
		return local.Hour() < 17
	default:
		return true
	}
}
