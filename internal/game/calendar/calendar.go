// Package calendar implements the Aventurian in-game calendar owned by a
// rule-system backend: bounded time-of-day and date fields with saturating
// setters and carry propagation between units.
package calendar

import "fmt"

const (
	MinutesPerHour = 60
	HoursPerDay    = 24
	DaysPerWeek    = 7
	DaysPerMonth   = 30
	MonthsPerYear  = 12
)

// Unit is a unit of game time.
type Unit int

const (
	UnitMinutes Unit = iota
	UnitHours
	UnitDays
	UnitWeeks
	UnitMonths
	UnitYears
)

// Span is an amount of game time in a single unit. Negative spans move the
// calendar backwards.
type Span struct {
	Unit   Unit
	Amount int
}

// Minutes returns a span of n minutes.
func Minutes(n int) Span { return Span{UnitMinutes, n} }

// Hours returns a span of n hours.
func Hours(n int) Span { return Span{UnitHours, n} }

// Days returns a span of n days.
func Days(n int) Span { return Span{UnitDays, n} }

// Weeks returns a span of n weeks.
func Weeks(n int) Span { return Span{UnitWeeks, n} }

// Months returns a span of n months.
func Months(n int) Span { return Span{UnitMonths, n} }

// Years returns a span of n years.
func Years(n int) Span { return Span{UnitYears, n} }

// TimePeriod is a named phase of the day.
type TimePeriod string

const (
	PeriodMidnight  TimePeriod = "Midnight"
	PeriodLateNight TimePeriod = "Late Night"
	PeriodDawn      TimePeriod = "Dawn"
	PeriodMorning   TimePeriod = "Morning"
	PeriodAfternoon TimePeriod = "Afternoon"
	PeriodDusk      TimePeriod = "Dusk"
	PeriodEvening   TimePeriod = "Evening"
	PeriodNight     TimePeriod = "Night"
)

var monthNames = [MonthsPerYear]string{
	"Praios", "Rondra", "Efferd", "Travia", "Boron", "Hesinde",
	"Firun", "Tsa", "Phex", "Peraine", "Ingerimm", "Rahja",
}

// Calendar holds the current in-game date and time.
//
// Invariant: hour in [0, 23], minute in [0, 59], day in [1, 30], month in [1, 12].
type Calendar struct {
	hour   int
	minute int
	day    int
	month  int
	year   int
}

// New returns a calendar set to the given date and time; every field is
// saturated into its legal range.
func New(day, month, year, hour, minute int) *Calendar {
	c := &Calendar{}
	c.SetDate(day, month, year)
	c.SetTime(hour, minute)
	return c
}

// Default returns a calendar at 1 Praios 1000, 08:00.
func Default() *Calendar {
	return New(1, 1, 1000, 8, 0)
}

// Time returns (hour, minute).
func (c *Calendar) Time() (int, int) { return c.hour, c.minute }

// SetTime sets the time of day, clamping hour to [0, 23] and minute to [0, 59].
func (c *Calendar) SetTime(hour, minute int) {
	c.hour = clamp(hour, 0, HoursPerDay-1)
	c.minute = clamp(minute, 0, MinutesPerHour-1)
}

// Date returns (day, month, year).
func (c *Calendar) Date() (int, int, int) { return c.day, c.month, c.year }

// SetDate sets the date, clamping day to [1, 30] and month to [1, 12].
func (c *Calendar) SetDate(day, month, year int) {
	c.day = clamp(day, 1, DaysPerMonth)
	c.month = clamp(month, 1, MonthsPerYear)
	c.year = year
}

// Advance moves the calendar by s, carrying overflow into the next larger unit.
func (c *Calendar) Advance(s Span) {
	switch s.Unit {
	case UnitMinutes:
		total := c.minute + s.Amount
		carry := total / MinutesPerHour
		c.minute = total % MinutesPerHour
		if c.minute < 0 {
			carry--
			c.minute += MinutesPerHour
		}
		c.Advance(Hours(carry))
	case UnitHours:
		total := c.hour + s.Amount
		carry := total / HoursPerDay
		c.hour = total % HoursPerDay
		if c.hour < 0 {
			carry--
			c.hour += HoursPerDay
		}
		c.Advance(Days(carry))
	case UnitDays:
		total := c.day - 1 + s.Amount
		carry := total / DaysPerMonth
		c.day = total%DaysPerMonth + 1
		if c.day < 1 {
			carry--
			c.day += DaysPerMonth
		}
		c.Advance(Months(carry))
	case UnitWeeks:
		c.Advance(Days(DaysPerWeek * s.Amount))
	case UnitMonths:
		total := c.month - 1 + s.Amount
		carry := total / MonthsPerYear
		c.month = total%MonthsPerYear + 1
		if c.month < 1 {
			carry--
			c.month += MonthsPerYear
		}
		c.Advance(Years(carry))
	case UnitYears:
		c.year += s.Amount
	default:
		panic(fmt.Sprintf("calendar: unknown unit %d", s.Unit))
	}
}

// MonthName returns the Aventurian name of month m, or "Undefined".
func MonthName(m int) string {
	if m < 1 || m > MonthsPerYear {
		return "Undefined"
	}
	return monthNames[m-1]
}

// Morning returns the conventional start of the day.
func Morning() (int, int) { return 8, 0 }

// Noon returns midday.
func Noon() (int, int) { return 12, 0 }

// Evening returns the conventional start of the evening.
func Evening() (int, int) { return 18, 0 }

// Period returns the named phase of the current hour.
func (c *Calendar) Period() TimePeriod {
	h := c.hour
	switch {
	case h == 0:
		return PeriodMidnight
	case h >= 1 && h <= 4:
		return PeriodLateNight
	case h >= 5 && h <= 6:
		return PeriodDawn
	case h >= 7 && h <= 11:
		return PeriodMorning
	case h >= 12 && h <= 16:
		return PeriodAfternoon
	case h >= 17 && h <= 18:
		return PeriodDusk
	case h >= 19 && h <= 21:
		return PeriodEvening
	default: // 22-23
		return PeriodNight
	}
}

// String formats the calendar as "1. Praios 1000, 08:00".
func (c *Calendar) String() string {
	return fmt.Sprintf("%d. %s %d, %02d:%02d", c.day, MonthName(c.month), c.year, c.hour, c.minute)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
