package entities

import "fmt"

// Calendar simplifications: a 365-day year with days numbered 1-365 and no
// months. Minutes carry into hours, hours into days, days into years.
const (
	MinutesPerHour = 60
	HoursPerDay    = 24
	DaysPerYear    = 365
)

// Default in-game epoch for a new session: noon on the first day of 1491.
const (
	DefaultYear   = 1491
	DefaultDay    = 1
	DefaultHour   = 12
	DefaultMinute = 0
)

// GameClock tracks in-world elapsed time. All fields are non-negative;
// Day is 1-based.
type GameClock struct {
	Year   int `json:"year"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// NewGameClock returns a clock set to the default epoch
func NewGameClock() GameClock {
	return GameClock{
		Year:   DefaultYear,
		Day:    DefaultDay,
		Hour:   DefaultHour,
		Minute: DefaultMinute,
	}
}

// Advance adds the given amounts to the clock and normalizes: minutes carry
// into hours, hours into days, and days into years. All amounts must be
// non-negative; callers validate before advancing.
func (c *GameClock) Advance(years, days, hours, minutes int) {
	c.Minute += minutes
	c.Hour += c.Minute / MinutesPerHour
	c.Minute %= MinutesPerHour

	c.Hour += hours
	c.Day += c.Hour / HoursPerDay
	c.Hour %= HoursPerDay

	c.Day += days
	c.Year += (c.Day - 1) / DaysPerYear
	c.Day = (c.Day-1)%DaysPerYear + 1

	c.Year += years
}

// String renders the clock as "Year 1491, Day 1, 12:00"
func (c GameClock) String() string {
	return fmt.Sprintf("Year %d, Day %d, %02d:%02d", c.Year, c.Day, c.Hour, c.Minute)
}
