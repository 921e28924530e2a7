// Package simclock tracks simulated time (§4.1): the current simulated
// date, the current day index, and cumulative simulated hours, advanced
// independently of wall-clock time as the engine steps.
package simclock

import "time"

// Clock is the simulation's internal notion of time. Day 0 is the
// configured start date; Advance moves it forward by whole or fractional
// days depending on the run mode.
type Clock struct {
	start          time.Time
	currentDay     int
	cumulativeHours float64
}

// New returns a Clock anchored at startDate, day 0.
func New(startDate time.Time) *Clock {
	return &Clock{start: startDate}
}

// CurrentDate returns the simulated calendar date.
func (c *Clock) CurrentDate() time.Time {
	return c.start.AddDate(0, 0, c.currentDay)
}

// CurrentDay returns the zero-based day index since start.
func (c *Clock) CurrentDay() int { return c.currentDay }

// CumulativeHours returns total simulated hours elapsed since start.
func (c *Clock) CumulativeHours() float64 { return c.cumulativeHours }

// AdvanceDay moves the clock forward by one full day (fast mode).
func (c *Clock) AdvanceDay() {
	c.currentDay++
	c.cumulativeHours += 24
}

// AdvanceHours moves the clock forward by a fractional number of hours
// (detailed mode), rolling currentDay over whenever 24 hours accumulate.
func (c *Clock) AdvanceHours(hours float64) {
	c.cumulativeHours += hours
	c.currentDay = int(c.cumulativeHours / 24)
}

// DayOfWeek returns the simulated date's weekday, used by the event
// generator's day-of-week modulation curve.
func (c *Clock) DayOfWeek() time.Weekday { return c.CurrentDate().Weekday() }

// HourOfDay returns the current hour within the current simulated day.
func (c *Clock) HourOfDay() float64 {
	return c.cumulativeHours - float64(c.currentDay)*24
}

// Month returns the simulated date's calendar month, used by the
// seasonal modulation curve.
func (c *Clock) Month() time.Month { return c.CurrentDate().Month() }
