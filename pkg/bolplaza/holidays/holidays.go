// Package holidays provides holiday lookups for delivery date estimates.
package holidays

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/nl"
)

// Netherlands reports Dutch public holidays, on the day itself or the day
// it is observed.
func Netherlands() func(time.Time) bool {
	return Calendar(nl.Holidays...)
}

// Calendar reports the given holidays.
func Calendar(holidays ...*cal.Holiday) func(time.Time) bool {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(holidays...)
	return func(day time.Time) bool {
		actual, observed, _ := c.IsHoliday(day)
		return actual || observed
	}
}
