package holidays_test

import (
	"testing"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/stretchr/testify/assert"
	"github.com/tournevent/bolplaza/pkg/bolplaza/holidays"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 10, 0, 0, 0, time.UTC)
}

func TestNetherlands(t *testing.T) {
	isHoliday := holidays.Netherlands()

	assert.True(t, isHoliday(day(time.January, 1)))
	assert.True(t, isHoliday(day(time.April, 27)))
	assert.True(t, isHoliday(day(time.December, 25)))
	assert.True(t, isHoliday(day(time.December, 26)))

	assert.False(t, isHoliday(day(time.October, 13)))
	assert.False(t, isHoliday(day(time.December, 24)))
}

func TestCalendar(t *testing.T) {
	closing := &cal.Holiday{Name: "Inventory", Month: time.October, Day: 13, Func: cal.CalcDayOfMonth}
	isHoliday := holidays.Calendar(closing)

	assert.True(t, isHoliday(day(time.October, 13)))
	assert.False(t, isHoliday(day(time.December, 25)))
}

func TestCalendar_Empty(t *testing.T) {
	isHoliday := holidays.Calendar()
	assert.False(t, isHoliday(day(time.December, 25)))
}
