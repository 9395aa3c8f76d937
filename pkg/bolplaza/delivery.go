package bolplaza

import (
	"regexp"
	"slices"
	"strconv"
	"time"
)

// HolidayFunc reports whether no parcels are delivered on day.
type HolidayFunc func(day time.Time) bool

// maxAdvance bounds every walk over the calendar.
const maxAdvance = 14

var timeOfDay = regexp.MustCompile(`^(2[0-3]|[01][0-9]):([0-5][0-9])$`)

// DeliveryOptions describe a carrier's week. A nil weekday slice takes the
// default, an empty one means every day is allowed.
type DeliveryOptions struct {
	// Cutoff is the last time of day, HH:MM, orders leave the warehouse.
	Cutoff       string
	NoDelivery   []time.Weekday
	NoPickup     []time.Weekday
	DeliveryTime string
}

// DefaultDeliveryOptions returns an 18:00 cutoff, no delivery on Sunday and
// Monday, no pickup in the weekend and a 12:00 delivery time.
func DefaultDeliveryOptions() DeliveryOptions {
	return DeliveryOptions{
		Cutoff:       "18:00",
		NoDelivery:   []time.Weekday{time.Sunday, time.Monday},
		NoPickup:     []time.Weekday{time.Saturday, time.Sunday},
		DeliveryTime: "12:00",
	}
}

func (o DeliveryOptions) withDefaults() DeliveryOptions {
	def := DefaultDeliveryOptions()
	if o.Cutoff == "" {
		o.Cutoff = def.Cutoff
	}
	if o.NoDelivery == nil {
		o.NoDelivery = def.NoDelivery
	}
	if o.NoPickup == nil {
		o.NoPickup = def.NoPickup
	}
	if o.DeliveryTime == "" {
		o.DeliveryTime = def.DeliveryTime
	}
	return o
}

// NextDeliveryDate estimates when an order placed at now arrives. isHoliday
// may be nil.
//
// The pickup walk advances a weekday label together with the candidate
// delivery day rather than deriving the label from a date.
func NextDeliveryDate(opts DeliveryOptions, now time.Time, isHoliday HolidayFunc) (time.Time, error) {
	opts = opts.withDefaults()
	if isHoliday == nil {
		isHoliday = func(time.Time) bool { return false }
	}

	deliverH, deliverM, err := parseTimeOfDay(opts.DeliveryTime)
	if err != nil {
		return time.Time{}, err
	}
	cutoffH, cutoffM, err := parseTimeOfDay(opts.Cutoff)
	if err != nil {
		return time.Time{}, err
	}

	cutoff := time.Date(now.Year(), now.Month(), now.Day(), cutoffH, cutoffM, 0, 0, now.Location())
	pickup := now
	next := now.AddDate(0, 0, 1)
	if !now.Before(cutoff) {
		pickup = now.AddDate(0, 0, 1)
		next = now.AddDate(0, 0, 2)
	}

	pickupDay := pickup.Weekday()
	for i := 0; slices.Contains(opts.NoPickup, pickupDay); i++ {
		if i == maxAdvance {
			return time.Time{}, &UnreachableDeliveryDateError{Stage: "pickup", Iterations: maxAdvance}
		}
		next = next.AddDate(0, 0, 1)
		pickupDay = (pickupDay + 1) % 7
	}

	if next, err = skipHolidays(next, isHoliday); err != nil {
		return time.Time{}, err
	}

	for i := 0; slices.Contains(opts.NoDelivery, next.Weekday()); i++ {
		if i == maxAdvance {
			return time.Time{}, &UnreachableDeliveryDateError{Stage: "delivery", Iterations: maxAdvance}
		}
		next = next.AddDate(0, 0, 1)
	}

	if next, err = skipHolidays(next, isHoliday); err != nil {
		return time.Time{}, err
	}

	return time.Date(next.Year(), next.Month(), next.Day(), deliverH, deliverM, 0, 0, next.Location()), nil
}

func skipHolidays(day time.Time, isHoliday HolidayFunc) (time.Time, error) {
	for i := 0; isHoliday(day); i++ {
		if i == maxAdvance {
			return time.Time{}, &UnreachableDeliveryDateError{Stage: "non-holiday", Iterations: maxAdvance}
		}
		day = day.AddDate(0, 0, 1)
	}
	return day, nil
}

func parseTimeOfDay(s string) (hour, minute int, err error) {
	m := timeOfDay.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, &InvalidTimeFormatError{Value: s}
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}
