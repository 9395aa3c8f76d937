package bolplaza

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Planner holds the delivery week of each carrier a retailer ships with and
// estimates delivery dates per carrier.
type Planner struct {
	carriers  map[Transporter]DeliveryOptions
	isHoliday HolidayFunc
	mu        sync.RWMutex
}

// NewPlanner creates an empty planner. isHoliday may be nil.
func NewPlanner(isHoliday HolidayFunc) *Planner {
	return &Planner{
		carriers:  make(map[Transporter]DeliveryOptions),
		isHoliday: isHoliday,
	}
}

// Register sets the delivery options of carrier, replacing earlier ones.
func (p *Planner) Register(carrier Transporter, opts DeliveryOptions) error {
	if !carrier.IsValid() {
		return &InvalidEnumError{Field: "Transporter", Value: string(carrier), Allowed: names(Transporters)}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.carriers[carrier] = opts
	return nil
}

// Get returns the delivery options of carrier.
func (p *Planner) Get(carrier Transporter) (DeliveryOptions, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if opts, ok := p.carriers[carrier]; ok {
		return opts, nil
	}
	return DeliveryOptions{}, fmt.Errorf("%w: %s", ErrCarrierNotFound, carrier)
}

// All returns the options of every registered carrier.
func (p *Planner) All() map[Transporter]DeliveryOptions {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make(map[Transporter]DeliveryOptions, len(p.carriers))
	for c, opts := range p.carriers {
		result[c] = opts
	}
	return result
}

// Names returns the registered carriers, sorted.
func (p *Planner) Names() []Transporter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make([]Transporter, 0, len(p.carriers))
	for c := range p.carriers {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Count returns the number of registered carriers.
func (p *Planner) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.carriers)
}

// Estimate returns the expected delivery date for an order handed to carrier
// at now. Unregistered carriers use DefaultDeliveryOptions.
func (p *Planner) Estimate(carrier Transporter, now time.Time) (time.Time, error) {
	if !carrier.IsValid() {
		return time.Time{}, &InvalidEnumError{Field: "Transporter", Value: string(carrier), Allowed: names(Transporters)}
	}
	opts, err := p.Get(carrier)
	if err != nil {
		opts = DefaultDeliveryOptions()
	}
	return NextDeliveryDate(opts, now, p.isHoliday)
}
