package bolplaza

import "slices"

// Condition is the state of the product an offer sells.
type Condition string

const (
	ConditionNew        Condition = "NEW"
	ConditionAsNew      Condition = "AS_NEW"
	ConditionGood       Condition = "GOOD"
	ConditionReasonable Condition = "REASONABLE"
	ConditionModerate   Condition = "MODERATE"
)

// Conditions lists every accepted Condition.
var Conditions = []Condition{
	ConditionNew, ConditionAsNew, ConditionGood, ConditionReasonable, ConditionModerate,
}

// IsValid reports whether c is a known condition.
func (c Condition) IsValid() bool {
	return slices.Contains(Conditions, c)
}

// DeliveryCode is the shipping-speed promise of an offer.
type DeliveryCode string

// DeliveryCodes lists every accepted DeliveryCode. The 24uurs codes carry
// the latest order hour for next-day delivery.
var DeliveryCodes = []DeliveryCode{
	"24uurs-23", "24uurs-22", "24uurs-21", "24uurs-20", "24uurs-19", "24uurs-18",
	"24uurs-17", "24uurs-16", "24uurs-15", "24uurs-14", "24uurs-13", "24uurs-12",
	"1-2d", "2-3d", "3-5d", "4-8d", "1-8d",
}

// IsValid reports whether d is a known delivery code.
func (d DeliveryCode) IsValid() bool {
	return slices.Contains(DeliveryCodes, d)
}

// Transporter is a carrier code accepted in shipment requests.
type Transporter string

// Transporters lists every accepted Transporter.
var Transporters = []Transporter{
	"BPOST_BRIEF", "BRIEFPOST", "GLS", "FEDEX_NL",
	"DHLFORYOU", "UPS", "KIALA_BE", "KIALA_NL",
	"DYL", "DPD_NL", "DPD_BE", "BPOST_BE",
	"FEDEX_BE", "OTHER", "DHL", "SLV",
	"TNT", "TNT_EXTRA", "TNT_BRIEF",
}

// IsValid reports whether t is a known transporter.
func (t Transporter) IsValid() bool {
	return slices.Contains(Transporters, t)
}

// CancellationReason explains why an order item is cancelled.
type CancellationReason string

// CancellationReasons lists every accepted CancellationReason.
var CancellationReasons = []CancellationReason{
	"REQUESTED_BY_CUSTOMER", "OUT_OF_STOCK", "OUT_OF_SYNC", "BAD_CONDITION",
	"HIGHER_SHIPCOST", "INCORRECT_PRICE", "NOT_AVAIL_IN_TIME", "NO_BOL_GUARANTEE",
	"ORDERED_TWICE", "RETAIN_ITEM", "TECH_ISSUE", "UNFINDABLE_ITEM", "OTHER",
}

// IsValid reports whether r is a known cancellation reason.
func (r CancellationReason) IsValid() bool {
	return slices.Contains(CancellationReasons, r)
}

// FulfilmentMethod filters shipments by who fulfils them.
type FulfilmentMethod string

const (
	FulfilmentByRetailer FulfilmentMethod = "FBR"
	FulfilmentByBol      FulfilmentMethod = "FBB"
	FulfilmentAll        FulfilmentMethod = "ALL"
)

// IsValid reports whether f is a known fulfilment method.
func (f FulfilmentMethod) IsValid() bool {
	switch f {
	case FulfilmentByRetailer, FulfilmentByBol, FulfilmentAll:
		return true
	default:
		return false
	}
}

func names[T ~string](set []T) []string {
	out := make([]string, len(set))
	for i, s := range set {
		out[i] = string(s)
	}
	return out
}
