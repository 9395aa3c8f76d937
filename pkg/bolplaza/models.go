package bolplaza

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressFields lists the fields an Address may carry, in wire order.
var AddressFields = []string{
	"SalutationCode", "Firstname", "Surname", "Streetname", "Housenumber",
	"HousenumberExtended", "AddressSupplement", "ExtraAddressInformation",
	"ZipCode", "City", "CountryCode", "Email", "DeliveryPhoneNumber",
	"Company", "VatNumber",
}

// Address is a customer shipping or billing address. Every field is
// optional; Has and Get distinguish an absent field from an empty one.
type Address struct {
	values map[string]string
}

// NewAddress builds an Address from field values. Unknown field names are
// ignored.
func NewAddress(values map[string]string) *Address {
	a := &Address{values: make(map[string]string, len(values))}
	for _, f := range AddressFields {
		if v, ok := values[f]; ok {
			a.values[f] = v
		}
	}
	return a
}

// Has reports whether field is set.
func (a *Address) Has(field string) bool {
	_, ok := a.Get(field)
	return ok
}

// Get returns the value of field and whether it is set. Unknown fields are
// never set.
func (a *Address) Get(field string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[field]
	return v, ok
}

// Value returns the value of field or the empty string.
func (a *Address) Value(field string) string {
	v, _ := a.Get(field)
	return v
}

func (a *Address) Firstname() string   { return a.Value("Firstname") }
func (a *Address) Surname() string     { return a.Value("Surname") }
func (a *Address) Streetname() string  { return a.Value("Streetname") }
func (a *Address) Housenumber() string { return a.Value("Housenumber") }
func (a *Address) ZipCode() string     { return a.Value("ZipCode") }
func (a *Address) City() string        { return a.Value("City") }
func (a *Address) CountryCode() string { return a.Value("CountryCode") }
func (a *Address) Email() string       { return a.Value("Email") }
func (a *Address) Company() string     { return a.Value("Company") }

// Order is an open order with its items. Ship uses the API capability the
// order was mapped with.
type Order struct {
	ID               string
	DateTimeCustomer time.Time
	ShippingAddress  *Address
	BillingAddress   *Address
	Items            []*OrderItem

	api APIClient
	now func() time.Time
}

// OrderItem is one line of an Order.
type OrderItem struct {
	OrderItemID          string
	EAN                  string
	OfferReference       string
	Title                string
	Quantity             int
	OfferPrice           decimal.Decimal
	TransactionFee       decimal.Decimal
	PromisedDeliveryDate string
	OfferCondition       string
	CancelRequest        bool

	api APIClient
	now func() time.Time
}

// Return is a returned item awaiting handling.
type Return struct {
	ReturnNumber           string
	OrderID                string
	ShipmentID             string
	EAN                    string
	Title                  string
	Quantity               int
	ReturnDateAnnouncement string
	ReturnReason           string
	ReturnReasonComments   string
	CustomerDetails        *Address
}

// Record is one row of a CSV export, keyed by the header row. Stock is an
// int, Price a float64, Publish and Published are bools, anything else a
// string.
type Record map[string]any

// String returns column key as a string.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmtValue(v)
	}
}

// Int returns column key if it holds an int.
func (r Record) Int(key string) int {
	v, _ := r[key].(int)
	return v
}

// Float returns column key if it holds a float64.
func (r Record) Float(key string) float64 {
	v, _ := r[key].(float64)
	return v
}

// Bool returns column key if it holds a bool.
func (r Record) Bool(key string) bool {
	v, _ := r[key].(bool)
	return v
}
