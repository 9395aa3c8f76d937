package bolplaza

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MapOrders converts an orders response into orders, keeping wire order for
// both orders and their items. A response without an Order element yields an
// empty slice.
func MapOrders(tree Node, api APIClient, now func() time.Time) []*Order {
	wire := tree.List("Order")
	orders := make([]*Order, 0, len(wire))
	for _, o := range wire {
		orders = append(orders, mapOrder(o, api, now))
	}
	return orders
}

func mapOrder(n Node, api APIClient, now func() time.Time) *Order {
	customer := n.Child("CustomerDetails")
	order := &Order{
		ID:               n.String("OrderId"),
		DateTimeCustomer: parseTimestamp(n.String("DateTimeCustomer")),
		ShippingAddress:  mapAddress(customer.Child("ShipmentDetails")),
		BillingAddress:   mapAddress(customer.Child("BillingDetails")),
		api:              api,
		now:              now,
	}

	for _, item := range n.Child("OrderItems").List("OrderItem") {
		order.Items = append(order.Items, mapOrderItem(item, api, now))
	}
	return order
}

func mapOrderItem(n Node, api APIClient, now func() time.Time) *OrderItem {
	return &OrderItem{
		OrderItemID:          n.String("OrderItemId"),
		EAN:                  n.String("EAN"),
		OfferReference:       n.String("OfferReference"),
		Title:                n.String("Title"),
		Quantity:             parseInt(n.String("Quantity")),
		OfferPrice:           parseDecimal(n.String("OfferPrice")),
		TransactionFee:       parseDecimal(n.String("TransactionFee")),
		PromisedDeliveryDate: n.String("PromisedDeliveryDate"),
		OfferCondition:       n.String("OfferCondition"),
		CancelRequest:        n.String("CancelRequest") == "TRUE",
		api:                  api,
		now:                  now,
	}
}

// MapReturns converts an unhandled-returns response into returns. A response
// without an Item element yields an empty slice.
func MapReturns(tree Node) []*Return {
	wire := tree.List("Item")
	returns := make([]*Return, 0, len(wire))
	for _, n := range wire {
		r := &Return{
			ReturnNumber:           n.String("ReturnNumber"),
			OrderID:                n.String("OrderId"),
			ShipmentID:             n.String("ShipmentId"),
			EAN:                    n.String("EAN"),
			Title:                  n.String("Title"),
			Quantity:               parseInt(n.String("Quantity")),
			ReturnDateAnnouncement: n.String("ReturnDateAnnouncement"),
			ReturnReason:           n.String("ReturnReason"),
			ReturnReasonComments:   n.String("ReturnReasonComments"),
		}
		if n.Has("CustomerDetails") {
			r.CustomerDetails = mapCustomerDetails(n.Child("CustomerDetails"))
		}
		returns = append(returns, r)
	}
	return returns
}

// mapCustomerDetails reads the return variant of an address: FirstName is
// spelled differently and Email sometimes arrives as a nested element.
func mapCustomerDetails(n Node) *Address {
	values := scalars(n)
	if v, ok := n.Lookup("FirstName"); ok {
		values["Firstname"] = v
	}
	if _, ok := n.Lookup("Email"); !ok {
		delete(values, "Email")
	}
	return NewAddress(values)
}

func mapAddress(n Node) *Address {
	return NewAddress(scalars(n))
}

// scalars collects the scalar children of n. A present element with nested
// content maps to the empty string.
func scalars(n Node) map[string]string {
	values := make(map[string]string, len(n))
	for key := range n {
		if strings.HasPrefix(key, "-") || key == "#text" {
			continue
		}
		values[key] = n.String(key)
	}
	return values
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseInt(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
