package bolplaza

import (
	"net/url"
	"strings"
)

// Base URLs of the Plaza API.
const (
	LiveURL = "https://plazaapi.bol.com"
	TestURL = "https://test-plazaapi.bol.com"
)

const (
	endpointOrders         = "/services/rest/orders/v2"
	endpointShipments      = "/services/rest/shipments/v2"
	endpointReturns        = "/services/rest/return-items/v2/unhandled"
	endpointCancellation   = "/services/rest/order-items/v2/:id/cancellation"
	endpointProcessStatus  = "/services/rest/orders/v2/process/:id"
	endpointShippingStatus = "/services/rest/process-status/v2/:id"
	endpointShippingLabel  = "/services/rest/transports/v2/:transportId/shipping-label/:labelId"
	endpointShippingLabels = "/services/rest/purchasable-shipping-labels/v2?orderItemId=:id"
	endpointCommission     = "/commission/v2/:ean"
	endpointPayments       = "/services/rest/payments/v2/:month"
	endpointOffersGet      = "/offers/v2/:ean"
	endpointOffers         = "/offers/v2/"
	endpointOffersExport   = "/offers/v2/export"
	endpointOfferV1        = "/offers/v1/:id"
	endpointOfferV1Stock   = "/offers/v1/:id/stock"
	endpointReductions     = "/reductions"
)

// expand substitutes the :name placeholders of template with the URL-encoded
// values given as name, value pairs.
func expand(template string, pairs ...string) string {
	args := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		args = append(args, ":"+pairs[i], url.QueryEscape(pairs[i+1]))
	}
	return strings.NewReplacer(args...).Replace(template)
}
