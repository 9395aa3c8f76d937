package bolplaza

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"time"
)

// dateTimeLayout is the timestamp format of shipment and cancellation
// requests.
const dateTimeLayout = "2006-01-02T15:04:05-07:00"

// errDetached is returned by orders and items built outside a Client.
var errDetached = errors.New("order is not attached to an api client")

type transport struct {
	TransporterCode Transporter `xml:"TransporterCode"`
	TrackAndTrace   string      `xml:"TrackAndTrace"`
}

type shipmentRequest struct {
	XMLName              xml.Name   `xml:"https://plazaapi.bol.com/services/xsd/v2/plazaapi.xsd ShipmentRequest"`
	OrderItemID          string     `xml:"OrderItemId"`
	ShipmentReference    string     `xml:"ShipmentReference"`
	DateTime             string     `xml:"DateTime"`
	ExpectedDeliveryDate string     `xml:"ExpectedDeliveryDate"`
	Transport            *transport `xml:"Transport,omitempty"`
}

type cancellation struct {
	XMLName    xml.Name           `xml:"https://plazaapi.bol.com/services/xsd/v2/plazaapi.xsd Cancellation"`
	DateTime   string             `xml:"DateTime"`
	ReasonCode CancellationReason `xml:"ReasonCode"`
}

// ShipmentXML encodes the shipment of one item. The transport block is only
// sent when both carrier and track and trace code are known.
func ShipmentXML(item *OrderItem, now, expected time.Time, carrier Transporter, trackAndTrace string) ([]byte, error) {
	if carrier != "" && !carrier.IsValid() {
		return nil, &InvalidEnumError{Field: "Transporter", Value: string(carrier), Allowed: names(Transporters)}
	}

	req := shipmentRequest{
		OrderItemID:          item.OrderItemID,
		ShipmentReference:    item.Title,
		DateTime:             now.Format(dateTimeLayout),
		ExpectedDeliveryDate: expected.Format(dateTimeLayout),
	}
	if carrier != "" && trackAndTrace != "" {
		req.Transport = &transport{TransporterCode: carrier, TrackAndTrace: trackAndTrace}
	}
	return encodeXML(req)
}

// CancellationXML encodes the cancellation of one item.
func CancellationXML(now time.Time, reason CancellationReason) ([]byte, error) {
	if !reason.IsValid() {
		return nil, &InvalidEnumError{Field: "ReasonCode", Value: string(reason), Allowed: names(CancellationReasons)}
	}
	return encodeXML(cancellation{DateTime: now.Format(dateTimeLayout), ReasonCode: reason})
}

// Ship confirms the shipment of every item of the order, one request per
// item. The carrier is validated before anything is sent.
func (o *Order) Ship(ctx context.Context, expected time.Time, carrier Transporter, trackAndTrace string) ([]*Response, error) {
	if o.api == nil {
		return nil, errDetached
	}
	if carrier != "" && !carrier.IsValid() {
		return nil, &InvalidEnumError{Field: "Transporter", Value: string(carrier), Allowed: names(Transporters)}
	}

	now := clock(o.now)()
	responses := make([]*Response, 0, len(o.Items))
	for _, item := range o.Items {
		body, err := ShipmentXML(item, now, expected, carrier, trackAndTrace)
		if err != nil {
			return responses, err
		}
		resp, err := o.api.Execute(WithOperation(ctx, "ship"), http.MethodPost, endpointShipments, body)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// Cancel cancels the item for reason.
func (i *OrderItem) Cancel(ctx context.Context, reason CancellationReason) (*Response, error) {
	if i.api == nil {
		return nil, errDetached
	}
	return cancelItem(ctx, i.api, clock(i.now)(), i.OrderItemID, reason)
}

func cancelItem(ctx context.Context, api APIClient, now time.Time, orderItemID string, reason CancellationReason) (*Response, error) {
	body, err := CancellationXML(now, reason)
	if err != nil {
		return nil, err
	}
	endpoint := expand(endpointCancellation, "id", orderItemID)
	return api.Execute(WithOperation(ctx, "cancel"), http.MethodPut, endpoint, body)
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
