package bolplaza

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockCall is a request received by MockAPIClient.
type MockCall struct {
	Method   string
	Endpoint string
	Body     []byte
}

// MockAPIClient is a mock implementation of APIClient for testing and demos.
// Without OnExecute it answers with canned Plaza responses.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnExecute func(ctx context.Context, method, endpoint string, body []byte) (*Response, error)

	mu    sync.Mutex
	calls []MockCall
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Calls returns the requests received so far.
func (m *MockAPIClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// Execute records the call and returns a canned response.
func (m *MockAPIClient) Execute(ctx context.Context, method, endpoint string, body []byte) (*Response, error) {
	method = strings.ToUpper(method)

	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Method: method, Endpoint: endpoint, Body: body})
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return nil, &TransportError{Method: method, Endpoint: endpoint, Cause: ctx.Err()}
		}
	}

	if m.SimulateErrors {
		return nil, NewAPIError("41000").WithStatusCode(http.StatusInternalServerError)
	}

	if m.OnExecute != nil {
		return m.OnExecute(ctx, method, endpoint, body)
	}

	return mockResponse(method, endpoint)
}

func mockResponse(method, endpoint string) (*Response, error) {
	path, _, _ := strings.Cut(endpoint, "?")

	switch {
	case method == http.MethodGet && path == endpointOrders:
		return mockXML(http.StatusOK, mockOrdersXML)
	case method == http.MethodGet && path == endpointReturns:
		return mockXML(http.StatusOK, mockReturnsXML)
	case method == http.MethodGet && path == endpointOffersExport:
		return mockXML(http.StatusOK, fmt.Sprintf(mockExportXML, LiveURL, uuid.New().String()))
	case method == http.MethodGet && strings.HasPrefix(path, endpointOffersExport+"/"):
		return mockCSV(mockOffersCSV), nil
	case method == http.MethodGet && path == endpointReductions:
		return mockCSV(mockReductionsCSV), nil
	case method == http.MethodGet && strings.HasPrefix(path, endpointOffers):
		ean := strings.TrimPrefix(path, endpointOffers)
		return mockXML(http.StatusOK, fmt.Sprintf(mockOfferXML, ean))
	case method == http.MethodPost && path == endpointShipments,
		method == http.MethodPut && strings.HasSuffix(path, "/cancellation"):
		return mockXML(http.StatusCreated, fmt.Sprintf(mockProcessStatusXML, uuid.New().ID()))
	case strings.HasPrefix(path, "/offers/"):
		return &Response{StatusCode: http.StatusAccepted, Tree: Node{}}, nil
	}
	return &Response{StatusCode: http.StatusOK, ContentType: ContentType, Tree: Node{}}, nil
}

func mockXML(status int, body string) (*Response, error) {
	tree, err := ParseXML([]byte(body))
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: status, ContentType: ContentType, Tree: tree, Raw: []byte(body)}, nil
}

func mockCSV(body string) *Response {
	return &Response{StatusCode: http.StatusOK, ContentType: "text/csv", Tree: Node{}, Raw: []byte(body)}
}

const mockOrdersXML = `<?xml version="1.0" encoding="UTF-8"?>
<bns:Orders xmlns:bns="https://plazaapi.bol.com/services/xsd/v2/plazaapi.xsd">
  <bns:Order>
    <bns:OrderId>4123456789</bns:OrderId>
    <bns:DateTimeCustomer>2026-10-13T10:58:24+02:00</bns:DateTimeCustomer>
    <bns:CustomerDetails>
      <bns:ShipmentDetails>
        <bns:SalutationCode>01</bns:SalutationCode>
        <bns:Firstname>Jan</bns:Firstname>
        <bns:Surname>Janssen</bns:Surname>
        <bns:Streetname>Dorpsstraat</bns:Streetname>
        <bns:Housenumber>1</bns:Housenumber>
        <bns:ZipCode>1234 AB</bns:ZipCode>
        <bns:City>Utrecht</bns:City>
        <bns:CountryCode>NL</bns:CountryCode>
        <bns:Email>jan@example.com</bns:Email>
      </bns:ShipmentDetails>
      <bns:BillingDetails>
        <bns:Firstname>Jan</bns:Firstname>
        <bns:Surname>Janssen</bns:Surname>
        <bns:Streetname>Dorpsstraat</bns:Streetname>
        <bns:Housenumber>1</bns:Housenumber>
        <bns:ZipCode>1234 AB</bns:ZipCode>
        <bns:City>Utrecht</bns:City>
        <bns:CountryCode>NL</bns:CountryCode>
      </bns:BillingDetails>
    </bns:CustomerDetails>
    <bns:OrderItems>
      <bns:OrderItem>
        <bns:OrderItemId>2012345678</bns:OrderItemId>
        <bns:EAN>8712626055143</bns:EAN>
        <bns:OfferReference>REF-1</bns:OfferReference>
        <bns:Title>Koffiebonen 1kg</bns:Title>
        <bns:Quantity>2</bns:Quantity>
        <bns:OfferPrice>19.95</bns:OfferPrice>
        <bns:TransactionFee>2.43</bns:TransactionFee>
        <bns:PromisedDeliveryDate>2026-10-15+02:00</bns:PromisedDeliveryDate>
        <bns:OfferCondition>NEW</bns:OfferCondition>
        <bns:CancelRequest>false</bns:CancelRequest>
      </bns:OrderItem>
      <bns:OrderItem>
        <bns:OrderItemId>2012345679</bns:OrderItemId>
        <bns:EAN>8712626055150</bns:EAN>
        <bns:OfferReference>REF-2</bns:OfferReference>
        <bns:Title>Filterpapier</bns:Title>
        <bns:Quantity>1</bns:Quantity>
        <bns:OfferPrice>3.50</bns:OfferPrice>
        <bns:TransactionFee>0.99</bns:TransactionFee>
        <bns:PromisedDeliveryDate>2026-10-15+02:00</bns:PromisedDeliveryDate>
        <bns:OfferCondition>NEW</bns:OfferCondition>
        <bns:CancelRequest>TRUE</bns:CancelRequest>
      </bns:OrderItem>
    </bns:OrderItems>
  </bns:Order>
</bns:Orders>`

const mockReturnsXML = `<?xml version="1.0" encoding="UTF-8"?>
<ns1:ReturnItems xmlns:ns1="https://plazaapi.bol.com/services/xsd/v2/plazaapi.xsd">
  <ns1:Item>
    <ns1:ReturnNumber>31234567</ns1:ReturnNumber>
    <ns1:OrderId>4123456789</ns1:OrderId>
    <ns1:ShipmentId>541234567</ns1:ShipmentId>
    <ns1:EAN>8712626055143</ns1:EAN>
    <ns1:Title>Koffiebonen 1kg</ns1:Title>
    <ns1:Quantity>1</ns1:Quantity>
    <ns1:ReturnDateAnnouncement>2026-10-12+02:00</ns1:ReturnDateAnnouncement>
    <ns1:ReturnReason>DEFECT</ns1:ReturnReason>
    <ns1:ReturnReasonComments>Verpakking kapot</ns1:ReturnReasonComments>
    <ns1:CustomerDetails>
      <ns1:FirstName>Piet</ns1:FirstName>
      <ns1:Surname>Pietersen</ns1:Surname>
      <ns1:City>Amsterdam</ns1:City>
      <ns1:CountryCode>NL</ns1:CountryCode>
      <ns1:Email><ns1:Masked>true</ns1:Masked></ns1:Email>
    </ns1:CustomerDetails>
  </ns1:Item>
</ns1:ReturnItems>`

const mockExportXML = `<?xml version="1.0" encoding="UTF-8"?>
<OfferFile xmlns="https://plazaapi.bol.com/offers/xsd/api-2.0.xsd">
  <Url>%s/offers/v2/export/%s.csv</Url>
</OfferFile>`

const mockOfferXML = `<?xml version="1.0" encoding="UTF-8"?>
<RetrieveOffersResponse xmlns="https://plazaapi.bol.com/offers/xsd/api-2.0.xsd">
  <RetailerOffers>
    <RetailerOffer>
      <EAN>%s</EAN>
      <Condition>NEW</Condition>
      <Price>19.95</Price>
      <DeliveryCode>24uurs-18</DeliveryCode>
      <QuantityInStock>25</QuantityInStock>
      <Publish>true</Publish>
      <ReferenceCode>REF-1</ReferenceCode>
    </RetailerOffer>
  </RetailerOffers>
</RetrieveOffersResponse>`

const mockProcessStatusXML = `<?xml version="1.0" encoding="UTF-8"?>
<ProcessStatus xmlns="https://plazaapi.bol.com/services/xsd/v2/plazaapi.xsd">
  <id>%d</id>
  <eventType>CONFIRM_SHIPMENT</eventType>
  <status>PENDING</status>
</ProcessStatus>`

const mockOffersCSV = "OfferId,Reference,Stock,Price,Publish,Published,EAN,Condition\n" +
	"1001,REF-1,25,19.95,TRUE,TRUE,8712626055143,NEW\n" +
	"1002,REF-2,0,3.50,FALSE,FALSE,8712626055150,NEW\n"

const mockReductionsCSV = "EAN,MaximumPrice,ReductionAmount,StartDate,EndDate\n" +
	"8712626055143,21.95,1.50,2026-10-01,2026-10-31\n"

var _ APIClient = (*MockAPIClient)(nil)
