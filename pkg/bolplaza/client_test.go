package bolplaza_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/bolplaza/pkg/bolplaza"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*bolplaza.Client, *bolplaza.MockAPIClient) {
	t.Helper()
	mock := bolplaza.NewMockAPIClient()
	cfg := bolplaza.Config{
		PublicKey:  "public",
		PrivateKey: "private",
		Now:        fixedNow,
	}
	return bolplaza.NewWithAPIClient(cfg, mock, otelzap.New(zap.NewNop()), nil), mock
}

func TestNew_RequiresKeys(t *testing.T) {
	logger := otelzap.New(zap.NewNop())

	_, err := bolplaza.New(bolplaza.Config{PrivateKey: "private"}, logger, nil)
	var cfgErr *bolplaza.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "PublicKey", cfgErr.Field)

	_, err = bolplaza.New(bolplaza.Config{PublicKey: "public"}, logger, nil)
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "PrivateKey", cfgErr.Field)
	assert.ErrorIs(t, err, bolplaza.ErrConfig)
}

func TestNew_UseMock(t *testing.T) {
	client, err := bolplaza.New(bolplaza.Config{PublicKey: "public", PrivateKey: "private", UseMock: true}, otelzap.New(zap.NewNop()), nil)
	require.NoError(t, err)
	require.NotNil(t, client.Planner())

	orders, err := client.GetOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestClient_GetOrders(t *testing.T) {
	client, mock := newTestClient(t)

	orders, err := client.GetOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "4123456789", order.ID)
	assert.Equal(t, "Jan", order.ShippingAddress.Firstname())
	assert.Equal(t, "1234 AB", order.ShippingAddress.ZipCode())
	assert.Equal(t, "jan@example.com", order.ShippingAddress.Email())
	assert.False(t, order.BillingAddress.Has("Email"))

	require.Len(t, order.Items, 2)
	assert.Equal(t, "2012345678", order.Items[0].OrderItemID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("19.95").Equal(order.Items[0].OfferPrice))
	assert.False(t, order.Items[0].CancelRequest)
	assert.True(t, order.Items[1].CancelRequest)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/services/rest/orders/v2", calls[0].Endpoint)
}

func TestClient_GetOrder(t *testing.T) {
	client, _ := newTestClient(t)

	order, err := client.GetOrder(context.Background(), "4123456789")
	require.NoError(t, err)
	assert.Equal(t, "4123456789", order.ID)

	_, err = client.GetOrder(context.Background(), "1")
	assert.ErrorIs(t, err, bolplaza.ErrOrderNotFound)
}

func TestClient_GetOrdersEmpty(t *testing.T) {
	client, mock := newTestClient(t)
	mock.OnExecute = func(context.Context, string, string, []byte) (*bolplaza.Response, error) {
		return &bolplaza.Response{StatusCode: http.StatusOK, Tree: bolplaza.Node{}}, nil
	}

	orders, err := client.GetOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrder_Ship(t *testing.T) {
	client, mock := newTestClient(t)
	order, err := client.GetOrder(context.Background(), "4123456789")
	require.NoError(t, err)

	expected := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	responses, err := order.Ship(context.Background(), expected, "DHL", "3SABC123")
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, http.StatusCreated, responses[0].StatusCode)
	assert.Equal(t, "PENDING", responses[0].Tree.String("status"))

	calls := mock.Calls()
	require.Len(t, calls, 3)
	for _, call := range calls[1:] {
		assert.Equal(t, http.MethodPost, call.Method)
		assert.Equal(t, "/services/rest/shipments/v2", call.Endpoint)
	}

	body := string(calls[1].Body)
	assert.Contains(t, body, `<ShipmentRequest xmlns="https://plazaapi.bol.com/services/xsd/v2/plazaapi.xsd">`)
	assert.Contains(t, body, "<OrderItemId>2012345678</OrderItemId>")
	assert.Contains(t, body, "<ShipmentReference>Koffiebonen 1kg</ShipmentReference>")
	assert.Contains(t, body, "<DateTime>2026-10-13T08:00:00+00:00</DateTime>")
	assert.Contains(t, body, "<ExpectedDeliveryDate>2026-10-14T12:00:00+00:00</ExpectedDeliveryDate>")
	assert.Contains(t, body, "<Transport><TransporterCode>DHL</TransporterCode><TrackAndTrace>3SABC123</TrackAndTrace></Transport>")
	assert.Contains(t, string(calls[2].Body), "<OrderItemId>2012345679</OrderItemId>")
}

func TestOrder_ShipWithoutTrackAndTrace(t *testing.T) {
	client, mock := newTestClient(t)
	order, err := client.GetOrder(context.Background(), "4123456789")
	require.NoError(t, err)

	_, err = order.Ship(context.Background(), fixedNow(), "DHL", "")
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 3)
	assert.NotContains(t, string(calls[1].Body), "<Transport>")
}

func TestOrder_ShipInvalidCarrier(t *testing.T) {
	client, mock := newTestClient(t)
	order, err := client.GetOrder(context.Background(), "4123456789")
	require.NoError(t, err)

	_, err = order.Ship(context.Background(), fixedNow(), "POSTDUIF", "3SABC123")

	var enum *bolplaza.InvalidEnumError
	require.True(t, errors.As(err, &enum))
	assert.Equal(t, "Transporter", enum.Field)
	assert.Len(t, mock.Calls(), 1)
}

func TestOrder_ShipStopsOnError(t *testing.T) {
	client, mock := newTestClient(t)
	order, err := client.GetOrder(context.Background(), "4123456789")
	require.NoError(t, err)

	mock.OnExecute = func(context.Context, string, string, []byte) (*bolplaza.Response, error) {
		return nil, bolplaza.NewAPIError("41201").WithStatusCode(http.StatusBadRequest)
	}

	responses, err := order.Ship(context.Background(), fixedNow(), "", "")
	assert.ErrorIs(t, err, bolplaza.ErrAPI)
	assert.Empty(t, responses)
	assert.Len(t, mock.Calls(), 2)
}

func TestOrder_ShipDetached(t *testing.T) {
	order := &bolplaza.Order{ID: "1", Items: []*bolplaza.OrderItem{{OrderItemID: "10"}}}

	_, err := order.Ship(context.Background(), fixedNow(), "DHL", "x")
	assert.Error(t, err)
}

func TestOrderItem_Cancel(t *testing.T) {
	client, mock := newTestClient(t)
	order, err := client.GetOrder(context.Background(), "4123456789")
	require.NoError(t, err)

	resp, err := order.Items[0].Cancel(context.Background(), "OUT_OF_STOCK")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[1].Method)
	assert.Equal(t, "/services/rest/order-items/v2/2012345678/cancellation", calls[1].Endpoint)
	assert.Contains(t, string(calls[1].Body), "<Cancellation xmlns=\"https://plazaapi.bol.com/services/xsd/v2/plazaapi.xsd\">"+
		"<DateTime>2026-10-13T08:00:00+00:00</DateTime>"+
		"<ReasonCode>OUT_OF_STOCK</ReasonCode>"+
		"</Cancellation>")
}

func TestOrderItem_CancelInvalidReason(t *testing.T) {
	client, mock := newTestClient(t)
	order, err := client.GetOrder(context.Background(), "4123456789")
	require.NoError(t, err)

	_, err = order.Items[0].Cancel(context.Background(), "BORED")
	assert.ErrorIs(t, err, bolplaza.ErrValidation)
	assert.Len(t, mock.Calls(), 1)
}

func TestClient_CancelOrderItem(t *testing.T) {
	client, mock := newTestClient(t)

	_, err := client.CancelOrderItem(context.Background(), "2012345679", "REQUESTED_BY_CUSTOMER")
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/services/rest/order-items/v2/2012345679/cancellation", calls[0].Endpoint)
}

func TestClient_GetReturns(t *testing.T) {
	client, _ := newTestClient(t)

	returns, err := client.GetReturns(context.Background())
	require.NoError(t, err)
	require.Len(t, returns, 1)

	r := returns[0]
	assert.Equal(t, "31234567", r.ReturnNumber)
	assert.Equal(t, "DEFECT", r.ReturnReason)
	assert.Equal(t, "Piet", r.CustomerDetails.Firstname())
	assert.Equal(t, "Amsterdam", r.CustomerDetails.City())
	assert.False(t, r.CustomerDetails.Has("Email"))
}

func TestClient_Endpoints(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(c *bolplaza.Client) error
		want string
	}{
		{"shipments fallback", func(c *bolplaza.Client) error {
			_, err := c.GetShipments(ctx, 0, "XYZ")
			return err
		}, "/services/rest/shipments/v2?page=1&fulfilmentmethod=ALL"},
		{"shipments", func(c *bolplaza.Client) error {
			_, err := c.GetShipments(ctx, 3, bolplaza.FulfilmentByRetailer)
			return err
		}, "/services/rest/shipments/v2?page=3&fulfilmentmethod=FBR"},
		{"process status", func(c *bolplaza.Client) error {
			_, err := c.GetProcessStatus(ctx, "42")
			return err
		}, "/services/rest/orders/v2/process/42"},
		{"shipping status", func(c *bolplaza.Client) error {
			_, err := c.GetShippingStatus(ctx, "43")
			return err
		}, "/services/rest/process-status/v2/43"},
		{"shipping label", func(c *bolplaza.Client) error {
			_, err := c.GetShippingLabel(ctx, "t1", "l2")
			return err
		}, "/services/rest/transports/v2/t1/shipping-label/l2"},
		{"shipping labels", func(c *bolplaza.Client) error {
			_, err := c.GetShippingLabels(ctx, "2012345678")
			return err
		}, "/services/rest/purchasable-shipping-labels/v2?orderItemId=2012345678"},
		{"payments this month", func(c *bolplaza.Client) error {
			_, err := c.GetPayments(ctx, time.Time{})
			return err
		}, "/services/rest/payments/v2/202610"},
		{"payments", func(c *bolplaza.Client) error {
			_, err := c.GetPayments(ctx, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
			return err
		}, "/services/rest/payments/v2/202503"},
		{"commission escapes", func(c *bolplaza.Client) error {
			_, err := c.GetCommission(ctx, "87 12/3")
			return err
		}, "/commission/v2/87+12%2F3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := newTestClient(t)
			require.NoError(t, tt.call(client))

			calls := mock.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, http.MethodGet, calls[0].Method)
			assert.Equal(t, tt.want, calls[0].Endpoint)
		})
	}
}

func TestClient_GetReductions(t *testing.T) {
	client, _ := newTestClient(t)

	records, err := client.GetReductions(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "8712626055143", records[0].String("EAN"))
	assert.Equal(t, "21.95", records[0].String("MaximumPrice"))
}

func TestClient_GetOffer(t *testing.T) {
	client, mock := newTestClient(t)

	offers, err := client.GetOffer(context.Background(), "8712626055143", bolplaza.ConditionNew)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "8712626055143", offers[0].String("EAN"))
	assert.Equal(t, "24uurs-18", offers[0].String("DeliveryCode"))
	assert.Equal(t, "/offers/v2/8712626055143?condition=NEW", mock.Calls()[0].Endpoint)
}

func TestClient_GetOfferInvalidCondition(t *testing.T) {
	client, mock := newTestClient(t)

	_, err := client.GetOffer(context.Background(), "8712626055143", "USED")
	assert.ErrorIs(t, err, bolplaza.ErrValidation)
	assert.Empty(t, mock.Calls())
}

func TestClient_GetOffers(t *testing.T) {
	client, mock := newTestClient(t)

	records, err := client.GetOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "1001", first.String("OfferId"))
	assert.Equal(t, 25, first.Int("Stock"))
	assert.Equal(t, 19.95, first.Float("Price"))
	assert.True(t, first.Bool("Publish"))
	assert.True(t, first.Bool("Published"))
	assert.False(t, records[1].Bool("Publish"))

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/offers/v2/export", calls[0].Endpoint)
	assert.True(t, strings.HasPrefix(calls[1].Endpoint, "/offers/v2/export/"))
	assert.True(t, strings.HasSuffix(calls[1].Endpoint, ".csv"))
}

func TestClient_GetOfferExportForeignHost(t *testing.T) {
	client, mock := newTestClient(t)

	records, err := client.GetOfferExport(context.Background(), "https://files.example.com/export/offers.csv?sig=abc")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "/export/offers.csv?sig=abc", mock.Calls()[0].Endpoint)
}

func TestClient_UpsertOffer(t *testing.T) {
	client, mock := newTestClient(t)

	accepted, err := client.UpsertOffer(context.Background(), validOffer())
	require.NoError(t, err)
	assert.True(t, accepted)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, "/offers/v2/", calls[0].Endpoint)
	assert.Contains(t, string(calls[0].Body), "<UpsertRequest")
}

func TestClient_UpsertOfferNotAccepted(t *testing.T) {
	client, mock := newTestClient(t)
	mock.OnExecute = func(context.Context, string, string, []byte) (*bolplaza.Response, error) {
		return &bolplaza.Response{StatusCode: http.StatusOK, Tree: bolplaza.Node{}}, nil
	}

	accepted, err := client.UpsertOffer(context.Background(), validOffer())
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestClient_UpsertOfferInvalid(t *testing.T) {
	client, mock := newTestClient(t)
	offer := validOffer()
	offer.Price = bolplaza.Ref(decimal.RequireFromString("12000"))

	accepted, err := client.UpsertOffer(context.Background(), offer)
	assert.False(t, accepted)
	assert.ErrorIs(t, err, bolplaza.ErrValidation)
	assert.Empty(t, mock.Calls())
}

func TestClient_DeleteOffer(t *testing.T) {
	client, mock := newTestClient(t)

	accepted, err := client.DeleteOffer(context.Background(), "8712626055143", bolplaza.ConditionNew)
	require.NoError(t, err)
	assert.True(t, accepted)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Contains(t, string(calls[0].Body), "<DeleteBulkRequest")
}

func TestClient_OfferV1(t *testing.T) {
	client, mock := newTestClient(t)
	ctx := context.Background()

	accepted, err := client.CreateOffer(ctx, "1001", validOffer())
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = client.UpdateOffer(ctx, "1001", bolplaza.OfferUpdate{
		Price:        bolplaza.Ref(decimal.RequireFromString("18.50")),
		DeliveryCode: "1-2d",
		Publish:      bolplaza.Ref(true),
	})
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = client.UpdateOfferStock(ctx, "1001", 900)
	require.NoError(t, err)
	assert.True(t, accepted)

	calls := mock.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/offers/v1/1001", calls[0].Endpoint)
	assert.Contains(t, string(calls[0].Body), "<OfferCreate")
	assert.Equal(t, http.MethodPut, calls[1].Method)
	assert.Equal(t, "/offers/v1/1001", calls[1].Endpoint)
	assert.Contains(t, string(calls[1].Body), "<Price>18.50</Price>")
	assert.Equal(t, "/offers/v1/1001/stock", calls[2].Endpoint)
	assert.Contains(t, string(calls[2].Body), "<QuantityInStock>500</QuantityInStock>")
}

func TestClient_SimulateErrors(t *testing.T) {
	client, mock := newTestClient(t)
	mock.SimulateErrors = true

	_, err := client.GetOrders(context.Background())
	assert.ErrorIs(t, err, bolplaza.ErrAPI)

	accepted, err := client.UpsertOffer(context.Background(), validOffer())
	assert.False(t, accepted)
	assert.ErrorIs(t, err, bolplaza.ErrAPI)
}

func TestClient_SimulateLatencyHonoursContext(t *testing.T) {
	client, mock := newTestClient(t)
	mock.SimulateLatency = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.GetReturns(ctx)
	assert.ErrorIs(t, err, bolplaza.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_NextDeliveryDate(t *testing.T) {
	client, _ := newTestClient(t)

	got, err := client.NextDeliveryDate(bolplaza.DeliveryOptions{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC), got)
}

func TestClient_NextDeliveryDateSkipsDutchHolidays(t *testing.T) {
	mock := bolplaza.NewMockAPIClient()
	christmasEve := func() time.Time { return time.Date(2026, time.December, 24, 10, 0, 0, 0, time.UTC) }
	client := bolplaza.NewWithAPIClient(bolplaza.Config{Now: christmasEve}, mock, nil, nil)

	got, err := client.NextDeliveryDate(bolplaza.DeliveryOptions{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.December, 29, 12, 0, 0, 0, time.UTC), got)
}
