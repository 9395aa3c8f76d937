// Package bolplaza is a client for the bol.com Plaza order and offer API.
package bolplaza

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tournevent/bolplaza/pkg/bolplaza/holidays"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds Plaza client configuration.
type Config struct {
	PublicKey  string
	PrivateKey string
	// Test selects the test environment unless BaseURL is set.
	Test               bool
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
	UseMock            bool

	Now      func() time.Time
	Holidays HolidayFunc
	Observer Observer
}

func (c Config) baseURL() string {
	switch {
	case c.BaseURL != "":
		return strings.TrimRight(c.BaseURL, "/")
	case c.Test:
		return TestURL
	default:
		return LiveURL
	}
}

// Client exposes the Plaza operations.
type Client struct {
	config    Config
	apiClient APIClient
	planner   *Planner
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Plaza client. Both keys are required, also for the mock.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*Client, error) {
	if cfg.PublicKey == "" {
		return nil, &ConfigError{Field: "PublicKey"}
	}
	if cfg.PrivateKey == "" {
		return nil, &ConfigError{Field: "PrivateKey"}
	}

	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:            cfg.baseURL(),
			PublicKey:          cfg.PublicKey,
			PrivateKey:         cfg.PrivateKey,
			Timeout:            cfg.Timeout,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			Now:                cfg.Now,
			Observer:           cfg.Observer,
			Logger:             logger,
			Tracer:             tracer,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer), nil
}

// NewWithAPIClient creates a new Plaza client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Holidays == nil {
		cfg.Holidays = holidays.Netherlands()
	}
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		planner:   NewPlanner(cfg.Holidays),
		logger:    logger,
		tracer:    tracer,
	}
}

// Planner returns the carrier delivery planner of the client.
func (c *Client) Planner() *Planner {
	return c.planner
}

func (c *Client) execute(ctx context.Context, operation, method, endpoint string, body []byte) (*Response, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "bolplaza."+operation)
		defer span.End()
	}

	resp, err := c.apiClient.Execute(WithOperation(ctx, operation), method, endpoint, body)
	if err != nil {
		c.logger.Ctx(ctx).Error("Plaza API error",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return nil, err
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, operation, endpoint string) (Node, error) {
	resp, err := c.execute(ctx, operation, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return resp.Tree, nil
}

// GetOrders returns the open orders. No open orders yields an empty slice.
func (c *Client) GetOrders(ctx context.Context) ([]*Order, error) {
	tree, err := c.get(ctx, "orders", endpointOrders)
	if err != nil {
		return nil, err
	}

	orders := MapOrders(tree, c.apiClient, c.config.Now)
	c.logger.Ctx(ctx).Info("Fetched Plaza orders", zap.Int("count", len(orders)))
	return orders, nil
}

// GetOrder returns the open order with id.
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	orders, err := c.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// CancelOrderItem cancels an order item by id.
func (c *Client) CancelOrderItem(ctx context.Context, orderItemID string, reason CancellationReason) (*Response, error) {
	c.logger.Ctx(ctx).Info("Cancelling Plaza order item",
		zap.String("order_item_id", orderItemID),
		zap.String("reason", string(reason)),
	)
	return cancelItem(ctx, c.apiClient, c.config.Now(), orderItemID, reason)
}

// GetReturns returns the unhandled returns.
func (c *Client) GetReturns(ctx context.Context) ([]*Return, error) {
	tree, err := c.get(ctx, "returns", endpointReturns)
	if err != nil {
		return nil, err
	}
	return MapReturns(tree), nil
}

// GetShipments returns a page of shipments. An unknown fulfilment method
// falls back to FulfilmentAll.
func (c *Client) GetShipments(ctx context.Context, page int, method FulfilmentMethod) (Node, error) {
	if !method.IsValid() {
		method = FulfilmentAll
	}
	if page < 1 {
		page = 1
	}
	endpoint := fmt.Sprintf("%s?page=%d&fulfilmentmethod=%s", endpointShipments, page, method)
	return c.get(ctx, "shipments", endpoint)
}

// GetProcessStatus returns the status of an asynchronous request.
func (c *Client) GetProcessStatus(ctx context.Context, id string) (Node, error) {
	return c.get(ctx, "process-status", expand(endpointProcessStatus, "id", id))
}

// GetShippingStatus returns the status of a shipment request.
func (c *Client) GetShippingStatus(ctx context.Context, id string) (Node, error) {
	return c.get(ctx, "shipping-status", expand(endpointShippingStatus, "id", id))
}

// GetShippingLabel downloads a shipping label. The body is returned as sent.
func (c *Client) GetShippingLabel(ctx context.Context, transportID, labelID string) (*Response, error) {
	endpoint := expand(endpointShippingLabel, "transportId", transportID, "labelId", labelID)
	return c.execute(ctx, "shipping-label", http.MethodGet, endpoint, nil)
}

// GetShippingLabels returns the labels that can be bought for an item.
func (c *Client) GetShippingLabels(ctx context.Context, orderItemID string) (Node, error) {
	return c.get(ctx, "shipping-labels", expand(endpointShippingLabels, "id", orderItemID))
}

// GetPayments returns the payments of the month of month. A zero month means
// the current month.
func (c *Client) GetPayments(ctx context.Context, month time.Time) (Node, error) {
	if month.IsZero() {
		month = c.config.Now()
	}
	return c.get(ctx, "payments", expand(endpointPayments, "month", month.Format("200601")))
}

// GetCommission returns the commission of an offer.
func (c *Client) GetCommission(ctx context.Context, ean string) (Node, error) {
	return c.get(ctx, "commission", expand(endpointCommission, "ean", ean))
}

// GetReductions returns the commission reductions list.
func (c *Client) GetReductions(ctx context.Context) ([]Record, error) {
	resp, err := c.execute(ctx, "reductions", http.MethodGet, endpointReductions, nil)
	if err != nil {
		return nil, err
	}
	return MapCSV(resp.Text())
}

// GetOffer returns the retailer offers for ean in condition.
func (c *Client) GetOffer(ctx context.Context, ean string, condition Condition) ([]Node, error) {
	if !condition.IsValid() {
		return nil, &InvalidEnumError{Field: "Condition", Value: string(condition), Allowed: names(Conditions)}
	}
	endpoint := expand(endpointOffersGet, "ean", ean) + "?condition=" + url.QueryEscape(string(condition))
	tree, err := c.get(ctx, "offers-get", endpoint)
	if err != nil {
		return nil, err
	}
	return tree.Child("RetailerOffers").List("RetailerOffer"), nil
}

// RequestOfferExport asks for an export of all offers and returns the URL of
// the export file.
func (c *Client) RequestOfferExport(ctx context.Context) (string, error) {
	tree, err := c.get(ctx, "offers-export", endpointOffersExport)
	if err != nil {
		return "", err
	}
	u, ok := tree.Lookup("Url")
	if !ok {
		return "", fmt.Errorf("%w: export response carries no Url", ErrAPI)
	}
	return u, nil
}

// GetOfferExport downloads and parses an export file.
func (c *Client) GetOfferExport(ctx context.Context, fileURL string) ([]Record, error) {
	endpoint, err := c.relative(fileURL)
	if err != nil {
		return nil, err
	}
	resp, err := c.execute(ctx, "offers-export-file", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return MapCSV(resp.Text())
}

// relative turns an absolute export URL into an endpoint of this client.
func (c *Client) relative(fileURL string) (string, error) {
	if rest, ok := strings.CutPrefix(fileURL, c.config.baseURL()); ok {
		return rest, nil
	}
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parsing export url: %w", err)
	}
	return u.RequestURI(), nil
}

// GetOffers returns all offers through an export.
func (c *Client) GetOffers(ctx context.Context) ([]Record, error) {
	fileURL, err := c.RequestOfferExport(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetOfferExport(ctx, fileURL)
}

// UpsertOffer creates or updates an offer. It reports whether the API
// accepted the request.
func (c *Client) UpsertOffer(ctx context.Context, offer Offer) (bool, error) {
	body, err := offer.UpsertXML()
	if err != nil {
		return false, err
	}
	return c.mutate(ctx, "offers-upsert", http.MethodPut, endpointOffers, body)
}

// DeleteOffer deletes an offer.
func (c *Client) DeleteOffer(ctx context.Context, ean string, condition Condition) (bool, error) {
	body, err := DeleteOfferXML(ean, condition)
	if err != nil {
		return false, err
	}
	return c.mutate(ctx, "offers-delete", http.MethodDelete, endpointOffers, body)
}

// CreateOffer creates an offer under offerID through the v1 API.
func (c *Client) CreateOffer(ctx context.Context, offerID string, offer Offer) (bool, error) {
	body, err := offer.CreateXML()
	if err != nil {
		return false, err
	}
	return c.mutate(ctx, "offers-create", http.MethodPost, expand(endpointOfferV1, "id", offerID), body)
}

// UpdateOffer updates an offer through the v1 API.
func (c *Client) UpdateOffer(ctx context.Context, offerID string, update OfferUpdate) (bool, error) {
	body, err := update.XML()
	if err != nil {
		return false, err
	}
	return c.mutate(ctx, "offers-update", http.MethodPut, expand(endpointOfferV1, "id", offerID), body)
}

// UpdateOfferStock sets the stock of an offer through the v1 API. Quantities
// above MaxQuantityInStock are clamped.
func (c *Client) UpdateOfferStock(ctx context.Context, offerID string, quantity int) (bool, error) {
	body, err := StockUpdateXML(quantity)
	if err != nil {
		return false, err
	}
	return c.mutate(ctx, "offers-stock", http.MethodPut, expand(endpointOfferV1Stock, "id", offerID), body)
}

func (c *Client) mutate(ctx context.Context, operation, method, endpoint string, body []byte) (bool, error) {
	resp, err := c.execute(ctx, operation, method, endpoint, body)
	if err != nil {
		return false, err
	}
	if !resp.Accepted() {
		c.logger.Ctx(ctx).Warn("Plaza did not accept offer mutation",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
		)
	}
	return resp.Accepted(), nil
}

// NextDeliveryDate estimates the delivery date of an order placed now.
func (c *Client) NextDeliveryDate(opts DeliveryOptions) (time.Time, error) {
	return NextDeliveryDate(opts, c.config.Now(), c.config.Holidays)
}
