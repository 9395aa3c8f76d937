package bolplaza

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	instrumentationName = "github.com/tournevent/bolplaza"

	// UserAgent is sent with every request.
	UserAgent = "bolplaza-go/2.0"
)

// HTTPAPIClient is the production implementation of APIClient.
type HTTPAPIClient struct {
	baseURL    string
	publicKey  string
	privateKey string
	httpClient *http.Client
	now        func() time.Time
	observer   Observer
	logger     *otelzap.Logger
	tracer     trace.Tracer
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL            string
	PublicKey          string
	PrivateKey         string
	Timeout            time.Duration
	InsecureSkipVerify bool
	// Transport replaces the default round tripper. InsecureSkipVerify is
	// ignored when it is set.
	Transport          http.RoundTripper
	Now                func() time.Time
	Observer           Observer
	Logger             *otelzap.Logger
	Tracer             trace.Tracer
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = LiveURL
	}

	transport := cfg.Transport
	if transport == nil {
		defaults := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.InsecureSkipVerify {
			defaults.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // test environments only
		}
		transport = defaults
	}

	c := &HTTPAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		now:      cfg.Now,
		observer: cfg.Observer,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = otelzap.New(zap.NewNop())
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(instrumentationName)
	}
	return c
}

// Execute signs and sends a request, then normalizes the answer.
func (c *HTTPAPIClient) Execute(ctx context.Context, method, endpoint string, body []byte) (*Response, error) {
	method = strings.ToUpper(method)
	operation := operationFrom(ctx)

	ctx, span := c.tracer.Start(ctx, "plaza "+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("plaza.endpoint", endpoint),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.do(ctx, method, endpoint, body)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.observe(operation, "error", elapsed)
		c.logger.Ctx(ctx).Debug("plaza request failed",
			zap.String("operation", operation),
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.observe(operation, strconv.Itoa(resp.StatusCode), elapsed)
	c.logger.Ctx(ctx).Debug("plaza request completed",
		zap.String("operation", operation),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", elapsed),
	)

	if apiErr := checkResponse(resp); apiErr != nil {
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, apiErr
	}
	return resp, nil
}

func (c *HTTPAPIClient) do(ctx context.Context, method, endpoint string, body []byte) (*Response, error) {
	var bodyReader io.Reader
	if method != http.MethodGet && body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return nil, &TransportError{Method: method, Endpoint: endpoint, Cause: err}
	}

	// The remote verifies these names byte for byte, so they bypass
	// canonicalization.
	date := c.now().UTC().Format(http.TimeFormat)
	req.Header["Content-type"] = []string{ContentType}
	req.Header["X-BOL-Date"] = []string{date}
	req.Header["X-BOL-Authorization"] = []string{Sign(method, endpoint, date, c.publicKey, c.privateKey)}
	req.Header.Set("User-Agent", UserAgent)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Endpoint: endpoint, Cause: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Endpoint: endpoint, Cause: err}
	}

	return normalize(httpResp.StatusCode, httpResp.Header.Get("Content-Type"), raw)
}

// normalize parses XML bodies into a tree and leaves other bodies raw.
func normalize(status int, contentType string, raw []byte) (*Response, error) {
	resp := &Response{
		StatusCode:  status,
		ContentType: contentType,
		Raw:         raw,
		Tree:        Node{},
	}
	if !resp.IsXML() || len(bytes.TrimSpace(raw)) == 0 {
		return resp, nil
	}

	tree, err := ParseXML(raw)
	if err != nil {
		if isClientError(status) {
			return resp, nil
		}
		return nil, fmt.Errorf("status %d: %w", status, err)
	}
	resp.Tree = tree
	return resp, nil
}

// checkResponse turns an embedded ErrorCode or a 4xx status into an APIError.
func checkResponse(resp *Response) error {
	if code, ok := resp.Tree.Lookup("ErrorCode"); ok {
		return NewAPIError(code).WithStatusCode(resp.StatusCode)
	}
	if isClientError(resp.StatusCode) {
		return NewStatusError(resp.StatusCode)
	}
	return nil
}

func isClientError(status int) bool {
	return status >= 400 && status < 500
}

func (c *HTTPAPIClient) observe(operation, status string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.RecordRequest(operation, status, elapsed.Seconds())
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)
