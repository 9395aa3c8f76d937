package bolplaza

import (
	"context"
	"net/http"
	"strings"
)

// APIClient executes signed requests against the Plaza API. Implementations
// return an *APIError when the answer carries an ErrorCode or a 4xx status.
type APIClient interface {
	Execute(ctx context.Context, method, endpoint string, body []byte) (*Response, error)
}

// Observer receives one observation per executed request.
type Observer interface {
	RecordRequest(operation, status string, seconds float64)
}

// Response is a normalized API answer. XML bodies are parsed into Tree,
// anything else (CSV exports, labels) is left in Raw.
type Response struct {
	StatusCode  int
	ContentType string
	Tree        Node
	Raw         []byte
}

// IsXML reports whether the body was parsed into Tree.
func (r *Response) IsXML() bool {
	return strings.Contains(r.ContentType, "xml")
}

// Accepted reports whether the API queued the request, the only outcome
// offer mutations treat as success.
func (r *Response) Accepted() bool {
	return r.StatusCode == http.StatusAccepted
}

// KeyOrder returns the child element names at path in document order.
func (r *Response) KeyOrder(path ...string) ([]string, error) {
	if !r.IsXML() || len(r.Raw) == 0 {
		return nil, nil
	}
	return KeyOrder(r.Raw, path...)
}

// Text returns the raw body as a string.
func (r *Response) Text() string {
	return string(r.Raw)
}

type operationKey struct{}

// WithOperation names the operation a request belongs to in spans, logs and
// metrics.
func WithOperation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationKey{}, name)
}

func operationFrom(ctx context.Context) string {
	if name, ok := ctx.Value(operationKey{}).(string); ok {
		return name
	}
	return "request"
}
