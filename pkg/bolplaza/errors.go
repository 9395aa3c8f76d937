package bolplaza

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors. Every typed error in this package unwraps to one of them.
var (
	// ErrConfig indicates the client was constructed without credentials.
	ErrConfig = errors.New("invalid client configuration")

	// ErrValidation indicates a payload was rejected before any request was sent.
	ErrValidation = errors.New("validation failed")

	// ErrTransport indicates the HTTP exchange itself failed.
	ErrTransport = errors.New("transport failure")

	// ErrAPI indicates the Plaza API answered with an error code or a 4xx status.
	ErrAPI = errors.New("plaza api error")

	// ErrUnreachableDeliveryDate indicates no delivery day could be found.
	ErrUnreachableDeliveryDate = errors.New("unreachable delivery date")

	// ErrOrderNotFound indicates the order id is not among the open orders.
	ErrOrderNotFound = errors.New("order not found")

	// ErrCarrierNotFound indicates no delivery profile is registered for a carrier.
	ErrCarrierNotFound = errors.New("carrier not found")
)

// ConfigError reports a missing credential.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// MissingFieldError reports a required payload field that was not set.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %s not set", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrValidation }

// InvalidEnumError reports a value outside its closed set.
type InvalidEnumError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("unknown %s %q, use one of: %s", e.Field, e.Value, strings.Join(e.Allowed, " / "))
}

func (e *InvalidEnumError) Unwrap() error { return ErrValidation }

// FieldTooLongError reports a field exceeding its byte limit.
type FieldTooLongError struct {
	Field  string
	Limit  int
	Length int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("%s exceeded %d bytes (%d)", e.Field, e.Limit, e.Length)
}

func (e *FieldTooLongError) Unwrap() error { return ErrValidation }

// InvalidTextError reports text that cannot be carried in an XML document:
// invalid UTF-8 or a character outside the XML 1.0 Char production.
type InvalidTextError struct {
	Field  string
	Offset int
}

func (e *InvalidTextError) Error() string {
	return fmt.Sprintf("%s contains an invalid XML character at byte %d", e.Field, e.Offset)
}

func (e *InvalidTextError) Unwrap() error { return ErrValidation }

// PriceTooHighError reports a price above MaxPrice.
type PriceTooHighError struct {
	Price string
}

func (e *PriceTooHighError) Error() string {
	return fmt.Sprintf("price %s exceeds %s", e.Price, MaxPrice.StringFixed(2))
}

func (e *PriceTooHighError) Unwrap() error { return ErrValidation }

// InvalidTimeFormatError reports a time of day that is not HH:MM.
type InvalidTimeFormatError struct {
	Value string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time %q, use format HH:MM", e.Value)
}

func (e *InvalidTimeFormatError) Unwrap() error { return ErrValidation }

// InvalidEANError reports an EAN that is too short.
type InvalidEANError struct {
	EAN string
}

func (e *InvalidEANError) Error() string {
	return fmt.Sprintf("invalid EAN %q", e.EAN)
}

func (e *InvalidEANError) Unwrap() error { return ErrValidation }

// TransportError wraps a failed HTTP exchange.
type TransportError struct {
	Method   string
	Endpoint string
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Cause}
}

// APIError is an error answered by the Plaza API. Code is the raw API error
// code or HTTP status, Message its translation.
type APIError struct {
	Code       string
	StatusCode int
	Message    string
}

// NewAPIError creates an APIError with a translated message.
func NewAPIError(code string) *APIError {
	return &APIError{
		Code:    code,
		Message: Translate(code),
	}
}

// NewStatusError creates an APIError from an HTTP status code.
func NewStatusError(status int) *APIError {
	return NewAPIError(strconv.Itoa(status)).WithStatusCode(status)
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == e.Code {
		return fmt.Sprintf("plaza api error %s", e.Code)
	}
	return fmt.Sprintf("plaza api error %s: %s", e.Code, e.Message)
}

// Unwrap returns ErrAPI.
func (e *APIError) Unwrap() error { return ErrAPI }

// Is matches another APIError by code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithStatusCode records the HTTP status of the response.
func (e *APIError) WithStatusCode(status int) *APIError {
	e.StatusCode = status
	return e
}

// Detail substitutes the %s placeholders of the message, e.g. the name of
// an offer file for code 41301.
func (e *APIError) Detail(args ...any) string {
	n := strings.Count(e.Message, "%s")
	if n == 0 {
		return e.Message
	}
	for len(args) < n {
		args = append(args, "")
	}
	return fmt.Sprintf(e.Message, args[:n]...)
}

// UnreachableDeliveryDateError reports that a walk over the calendar found
// no eligible day within the iteration bound.
type UnreachableDeliveryDateError struct {
	Stage      string
	Iterations int
}

func (e *UnreachableDeliveryDateError) Error() string {
	return fmt.Sprintf("no %s day found within %d days", e.Stage, e.Iterations)
}

func (e *UnreachableDeliveryDateError) Unwrap() error { return ErrUnreachableDeliveryDate }
