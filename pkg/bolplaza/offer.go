package bolplaza

import (
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// XML namespaces of the offer and order services.
const (
	OffersV1Namespace   = "http://plazaapi.bol.com/offers/xsd/api-1.0.xsd"
	OffersV2Namespace   = "https://plazaapi.bol.com/offers/xsd/api-2.0.xsd"
	ServicesV2Namespace = "https://plazaapi.bol.com/services/xsd/v2/plazaapi.xsd"
)

// Offer limits.
const (
	MaxQuantityInStock   = 500
	MaxReferenceCodeSize = 20
	MaxDescriptionSize   = 2000
)

// MaxPrice is the highest price an offer may carry.
var MaxPrice = decimal.RequireFromString("9999.99")

// Offer is the payload of an offer upsert (v2) or create (v1). Pointer
// fields are required; Ref helps building them inline.
type Offer struct {
	EAN             string           `validate:"required,min=10"`
	Condition       Condition        `validate:"required,condition"`
	Price           *decimal.Decimal `validate:"required"`
	DeliveryCode    DeliveryCode     `validate:"required,deliverycode"`
	QuantityInStock *int             `validate:"required"`
	Publish         *bool            `validate:"required"`
	ReferenceCode   string
	Description     string
	// Title is shown for products bol.com does not know the EAN of.
	Title string
}

// OfferUpdate is the payload of a v1 offer update.
type OfferUpdate struct {
	Price         *decimal.Decimal `validate:"required"`
	DeliveryCode  DeliveryCode     `validate:"required,deliverycode"`
	Publish       *bool            `validate:"required"`
	ReferenceCode string
	Description   string
}

// Ref returns a pointer to v.
func Ref[T any](v T) *T {
	return &v
}

// ParsePrice parses a price that may use a decimal comma, e.g. "12,95".
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q: %w", s, err)
	}
	return d, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func offerValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("condition", func(fl validator.FieldLevel) bool {
			return Condition(fl.Field().String()).IsValid()
		})
		_ = validate.RegisterValidation("deliverycode", func(fl validator.FieldLevel) bool {
			return DeliveryCode(fl.Field().String()).IsValid()
		})
	})
	return validate
}

// checkRank orders validator failures: a missing field is reported before a
// bad delivery code, before a bad condition, before a bad EAN.
var checkRank = map[string]int{
	"required":     0,
	"deliverycode": 1,
	"condition":    2,
	"min":          3,
}

func validateStruct(v any) error {
	err := offerValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	first := fieldErrs[0]
	for _, fe := range fieldErrs[1:] {
		if checkRank[fe.Tag()] < checkRank[first.Tag()] {
			first = fe
		}
	}
	return fieldError(first)
}

func fieldError(fe validator.FieldError) error {
	value := fmt.Sprint(fe.Value())
	switch fe.Tag() {
	case "required":
		return &MissingFieldError{Field: fe.Field()}
	case "deliverycode":
		return &InvalidEnumError{Field: fe.Field(), Value: value, Allowed: names(DeliveryCodes)}
	case "condition":
		return &InvalidEnumError{Field: fe.Field(), Value: value, Allowed: names(Conditions)}
	case "min":
		return &InvalidEANError{EAN: value}
	}
	return fmt.Errorf("%w: %s failed on %s", ErrValidation, fe.Field(), fe.Tag())
}

// checkText validates the free-text fields after HTML escaping, the form in
// which they are sent.
func checkText(referenceCode, description string) error {
	if at := invalidXMLChar(referenceCode); at >= 0 {
		return &InvalidTextError{Field: "ReferenceCode", Offset: at}
	}
	if at := invalidXMLChar(description); at >= 0 {
		return &InvalidTextError{Field: "Description", Offset: at}
	}
	if n := len(html.EscapeString(referenceCode)); n > MaxReferenceCodeSize {
		return &FieldTooLongError{Field: "ReferenceCode", Limit: MaxReferenceCodeSize, Length: n}
	}
	if n := len(html.EscapeString(description)); n > MaxDescriptionSize {
		return &FieldTooLongError{Field: "Description", Limit: MaxDescriptionSize, Length: n}
	}
	return nil
}

// invalidXMLChar returns the byte offset of the first rune in s that is not
// valid UTF-8 or not allowed in XML 1.0 character data, or -1.
func invalidXMLChar(s string) int {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return i
			}
		}
		if !isXMLChar(r) {
			return i
		}
	}
	return -1
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

func checkPrice(price decimal.Decimal) error {
	if price.GreaterThan(MaxPrice) {
		return &PriceTooHighError{Price: price.StringFixed(2)}
	}
	return nil
}

func clampStock(n int) int {
	return min(n, MaxQuantityInStock)
}

// Validate checks o and clamps its stock to MaxQuantityInStock.
func (o *Offer) Validate() error {
	if err := validateStruct(o); err != nil {
		return err
	}
	o.QuantityInStock = Ref(clampStock(*o.QuantityInStock))
	if err := checkText(o.ReferenceCode, o.Description); err != nil {
		return err
	}
	return checkPrice(*o.Price)
}

// Validate checks u.
func (u *OfferUpdate) Validate() error {
	if err := validateStruct(u); err != nil {
		return err
	}
	if err := checkText(u.ReferenceCode, u.Description); err != nil {
		return err
	}
	return checkPrice(*u.Price)
}

// escaped is element content that is already escaped.
type escaped struct {
	Text string `xml:",innerxml"`
}

func escape(s string) escaped {
	return escaped{Text: html.EscapeString(s)}
}

type retailerOffer struct {
	EAN             string       `xml:"EAN"`
	Condition       Condition    `xml:"Condition"`
	Price           string       `xml:"Price"`
	DeliveryCode    DeliveryCode `xml:"DeliveryCode"`
	QuantityInStock int          `xml:"QuantityInStock"`
	Publish         bool         `xml:"Publish"`
	ReferenceCode   escaped      `xml:"ReferenceCode"`
	Description     escaped      `xml:"Description"`
	Title           string       `xml:"Title,omitempty"`
}

type upsertRequest struct {
	XMLName       xml.Name      `xml:"https://plazaapi.bol.com/offers/xsd/api-2.0.xsd UpsertRequest"`
	RetailerOffer retailerOffer `xml:"RetailerOffer"`
}

type offerIdentifier struct {
	EAN       string    `xml:"EAN"`
	Condition Condition `xml:"Condition"`
}

type deleteBulkRequest struct {
	XMLName    xml.Name        `xml:"https://plazaapi.bol.com/offers/xsd/api-2.0.xsd DeleteBulkRequest"`
	Identifier offerIdentifier `xml:"RetailerOfferIdentifier"`
}

type offerCreate struct {
	XMLName         xml.Name     `xml:"http://plazaapi.bol.com/offers/xsd/api-1.0.xsd OfferCreate"`
	EAN             string       `xml:"EAN"`
	Condition       Condition    `xml:"Condition"`
	Price           string       `xml:"Price"`
	DeliveryCode    DeliveryCode `xml:"DeliveryCode"`
	QuantityInStock int          `xml:"QuantityInStock"`
	Publish         bool         `xml:"Publish"`
	ReferenceCode   escaped      `xml:"ReferenceCode"`
	Description     escaped      `xml:"Description"`
}

type offerUpdate struct {
	XMLName       xml.Name     `xml:"http://plazaapi.bol.com/offers/xsd/api-1.0.xsd OfferUpdate"`
	Price         string       `xml:"Price"`
	DeliveryCode  DeliveryCode `xml:"DeliveryCode"`
	Publish       bool         `xml:"Publish"`
	ReferenceCode escaped      `xml:"ReferenceCode"`
	Description   escaped      `xml:"Description"`
}

type stockUpdate struct {
	XMLName         xml.Name `xml:"http://plazaapi.bol.com/offers/xsd/api-1.0.xsd StockUpdate"`
	QuantityInStock int      `xml:"QuantityInStock"`
}

// UpsertXML validates o and encodes it as a v2 UpsertRequest.
func (o Offer) UpsertXML() ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return encodeXML(upsertRequest{RetailerOffer: retailerOffer{
		EAN:             o.EAN,
		Condition:       o.Condition,
		Price:           o.Price.StringFixed(2),
		DeliveryCode:    o.DeliveryCode,
		QuantityInStock: *o.QuantityInStock,
		Publish:         *o.Publish,
		ReferenceCode:   escape(o.ReferenceCode),
		Description:     escape(o.Description),
		Title:           o.Title,
	}})
}

// CreateXML validates o and encodes it as a v1 OfferCreate.
func (o Offer) CreateXML() ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return encodeXML(offerCreate{
		EAN:             o.EAN,
		Condition:       o.Condition,
		Price:           o.Price.StringFixed(2),
		DeliveryCode:    o.DeliveryCode,
		QuantityInStock: *o.QuantityInStock,
		Publish:         *o.Publish,
		ReferenceCode:   escape(o.ReferenceCode),
		Description:     escape(o.Description),
	})
}

// XML validates u and encodes it as a v1 OfferUpdate.
func (u OfferUpdate) XML() ([]byte, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return encodeXML(offerUpdate{
		Price:         u.Price.StringFixed(2),
		DeliveryCode:  u.DeliveryCode,
		Publish:       *u.Publish,
		ReferenceCode: escape(u.ReferenceCode),
		Description:   escape(u.Description),
	})
}

// StockUpdateXML encodes a v1 StockUpdate, clamping quantity.
func StockUpdateXML(quantity int) ([]byte, error) {
	return encodeXML(stockUpdate{QuantityInStock: clampStock(quantity)})
}

// DeleteOfferXML encodes a v2 DeleteBulkRequest for one offer.
func DeleteOfferXML(ean string, condition Condition) ([]byte, error) {
	if !condition.IsValid() {
		return nil, &InvalidEnumError{Field: "Condition", Value: string(condition), Allowed: names(Conditions)}
	}
	return encodeXML(deleteBulkRequest{Identifier: offerIdentifier{EAN: ean, Condition: condition}})
}

func encodeXML(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding xml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
