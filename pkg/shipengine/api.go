package shipengine

import (
	"context"
	"encoding/json"
)

// APIClient defines the interface for ShipEngine API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production. It is a single-attempt
// transport: retry policy, if any, lives outside the adapter.
type APIClient interface {
	// GetRates fetches rate quotes. POST v1/rates
	GetRates(ctx context.Context, req *RateRequest) (*RateResponseBody, error)

	// ValidateAddresses validates addresses. POST v1/addresses/validate
	ValidateAddresses(ctx context.Context, req []AddressFields) (*ValidationResponseBody, error)

	// ListCarriers lists the configured carrier accounts. GET v1/carriers
	ListCarriers(ctx context.Context) (*CarriersResponseBody, error)
}

// ============================================================================
// API Request/Response Types (match ShipEngine REST API v1 structure)
// ============================================================================

// RateRequest is the body of POST v1/rates.
type RateRequest struct {
	RateOptions RateOptions `json:"rate_options"`
	Shipment    Shipment    `json:"shipment"`
}

// RateOptions scopes the rate request to carrier accounts and a currency.
type RateOptions struct {
	CarrierIDs        []string `json:"carrier_ids"`
	PreferredCurrency string   `json:"preferred_currency,omitempty"`
}

// Shipment describes the shipment being priced.
type Shipment struct {
	ValidateAddress   string         `json:"validate_address,omitempty"`
	ShipDate          string         `json:"ship_date,omitempty"` // YYYY-MM-DD
	ShipFrom          AddressFields  `json:"ship_from"`
	ShipTo            AddressFields  `json:"ship_to"`
	Confirmation      string         `json:"confirmation,omitempty"`
	Customs           *Customs       `json:"customs,omitempty"`
	InsuranceProvider string         `json:"insurance_provider,omitempty"`
	Packages          []PackageEntry `json:"packages"`
}

// AddressFields is the upstream address shape.
type AddressFields struct {
	AddressResidentialIndicator string `json:"address_residential_indicator,omitempty"`
	Name                        string `json:"name,omitempty"`
	CompanyName                 string `json:"company_name,omitempty"`
	Phone                       string `json:"phone,omitempty"`
	CountryCode                 string `json:"country_code,omitempty"`
	StateProvince               string `json:"state_province,omitempty"`
	PostalCode                  string `json:"postal_code,omitempty"`
	CityLocality                string `json:"city_locality,omitempty"`
	AddressLine1                string `json:"address_line1,omitempty"`
	AddressLine2                string `json:"address_line2,omitempty"`
}

// Weight is a weight value with its canonical unit. The unit is omitted
// when the input unit code was not recognized, signaling the mapping gap
// upstream instead of guessing.
type Weight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"` // gram, kilogram, pound, ounce
}

// Dimensions are package dimensions with their canonical unit.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit,omitempty"` // centimeter, inch
}

// MonetaryValue is an amount in a currency.
type MonetaryValue struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// PackageEntry is a single package in the rate request.
type PackageEntry struct {
	PackageCode  string         `json:"package_code,omitempty"`
	Weight       Weight         `json:"weight"`
	Dimensions   Dimensions     `json:"dimensions"`
	InsuredValue *MonetaryValue `json:"insured_value,omitempty"`
}

// Customs is the customs declaration for international shipments.
type Customs struct {
	NonDelivery  string        `json:"non_delivery"`
	Contents     string        `json:"contents"`
	CustomsItems []CustomsItem `json:"customs_items,omitempty"`
}

// CustomsItem is a single customs declaration line item.
type CustomsItem struct {
	Description          string        `json:"description"`
	Quantity             int           `json:"quantity"`
	Value                MonetaryValue `json:"value"`
	CountryOfOrigin      string        `json:"country_of_origin,omitempty"`
	HarmonizedTariffCode string        `json:"harmonized_tariff_code,omitempty"`
}

// APIMessage is an upstream error or validation message object.
type APIMessage struct {
	ErrorCode string `json:"error_code,omitempty"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
}

// RateResponseBody is the body of the v1/rates response.
type RateResponseBody struct {
	RateResponse *RateResponseDetail `json:"rate_response,omitempty"`
	ShipmentID   string              `json:"shipment_id,omitempty"`
	Errors       []APIMessage        `json:"errors,omitempty"`
	RequestID    string              `json:"request_id,omitempty"`
}

// RateResponseDetail carries the priced and unpriceable services.
type RateResponseDetail struct {
	Rates        []UpstreamRate `json:"rates,omitempty"`
	InvalidRates []UpstreamRate `json:"invalid_rates,omitempty"`
	Status       string         `json:"status,omitempty"`
}

// UpstreamRate is a single rate as returned by ShipEngine.
type UpstreamRate struct {
	RateID              string         `json:"rate_id,omitempty"`
	CarrierID           string         `json:"carrier_id"`
	CarrierCode         string         `json:"carrier_code,omitempty"`
	CarrierFriendlyName string         `json:"carrier_friendly_name,omitempty"`
	ServiceCode         string         `json:"service_code"`
	ServiceType         string         `json:"service_type,omitempty"`
	ShippingAmount      *MonetaryValue `json:"shipping_amount,omitempty"`
	InsuranceAmount     *MonetaryValue `json:"insurance_amount,omitempty"`
	ConfirmationAmount  *MonetaryValue `json:"confirmation_amount,omitempty"`
	OtherAmount         *MonetaryValue `json:"other_amount,omitempty"`
	DeliveryDays        *int           `json:"delivery_days,omitempty"`
	EstimatedDeliveryDate string       `json:"estimated_delivery_date,omitempty"`
	Trackable           bool           `json:"trackable,omitempty"`
	ValidationStatus    string         `json:"validation_status,omitempty"`
	WarningMessages     []string       `json:"warning_messages,omitempty"`
	ErrorMessages       []string       `json:"error_messages,omitempty"`
}

// AddressValidationEntry is one element of the v1/addresses/validate
// response array.
type AddressValidationEntry struct {
	Status          string         `json:"status,omitempty"` // verified, unverified, warning, error
	OriginalAddress *AddressFields `json:"original_address,omitempty"`
	MatchedAddress  *AddressFields `json:"matched_address,omitempty"`
	Messages        []APIMessage   `json:"messages,omitempty"`
}

// ValidationResponseBody is the body of the v1/addresses/validate response.
// ShipEngine returns a bare JSON array on success and an error envelope
// object on failure; the decoder tolerates both.
type ValidationResponseBody struct {
	Results []AddressValidationEntry
	Errors  []APIMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *ValidationResponseBody) UnmarshalJSON(data []byte) error {
	var results []AddressValidationEntry
	if err := json.Unmarshal(data, &results); err == nil {
		v.Results = results
		return nil
	}
	var envelope struct {
		Errors []APIMessage `json:"errors"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	v.Errors = envelope.Errors
	return nil
}

// CarriersResponseBody is the body of the v1/carriers response.
type CarriersResponseBody struct {
	Carriers []UpstreamCarrier `json:"carriers,omitempty"`
	Errors   []APIMessage      `json:"errors,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

// UpstreamCarrier is a configured carrier account.
type UpstreamCarrier struct {
	CarrierID    string                `json:"carrier_id"`
	CarrierCode  string                `json:"carrier_code"`
	FriendlyName string                `json:"friendly_name"`
	AccountNumber string               `json:"account_number,omitempty"`
	Services     []UpstreamService     `json:"services,omitempty"`
	Packages     []UpstreamPackageType `json:"packages,omitempty"`
}

// UpstreamService is a shipping product offered by a carrier.
type UpstreamService struct {
	CarrierID     string `json:"carrier_id,omitempty"`
	CarrierCode   string `json:"carrier_code,omitempty"`
	ServiceCode   string `json:"service_code"`
	Name          string `json:"name"`
	Domestic      bool   `json:"domestic,omitempty"`
	International bool   `json:"international,omitempty"`
}

// UpstreamPackageType is a carrier-provided package type.
type UpstreamPackageType struct {
	PackageID   string `json:"package_id,omitempty"`
	PackageCode string `json:"package_code"`
	Name        string `json:"name"`
}

// APIError represents a transport-level failure talking to ShipEngine:
// an unreachable host or a response body that could not be decoded.
// Upstream application errors travel in-band through the Errors lists.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}
