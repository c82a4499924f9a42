package shipengine

import "encoding/json"

// ContentsType is the customs contents classification.
type ContentsType string

const (
	ContentsMerchandise   ContentsType = "merchandise"
	ContentsDocuments     ContentsType = "documents"
	ContentsGift          ContentsType = "gift"
	ContentsReturnedGoods ContentsType = "returned_goods"
	ContentsSample        ContentsType = "sample"
)

// contentTypes enumerates the recognized customs contents values, in order.
// The first entry is the default for unspecified or unrecognized input.
var contentTypes = []ContentsType{
	ContentsMerchandise,
	ContentsDocuments,
	ContentsGift,
	ContentsReturnedGoods,
	ContentsSample,
}

// currencies enumerates the currencies ShipEngine accepts as a preferred
// currency. Anything else falls back to USD.
var currencies = map[string]bool{
	"usd": true,
	"cad": true,
	"aud": true,
	"gbp": true,
	"eur": true,
	"nzd": true,
}

// StringList accepts either a bare JSON string or an array of strings.
// Host platforms disagree on whether the phone field is single- or
// multi-valued, so the decoder tolerates both.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*s = nil
		} else {
			*s = StringList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

// First returns the first value, or "" when the list is empty.
func (s StringList) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Address is a generic address record as supplied by the host platform.
type Address struct {
	Name     string     `json:"name,omitempty"`
	Company  string     `json:"company,omitempty"`
	Phone    StringList `json:"phone,omitempty"`
	Country  string     `json:"country,omitempty"`
	State    string     `json:"state,omitempty"`
	Postcode string     `json:"postcode,omitempty"`
	City     string     `json:"city,omitempty"`
	Address1 string     `json:"address,omitempty"`
	Address2 string     `json:"address_2,omitempty"`
}

// Item is a single order line item, used to build customs declarations.
type Item struct {
	Name     string   `json:"name,omitempty"`
	Quantity int      `json:"quantity,omitempty"`
	Value    *float64 `json:"value,omitempty"`
	Tariff   string   `json:"tariff,omitempty"`
	Country  string   `json:"country,omitempty"`
}

// ShipmentRequest is a merchant's rate lookup request. Transient, created
// per lookup.
type ShipmentRequest struct {
	Origin      *Address `json:"origin,omitempty"`
	Destination *Address `json:"destination,omitempty"`

	Weight     float64 `json:"weight,omitempty"`
	WeightUnit string  `json:"weight_unit,omitempty"`

	Length        float64 `json:"length,omitempty"`
	Width         float64 `json:"width,omitempty"`
	Height        float64 `json:"height,omitempty"`
	DimensionUnit string  `json:"dimension_unit,omitempty"`

	// Type is a package-type code; emitted only when the carrier catalog
	// knows it.
	Type string `json:"type,omitempty"`

	Items    []Item       `json:"items,omitempty"`
	Currency string       `json:"currency,omitempty"`
	Contents ContentsType `json:"contents,omitempty"`

	// Insurance and Signature override the adapter-level defaults when set.
	Insurance *bool   `json:"insurance,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Signature *bool   `json:"signature,omitempty"`

	// Per-service fields carried by some host platforms. They never affect
	// the computed rates and are excluded from the rate cache key.
	Service     string `json:"service,omitempty"`
	CarrierID   string `json:"carrier_id,omitempty"`
	ServiceCode string `json:"service_code,omitempty"`
}

// Rate is a normalized, carrier-agnostic rate quote.
type Rate struct {
	// Service is the derived service identity, "carrierId|serviceCode".
	Service string `json:"service"`

	PostageDescription      string  `json:"postage_description"`
	Cost                    float64 `json:"cost"`
	DeliveryDays            int     `json:"delivery_days,omitempty"`
	DeliveryTimeDescription string  `json:"delivery_time_description"`
	TrackingTypeDescription string  `json:"tracking_type_description"`
}

// ResultError is the in-band error attached to an operation result.
type ResultError struct {
	Message string `json:"message"`
}

// RatesResult is the uniform outcome of a rate lookup. A nil Rates slice
// means the upstream response never yielded a shipment; an empty non-nil
// slice means the shipment was understood but priced no services. Rates
// must marshal without omitempty: the nil/empty distinction has to survive
// the cache round trip.
type RatesResult struct {
	Rates            []Rate              `json:"rates"`
	Error            *ResultError        `json:"error,omitempty"`
	ValidationErrors map[string][]string `json:"validation_errors,omitempty"`
}

// ValidationResult is the outcome of an address validation call.
// Errors holds validation messages for an unverified address; Error is the
// upstream error envelope, when present.
type ValidationResult struct {
	Errors []string     `json:"errors,omitempty"`
	Error  *ResultError `json:"error,omitempty"`
}

// CarrierCatalog maps upstream carrier/service/package identifiers to
// display names and account ids. Populated once per adapter instance and
// shared read-only by all rate requests.
type CarrierCatalog struct {
	// Carriers maps carrier code to friendly name.
	Carriers map[string]string `json:"carriers,omitempty"`
	// CarrierAccounts maps "carrierCode|carrierId" to the carrier account id.
	CarrierAccounts map[string]string `json:"carrierAccounts,omitempty"`
	// Services maps "carrierId|serviceCode" to the service display name.
	Services map[string]string `json:"services,omitempty"`
	// PackageTypes maps package-type code to package-type name.
	PackageTypes map[string]string `json:"packageTypes,omitempty"`
}

// CarrierCatalogResult is the outcome of a carrier catalog lookup.
type CarrierCatalogResult struct {
	Catalog *CarrierCatalog `json:"catalog,omitempty"`
	Error   *ResultError    `json:"error,omitempty"`
}

// Empty reports whether the catalog holds no carrier accounts. Rate
// requests are refused until at least one account is known.
func (c *CarrierCatalog) Empty() bool {
	return c == nil || len(c.CarrierAccounts) == 0
}

// AccountIDs returns all known carrier account ids.
func (c *CarrierCatalog) AccountIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.CarrierAccounts))
	for _, id := range c.CarrierAccounts {
		ids = append(ids, id)
	}
	return ids
}

// ServiceName resolves the display name for a derived service id, falling
// back to the given label when the catalog does not know the service.
func (c *CarrierCatalog) ServiceName(serviceID, fallback string) string {
	if c != nil {
		if name, ok := c.Services[serviceID]; ok && name != "" {
			return name
		}
	}
	return fallback
}

// KnowsPackageType reports whether the package-type code is recognized.
func (c *CarrierCatalog) KnowsPackageType(code string) bool {
	if c == nil {
		return false
	}
	_, ok := c.PackageTypes[code]
	return ok
}

// ServiceKey derives the stable identity used for both service ids
// ("carrierId|serviceCode") and carrier account keys
// ("carrierCode|carrierId"). The derivation must stay stable across calls:
// the keys are used for cache lookups and catalog resolution.
func ServiceKey(carrierIdentifier, secondaryIdentifier string) string {
	return carrierIdentifier + "|" + secondaryIdentifier
}
