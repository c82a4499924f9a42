package shipengine

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGetRates          func(ctx context.Context, req *RateRequest) (*RateResponseBody, error)
	OnValidateAddresses func(ctx context.Context, req []AddressFields) (*ValidationResponseBody, error)
	OnListCarriers      func(ctx context.Context) (*CarriersResponseBody, error)

	// Call counters, useful for asserting cache behavior.
	GetRatesCalls          int
	ValidateAddressesCalls int
	ListCarriersCalls      int
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GetRates returns mock rate quotes.
func (m *MockAPIClient) GetRates(ctx context.Context, req *RateRequest) (*RateResponseBody, error) {
	m.GetRatesCalls++

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}

	if m.OnGetRates != nil {
		return m.OnGetRates(ctx, req)
	}

	days2 := 2
	days5 := 5

	return &RateResponseBody{
		RequestID:  "se-req-" + uuid.New().String()[:8],
		ShipmentID: "se-ship-" + uuid.New().String()[:8],
		RateResponse: &RateResponseDetail{
			Status: "completed",
			Rates: []UpstreamRate{
				{
					RateID:         "rate-" + uuid.New().String()[:8],
					CarrierID:      "se-123456",
					CarrierCode:    "stamps_com",
					ServiceCode:    "usps_priority_mail",
					ServiceType:    "USPS Priority Mail",
					ShippingAmount: &MonetaryValue{Currency: "usd", Amount: 12.98},
					OtherAmount:    &MonetaryValue{Currency: "usd", Amount: 1.25},
					DeliveryDays:   &days2,
					Trackable:      true,
				},
				{
					RateID:         "rate-" + uuid.New().String()[:8],
					CarrierID:      "se-123456",
					CarrierCode:    "stamps_com",
					ServiceCode:    "usps_media_mail",
					ServiceType:    "USPS Media Mail",
					ShippingAmount: &MonetaryValue{Currency: "usd", Amount: 4.37},
					DeliveryDays:   &days5,
				},
			},
		},
	}, nil
}

// ValidateAddresses returns a mock validation result.
func (m *MockAPIClient) ValidateAddresses(ctx context.Context, req []AddressFields) (*ValidationResponseBody, error) {
	m.ValidateAddressesCalls++

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}

	if m.OnValidateAddresses != nil {
		return m.OnValidateAddresses(ctx, req)
	}

	results := make([]AddressValidationEntry, len(req))
	for i := range req {
		addr := req[i]
		results[i] = AddressValidationEntry{
			Status:          "verified",
			OriginalAddress: &addr,
			MatchedAddress:  &addr,
		}
	}
	return &ValidationResponseBody{Results: results}, nil
}

// ListCarriers returns a mock carrier account list.
func (m *MockAPIClient) ListCarriers(ctx context.Context) (*CarriersResponseBody, error) {
	m.ListCarriersCalls++

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}

	if m.OnListCarriers != nil {
		return m.OnListCarriers(ctx)
	}

	return &CarriersResponseBody{
		RequestID: "se-req-" + uuid.New().String()[:8],
		Carriers: []UpstreamCarrier{
			{
				CarrierID:    "se-123456",
				CarrierCode:  "stamps_com",
				FriendlyName: "Stamps.com",
				Services: []UpstreamService{
					{ServiceCode: "usps_priority_mail", Name: "USPS Priority Mail", Domestic: true},
					{ServiceCode: "usps_media_mail", Name: "USPS Media Mail", Domestic: true},
					{ServiceCode: "usps_priority_mail_international", Name: "USPS Priority Mail International", International: true},
				},
				Packages: []UpstreamPackageType{
					{PackageCode: "flat_rate_envelope", Name: "Flat Rate Envelope"},
					{PackageCode: "medium_flat_rate_box", Name: "Medium Flat Rate Box"},
				},
			},
			{
				CarrierID:    "se-654321",
				CarrierCode:  "ups",
				FriendlyName: "UPS",
				Services: []UpstreamService{
					{ServiceCode: "ups_ground", Name: "UPS Ground", Domestic: true},
					{ServiceCode: "ups_next_day_air", Name: "UPS Next Day Air", Domestic: true},
				},
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
