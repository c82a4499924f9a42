package shipengine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func money(amount float64) *MonetaryValue {
	return &MonetaryValue{Currency: "usd", Amount: amount}
}

func TestNormalizeRates_NilBody(t *testing.T) {
	result := normalizeRatesResponse(nil, testCatalog())

	assert.Nil(t, result.Rates)
	assert.Nil(t, result.Error)
}

func TestNormalizeRates_NoRateResponseLeavesRatesNil(t *testing.T) {
	body := &RateResponseBody{
		Errors: []APIMessage{{Message: "invalid api key"}},
	}

	result := normalizeRatesResponse(body, testCatalog())

	assert.Nil(t, result.Rates)
	require.NotNil(t, result.Error)
	assert.Equal(t, "invalid api key", result.Error.Message)
}

func TestNormalizeRates_SortedAscendingByCost(t *testing.T) {
	body := &RateResponseBody{
		RateResponse: &RateResponseDetail{
			Rates: []UpstreamRate{
				{CarrierID: "se-123456", ServiceCode: "usps_priority_mail", ShippingAmount: money(12.50)},
				{CarrierID: "se-123456", ServiceCode: "usps_media_mail", ShippingAmount: money(8.00)},
			},
		},
	}

	result := normalizeRatesResponse(body, testCatalog())

	require.Len(t, result.Rates, 2)
	assert.Equal(t, 8.00, result.Rates[0].Cost)
	assert.Equal(t, 12.50, result.Rates[1].Cost)
	assert.Equal(t, "se-123456|usps_media_mail", result.Rates[0].Service)
}

func TestNormalizeRates_StableOrderOnTies(t *testing.T) {
	body := &RateResponseBody{
		RateResponse: &RateResponseDetail{
			Rates: []UpstreamRate{
				{CarrierID: "c", ServiceCode: "first", ShippingAmount: money(5)},
				{CarrierID: "c", ServiceCode: "second", ShippingAmount: money(5)},
				{CarrierID: "c", ServiceCode: "third", ShippingAmount: money(5)},
			},
		},
	}

	result := normalizeRatesResponse(body, nil)

	require.Len(t, result.Rates, 3)
	assert.Equal(t, "c|first", result.Rates[0].Service)
	assert.Equal(t, "c|second", result.Rates[1].Service)
	assert.Equal(t, "c|third", result.Rates[2].Service)
}

func TestNormalizeRates_CostAggregatesAllComponents(t *testing.T) {
	body := &RateResponseBody{
		RateResponse: &RateResponseDetail{
			Rates: []UpstreamRate{{
				CarrierID:          "c",
				ServiceCode:        "s",
				ShippingAmount:     money(10.00),
				InsuranceAmount:    money(1.50),
				ConfirmationAmount: money(2.25),
				OtherAmount:        money(0.25),
			}},
		},
	}

	result := normalizeRatesResponse(body, nil)

	require.Len(t, result.Rates, 1)
	assert.InDelta(t, 14.00, result.Rates[0].Cost, 1e-9)
}

func TestNormalizeRates_InvalidRatesFallback(t *testing.T) {
	body := &RateResponseBody{
		RateResponse: &RateResponseDetail{
			InvalidRates: []UpstreamRate{
				{CarrierID: "se-654321", ServiceCode: "ups_ground", ServiceType: "UPS Ground"},
			},
		},
	}

	result := normalizeRatesResponse(body, testCatalog())

	require.Len(t, result.Rates, 1)
	assert.Equal(t, "se-654321|ups_ground", result.Rates[0].Service)
	assert.Equal(t, 0.0, result.Rates[0].Cost)
}

func TestNormalizeRates_EmptyRateResponseYieldsEmptySlice(t *testing.T) {
	body := &RateResponseBody{RateResponse: &RateResponseDetail{}}

	result := normalizeRatesResponse(body, nil)

	require.NotNil(t, result.Rates)
	assert.Empty(t, result.Rates)
}

func TestNormalizeRates_ServiceNameResolution(t *testing.T) {
	body := &RateResponseBody{
		RateResponse: &RateResponseDetail{
			Rates: []UpstreamRate{
				{CarrierID: "se-123456", ServiceCode: "usps_priority_mail", ServiceType: "Priority"},
				{CarrierID: "se-123456", ServiceCode: "unknown_service", ServiceType: "Mystery Mail"},
			},
		},
	}

	result := normalizeRatesResponse(body, testCatalog())

	require.Len(t, result.Rates, 2)
	assert.Equal(t, "USPS Priority Mail", result.Rates[0].PostageDescription)
	assert.Equal(t, "Mystery Mail", result.Rates[1].PostageDescription)
}

func TestNormalizeRates_DeliveryDays(t *testing.T) {
	body := &RateResponseBody{
		RateResponse: &RateResponseDetail{
			Rates: []UpstreamRate{
				{CarrierID: "c", ServiceCode: "fast", DeliveryDays: intPtr(2)},
				{CarrierID: "c", ServiceCode: "unknown"},
				{CarrierID: "c", ServiceCode: "zero", DeliveryDays: intPtr(0)},
			},
		},
	}

	result := normalizeRatesResponse(body, nil)

	require.Len(t, result.Rates, 3)
	for _, rate := range result.Rates {
		if rate.Service == "c|fast" {
			assert.Equal(t, 2, rate.DeliveryDays)
			assert.Equal(t, "Estimated delivery in 2 days", rate.DeliveryTimeDescription)
		} else {
			assert.Zero(t, rate.DeliveryDays)
			assert.Empty(t, rate.DeliveryTimeDescription)
		}
	}
}

func TestJoinMessages(t *testing.T) {
	assert.Empty(t, joinMessages(nil))
	assert.Equal(t, "one", joinMessages([]APIMessage{{Message: "one"}}))
	assert.Equal(t, "one\ntwo", joinMessages([]APIMessage{{Message: "one"}, {Message: "two"}}))
	assert.Empty(t, joinMessages([]APIMessage{{Message: ""}}))
}

func TestNormalizeValidation_Verified(t *testing.T) {
	body := &ValidationResponseBody{
		Results: []AddressValidationEntry{{Status: "verified"}},
	}

	result := normalizeValidationResponse(body)

	assert.Empty(t, result.Errors)
	assert.Nil(t, result.Error)
}

func TestNormalizeValidation_UnverifiedCollectsMessages(t *testing.T) {
	body := &ValidationResponseBody{
		Results: []AddressValidationEntry{{
			Status: "error",
			Messages: []APIMessage{
				{Message: "Address not found"},
				{Message: "Invalid postal code"},
			},
		}},
	}

	result := normalizeValidationResponse(body)

	assert.Equal(t, []string{"Address not found", "Invalid postal code"}, result.Errors)
}

func TestNormalizeValidation_EmptyResults(t *testing.T) {
	result := normalizeValidationResponse(&ValidationResponseBody{})

	assert.Empty(t, result.Errors)
	assert.Nil(t, result.Error)
}

func TestNormalizeValidation_ErrorEnvelope(t *testing.T) {
	body := &ValidationResponseBody{
		Errors: []APIMessage{{Message: "rate limit exceeded"}},
	}

	result := normalizeValidationResponse(body)

	require.NotNil(t, result.Error)
	assert.Equal(t, "rate limit exceeded", result.Error.Message)
}

func TestValidationResponseBody_DecodesArrayAndEnvelope(t *testing.T) {
	var arr ValidationResponseBody
	require.NoError(t, json.Unmarshal([]byte(`[{"status":"verified"}]`), &arr))
	require.Len(t, arr.Results, 1)
	assert.Equal(t, "verified", arr.Results[0].Status)

	var env ValidationResponseBody
	require.NoError(t, json.Unmarshal([]byte(`{"errors":[{"message":"bad key"}]}`), &env))
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "bad key", env.Errors[0].Message)
}

func TestNormalizeCarriers_BuildsCatalog(t *testing.T) {
	body := &CarriersResponseBody{
		Carriers: []UpstreamCarrier{
			{
				CarrierID:    "se-123456",
				CarrierCode:  "stamps_com",
				FriendlyName: "Stamps.com",
				Services: []UpstreamService{
					{ServiceCode: "usps_priority_mail", Name: "USPS Priority Mail"},
				},
				Packages: []UpstreamPackageType{
					{PackageCode: "flat_rate_box", Name: "Flat Rate Box"},
				},
			},
			{
				CarrierID:    "se-654321",
				CarrierCode:  "ups",
				FriendlyName: "UPS",
			},
		},
	}

	catalog := normalizeCarriersResponse(body)

	assert.Equal(t, "Stamps.com", catalog.Carriers["stamps_com"])
	assert.Equal(t, "se-123456", catalog.CarrierAccounts["stamps_com|se-123456"])
	assert.Equal(t, "USPS Priority Mail", catalog.Services["se-123456|usps_priority_mail"])
	assert.Equal(t, "Flat Rate Box", catalog.PackageTypes["flat_rate_box"])
	assert.Equal(t, "Package", catalog.PackageTypes["package"], "generic type is always seeded")
	assert.False(t, catalog.Empty())
	assert.ElementsMatch(t, []string{"se-123456", "se-654321"}, catalog.AccountIDs())
}

func TestNormalizeCarriers_NilBodyYieldsEmptyCatalog(t *testing.T) {
	catalog := normalizeCarriersResponse(nil)

	assert.True(t, catalog.Empty())
	assert.True(t, catalog.KnowsPackageType("package"))
}

func TestServiceKey_DistinctPairsYieldDistinctKeys(t *testing.T) {
	keys := map[string]bool{}
	pairs := [][2]string{
		{"se-123456", "usps_priority_mail"},
		{"se-123456", "usps_media_mail"},
		{"se-654321", "usps_priority_mail"},
		{"stamps_com", "se-123456"},
	}

	for _, p := range pairs {
		keys[ServiceKey(p[0], p[1])] = true
	}

	assert.Len(t, keys, len(pairs))
	assert.Equal(t, "se-123456|usps_priority_mail", ServiceKey("se-123456", "usps_priority_mail"))
}
