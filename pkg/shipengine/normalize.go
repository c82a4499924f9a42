package shipengine

import (
	"fmt"
	"sort"
	"strings"
)

// joinMessages concatenates upstream error messages into a single
// newline-joined, trimmed message. Empty input yields "".
func joinMessages(messages []APIMessage) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Message)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// resultError wraps a joined upstream errors list, or returns nil when the
// list carried no message.
func resultError(messages []APIMessage) *ResultError {
	msg := joinMessages(messages)
	if msg == "" {
		return nil
	}
	return &ResultError{Message: msg}
}

// normalizeRatesResponse converts an upstream rate response into the
// uniform result shape. Rates come from rate_response.rates when present,
// else rate_response.invalid_rates: unavailable services are surfaced to
// the caller, not discarded. The upstream errors list, when present, is
// surfaced alongside whatever rates normalized.
func normalizeRatesResponse(body *RateResponseBody, catalog *CarrierCatalog) *RatesResult {
	result := &RatesResult{}
	if body == nil {
		return result
	}

	result.Error = resultError(body.Errors)

	if body.RateResponse == nil {
		return result
	}

	upstream := body.RateResponse.Rates
	if len(upstream) == 0 {
		upstream = body.RateResponse.InvalidRates
	}

	rates := make([]Rate, 0, len(upstream))
	for _, r := range upstream {
		serviceID := ServiceKey(r.CarrierID, r.ServiceCode)

		rate := Rate{
			Service:            serviceID,
			PostageDescription: catalog.ServiceName(serviceID, r.ServiceType),
			Cost:               aggregateCost(r),
		}

		if r.DeliveryDays != nil && *r.DeliveryDays > 0 {
			rate.DeliveryDays = *r.DeliveryDays
			rate.DeliveryTimeDescription = fmt.Sprintf("Estimated delivery in %d days", *r.DeliveryDays)
		}

		rates = append(rates, rate)
	}

	// Ascending by total cost; ties keep upstream relative order.
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].Cost < rates[j].Cost
	})

	result.Rates = rates
	return result
}

// aggregateCost sums the itemized monetary components of an upstream rate.
// Absent components count as 0.
func aggregateCost(r UpstreamRate) float64 {
	cost := 0.0
	for _, amount := range []*MonetaryValue{
		r.ShippingAmount,
		r.InsuranceAmount,
		r.ConfirmationAmount,
		r.OtherAmount,
	} {
		if amount != nil {
			cost += amount.Amount
		}
	}
	return cost
}

// normalizeValidationResponse converts an upstream address validation
// response. The upstream returns a single-element result array; a status
// other than "verified" yields the validation messages as errors. An empty
// or malformed upstream result normalizes to an empty result, not an error.
func normalizeValidationResponse(body *ValidationResponseBody) *ValidationResult {
	result := &ValidationResult{}
	if body == nil {
		return result
	}

	result.Error = resultError(body.Errors)

	if len(body.Results) == 0 {
		return result
	}

	if first := body.Results[0]; first.Status != "" && first.Status != "verified" {
		for _, m := range first.Messages {
			result.Errors = append(result.Errors, m.Message)
		}
	}

	return result
}

// normalizeCarriersResponse builds the carrier catalog from an upstream
// carrier list. Carrier account keys are derived as "carrierCode|carrierId"
// and service ids as "carrierId|serviceCode"; package types are keyed by
// package code alone.
func normalizeCarriersResponse(body *CarriersResponseBody) *CarrierCatalog {
	catalog := newCarrierCatalog()
	if body == nil {
		return catalog
	}

	for _, carrier := range body.Carriers {
		accountKey := ServiceKey(carrier.CarrierCode, carrier.CarrierID)

		catalog.Carriers[carrier.CarrierCode] = carrier.FriendlyName
		catalog.CarrierAccounts[accountKey] = carrier.CarrierID

		for _, service := range carrier.Services {
			serviceID := ServiceKey(carrier.CarrierID, service.ServiceCode)
			catalog.Services[serviceID] = service.Name
		}

		for _, pkg := range carrier.Packages {
			catalog.PackageTypes[pkg.PackageCode] = pkg.Name
		}
	}

	return catalog
}

// newCarrierCatalog returns an empty catalog seeded with the generic
// package type every carrier accepts.
func newCarrierCatalog() *CarrierCatalog {
	return &CarrierCatalog{
		Carriers:        map[string]string{},
		CarrierAccounts: map[string]string{},
		Services:        map[string]string{},
		PackageTypes:    map[string]string{"package": "Package"},
	}
}
