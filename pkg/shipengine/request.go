package shipengine

import (
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// rateRequestBuilder composes the full rate-quote request body from a
// shipment request plus the adapter configuration and carrier catalog.
type rateRequestBuilder struct {
	cfg     Config
	catalog *CarrierCatalog
	logger  *otelzap.Logger
}

// Build assembles the upstream rate request. The caller guarantees the
// catalog is non-empty; the adapter fails fast before reaching here
// otherwise. now supplies the clock for ship-date computation.
func (b *rateRequestBuilder) Build(req *ShipmentRequest, now time.Time) *RateRequest {
	origin := req.Origin
	if origin == nil {
		origin = &b.cfg.Origin
	}

	insurance := b.cfg.Insurance
	if req.Insurance != nil {
		insurance = *req.Insurance
	}

	currency := preferredCurrency(req.Currency)

	out := &RateRequest{
		RateOptions: RateOptions{
			CarrierIDs:        b.catalog.AccountIDs(),
			PreferredCurrency: currency,
		},
		Shipment: Shipment{
			// Validation, when desired, is a separate explicit call.
			ValidateAddress: "no_validation",
			ShipDate:        shipDate(now),
			ShipFrom:        mapAddress(origin),
			ShipTo:          mapAddress(req.Destination),
			Confirmation:    b.confirmation(req),
			Customs:         buildCustoms(req, origin, b.cfg.DefaultTariff, b.logger),
			Packages:        []PackageEntry{b.buildPackage(req, insurance, currency)},
		},
	}

	if insurance && req.Value > 0 {
		out.Shipment.InsuranceProvider = "carrier"
	}

	return out
}

// buildPackage maps the single parcel of the shipment request.
func (b *rateRequestBuilder) buildPackage(req *ShipmentRequest, insurance bool, currency string) PackageEntry {
	pkg := PackageEntry{}

	if req.Type != "" && b.catalog.KnowsPackageType(req.Type) {
		pkg.PackageCode = req.Type
	}

	weightUnit := b.cfg.WeightUnit
	if req.WeightUnit != "" {
		weightUnit = req.WeightUnit
	}
	pkg.Weight = convertWeight(req.Weight, weightUnit)

	dimensionUnit := b.cfg.DimensionUnit
	if req.DimensionUnit != "" {
		dimensionUnit = req.DimensionUnit
	}
	pkg.Dimensions = convertDimensions(req.Length, req.Width, req.Height, dimensionUnit)

	if insurance && req.Value > 0 {
		pkg.InsuredValue = &MonetaryValue{
			Currency: currency,
			Amount:   req.Value,
		}
	}

	return pkg
}

// confirmation resolves the delivery confirmation option from the request
// override or the adapter default.
func (b *rateRequestBuilder) confirmation(req *ShipmentRequest) string {
	signature := b.cfg.Signature
	if req.Signature != nil {
		signature = *req.Signature
	}

	if signature {
		return "signature"
	}
	return "none"
}

// preferredCurrency lowercases the input currency when it is one of the
// currencies the upstream API accepts, and falls back to usd otherwise.
func preferredCurrency(currency string) string {
	if currency != "" {
		lower := strings.ToLower(currency)
		if currencies[lower] {
			return lower
		}
	}
	return "usd"
}

// shipDate computes the ship date as a calendar date. Weekend requests and
// requests after 16:00 ship the next weekday; requests before 09:00 ship
// the same day. The noon anchor keeps the date stable regardless of the
// clock's time-of-day once a day is chosen.
func shipDate(now time.Time) string {
	t := now

	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday || t.Hour() > 16 {
		t = nextWeekdayNoon(t)
	} else if t.Hour() < 9 {
		t = atNoon(t)
	}

	return t.Format("2006-01-02")
}

// nextWeekdayNoon advances at least one day, skipping weekends, and anchors
// at noon.
func nextWeekdayNoon(t time.Time) time.Time {
	t = t.AddDate(0, 0, 1)
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return atNoon(t)
}

func atNoon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}
