package shipengine

import (
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// maxDescriptionLength is the upstream limit on customs item descriptions.
const maxDescriptionLength = 45

// buildCustoms produces the customs declaration for a shipment request.
// Undeliverable parcels always return to sender. The contents type falls
// back to merchandise when unspecified or unrecognized; line items are
// built only when the request carries items.
func buildCustoms(req *ShipmentRequest, origin *Address, defaultTariff string, logger *otelzap.Logger) *Customs {
	customs := &Customs{
		NonDelivery: "return_to_sender",
		Contents:    string(contentTypes[0]),
	}

	if req.Contents != "" {
		for _, ct := range contentTypes {
			if req.Contents == ct {
				customs.Contents = string(ct)
				break
			}
		}
	}

	if len(req.Items) > 0 {
		customs.CustomsItems = buildCustomsItems(req, origin, defaultTariff, logger)
	}

	return customs
}

// buildCustomsItems maps order line items into customs declaration items.
// Items missing a name, a positive quantity, or a value are skipped with a
// diagnostic log rather than failing the request. Value may be zero but
// must be present.
func buildCustomsItems(req *ShipmentRequest, origin *Address, defaultTariff string, logger *otelzap.Logger) []CustomsItem {
	defaultCountry := ""
	if origin != nil {
		defaultCountry = strings.ToUpper(origin.Country)
	}

	currency := "usd"
	if req.Currency != "" {
		currency = strings.ToLower(req.Currency)
	}

	items := make([]CustomsItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Name == "" || item.Quantity <= 0 || item.Value == nil {
			logger.Debug("Skipping invalid customs item",
				zap.String("name", item.Name),
				zap.Int("quantity", item.Quantity),
				zap.Bool("has_value", item.Value != nil),
			)
			continue
		}

		country := item.Country
		if country == "" {
			country = defaultCountry
		}

		tariff := item.Tariff
		if tariff == "" {
			tariff = defaultTariff
		}

		description := item.Name
		if len(description) > maxDescriptionLength {
			description = description[:maxDescriptionLength]
		}

		items = append(items, CustomsItem{
			Description:          description,
			Quantity:             item.Quantity,
			Value:                MonetaryValue{Currency: currency, Amount: round3(*item.Value)},
			CountryOfOrigin:      country,
			HarmonizedTariffCode: tariff,
		})
	}

	return items
}
