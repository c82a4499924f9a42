package shipengine

import "math"

// Canonical unit names expected by the upstream API.
const (
	UnitGram       = "gram"
	UnitKilogram   = "kilogram"
	UnitPound      = "pound"
	UnitOunce      = "ounce"
	UnitCentimeter = "centimeter"
	UnitInch       = "inch"
)

// round3 rounds to 3 decimal places, the precision the upstream API accepts.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// weightUnitName maps a merchant weight unit code to the canonical unit
// name. Unrecognized codes map to "" so the unit field is omitted from the
// request, surfacing the mapping gap upstream instead of guessing.
func weightUnitName(code string) string {
	switch code {
	case "g":
		return UnitGram
	case "kg":
		return UnitKilogram
	case "lbs":
		return UnitPound
	case "oz":
		return UnitOunce
	}
	return ""
}

// convertWeight normalizes a raw weight into the upstream shape. A missing
// value defaults to 0. No numeric conversion happens across weight units.
func convertWeight(value float64, unitCode string) Weight {
	return Weight{
		Value: round3(value),
		Unit:  weightUnitName(unitCode),
	}
}

// convertDimensions normalizes raw dimensions into the upstream shape.
// Metric inputs are scaled to centimeters; values are rounded to 3 decimal
// places before scaling. Missing values default to 0. Unit codes outside
// the known set pass through unchanged.
func convertDimensions(length, width, height float64, unitCode string) Dimensions {
	d := Dimensions{
		Length: round3(length),
		Width:  round3(width),
		Height: round3(height),
	}

	switch unitCode {
	case "cm":
		d.Unit = UnitCentimeter
	case "m":
		d.Unit = UnitCentimeter
		d.Length *= 100
		d.Width *= 100
		d.Height *= 100
	case "mm":
		d.Unit = UnitCentimeter
		d.Length /= 10
		d.Width /= 10
		d.Height /= 10
	case "in":
		d.Unit = UnitInch
	default:
		d.Unit = unitCode
	}

	return d
}
