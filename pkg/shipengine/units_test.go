package shipengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertWeight_KnownUnits(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"g", "gram"},
		{"kg", "kilogram"},
		{"lbs", "pound"},
		{"oz", "ounce"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := convertWeight(2.5, tt.code)
			assert.Equal(t, 2.5, w.Value)
			assert.Equal(t, tt.want, w.Unit)
		})
	}
}

func TestConvertWeight_UnrecognizedUnitOmitted(t *testing.T) {
	w := convertWeight(1.0, "stone")
	assert.Equal(t, 1.0, w.Value)
	assert.Empty(t, w.Unit)
}

func TestConvertWeight_MissingValueDefaultsToZero(t *testing.T) {
	w := convertWeight(0, "kg")
	assert.Equal(t, 0.0, w.Value)
	assert.Equal(t, "kilogram", w.Unit)
}

func TestConvertWeight_RoundsToThreeDecimals(t *testing.T) {
	w := convertWeight(1.23456, "kg")
	assert.Equal(t, 1.235, w.Value)
}

func TestConvertDimensions_Millimeters(t *testing.T) {
	d := convertDimensions(10, 5, 2, "mm")
	assert.Equal(t, 1.0, d.Length)
	assert.Equal(t, 0.5, d.Width)
	assert.Equal(t, 0.2, d.Height)
	assert.Equal(t, "centimeter", d.Unit)
}

func TestConvertDimensions_Meters(t *testing.T) {
	d := convertDimensions(0.3, 0.2, 0.1, "m")
	assert.InDelta(t, 30.0, d.Length, 1e-9)
	assert.InDelta(t, 20.0, d.Width, 1e-9)
	assert.InDelta(t, 10.0, d.Height, 1e-9)
	assert.Equal(t, "centimeter", d.Unit)
}

func TestConvertDimensions_CentimetersPassThrough(t *testing.T) {
	d := convertDimensions(12.5, 8, 4, "cm")
	assert.Equal(t, 12.5, d.Length)
	assert.Equal(t, "centimeter", d.Unit)
}

func TestConvertDimensions_InchesPassThrough(t *testing.T) {
	d := convertDimensions(10, 5, 2, "in")
	assert.Equal(t, 10.0, d.Length)
	assert.Equal(t, "inch", d.Unit)
}

func TestConvertDimensions_UnknownUnitPassesThrough(t *testing.T) {
	d := convertDimensions(1, 1, 1, "ft")
	assert.Equal(t, "ft", d.Unit)
	assert.Equal(t, 1.0, d.Length)
}

func TestConvertDimensions_MissingValuesDefaultToZero(t *testing.T) {
	d := convertDimensions(0, 0, 0, "cm")
	assert.Equal(t, 0.0, d.Length)
	assert.Equal(t, 0.0, d.Width)
	assert.Equal(t, 0.0, d.Height)
}

func TestConvertDimensions_RoundsBeforeScaling(t *testing.T) {
	d := convertDimensions(10.5554, 0, 0, "mm")
	assert.InDelta(t, 1.0555, d.Length, 1e-9)
}
