package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLotSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "empty string", input: "", expected: 0},
		{name: "letters only", input: "abc", expected: 0},
		{name: "not available", input: "n/a", expected: 0},
		{name: "thousands separator with unit", input: "5,533 sq ft", expected: 5533},
		{name: "unit glued to number", input: "5533sqft", expected: 5533},
		{name: "upper case sf", input: "6,000 SF", expected: 6000},
		{name: "square feet spelled out", input: "7200 Square Feet", expected: 7200},
		{name: "acres", input: "0.25 acres", expected: 10890},
		{name: "square metres", input: "512 m²", expected: 5511.12},
		{name: "hectares", input: "1.2 ha", expected: 129166.92},
		{name: "dimensions fall back to first digits", input: "Lot 33 x 122", expected: 33},
		{name: "bare number", input: "4026", expected: 4026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLotSize(tt.input))
		})
	}
}

func TestParseLotSize_NeverNegative(t *testing.T) {
	inputs := []string{"-", "-5 sq ft", "sq ft", "0 acres", "∞", "  ", "1e400", "00000"}
	for _, in := range inputs {
		assert.GreaterOrEqual(t, ParseLotSize(in), 0.0, in)
	}
}
