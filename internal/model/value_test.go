package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_Number(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		def      float64
		expected float64
	}{
		{name: "integer", raw: "50000", expected: 50000},
		{name: "decimal with spaces", raw: "  12.5 ", expected: 12.5},
		{name: "scientific", raw: "1.5E+05", expected: 150000},
		{name: "negative", raw: "-3", expected: -3},
		{name: "blank uses default", raw: "", def: 1, expected: 1},
		{name: "text uses default", raw: "n/a", def: 0, expected: 0},
		{name: "nan uses default", raw: "NaN", def: 7, expected: 7},
		{name: "infinity uses default", raw: "+Inf", def: 1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Cell(tt.raw).Number(tt.def), 1e-9)
		})
	}
}

func TestValue_Present(t *testing.T) {
	assert.False(t, Cell("").Present())
	assert.False(t, Cell(" \t").Present())
	assert.True(t, Cell("0").Present())
	assert.Equal(t, "AAA", Cell(" AAA ").String())
}

func TestDecision_NeedsReview(t *testing.T) {
	for _, d := range Decisions() {
		expected := d == DecisionPossibleIncrease || d == DecisionPossibleDecrease
		assert.Equal(t, expected, d.NeedsReview(), string(d))
	}
	assert.Len(t, Decisions(), 6)
}
