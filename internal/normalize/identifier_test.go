package normalize

import (
	"testing"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCustomerKey(t *testing.T) {
	tests := []struct {
		input    any
		name     string
		expected string
	}{
		{name: "leading zeros", input: "007", expected: "7"},
		{name: "plain code", input: "7", expected: "7"},
		{name: "float artifact", input: "7.0", expected: "7"},
		{name: "float value", input: 7.0, expected: "7"},
		{name: "int value", input: 7, expected: "7"},
		{name: "surrounding whitespace", input: "  0012345 ", expected: "12345"},
		{name: "artifact before whitespace", input: " 12345.0 ", expected: "12345"},
		{name: "trailing zeros kept", input: "1000", expected: "1000"},
		{name: "cell value", input: model.Cell("00100.0"), expected: "100"},
		{name: "alphanumeric", input: "0C-001", expected: "C-001"},
		{name: "nil is sentinel", input: nil, expected: ""},
		{name: "blank is sentinel", input: "   ", expected: ""},
		{name: "all zeros is sentinel", input: "000", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CustomerKey(tt.input))
		})
	}
}

func TestCustomerKey_ConvergesAcrossSources(t *testing.T) {
	primary := CustomerKey("7")
	history := CustomerKey(7.0)
	coverage := CustomerKey("007")

	assert.Equal(t, primary, history)
	assert.Equal(t, primary, coverage)
}
