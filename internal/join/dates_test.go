package join

import (
	"testing"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParseResolutionDate(t *testing.T) {
	tests := []struct {
		expected time.Time
		name     string
		raw      string
		ok       bool
	}{
		{name: "excel serial", raw: "45292", expected: day(2024, time.January, 1), ok: true},
		{name: "excel serial with time", raw: "45292.5", expected: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), ok: true},
		{name: "iso date", raw: "2024-06-01", expected: day(2024, time.June, 1), ok: true},
		{name: "iso datetime", raw: "2024-06-01 08:15:00", expected: time.Date(2024, time.June, 1, 8, 15, 0, 0, time.UTC), ok: true},
		{name: "month first", raw: "06/01/2024", expected: day(2024, time.June, 1), ok: true},
		{name: "month first with dashes", raw: "05-06-2024", expected: day(2024, time.May, 6), ok: true},
		{name: "short month first with dashes", raw: "5-6-2024", expected: day(2024, time.May, 6), ok: true},
		{name: "day first when month overflows", raw: "25-12-2023", expected: day(2023, time.December, 25), ok: true},
		{name: "day first slashes when month overflows", raw: "25/12/2023", expected: day(2023, time.December, 25), ok: true},
		{name: "blank", raw: "  ", ok: false},
		{name: "garbage", raw: "pendiente", ok: false},
		{name: "negative serial", raw: "-4", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseResolutionDate(model.Cell(tt.raw))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
			}
		})
	}
}
