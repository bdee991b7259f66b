package join

import (
	"strings"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/xuri/excelize/v2"
)

// Largest serial Excel can display (9999-12-31).
const maxExcelSerial = 2958465

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"01/02/2006 15:04:05",
	"01-02-2006",
	"1-2-2006",
	"01-02-06",
	// Day first only when the leading field cannot be a month.
	"02/01/2006",
	"02-01-2006",
}

// ParseResolutionDate reads a resolution date cell. Raw workbook cells carry
// dates as Excel serial numbers; text cells are tried against the common
// layouts, month first for both slashes and dashes. The result is a wall-clock time in UTC.
func ParseResolutionDate(v model.Value) (time.Time, bool) {
	s := strings.TrimSpace(v.Raw)
	if s == "" {
		return time.Time{}, false
	}

	if serial, ok := v.Float(); ok {
		if serial <= 0 || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
