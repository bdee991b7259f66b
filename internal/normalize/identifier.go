// Package normalize canonicalizes customer identifiers and column headers so
// that differently shaped input tables can be joined and read by name.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/credit-limit-engine/internal/model"
)

// CustomerKey converts a raw identifier into the key used for joins.
//
// Numeric codes exported with a float artifact ("7.0"), codes padded with
// leading zeros ("007") and plain codes ("7") all map to "7". A nil or blank
// identifier maps to the empty string, which never matches another key.
func CustomerKey(v any) string {
	var s string
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		s = id
	case model.Value:
		s = id.Raw
	case float64:
		s = strconv.FormatFloat(id, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(id), 'f', -1, 32)
	case int:
		s = strconv.Itoa(id)
	case int64:
		s = strconv.FormatInt(id, 10)
	case fmt.Stringer:
		s = id.String()
	default:
		s = fmt.Sprint(id)
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	s = strings.TrimSpace(s)
	return strings.TrimLeft(s, "0")
}
