// Package model defines the core domain models used throughout the application.
package model

import (
	"math"
	"strconv"
	"strings"
)

// Value is a single cell as it was read from an input table. Every numeric read
// of customer data goes through Number so a blank or malformed cell never turns
// into an untyped null inside the scoring arithmetic.
type Value struct {
	Raw string
}

// Cell wraps a raw cell string.
func Cell(raw string) Value {
	return Value{Raw: raw}
}

// Present reports whether the cell holds anything other than whitespace.
func (v Value) Present() bool {
	return strings.TrimSpace(v.Raw) != ""
}

// String returns the trimmed cell text.
func (v Value) String() string {
	return strings.TrimSpace(v.Raw)
}

// Float parses the cell as a finite number.
func (v Value) Float() (float64, bool) {
	s := strings.TrimSpace(v.Raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Number returns the numeric value of the cell, or def when the cell is blank
// or not a number.
func (v Value) Number(def float64) float64 {
	if f, ok := v.Float(); ok {
		return f
	}
	return def
}
