package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Header folds a column header for lookups: surrounding whitespace is trimmed,
// inner runs of whitespace collapse to one space, accents are dropped and case
// is folded, so "Límite de crédito " and "LIMITE DE CREDITO" compare equal.
func Header(h string) string {
	h = strings.Join(strings.Fields(h), " ")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, h)
	if err != nil {
		stripped = h
	}
	return folder.String(stripped)
}

// HeaderIndex maps folded headers to their column position. When a header
// repeats, the first occurrence wins.
type HeaderIndex map[string]int

// NewHeaderIndex builds an index over a header row.
func NewHeaderIndex(headers []string) HeaderIndex {
	idx := make(HeaderIndex, len(headers))
	for i, h := range headers {
		key := Header(h)
		if key == "" {
			continue
		}
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// Lookup returns the position of the named column.
func (h HeaderIndex) Lookup(name string) (int, bool) {
	i, ok := h[Header(name)]
	return i, ok
}
