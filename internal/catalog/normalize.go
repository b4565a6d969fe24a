// Package catalog holds the static lookup tables used to build search queries:
// French-to-English category keywords and the supported city list.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldKey lowercases, trims, collapses inner whitespace and strips diacritics,
// so "  Salon de  Coiffure " and "salon de coiffure" share a key, as do
// "Montréal" and "montreal".
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
