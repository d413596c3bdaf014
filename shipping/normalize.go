package shipping

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalize lowercases and strips diacritics so "Córdoba" matches "cordoba".
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// containsLocality reports whether the geocoder's formatted address mentions
// the requested locality, ignoring case and accents.
func containsLocality(formattedAddress, locality string) bool {
	return strings.Contains(normalize(formattedAddress), normalize(locality))
}
