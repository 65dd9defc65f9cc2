// Package reconcile matches external feed records against locally stored
// teams and fixtures and applies the resulting updates idempotently.
package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopTokens are club-name decorations that carry no identity. Dropping
// them widens a match; the resolver's ambiguity guard keeps the widening
// from producing false positives.
var stopTokens = map[string]struct{}{
	"fc":     {},
	"afc":    {},
	"cf":     {},
	"cd":     {},
	"ac":     {},
	"as":     {},
	"sc":     {},
	"ssc":    {},
	"tsg":    {},
	"vfb":    {},
	"vfl":    {},
	"bsc":    {},
	"fsv":    {},
	"rc":     {},
	"club":   {},
	"united": {},
	"city":   {},
}

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the canonical comparison form of a club name. It is
// deterministic, total, and idempotent: empty input yields "", and
// Normalize(Normalize(x)) == Normalize(x) for every x. The result is only
// used to widen matching, never as a display value.
func Normalize(raw string) string {
	folded, _, err := transform.String(foldMarks, raw)
	if err != nil {
		folded = raw
	}

	kept := make([]string, 0, 4)
	for _, tok := range strings.Fields(strings.ToLower(folded)) {
		tok = strings.Trim(tok, ".,")
		if tok == "" {
			continue
		}
		if _, skip := stopTokens[tok]; skip {
			continue
		}
		if numericToken(tok) {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

// numericToken reports whether tok is a founding-year style numeral
// ("04", "05", "1899", "1846") or a federation ordinal ("1").
func numericToken(tok string) bool {
	if len(tok) == 0 || len(tok) > 4 {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
