// Package normalize canonicalizes text and dates so that two renditions of
// the same real-world fact become textually comparable. All functions are
// pure; absence of a parse is a normal outcome, never an error.
package normalize

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes diacritics via NFD decomposition followed by combining
// mark removal, recomposing to NFC afterwards.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Text canonicalizes free text for comparison: trims, collapses whitespace
// runs, lowercases, strips diacritics, and drops punctuation except hyphens
// and apostrophes interior to a token (so "O'Brien" and "Abena-Mensah"
// survive). Idempotent: Text(Text(s)) == Text(s).
//
// An empty result means the value is absent; callers treat "" as null.
func Text(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform failures only occur on invalid UTF-8; fall back to
		// the raw input rather than dropping the value.
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '\'':
			b.WriteRune(r)
		default:
			// All other punctuation and whitespace becomes a separator.
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	out := tokens[:0]
	for _, tok := range tokens {
		tok = strings.Trim(tok, "-'")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}

// dateLayouts is the fixed, ordered list of accepted input formats. Order
// matters: day-first forms win over month-first for ambiguous values like
// 05/01/2020.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"20060102",
	"2006/01/02",
	"02.01.2006",
}

// Date parses a textual date against the accepted formats and returns the
// canonical YYYY-MM-DD form. ok is false when no format matches; malformed
// input is a representable outcome, not an error.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
