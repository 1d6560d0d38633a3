// Package matchtext normalizes free text for comparison: labels typed by
// users, search terms, and the per-document search blob all go through the
// same transform so substring matching is case- and accent-insensitive.
package matchtext

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFKD and drops combining marks.
var stripAccents = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
)

// Normalize lowercases, trims, removes diacritics and collapses internal
// whitespace runs to single spaces. Whitespace-only input yields "".
func Normalize(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	if lowered == "" {
		return ""
	}
	stripped, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		// transform failures only happen on invalid UTF-8; keep the
		// lowered form rather than dropping the value.
		stripped = lowered
	}
	return strings.Join(strings.Fields(stripped), " ")
}

// CollapseSpace squeezes whitespace runs and trims without touching case or
// accents. Used for display-facing values that must keep their casing.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate caps s at max runes, trimming trailing whitespace from the cut.
// max <= 0 means no limit.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " ")
}

// Clean collapses whitespace and truncates in one step.
func Clean(s string, max int) string {
	return Truncate(CollapseSpace(s), max)
}
