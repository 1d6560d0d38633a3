// Package heuristics pulls weak signals (contact phone, age, experience
// years) out of raw document text with regular expressions. These values are
// fallbacks: AI-extracted equivalents take precedence at filter time.
package heuristics

import (
	"regexp"
	"strconv"

	"github.com/docbase-br/docbase/internal/matchtext"
)

var (
	// +55 (11) 99999-9999 and the usual looser renditions.
	rePhone = regexp.MustCompile(`(?:\+?55\s*)?(?:\(?\d{2}\)?\s*)?\d{4,5}[-\s]?\d{4}\b`)
	reDigit = regexp.MustCompile(`\d`)

	reAge = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,3})\s*anos\s*de\s*idade\b`),
		regexp.MustCompile(`\bidade\s*:?\s*(\d{1,3})\b`),
		regexp.MustCompile(`\b(\d{1,3})\s*anos\b`),
	}

	reExperience = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,2})\s*anos?\s*de\s*experiencia\b`),
		regexp.MustCompile(`\bexperiencia\s*(?:de|com)?\s*(\d{1,2})\s*anos?\b`),
	}
)

// ExtractContactPhone returns the first phone-looking run with at least 10
// digits, or "".
func ExtractContactPhone(text string) string {
	for _, match := range rePhone.FindAllString(text, 8) {
		digits := reDigit.FindAllString(match, -1)
		if len(digits) >= 10 {
			return matchtext.Clean(match, 32)
		}
	}
	return ""
}

// ExtractAgeYears scans for age mentions, preferring explicit "anos de
// idade" phrasing, and returns nil when nothing plausible is found.
func ExtractAgeYears(text string) *int {
	return firstIntMatch(reAge, text, 0, 120)
}

// ExtractExperienceYears scans for "N anos de experiencia" phrasing.
func ExtractExperienceYears(text string) *int {
	return firstIntMatch(reExperience, text, 0, 60)
}

func firstIntMatch(patterns []*regexp.Regexp, text string, min, max int) *int {
	normalized := matchtext.Normalize(text)
	for _, re := range patterns {
		m := re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		value, err := strconv.Atoi(m[1])
		if err != nil || value < min || value > max {
			continue
		}
		return &value
	}
	return nil
}
