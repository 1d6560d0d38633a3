package search

import (
	"strings"

	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/extraction"
	"github.com/docbase-br/docbase/internal/matchtext"
)

// Term-match modes.
const (
	ModeAll = "all"
	ModeAny = "any"
)

// Filters is one semantic admission test: terms, exclusions and optional
// experience/age ranges. Nil range bounds mean "not set".
type Filters struct {
	Terms        []string `json:"terms,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	ExcludeTerms []string `json:"exclude_terms,omitempty"`

	ExperienceMinYears *int `json:"experience_min_years,omitempty"`
	ExperienceMaxYears *int `json:"experience_max_years,omitempty"`
	AgeMinYears        *int `json:"age_min_years,omitempty"`
	AgeMaxYears        *int `json:"age_max_years,omitempty"`

	// ExcludeUnknowns rejects documents whose resolved value is unknown
	// when a bound on that value is set.
	ExcludeUnknowns bool `json:"exclude_unknowns,omitempty"`
}

// NormalizeTerms prepares user-supplied terms for blob matching.
func NormalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if normalized := matchtext.Normalize(term); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

// MatchesTerms reports whether the document blob satisfies terms under mode.
// Empty terms always pass; an empty blob never matches.
func MatchesTerms(doc *entity.Document, terms []string, mode string) bool {
	if len(terms) == 0 {
		return true
	}
	blob := BuildDocumentBlob(doc)
	if blob == "" {
		return false
	}
	if mode == ModeAny {
		for _, term := range terms {
			if strings.Contains(blob, term) {
				return true
			}
		}
		return false
	}
	for _, term := range terms {
		if !strings.Contains(blob, term) {
			return false
		}
	}
	return true
}

// MatchesExcludes reports whether any exclusion term hits the blob.
func MatchesExcludes(doc *entity.Document, excludeTerms []string) bool {
	if len(excludeTerms) == 0 {
		return false
	}
	blob := BuildDocumentBlob(doc)
	if blob == "" {
		return false
	}
	for _, term := range excludeTerms {
		if strings.Contains(blob, term) {
			return true
		}
	}
	return false
}

// ResolveExperienceYears prefers the AI years estimate over the heuristic
// field, falling back only when the AI value is absent or out of bounds.
func ResolveExperienceYears(doc *entity.Document) *int {
	if ai := doc.AIPayload(); ai != nil {
		if v := boundedInt(ai.Experience.YearsEstimate, extraction.MinExperienceYears, extraction.MaxExperienceYears); v != nil {
			return v
		}
	}
	return boundedInt(doc.ExtractedExperienceYears, extraction.MinExperienceYears, extraction.MaxExperienceYears)
}

// ResolveAgeYears prefers the AI age estimate over the heuristic field.
func ResolveAgeYears(doc *entity.Document) *int {
	if ai := doc.AIPayload(); ai != nil {
		if v := boundedInt(ai.Person.AgeEstimateYears, extraction.MinAgeYears, extraction.MaxAgeYears); v != nil {
			return v
		}
	}
	return boundedInt(doc.ExtractedAgeYears, extraction.MinAgeYears, extraction.MaxAgeYears)
}

// PassesRanges applies the experience/age bounds. An unknown value passes a
// set bound unless excludeUnknowns is on; that check applies independently
// per bound.
func PassesRanges(doc *entity.Document, f Filters) bool {
	experience := ResolveExperienceYears(doc)
	age := ResolveAgeYears(doc)

	if !passesBound(experience, f.ExperienceMinYears, f.ExcludeUnknowns, func(v, bound int) bool { return v >= bound }) {
		return false
	}
	if !passesBound(experience, f.ExperienceMaxYears, f.ExcludeUnknowns, func(v, bound int) bool { return v <= bound }) {
		return false
	}
	if !passesBound(age, f.AgeMinYears, f.ExcludeUnknowns, func(v, bound int) bool { return v >= bound }) {
		return false
	}
	if !passesBound(age, f.AgeMaxYears, f.ExcludeUnknowns, func(v, bound int) bool { return v <= bound }) {
		return false
	}
	return true
}

// Matches is the composed admission test: terms, then excludes, then
// ranges, short-circuiting on the first failure.
func Matches(doc *entity.Document, f Filters) bool {
	if !MatchesTerms(doc, f.Terms, f.Mode) {
		return false
	}
	if MatchesExcludes(doc, f.ExcludeTerms) {
		return false
	}
	return PassesRanges(doc, f)
}

func passesBound(value, bound *int, excludeUnknowns bool, ok func(v, bound int) bool) bool {
	if bound == nil {
		return true
	}
	if value == nil {
		return !excludeUnknowns
	}
	return ok(*value, *bound)
}

func boundedInt(v *int, min, max int) *int {
	if v == nil || *v < min || *v > max {
		return nil
	}
	return v
}
