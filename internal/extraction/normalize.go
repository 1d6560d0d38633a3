package extraction

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/docbase-br/docbase/constants"
	"github.com/docbase-br/docbase/internal/matchtext"
)

// Normalize coerces an arbitrarily-shaped decoded JSON value into the strict
// schema. It never fails: any substructure of the wrong type, out of range or
// missing its required parts degrades to a default or is dropped. Calling it
// on already-normalized data is a fixed point.
func Normalize(payload any) *NormalizedExtraction {
	m := asMap(payload)
	person := asMap(m["person"])
	experience := asMap(m["experience"])
	confidence := asMap(m["confidence"])

	docType := strings.ToLower(cleanText(m["doc_type"], 40))
	if _, ok := constants.DocTypes[docType]; !ok {
		docType = constants.DocTypeDefault
	}

	seniority := strings.ToLower(cleanText(experience["seniority"], 20))
	if _, ok := constants.SeniorityLevels[seniority]; !ok {
		seniority = constants.LevelUnknown
	}

	skills := make([]Skill, 0)
	for _, raw := range asList(m["skills"]) {
		if skill, ok := normalizeSkill(raw); ok {
			skills = append(skills, skill)
		}
		if len(skills) >= MaxSkills {
			break
		}
	}

	education := make([]Education, 0)
	for _, raw := range asList(m["education"]) {
		if entry, ok := normalizeEducation(raw); ok {
			education = append(education, entry)
		}
		if len(education) >= MaxEducation {
			break
		}
	}

	keywords := make([]KeywordEvidence, 0)
	for _, raw := range asList(m["keywords_evidence"]) {
		if entry, ok := normalizeKeywordEvidence(raw); ok {
			keywords = append(keywords, entry)
		}
		if len(keywords) >= MaxKeywordsEvidence {
			break
		}
	}

	return &NormalizedExtraction{
		DocType: docType,
		Person: Person{
			Name:             cleanOptional(person["name"], MaxNameLen),
			Emails:           cleanList(person["emails"], MaxEmails, MaxEmailLen),
			Phones:           cleanList(person["phones"], MaxPhones, MaxPhoneLen),
			Location:         cleanOptional(person["location"], MaxNameLen),
			AgeEstimateYears: cleanInt(person["age_estimate_years"], MinAgeYears, MaxAgeYears),
			AgeEvidence:      cleanOptional(person["age_evidence"], MaxEvidenceLen),
		},
		Experience: Experience{
			YearsEstimate: cleanInt(experience["years_estimate"], MinExperienceYears, MaxExperienceYears),
			YearsEvidence: cleanOptional(experience["years_evidence"], MaxEvidenceLen),
			Seniority:     seniority,
			Roles:         cleanList(experience["roles"], MaxRoles, MaxItemLen),
			Companies:     cleanList(experience["companies"], MaxCompanies, MaxItemLen),
		},
		Skills:           skills,
		Education:        education,
		KeywordsEvidence: keywords,
		Confidence:       Confidence{Overall: clampConfidence(confidence["overall"])},
	}
}

// NormalizeJSON decodes raw JSON and normalizes it. Undecodable input yields
// the all-defaults payload, same as any other malformed shape.
func NormalizeJSON(raw []byte) *NormalizedExtraction {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Normalize(nil)
	}
	return Normalize(v)
}

func normalizeSkill(raw any) (Skill, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Skill{}, false
	}
	name := cleanText(m["name"], MaxItemLen)
	if name == "" {
		return Skill{}, false
	}
	level := strings.ToLower(cleanText(m["level"], 20))
	if _, allowed := constants.SkillLevels[level]; !allowed {
		level = constants.LevelUnknown
	}
	evidence := cleanText(m["evidence"], MaxEvidenceLen)
	if evidence == "" {
		return Skill{}, false
	}
	return Skill{Name: name, Level: level, Evidence: evidence}, true
}

func normalizeEducation(raw any) (Education, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Education{}, false
	}
	evidence := cleanText(m["evidence"], MaxEvidenceLen)
	if evidence == "" {
		return Education{}, false
	}
	return Education{
		Degree:      cleanOptional(m["degree"], MaxDegreeLen),
		Institution: cleanOptional(m["institution"], MaxDegreeLen),
		Evidence:    evidence,
	}, true
}

func normalizeKeywordEvidence(raw any) (KeywordEvidence, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return KeywordEvidence{}, false
	}
	term := cleanText(m["term"], MaxItemLen)
	evidence := cleanText(m["evidence"], MaxEvidenceLen)
	if term == "" || evidence == "" {
		return KeywordEvidence{}, false
	}
	return KeywordEvidence{Term: term, Evidence: evidence}, true
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return nil
}

// cleanText stringifies scalars, collapses whitespace and truncates. Nil and
// composite values yield "".
func cleanText(v any, maxLen int) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case float64:
		s = formatNumber(t)
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case map[string]any, []any:
		return ""
	default:
		s = fmt.Sprintf("%v", t)
	}
	return matchtext.Clean(s, maxLen)
}

func cleanOptional(v any, maxLen int) *string {
	s := cleanText(v, maxLen)
	if s == "" {
		return nil
	}
	return &s
}

// cleanInt parses an integer, nulling anything out of [min,max] rather than
// clamping. Floats with fractional parts and non-numeric strings are null.
func cleanInt(v any, min, max int) *int {
	var parsed int
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		parsed = int(math.Trunc(t))
	case int:
		parsed = t
	case int64:
		parsed = int(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return nil
		}
		parsed = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		parsed = i
	default:
		return nil
	}
	if parsed < min || parsed > max {
		return nil
	}
	return &parsed
}

// clampConfidence coerces to a float and clamps into [0,1]; non-numeric
// input becomes 0.
func clampConfidence(v any) float64 {
	var parsed float64
	switch t := v.(type) {
	case float64:
		parsed = t
	case int:
		parsed = float64(t)
	case int64:
		parsed = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		parsed = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		parsed = f
	default:
		return 0
	}
	if parsed < 0 || math.IsNaN(parsed) {
		return 0
	}
	if parsed > 1 {
		return 1
	}
	return parsed
}

// cleanList dedups case-insensitively keeping first-seen display casing and
// caps the item count.
func cleanList(v any, maxItems, maxLen int) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, raw := range asList(v) {
		text := cleanText(raw, maxLen)
		if text == "" {
			continue
		}
		lowered := strings.ToLower(text)
		if _, dup := seen[lowered]; dup {
			continue
		}
		seen[lowered] = struct{}{}
		out = append(out, text)
		if len(out) >= maxItems {
			break
		}
	}
	return out
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
