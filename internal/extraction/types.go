// Package extraction defines the strict, bounded schema for AI document
// extraction and the normalizer that coerces arbitrary model output into it.
package extraction

// Field bounds for the normalized payload. List caps drop excess items,
// integer bounds null out-of-range values, text bounds truncate.
const (
	MaxNameLen     = 160
	MaxEmailLen    = 120
	MaxPhoneLen    = 32
	MaxEvidenceLen = 220
	MaxItemLen     = 120
	MaxDegreeLen   = 160

	MaxEmails           = 10
	MaxPhones           = 10
	MaxRoles            = 20
	MaxCompanies        = 20
	MaxSkills           = 30
	MaxEducation        = 20
	MaxKeywordsEvidence = 40

	MinAgeYears        = 0
	MaxAgeYears        = 120
	MinExperienceYears = 0
	MaxExperienceYears = 60
)

// NormalizedExtraction is the canonical output of Normalize. Produced once
// per extraction attempt, immutable thereafter, persisted as part of the
// document's extracted JSON. Round-trips through JSON losslessly.
type NormalizedExtraction struct {
	DocType          string            `json:"doc_type"`
	Person           Person            `json:"person"`
	Experience       Experience        `json:"experience"`
	Skills           []Skill           `json:"skills"`
	Education        []Education       `json:"education"`
	KeywordsEvidence []KeywordEvidence `json:"keywords_evidence"`
	Confidence       Confidence        `json:"confidence"`
}

type Person struct {
	Name             *string  `json:"name"`
	Emails           []string `json:"emails"`
	Phones           []string `json:"phones"`
	Location         *string  `json:"location"`
	AgeEstimateYears *int     `json:"age_estimate_years"`
	AgeEvidence      *string  `json:"age_evidence"`
}

type Experience struct {
	YearsEstimate *int     `json:"years_estimate"`
	YearsEvidence *string  `json:"years_evidence"`
	Seniority     string   `json:"seniority"`
	Roles         []string `json:"roles"`
	Companies     []string `json:"companies"`
}

// Skill requires both a name and an evidence excerpt; entries missing either
// are dropped during normalization, never defaulted.
type Skill struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Evidence string `json:"evidence"`
}

type Education struct {
	Degree      *string `json:"degree"`
	Institution *string `json:"institution"`
	Evidence    string  `json:"evidence"`
}

type KeywordEvidence struct {
	Term     string `json:"term"`
	Evidence string `json:"evidence"`
}

type Confidence struct {
	Overall float64 `json:"overall"`
}

// Meta describes one extraction attempt for audit purposes. Stored alongside
// the normalized payload under "ai_meta".
type Meta struct {
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	SchemaVersion   string `json:"schema_version"`
	CreatedAt       string `json:"created_at"`
	ReasoningEffort string `json:"reasoning_effort"`
	InputChars      int    `json:"input_chars"`
	InputTruncated  bool   `json:"input_truncated"`
	ResponseID      string `json:"response_id,omitempty"`
}
