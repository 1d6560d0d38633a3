package extraction

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNeverFailsOnGarbage(t *testing.T) {
	inputs := []any{
		nil,
		"not an object",
		42.0,
		[]any{"a", "b"},
		map[string]any{"person": "nope", "experience": []any{}, "skills": "x", "confidence": 3},
		map[string]any{"doc_type": map[string]any{"nested": true}},
	}
	for _, in := range inputs {
		out := Normalize(in)
		require.NotNil(t, out)
		assert.Equal(t, "outro", out.DocType)
		assert.Equal(t, "unknown", out.Experience.Seniority)
		assert.Empty(t, out.Skills)
		assert.Zero(t, out.Confidence.Overall)
	}
}

func TestNormalizeEnumFallbacks(t *testing.T) {
	out := Normalize(map[string]any{
		"doc_type":   "CURRICULO",
		"experience": map[string]any{"seniority": "Pleno"},
	})
	assert.Equal(t, "curriculo", out.DocType)
	assert.Equal(t, "pleno", out.Experience.Seniority)

	out = Normalize(map[string]any{
		"doc_type":   "invoice",
		"experience": map[string]any{"seniority": "principal"},
	})
	assert.Equal(t, "outro", out.DocType)
	assert.Equal(t, "unknown", out.Experience.Seniority)
}

func TestNormalizeIntBoundsNullNotClamp(t *testing.T) {
	out := Normalize(map[string]any{
		"person":     map[string]any{"age_estimate_years": 121.0},
		"experience": map[string]any{"years_estimate": -1.0},
	})
	assert.Nil(t, out.Person.AgeEstimateYears)
	assert.Nil(t, out.Experience.YearsEstimate)

	out = Normalize(map[string]any{
		"person":     map[string]any{"age_estimate_years": "34"},
		"experience": map[string]any{"years_estimate": 60.0},
	})
	require.NotNil(t, out.Person.AgeEstimateYears)
	assert.Equal(t, 34, *out.Person.AgeEstimateYears)
	require.NotNil(t, out.Experience.YearsEstimate)
	assert.Equal(t, 60, *out.Experience.YearsEstimate)

	out = Normalize(map[string]any{
		"experience": map[string]any{"years_estimate": "cinco"},
	})
	assert.Nil(t, out.Experience.YearsEstimate)
}

func TestNormalizeIntTruncatesFractions(t *testing.T) {
	out := Normalize(map[string]any{
		"person":     map[string]any{"age_estimate_years": 34.6},
		"experience": map[string]any{"years_estimate": 7.9},
	})
	require.NotNil(t, out.Person.AgeEstimateYears)
	assert.Equal(t, 34, *out.Person.AgeEstimateYears)
	require.NotNil(t, out.Experience.YearsEstimate)
	assert.Equal(t, 7, *out.Experience.YearsEstimate)

	// Bounds apply to the truncated value, truncation is toward zero.
	out = Normalize(map[string]any{
		"person":     map[string]any{"age_estimate_years": 120.4},
		"experience": map[string]any{"years_estimate": -0.5},
	})
	require.NotNil(t, out.Person.AgeEstimateYears)
	assert.Equal(t, 120, *out.Person.AgeEstimateYears)
	require.NotNil(t, out.Experience.YearsEstimate)
	assert.Equal(t, 0, *out.Experience.YearsEstimate)

	out = Normalize(map[string]any{
		"experience": map[string]any{"years_estimate": -1.2},
	})
	assert.Nil(t, out.Experience.YearsEstimate)
}

func TestNormalizeConfidenceClamped(t *testing.T) {
	for in, want := range map[any]float64{
		1.7:     1,
		-0.2:    0,
		0.85:    0.85,
		"0.5":   0.5,
		"forte": 0,
		nil:     0,
	} {
		out := Normalize(map[string]any{"confidence": map[string]any{"overall": in}})
		assert.Equal(t, want, out.Confidence.Overall, "input %v", in)
	}
}

func TestNormalizeListDedupAndCap(t *testing.T) {
	emails := []any{"Maria@Email.com", "maria@email.com", "  maria@email.com ", "other@email.com"}
	out := Normalize(map[string]any{"person": map[string]any{"emails": emails}})
	assert.Equal(t, []string{"Maria@Email.com", "other@email.com"}, out.Person.Emails)

	roles := make([]any, 0, 30)
	for i := 0; i < 30; i++ {
		roles = append(roles, "role "+strings.Repeat("x", i+1))
	}
	out = Normalize(map[string]any{"experience": map[string]any{"roles": roles}})
	assert.Len(t, out.Experience.Roles, MaxRoles)
	assert.Equal(t, "role x", out.Experience.Roles[0])
}

func TestNormalizeDropsItemsMissingRequiredFields(t *testing.T) {
	out := Normalize(map[string]any{
		"skills": []any{
			map[string]any{"name": "Docker", "level": "advanced", "evidence": ""},
			map[string]any{"name": "", "level": "basic", "evidence": "uso diario"},
			map[string]any{"name": "Go", "level": "expert", "evidence": "servicos em Go"},
			"not a map",
		},
		"keywords_evidence": []any{
			map[string]any{"term": "sql", "evidence": ""},
			map[string]any{"term": "", "evidence": "x"},
			map[string]any{"term": "kafka", "evidence": "fila com kafka"},
		},
		"education": []any{
			map[string]any{"degree": "BSc", "institution": "USP"},
			map[string]any{"degree": nil, "institution": nil, "evidence": "formado em 2019"},
		},
	})

	require.Len(t, out.Skills, 1)
	assert.Equal(t, Skill{Name: "Go", Level: "unknown", Evidence: "servicos em Go"}, out.Skills[0])

	require.Len(t, out.KeywordsEvidence, 1)
	assert.Equal(t, "kafka", out.KeywordsEvidence[0].Term)

	require.Len(t, out.Education, 1)
	assert.Nil(t, out.Education[0].Degree)
	assert.Equal(t, "formado em 2019", out.Education[0].Evidence)
}

func TestNormalizeTruncatesText(t *testing.T) {
	long := strings.Repeat("a", 500)
	out := Normalize(map[string]any{
		"person": map[string]any{"name": long, "age_evidence": long},
	})
	require.NotNil(t, out.Person.Name)
	assert.Len(t, *out.Person.Name, MaxNameLen)
	require.NotNil(t, out.Person.AgeEvidence)
	assert.Len(t, *out.Person.AgeEvidence, MaxEvidenceLen)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first := Normalize(map[string]any{
		"doc_type": " Curriculo ",
		"person": map[string]any{
			"name":               "  Maria   Silva ",
			"emails":             []any{"a@b.com", "A@B.COM"},
			"phones":             []any{11999999999.0},
			"age_estimate_years": 34.0,
			"age_evidence":       "nascida em 1992",
		},
		"experience": map[string]any{
			"years_estimate": "6",
			"seniority":      "SENIOR",
			"roles":          []any{"Dev", "dev", "Tech Lead"},
		},
		"skills": []any{
			map[string]any{"name": "Go", "level": "advanced", "evidence": "APIs em Go"},
		},
		"confidence": map[string]any{"overall": 2.5},
	})

	encoded, err := json.Marshal(first)
	require.NoError(t, err)
	second := NormalizeJSON(encoded)
	assert.Equal(t, first, second)
}

func TestNormalizeJSONRoundTrip(t *testing.T) {
	out := Normalize(map[string]any{"doc_type": "boleto"})
	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	// optional fields must encode as explicit nulls, lists as [].
	assert.Contains(t, string(encoded), `"name":null`)
	assert.Contains(t, string(encoded), `"emails":[]`)
	assert.Contains(t, string(encoded), `"skills":[]`)

	var back NormalizedExtraction
	require.NoError(t, json.Unmarshal(encoded, &back))
	assert.Equal(t, *out, back)
}
