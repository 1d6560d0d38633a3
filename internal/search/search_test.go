package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/extraction"
)

func intPtr(v int) *int { return &v }

func docWithAI(ai *extraction.NormalizedExtraction) *entity.Document {
	return &entity.Document{
		ExtractedPayload: &extraction.DocumentPayload{AI: ai},
	}
}

func resumeAI() *extraction.NormalizedExtraction {
	return extraction.Normalize(map[string]any{
		"doc_type": "curriculo",
		"experience": map[string]any{
			"years_estimate": 5.0,
			"years_evidence": "Atuou de 2019 a 2024 com backend.",
			"seniority":      "pleno",
			"roles":          []any{"Desenvolvedor Backend"},
			"companies":      []any{"Empresa X"},
		},
		"skills": []any{
			map[string]any{"name": "FastAPI", "level": "advanced", "evidence": "Projetos com FastAPI e Docker."},
		},
		"confidence": map[string]any{"overall": 0.8},
	})
}

func TestTermsUseAIPayloadEvenWhenRawTextDoesNotMatch(t *testing.T) {
	doc := docWithAI(resumeAI())
	doc.TextContentNorm = "curriculo profissional"

	matched := Matches(doc, Filters{Terms: NormalizeTerms([]string{"docker"}), Mode: ModeAll})
	assert.True(t, matched)
}

func TestTermMatchingIsAccentInsensitive(t *testing.T) {
	ai := extraction.Normalize(map[string]any{
		"skills": []any{
			map[string]any{"name": "Gestão", "level": "advanced", "evidence": "Gestão de projetos ágeis."},
		},
	})
	doc := docWithAI(ai)
	assert.True(t, Matches(doc, Filters{Terms: NormalizeTerms([]string{"gestao"})}))
	assert.True(t, Matches(doc, Filters{Terms: NormalizeTerms([]string{"ÁGEIS"})}))
}

func TestTermModes(t *testing.T) {
	doc := docWithAI(resumeAI())
	assert.False(t, Matches(doc, Filters{Terms: []string{"docker", "kubernetes"}, Mode: ModeAll}))
	assert.True(t, Matches(doc, Filters{Terms: []string{"docker", "kubernetes"}, Mode: ModeAny}))
}

func TestEmptyBlobNeverMatchesTerms(t *testing.T) {
	doc := &entity.Document{}
	assert.False(t, Matches(doc, Filters{Terms: []string{"docker"}}))
	assert.True(t, Matches(doc, Filters{}), "no terms at all passes")
}

func TestExcludeTermsRejectOutright(t *testing.T) {
	doc := docWithAI(resumeAI())
	matched := Matches(doc, Filters{Terms: []string{"docker"}, ExcludeTerms: []string{"fastapi"}})
	assert.False(t, matched)
}

func TestRangePrefersAIExperienceOverHeuristicField(t *testing.T) {
	ai := extraction.Normalize(map[string]any{
		"doc_type": "curriculo",
		"experience": map[string]any{
			"years_estimate": 6.0,
			"years_evidence": "Trabalhou de 2018 ate atual.",
			"seniority":      "senior",
		},
		"confidence": map[string]any{"overall": 0.7},
	})
	doc := docWithAI(ai)
	doc.ExtractedExperienceYears = intPtr(1)

	assert.True(t, Matches(doc, Filters{ExperienceMinYears: intPtr(5)}))
}

func TestRangeFallsBackToHeuristicWhenAIAbsent(t *testing.T) {
	doc := &entity.Document{ExtractedExperienceYears: intPtr(7)}
	assert.True(t, Matches(doc, Filters{ExperienceMinYears: intPtr(5)}))
	assert.False(t, Matches(doc, Filters{ExperienceMaxYears: intPtr(5)}))
}

func TestExcludeUnknownsBlocksMissingValues(t *testing.T) {
	doc := docWithAI(extraction.Normalize(map[string]any{}))

	rejected := Matches(doc, Filters{ExperienceMinYears: intPtr(3), ExcludeUnknowns: true})
	assert.False(t, rejected)

	accepted := Matches(doc, Filters{ExperienceMinYears: intPtr(3), ExcludeUnknowns: false})
	assert.True(t, accepted)
}

func TestAgeRange(t *testing.T) {
	ai := extraction.Normalize(map[string]any{
		"person": map[string]any{"age_estimate_years": 34.0},
	})
	doc := docWithAI(ai)
	assert.True(t, Matches(doc, Filters{AgeMinYears: intPtr(30), AgeMaxYears: intPtr(40)}))
	assert.False(t, Matches(doc, Filters{AgeMaxYears: intPtr(30)}))
}

func TestBuildAIBlobDedupsAndOrders(t *testing.T) {
	ai := extraction.Normalize(map[string]any{
		"doc_type": "curriculo",
		"experience": map[string]any{
			"seniority": "pleno",
			"roles":     []any{"Backend", "backend"},
		},
	})
	blob := BuildAIBlob(ai)
	assert.Equal(t, "curriculo pleno backend", blob)
}

func TestBuildDocumentBlobFallsBackToRawText(t *testing.T) {
	doc := &entity.Document{TextContent: "Texto Bruto com Ação"}
	assert.Equal(t, "texto bruto com acao", BuildDocumentBlob(doc))

	doc.TextContentNorm = "precomputado"
	assert.Equal(t, "precomputado", BuildDocumentBlob(doc))
}

func TestFindEvidencePrioritizesMatchingTerm(t *testing.T) {
	ai := extraction.Normalize(map[string]any{
		"doc_type": "curriculo",
		"experience": map[string]any{
			"years_estimate": 4.0,
			"years_evidence": "Atuacao com APIs.",
			"seniority":      "pleno",
		},
		"skills": []any{
			map[string]any{"name": "Docker", "level": "advanced", "evidence": "Experiencia forte com Docker e Kubernetes."},
		},
		"confidence": map[string]any{"overall": 0.9},
	})
	doc := docWithAI(ai)

	snippet := FindEvidence(doc, NormalizeTerms([]string{"docker"}), 120, false)
	assert.Contains(t, snippet, "Docker")
}

func TestFindEvidenceFallbackAndTruncation(t *testing.T) {
	ai := extraction.Normalize(map[string]any{
		"experience": map[string]any{
			"years_evidence": "Mais de dez anos construindo sistemas distribuidos de grande escala.",
			"seniority":      "senior",
		},
	})
	doc := docWithAI(ai)

	assert.Empty(t, FindEvidence(doc, []string{"inexistente"}, 120, false))

	snippet := FindEvidence(doc, nil, 30, true)
	require.NotEmpty(t, snippet)
	assert.LessOrEqual(t, len(snippet), 30)
	assert.True(t, len(snippet) > 3 && snippet[len(snippet)-3:] == "...")

	empty := &entity.Document{}
	assert.Empty(t, FindEvidence(empty, nil, 120, true))
}

func TestFindEvidenceTinyMaxLen(t *testing.T) {
	ai := extraction.Normalize(map[string]any{
		"experience": map[string]any{
			"years_evidence": "Experiencia forte com Docker e Kubernetes.",
			"seniority":      "senior",
		},
	})
	doc := docWithAI(ai)

	for _, max := range []int{1, 2, 3, 4} {
		snippet := FindEvidence(doc, nil, max, true)
		assert.LessOrEqual(t, len([]rune(snippet)), max, "max %d", max)
	}
}

func TestEvidenceIndexPrecedence(t *testing.T) {
	ai := extraction.Normalize(map[string]any{
		"experience": map[string]any{
			"years_evidence": "Evidencia de experiencia.",
			"seniority":      "pleno",
		},
		"skills": []any{
			map[string]any{"name": "Go", "level": "advanced", "evidence": "Evidencia de skill."},
		},
	})
	doc := docWithAI(ai)

	// "evidencia" hits both entries; experience comes first in the index.
	snippet := FindEvidence(doc, NormalizeTerms([]string{"evidencia"}), 120, false)
	assert.Equal(t, "Evidencia de experiencia.", snippet)
}

func TestResolveValueRevalidatesBounds(t *testing.T) {
	// An AI payload can only hold in-bounds values, so fabricate the bound
	// breach on the heuristic side and leave AI empty.
	doc := &entity.Document{ExtractedExperienceYears: intPtr(80)}
	assert.Nil(t, ResolveExperienceYears(doc))

	doc = &entity.Document{ExtractedAgeYears: intPtr(121)}
	assert.Nil(t, ResolveAgeYears(doc))
}
