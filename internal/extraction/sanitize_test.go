package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePayloadPreservesAISections(t *testing.T) {
	payload := map[string]any{
		"document_type": "curriculo",
		"fields":        map[string]any{"document_value": "10.00"},
		"custom_fields": map[string]any{},
		"ai": map[string]any{
			"doc_type": "curriculo",
			"person": map[string]any{
				"name":   "Maria",
				"emails": []any{"maria@email.com"},
			},
			"experience": map[string]any{
				"years_estimate": 5.0,
				"seniority":      "pleno",
			},
			"confidence": map[string]any{"overall": 0.8},
		},
		"ai_meta": map[string]any{
			"model":          "gpt-5-mini",
			"schema_version": "2026-02-02.v1",
			"created_at":     "2026-02-02T00:00:00+00:00",
			"ignore_me":      "x",
		},
		"unknown_top_level": "dropped",
	}

	cleaned := SanitizePayload(payload)
	assert.Equal(t, "curriculo", cleaned.DocumentType)
	assert.Equal(t, "10.00", cleaned.Fields["document_value"])

	require.NotNil(t, cleaned.AI)
	assert.Equal(t, "curriculo", cleaned.AI.DocType)
	assert.Equal(t, []string{"maria@email.com"}, cleaned.AI.Person.Emails)

	require.NotNil(t, cleaned.AIMeta)
	assert.Equal(t, "gpt-5-mini", cleaned.AIMeta.Model)
	assert.Equal(t, "2026-02-02.v1", cleaned.AIMeta.SchemaVersion)
}

func TestSanitizePayloadToleratesGarbage(t *testing.T) {
	cleaned := SanitizePayload("nonsense")
	assert.Empty(t, cleaned.DocumentType)
	assert.Nil(t, cleaned.AI)
	assert.Nil(t, cleaned.AIMeta)
	assert.NotNil(t, cleaned.Fields)

	cleaned = SanitizePayload(map[string]any{"ai": map[string]any{}, "ai_meta": "x"})
	assert.Nil(t, cleaned.AI)
	assert.Nil(t, cleaned.AIMeta)
}

func TestSchemaAcceptsNormalizedPayloadShape(t *testing.T) {
	schema := BuildExtractionJSONSchema()
	valid := []byte(`{
		"doc_type": "curriculo",
		"person": {"name": null, "emails": [], "phones": [], "location": null, "age_estimate_years": null, "age_evidence": null},
		"experience": {"years_estimate": 5, "years_evidence": "2019-2024", "seniority": "pleno", "roles": [], "companies": []},
		"skills": [{"name": "Go", "level": "advanced", "evidence": "APIs"}],
		"education": [],
		"keywords_evidence": [],
		"confidence": {"overall": 0.8}
	}`)
	assert.NoError(t, ValidateJSONAgainstSchema(schema, valid))

	invalid := []byte(`{"doc_type": "curriculo"}`)
	assert.Error(t, ValidateJSONAgainstSchema(schema, invalid))
}
