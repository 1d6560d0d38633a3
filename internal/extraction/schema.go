package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docbase-br/docbase/constants"
)

// BuildExtractionJSONSchema returns the JSON-Schema (draft 2020-12 subset)
// for structured extraction output as a generic map. We pass it to OpenAI as
// a structured-output constraint and also use it locally to validate.
func BuildExtractionJSONSchema() map[string]any {
	optionalString := map[string]any{"type": []string{"string", "null"}}
	stringArray := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

	person := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":     optionalString,
			"emails":   stringArray,
			"phones":   stringArray,
			"location": optionalString,
			"age_estimate_years": map[string]any{
				"type":    []string{"integer", "null"},
				"minimum": MinAgeYears,
				"maximum": MaxAgeYears,
			},
			"age_evidence": optionalString,
		},
		"required": []string{"name", "emails", "phones", "location", "age_estimate_years", "age_evidence"},
	}

	experience := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"years_estimate": map[string]any{
				"type":    []string{"integer", "null"},
				"minimum": MinExperienceYears,
				"maximum": MaxExperienceYears,
			},
			"years_evidence": optionalString,
			"seniority":      map[string]any{"type": "string", "enum": sortedKeys(constants.SeniorityLevels)},
			"roles":          stringArray,
			"companies":      stringArray,
		},
		"required": []string{"years_estimate", "years_evidence", "seniority", "roles", "companies"},
	}

	skill := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":     map[string]any{"type": "string"},
			"level":    map[string]any{"type": "string", "enum": sortedKeys(constants.SkillLevels)},
			"evidence": map[string]any{"type": "string"},
		},
		"required": []string{"name", "level", "evidence"},
	}

	education := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"degree":      optionalString,
			"institution": optionalString,
			"evidence":    map[string]any{"type": "string"},
		},
		"required": []string{"degree", "institution", "evidence"},
	}

	keywordEvidence := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"term":     map[string]any{"type": "string"},
			"evidence": map[string]any{"type": "string"},
		},
		"required": []string{"term", "evidence"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"doc_type":          map[string]any{"type": "string", "enum": sortedKeys(constants.DocTypes)},
			"person":            person,
			"experience":        experience,
			"skills":            map[string]any{"type": "array", "items": skill},
			"education":         map[string]any{"type": "array", "items": education},
			"keywords_evidence": map[string]any{"type": "array", "items": keywordEvidence},
			"confidence": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"overall": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
				},
				"required": []string{"overall"},
			},
		},
		"required": []string{"doc_type", "person", "experience", "skills", "education", "keywords_evidence", "confidence"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
