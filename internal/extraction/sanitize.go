package extraction

import (
	"encoding/json"
)

// DocumentPayload is the shape persisted on a document after processing.
// Everything outside this allow-list is discarded.
type DocumentPayload struct {
	DocumentType string                `json:"document_type"`
	Fields       map[string]any        `json:"fields"`
	CustomFields map[string]string     `json:"custom_fields"`
	AI           *NormalizedExtraction `json:"ai,omitempty"`
	AIMeta       *Meta                 `json:"ai_meta,omitempty"`
}

// SanitizePayload reduces an arbitrary extraction result to the persisted
// allow-list. The "ai" section is re-normalized so stored data always obeys
// the strict schema; "ai_meta" keeps only its known keys.
func SanitizePayload(raw any) DocumentPayload {
	m := asMap(raw)

	out := DocumentPayload{
		DocumentType: cleanText(m["document_type"], 80),
		Fields:       map[string]any{},
		CustomFields: map[string]string{},
	}

	for key, value := range asMap(m["fields"]) {
		out.Fields[key] = value
	}
	for key, value := range asMap(m["custom_fields"]) {
		out.CustomFields[key] = cleanText(value, 500)
	}

	if ai := asMap(m["ai"]); len(ai) > 0 {
		out.AI = Normalize(ai)
	}
	if metaRaw := asMap(m["ai_meta"]); len(metaRaw) > 0 {
		// decoding through the typed struct drops unknown keys
		var meta Meta
		if b, err := json.Marshal(metaRaw); err == nil {
			if err := json.Unmarshal(b, &meta); err == nil {
				out.AIMeta = &meta
			}
		}
	}
	return out
}
