// Package openai implements extraction.Extractor against the OpenAI
// Responses API with a strict structured-output schema.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/extraction"
)

// Extract implements extraction.Extractor. The returned payload is already
// normalized; raw model output never leaves this package.
func (c *Client) Extract(ctx context.Context, text, filename string) (*extraction.NormalizedExtraction, *extraction.Meta, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, common.ErrEmptyText
	}

	rid := uuid.New().String()
	start := time.Now()

	trimmed, truncated := truncateText(text, c.cfg.MaxTextChars)
	if filename == "" {
		filename = "desconhecido"
	}
	userPrompt := fmt.Sprintf("Arquivo: %s\nTexto bruto do documento:\n%s", filename, trimmed)

	body := map[string]any{
		"model": c.cfg.Model,
		"input": []map[string]any{
			{"role": "system", "content": extraction.SystemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"text": map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   "document_ai_extraction",
				"strict": true,
				"schema": extraction.BuildExtractionJSONSchema(),
			},
		},
		"max_output_tokens": c.cfg.MaxOutputTokens,
		"reasoning":         map[string]any{"effort": c.cfg.ReasoningEffort},
	}

	c.log.Info("ai.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"input_chars", len(trimmed),
		"input_truncated", truncated,
		"reasoning_effort", c.cfg.ReasoningEffort,
	)

	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/responses", body)
	if err != nil {
		c.log.Error("ai.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, err
	}

	var resp responseEnvelope
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.log.Error("ai.extract.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return nil, nil, fmt.Errorf("decode openai response: %w", err)
	}
	content, err := resp.outputText()
	if err != nil {
		c.log.Error("ai.extract.no_output_text", "req_id", rid, "error", err)
		return nil, nil, err
	}

	rawContent := []byte(content)
	if err := extraction.ValidateJSONAgainstSchema(extraction.BuildExtractionJSONSchema(), rawContent); err != nil {
		// The normalizer tolerates any shape; log and continue rather
		// than failing the whole attempt over an optional offender.
		c.log.Warn("ai.extract.schema_validation_failed", "req_id", rid, "error", err)
	}
	normalized := extraction.NormalizeJSON(rawContent)

	meta := &extraction.Meta{
		Provider:        "openai",
		Model:           firstNonEmpty(resp.Model, c.cfg.Model),
		SchemaVersion:   c.cfg.SchemaVersion,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		ReasoningEffort: c.cfg.ReasoningEffort,
		InputChars:      len(trimmed),
		InputTruncated:  truncated,
		ResponseID:      resp.ID,
	}

	c.log.Info("ai.extract.ok",
		"req_id", rid,
		"model", meta.Model,
		"response_id", meta.ResponseID,
		"doc_type", normalized.DocType,
		"confidence", normalized.Confidence.Overall,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return normalized, meta, nil
}

type responseEnvelope struct {
	ID         string `json:"id"`
	Model      string `json:"model"`
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// outputText prefers the aggregate output_text field, then scans the output
// items for the first non-empty text block.
func (r *responseEnvelope) outputText() (string, error) {
	if strings.TrimSpace(r.OutputText) != "" {
		return r.OutputText, nil
	}
	for _, item := range r.Output {
		for _, content := range item.Content {
			if content.Type != "output_text" && content.Type != "text" {
				continue
			}
			if strings.TrimSpace(content.Text) != "" {
				return content.Text, nil
			}
		}
	}
	return "", common.ErrNoOutputText
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

func truncateText(text string, maxChars int) (string, bool) {
	normalized := strings.TrimSpace(text)
	if maxChars <= 0 || len(normalized) <= maxChars {
		return normalized, false
	}
	return normalized[:maxChars], true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
