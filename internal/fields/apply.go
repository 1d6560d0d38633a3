// Package fields maps a heuristic extraction payload onto a document's
// persisted structured fields, with locale-aware parsing of dates, money
// values and digit-only identifiers.
package fields

import (
	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/heuristics"
	"github.com/docbase-br/docbase/internal/matchtext"
)

// Digit-count constraints for identifier fields.
const (
	CNPJLen       = 14
	CPFLen        = 11
	BarcodeMaxLen = 48
)

// HeuristicPayload is the flat extraction shape produced by the deterministic
// matcher: a guessed document type plus a free-form field map.
type HeuristicPayload struct {
	DocumentType string         `json:"document_type"`
	Fields       map[string]any `json:"fields"`
}

// Apply mutates doc's structured fields from the heuristic payload and raw
// text. Unparseable values store as null/empty and never stop the rest of
// the fields from applying.
func Apply(doc *entity.Document, rawText string, payload HeuristicPayload) {
	normalized := matchtext.Normalize(rawText)
	doc.ExtractedText = rawText
	doc.ExtractedTextNormalized = normalized
	doc.TextContent = rawText
	doc.TextContentNorm = normalized

	doc.DocumentType = payload.DocumentType
	f := payload.Fields
	if f == nil {
		f = map[string]any{}
	}

	doc.IssueDate = ParseDate(f["issue_date"])
	doc.DueDate = ParseDate(f["due_date"])
	doc.DocumentValue = ParseDecimal(f["document_value"])
	doc.Juros = ParseDecimal(f["juros"])
	doc.Multa = ParseDecimal(f["multa"])
	doc.Barcode = NormalizeDigits(f["barcode"], BarcodeMaxLen, 0)
	doc.PayeeName = CleanText(f["payee_name"], 200)
	doc.PayerName = CleanText(f["payer_name"], 200)
	doc.PayeeCNPJ = NormalizeDigits(coalesce(f["payee_cnpj"], f["cnpj"]), 0, CNPJLen)
	doc.PayerCNPJ = NormalizeDigits(f["payer_cnpj"], 0, CNPJLen)
	doc.CPF = NormalizeDigits(f["cpf"], 0, CPFLen)
	doc.DocumentNumber = CleanText(f["document_number"], 64)

	doc.ContactPhone = heuristics.ExtractContactPhone(rawText)
	doc.ExtractedAgeYears = heuristics.ExtractAgeYears(rawText)
	doc.ExtractedExperienceYears = heuristics.ExtractExperienceYears(rawText)
}

func coalesce(values ...any) any {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return v
	}
	return nil
}
