package pipeline

import (
	"regexp"
	"strings"

	"github.com/docbase-br/docbase/constants"
	"github.com/docbase-br/docbase/internal/fields"
	"github.com/docbase-br/docbase/internal/matchtext"
)

// Label/value patterns for Brazilian financial documents. All patterns run
// over accent-stripped lowercase lines.
const datePattern = `(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}-\d{1,2}-\d{4})`

var (
	reDueDate    = regexp.MustCompile(`vencimento\D{0,12}` + datePattern)
	reIssueDate  = regexp.MustCompile(`(?:data de emissao|emissao|emitido em|data do documento)\D{0,12}` + datePattern)
	reMoneyValue = regexp.MustCompile(`valor(?: total| do documento| a pagar| cobrado)?\s*:?\s*(?:r\$)?\s*([\d.,]+)`)
	reJurosValue = regexp.MustCompile(`juros\s*:?\s*(?:r\$)?\s*([\d.,]+)`)
	reMultaValue = regexp.MustCompile(`multa\s*:?\s*(?:r\$)?\s*([\d.,]+)`)
	reCNPJ       = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)
	reCPF        = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	reBarcodeRun = regexp.MustCompile(`[\d][\d .]{38,70}[\d]`)
	rePayeeName  = regexp.MustCompile(`(?:beneficiario|cedente|favorecido)\s*:?\s+(.+)`)
	rePayerName  = regexp.MustCompile(`(?:pagador|sacado)\s*:?\s+(.+)`)
	reDocNumber  = regexp.MustCompile(`(?:numero do documento|documento no?)\s*:?\s+([\w./-]+)`)
	reNonDigit   = regexp.MustCompile(`\D`)
)

var docTypeSignals = []struct {
	term    string
	docType string
}{
	{"curriculo", "curriculo"},
	{"curriculum vitae", "curriculo"},
	{"nota fiscal", "nota_fiscal"},
	{"danfe", "nota_fiscal"},
	{"boleto", "boleto"},
	{"ficha de compensacao", "boleto"},
	{"contrato", "contrato"},
	{"fatura", "fatura"},
	{"recibo", "recibo"},
	{"comprovante", "comprovante"},
}

// BuildHeuristicPayload derives the deterministic extraction payload from raw
// text: a document type guess, label-matched builtin field values, and values
// for the user's custom keywords found by anchor scanning.
func BuildHeuristicPayload(rawText string, keywordMap map[string]fields.KeywordMapEntry) (fields.HeuristicPayload, map[string]string) {
	normalized := matchtext.Normalize(rawText)
	lines := normalizedLines(rawText)

	payload := fields.HeuristicPayload{
		DocumentType: guessDocType(normalized),
		Fields:       map[string]any{},
	}

	setMatch := func(key string, re *regexp.Regexp) {
		for _, line := range lines {
			if m := re.FindStringSubmatch(line); m != nil {
				payload.Fields[key] = strings.TrimSpace(m[1])
				return
			}
		}
	}
	setMatch("due_date", reDueDate)
	setMatch("issue_date", reIssueDate)
	setMatch("document_value", reMoneyValue)
	setMatch("juros", reJurosValue)
	setMatch("multa", reMultaValue)
	setMatch("payee_name", rePayeeName)
	setMatch("payer_name", rePayerName)
	setMatch("document_number", reDocNumber)

	if cnpjs := reCNPJ.FindAllString(normalized, 2); len(cnpjs) > 0 {
		payload.Fields["cnpj"] = cnpjs[0]
		if len(cnpjs) > 1 {
			payload.Fields["payer_cnpj"] = cnpjs[1]
		}
	}
	if cpf := reCPF.FindString(normalized); cpf != "" {
		payload.Fields["cpf"] = cpf
	}
	if barcode := findBarcode(lines); barcode != "" {
		payload.Fields["barcode"] = barcode
	}

	custom := map[string]string{}
	for key, entry := range keywordMap {
		value := findAnchoredValue(lines, entry.Anchors)
		if value == "" {
			continue
		}
		if entry.ResolvedKind == "builtin" && entry.FieldKey != "" {
			if _, exists := payload.Fields[entry.FieldKey]; !exists {
				payload.Fields[entry.FieldKey] = value
			}
			continue
		}
		custom[key] = value
	}
	return payload, custom
}

func guessDocType(normalized string) string {
	for _, signal := range docTypeSignals {
		if strings.Contains(normalized, signal.term) {
			return signal.docType
		}
	}
	return constants.DocTypeDefault
}

func normalizedLines(rawText string) []string {
	raw := strings.Split(rawText, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		norm := matchtext.Normalize(line)
		if norm != "" {
			lines = append(lines, norm)
		}
	}
	return lines
}

// findBarcode looks for a long digit run, tolerating the spaces and dots
// boleto barcodes print with.
func findBarcode(lines []string) string {
	for _, line := range lines {
		run := reBarcodeRun.FindString(line)
		if run == "" {
			continue
		}
		digits := reNonDigit.ReplaceAllString(run, "")
		if len(digits) >= 40 && len(digits) <= 48 {
			return digits
		}
	}
	return ""
}

// findAnchoredValue returns the rest of the first line that starts with (or
// contains) one of the keyword's anchors.
func findAnchoredValue(lines []string, anchors []string) string {
	for _, anchor := range anchors {
		normAnchor := matchtext.Normalize(anchor)
		if normAnchor == "" {
			continue
		}
		for _, line := range lines {
			idx := strings.Index(line, normAnchor)
			if idx < 0 {
				continue
			}
			rest := strings.TrimSpace(line[idx+len(normAnchor):])
			rest = strings.TrimLeft(rest, ":- ")
			rest = strings.TrimSpace(rest)
			if rest == "" {
				continue
			}
			return matchtext.Truncate(rest, 120)
		}
	}
	return ""
}
