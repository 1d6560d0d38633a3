// Package search evaluates term, exclusion and range predicates over a
// document's normalized extraction, and locates evidence snippets for
// display. Everything operates on accent- and case-insensitive normalized
// text so filters behave the same for "Código" and "codigo".
package search

import (
	"strconv"
	"strings"

	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/extraction"
	"github.com/docbase-br/docbase/internal/matchtext"
)

// BuildAIBlob flattens the normalized AI payload into one normalized search
// string. Traversal order is fixed; chunks deduplicate by normalized form
// keeping the first occurrence.
func BuildAIBlob(p *extraction.NormalizedExtraction) string {
	if p == nil {
		return ""
	}

	chunks := make([]string, 0, 32)
	seen := make(map[string]struct{})
	add := func(raw string) {
		normalized := matchtext.Normalize(raw)
		if normalized == "" {
			return
		}
		if _, dup := seen[normalized]; dup {
			return
		}
		seen[normalized] = struct{}{}
		chunks = append(chunks, normalized)
	}
	addOptional := func(s *string) {
		if s != nil {
			add(*s)
		}
	}

	add(p.DocType)

	addOptional(p.Person.Name)
	addOptional(p.Person.Location)
	addOptional(p.Person.AgeEvidence)
	for _, email := range p.Person.Emails {
		add(email)
	}
	for _, phone := range p.Person.Phones {
		add(phone)
	}

	add(p.Experience.Seniority)
	addOptional(p.Experience.YearsEvidence)
	if p.Experience.YearsEstimate != nil {
		add(strconv.Itoa(*p.Experience.YearsEstimate))
	}
	for _, role := range p.Experience.Roles {
		add(role)
	}
	for _, company := range p.Experience.Companies {
		add(company)
	}

	for _, skill := range p.Skills {
		add(skill.Name)
		add(skill.Level)
		add(skill.Evidence)
	}
	for _, edu := range p.Education {
		addOptional(edu.Degree)
		addOptional(edu.Institution)
		add(edu.Evidence)
	}
	for _, kw := range p.KeywordsEvidence {
		add(kw.Term)
		add(kw.Evidence)
	}

	return strings.Join(chunks, " ")
}

// BuildDocumentBlob joins the AI blob with the document's normalized text.
// The precomputed TextContentNorm is preferred; raw text fields are
// normalized on the fly only when it is absent.
func BuildDocumentBlob(doc *entity.Document) string {
	aiBlob := BuildAIBlob(doc.AIPayload())

	textBlob := strings.TrimSpace(doc.TextContentNorm)
	if textBlob == "" {
		raw := doc.TextContent
		if raw == "" {
			raw = doc.ExtractedText
		}
		textBlob = matchtext.Normalize(raw)
	}

	switch {
	case aiBlob != "" && textBlob != "":
		return aiBlob + " " + textBlob
	case aiBlob != "":
		return aiBlob
	default:
		return textBlob
	}
}
