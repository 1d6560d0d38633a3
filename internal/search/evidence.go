package search

import (
	"strings"

	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/extraction"
	"github.com/docbase-br/docbase/internal/matchtext"
)

// evidenceEntry pairs a normalized searchable string with the raw evidence
// text it came from.
type evidenceEntry struct {
	searchable string
	evidence   string
}

// buildEvidenceIndex collects label+evidence pairs from the AI payload in a
// fixed precedence: experience, person age, keywords, skills, education.
func buildEvidenceIndex(p *extraction.NormalizedExtraction) []evidenceEntry {
	if p == nil {
		return nil
	}

	index := make([]evidenceEntry, 0, 8)
	appendEntry := func(label string, evidence *string) {
		if evidence == nil {
			return
		}
		text := matchtext.Clean(*evidence, 300)
		if text == "" {
			return
		}
		searchable := matchtext.Normalize(matchtext.Clean(label, 180) + " " + text)
		if searchable == "" {
			return
		}
		index = append(index, evidenceEntry{searchable: searchable, evidence: text})
	}
	str := func(s string) *string { return &s }

	appendEntry("experience "+p.Experience.Seniority, p.Experience.YearsEvidence)
	appendEntry("age person", p.Person.AgeEvidence)
	for _, kw := range p.KeywordsEvidence {
		label := kw.Term
		if label == "" {
			label = "keyword"
		}
		appendEntry(label, str(kw.Evidence))
	}
	for _, skill := range p.Skills {
		label := skill.Name
		if label == "" {
			label = "skill"
		}
		appendEntry(label, str(skill.Evidence))
	}
	for _, edu := range p.Education {
		label := strings.TrimSpace(orEmpty(edu.Degree) + " " + orEmpty(edu.Institution))
		if label == "" {
			label = "education"
		}
		appendEntry(label, str(edu.Evidence))
	}
	return index
}

// FindEvidence returns the best evidence snippet for the given normalized
// terms: the first index entry (in build order) whose searchable form
// contains the first matching term. With no term match, useFirstIfNoTerm
// falls back to the first entry; otherwise "".
func FindEvidence(doc *entity.Document, terms []string, maxLen int, useFirstIfNoTerm bool) string {
	index := buildEvidenceIndex(doc.AIPayload())
	if len(index) == 0 {
		return ""
	}
	for _, term := range terms {
		for _, entry := range index {
			if strings.Contains(entry.searchable, term) {
				return truncateSnippet(entry.evidence, maxLen)
			}
		}
	}
	if useFirstIfNoTerm {
		return truncateSnippet(index[0].evidence, maxLen)
	}
	return ""
}

// truncateSnippet caps the snippet with an ellipsis marker when it is cut.
func truncateSnippet(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 120
	}
	clean := matchtext.Clean(text, 4*maxLen)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 3 {
		return strings.TrimRight(string(runes[:maxLen]), " ")
	}
	return strings.TrimRight(string(runes[:maxLen-3]), " ") + "..."
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
