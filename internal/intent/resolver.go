// Package intent maps free-text field labels onto the builtin extraction
// targets. A label either resolves to a builtin key (exact, label, synonym
// or fuzzy match) or is classified as a custom keyword with an inferred
// semantic value type.
package intent

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/docbase-br/docbase/internal/matchtext"
)

// FuzzyThreshold is the minimum similarity ratio for a fuzzy builtin match.
const FuzzyThreshold = 0.84

// Resolution kinds.
const (
	KindBuiltin = "builtin"
	KindCustom  = "custom"
)

// Match strategies, recorded on the resolved intent.
const (
	StrategyExact   = "exact"
	StrategyLabel   = "label"
	StrategySynonym = "synonym"
	StrategyFuzzy   = "fuzzy"
	StrategyCustom  = "custom"
	StrategyEmpty   = "empty"
)

// BuiltinField is one entry of the builtin field registry: a canonical key
// plus its display label.
type BuiltinField struct {
	Key   string
	Label string
}

// ResolvedIntent is the immutable outcome of resolving one label.
type ResolvedIntent struct {
	Kind          string   `json:"kind"`
	BuiltinKey    string   `json:"builtin_key,omitempty"`
	InferredType  string   `json:"inferred_type"`
	Anchors       []string `json:"anchors"`
	MatchStrategy string   `json:"match_strategy"`
	Confidence    float64  `json:"confidence"`
}

// ExternalResolver is an optional pluggable fallback consulted after exact
// and fuzzy matching fail. A nil return means no resolution.
type ExternalResolver func(label string) *ResolvedIntent

// Resolver resolves labels against a builtin registry. The zero value works;
// External is an optional hook with no guaranteed behavior of its own.
type Resolver struct {
	External ExternalResolver
}

type candidate struct {
	Norm     string
	Key      string
	Strategy string
}

func buildCandidates(builtins []BuiltinField) []candidate {
	candidates := make([]candidate, 0, 2*len(builtins)+len(synonymTable))
	for _, f := range builtins {
		if n := matchtext.Normalize(f.Key); n != "" {
			candidates = append(candidates, candidate{Norm: n, Key: f.Key, Strategy: StrategyExact})
		}
		if n := matchtext.Normalize(f.Label); n != "" {
			candidates = append(candidates, candidate{Norm: n, Key: f.Key, Strategy: StrategyLabel})
		}
	}
	for _, s := range synonymTable {
		candidates = append(candidates, candidate{Norm: matchtext.Normalize(s.Phrase), Key: s.Key, Strategy: StrategySynonym})
	}
	return candidates
}

// Resolve classifies label against the builtin registry.
func (r *Resolver) Resolve(label string, builtins []BuiltinField) ResolvedIntent {
	normalized := matchtext.Normalize(label)
	if normalized == "" {
		return ResolvedIntent{
			Kind:          KindCustom,
			InferredType:  "text",
			Anchors:       []string{},
			MatchStrategy: StrategyEmpty,
		}
	}

	candidates := buildCandidates(builtins)

	// Exact lookup scans in build order so that ties between identical
	// normalized strings keep the first-inserted candidate.
	for _, c := range candidates {
		if c.Norm == normalized {
			return ResolvedIntent{
				Kind:          KindBuiltin,
				BuiltinKey:    c.Key,
				InferredType:  InferType(normalized, c.Key),
				Anchors:       buildAnchors(label, c.Key, builtins),
				MatchStrategy: c.Strategy,
				Confidence:    1.0,
			}
		}
	}

	bestKey := ""
	bestScore := 0.0
	for _, c := range candidates {
		if score := similarity(normalized, c.Norm); score > bestScore {
			bestScore = score
			bestKey = c.Key
		}
	}
	if bestKey != "" && bestScore >= FuzzyThreshold {
		return ResolvedIntent{
			Kind:          KindBuiltin,
			BuiltinKey:    bestKey,
			InferredType:  InferType(normalized, bestKey),
			Anchors:       buildAnchors(label, bestKey, builtins),
			MatchStrategy: StrategyFuzzy,
			Confidence:    bestScore,
		}
	}

	if r.External != nil {
		if resolved := r.External(label); resolved != nil {
			return *resolved
		}
	}

	anchors := []string{}
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		anchors = append(anchors, trimmed)
	}
	return ResolvedIntent{
		Kind:          KindCustom,
		InferredType:  InferType(normalized, ""),
		Anchors:       anchors,
		MatchStrategy: StrategyCustom,
	}
}

// Resolve is the package-level entry point without an external hook.
func Resolve(label string, builtins []BuiltinField) ResolvedIntent {
	var r Resolver
	return r.Resolve(label, builtins)
}

// InferType derives the semantic value type for a label. A known builtin key
// wins; otherwise ordered substring heuristics over the normalized text
// decide, first match wins.
func InferType(normalized, builtinKey string) string {
	if builtinKey != "" {
		if t, ok := typeByBuiltin[builtinKey]; ok {
			return t
		}
		return "text"
	}
	switch {
	case strings.Contains(normalized, "cnpj"):
		return "cnpj"
	case strings.Contains(normalized, "cpf"):
		return "cpf"
	case containsAny(normalized, "barra", "linha", "barcode"):
		return "barcode"
	case containsAny(normalized, "vencimento", "data"):
		return "date"
	case containsAny(normalized, "valor", "total", "juros", "multa", "preco"):
		return "money"
	case strings.Contains(normalized, "cep"):
		return "postal"
	case containsAny(normalized, "endereco", "logradouro", "rua", "avenida"):
		return "address"
	case containsAny(normalized, "numero", "n ", "no ", "matricula", "cliente"):
		return "id"
	default:
		return "text"
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// buildAnchors collects display strings for a resolved builtin: the original
// label, the canonical label, then every synonym of the key, deduplicated by
// normalized form in first-seen order.
func buildAnchors(label, builtinKey string, builtins []BuiltinField) []string {
	anchors := make([]string, 0, 4)
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		anchors = append(anchors, trimmed)
	}
	for _, f := range builtins {
		if f.Key == builtinKey {
			if f.Label != "" {
				anchors = append(anchors, f.Label)
			}
			break
		}
	}
	for _, s := range synonymTable {
		if s.Key == builtinKey {
			anchors = append(anchors, s.Phrase)
		}
	}

	seen := make(map[string]struct{}, len(anchors))
	unique := anchors[:0]
	for _, anchor := range anchors {
		norm := matchtext.Normalize(anchor)
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		unique = append(unique, anchor)
	}
	return unique
}

// similarity is the Ratcliff/Obershelp sequence matching ratio in [0,1],
// computed over individual runes.
func similarity(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
