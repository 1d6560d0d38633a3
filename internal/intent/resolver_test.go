package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLabelMatch(t *testing.T) {
	builtins := []BuiltinField{{Key: "due_date", Label: "Data de Vencimento"}}
	resolved := Resolve("Data de Vencimento", builtins)

	assert.Equal(t, KindBuiltin, resolved.Kind)
	assert.Equal(t, "due_date", resolved.BuiltinKey)
	assert.Equal(t, StrategyLabel, resolved.MatchStrategy)
	assert.Equal(t, 1.0, resolved.Confidence)
	assert.Equal(t, "date", resolved.InferredType)
}

func TestResolveLabelMatchIsAccentInsensitive(t *testing.T) {
	resolved := Resolve("CÓDIGO DE BARRAS", DefaultBuiltinFields)
	assert.Equal(t, KindBuiltin, resolved.Kind)
	assert.Equal(t, "barcode", resolved.BuiltinKey)
	assert.Equal(t, StrategyLabel, resolved.MatchStrategy)
}

func TestResolveSynonym(t *testing.T) {
	resolved := Resolve("linha digitável", DefaultBuiltinFields)
	assert.Equal(t, KindBuiltin, resolved.Kind)
	assert.Equal(t, "barcode", resolved.BuiltinKey)
	assert.Equal(t, StrategySynonym, resolved.MatchStrategy)
	assert.Equal(t, 1.0, resolved.Confidence)
}

func TestResolveEmptyLabel(t *testing.T) {
	resolved := Resolve("   ", DefaultBuiltinFields)
	assert.Equal(t, KindCustom, resolved.Kind)
	assert.Equal(t, StrategyEmpty, resolved.MatchStrategy)
	assert.Zero(t, resolved.Confidence)
	assert.Empty(t, resolved.Anchors)
}

func TestResolveFuzzyThresholdBoundary(t *testing.T) {
	// Ratio is 2M/T for M shared runes over T total. A 21-rune common
	// prefix on two 25-rune strings gives exactly 42/50 = 0.84.
	prefix := strings.Repeat("q", 21)
	builtins := []BuiltinField{{Key: prefix + "wxyz", Label: ""}}

	atThreshold := Resolve(prefix+"defg", builtins)
	require.Equal(t, KindBuiltin, atThreshold.Kind, "0.84 is inclusive")
	assert.Equal(t, StrategyFuzzy, atThreshold.MatchStrategy)
	assert.InDelta(t, 0.84, atThreshold.Confidence, 1e-9)

	// 20 shared runes of 25: 40/50 = 0.80, below threshold.
	below := Resolve(strings.Repeat("q", 20)+"defgh", builtins)
	assert.Equal(t, KindCustom, below.Kind)
	assert.Equal(t, StrategyCustom, below.MatchStrategy)
	assert.Zero(t, below.Confidence)
}

func TestResolveFuzzyTypo(t *testing.T) {
	resolved := Resolve("data de vencimnto", DefaultBuiltinFields)
	assert.Equal(t, KindBuiltin, resolved.Kind)
	assert.Equal(t, "due_date", resolved.BuiltinKey)
	assert.Equal(t, StrategyFuzzy, resolved.MatchStrategy)
	assert.GreaterOrEqual(t, resolved.Confidence, FuzzyThreshold)
}

func TestResolveCustomKeepsOriginalAnchor(t *testing.T) {
	resolved := Resolve("Centro de Custo", DefaultBuiltinFields)
	assert.Equal(t, KindCustom, resolved.Kind)
	assert.Equal(t, []string{"Centro de Custo"}, resolved.Anchors)
}

func TestResolveExternalHook(t *testing.T) {
	want := ResolvedIntent{Kind: KindBuiltin, BuiltinKey: "cpf", InferredType: "cpf", MatchStrategy: StrategyCustom, Confidence: 0.5}
	r := Resolver{External: func(label string) *ResolvedIntent { return &want }}
	got := r.Resolve("documento da pessoa", DefaultBuiltinFields)
	assert.Equal(t, want, got)

	r.External = func(label string) *ResolvedIntent { return nil }
	got = r.Resolve("documento da pessoa", DefaultBuiltinFields)
	assert.Equal(t, KindCustom, got.Kind)
}

func TestAnchorsDeduplicateByNormalizedForm(t *testing.T) {
	builtins := []BuiltinField{{Key: "due_date", Label: "Data de Vencimento"}}
	// Original label normalizes to the same string as the canonical label
	// and one synonym; only the first-seen display text survives.
	resolved := Resolve("data de VENCIMENTO", builtins)
	require.Equal(t, KindBuiltin, resolved.Kind)
	assert.Equal(t, []string{"data de VENCIMENTO", "vencimento", "data vencimento"}, resolved.Anchors)
}

func TestInferTypeOrderedHeuristics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"cnpj do cedente", "cnpj"},
		{"cpf", "cpf"},
		{"codigo de barras", "barcode"},
		{"data de pagamento", "date"},
		{"valor total", "money"},
		{"cep", "postal"},
		{"rua das flores", "address"},
		{"numero da nota", "id"},
		{"observacoes", "text"},
		// cnpj wins over money even when both substrings appear
		{"valor do cnpj", "cnpj"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InferType(tc.in, ""), "input %q", tc.in)
	}
	assert.Equal(t, "money", InferType("anything", "juros"))
	assert.Equal(t, "text", InferType("anything", "unknown_key"))
}
