package fields

import (
	"strconv"
	"strings"

	"github.com/docbase-br/docbase/constants"
	"github.com/docbase-br/docbase/internal/entity"
)

// KeywordMapEntry joins a stored custom keyword to its resolved intent plus
// the value-extraction strategy used to pull its value out of raw text.
type KeywordMapEntry struct {
	Label          string         `json:"label"`
	ResolvedKind   string         `json:"resolved_kind"`
	FieldKey       string         `json:"field_key"`
	InferredType   string         `json:"inferred_type"`
	ValueType      string         `json:"value_type"`
	Strategy       string         `json:"strategy"`
	StrategyParams map[string]any `json:"strategy_params"`
	Anchors        []string       `json:"anchors"`
	MatchStrategy  string         `json:"match_strategy"`
	Confidence     float64        `json:"confidence"`
}

// ParseKeywordIDs extracts the numeric ids out of "kw:<id>" selected-field
// entries, skipping anything malformed.
func ParseKeywordIDs(selectedFields []string) []int64 {
	ids := make([]int64, 0, len(selectedFields))
	for _, field := range selectedFields {
		if !strings.HasPrefix(field, constants.KeywordPrefix) {
			continue
		}
		raw := strings.TrimPrefix(field, constants.KeywordPrefix)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// BuildKeywordMap keys loaded keywords by their "kw:<id>" selected-field
// form for the extraction stage.
func BuildKeywordMap(keywords []entity.ExtractionKeyword) map[string]KeywordMapEntry {
	mapping := make(map[string]KeywordMapEntry, len(keywords))
	for _, kw := range keywords {
		params := kw.StrategyParams
		if params == nil {
			params = map[string]any{}
		}
		anchors := kw.Anchors
		if anchors == nil {
			anchors = []string{}
		}
		mapping[constants.KeywordPrefix+strconv.FormatInt(kw.ID, 10)] = KeywordMapEntry{
			Label:          kw.Label,
			ResolvedKind:   kw.ResolvedKind,
			FieldKey:       kw.FieldKey,
			InferredType:   kw.InferredType,
			ValueType:      kw.ValueType,
			Strategy:       kw.Strategy,
			StrategyParams: params,
			Anchors:        anchors,
			MatchStrategy:  kw.MatchStrategy,
			Confidence:     kw.Confidence,
		}
	}
	return mapping
}
