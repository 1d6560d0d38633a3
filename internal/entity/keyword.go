package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionKeyword is a user-defined field label with its resolved intent,
// stored at keyword-definition time and immutable afterwards.
type ExtractionKeyword struct {
	ID             int64
	OwnerID        uuid.UUID
	Label          string
	ResolvedKind   string // "builtin" or "custom"
	FieldKey       string // builtin key when resolved, else ""
	InferredType   string
	ValueType      string
	Strategy       string
	StrategyParams map[string]any
	Anchors        []string
	MatchStrategy  string
	Confidence     float64
	CreatedAt      time.Time
}

// FilterPreset stores a saved semantic filter as opaque JSON; the search
// package owns the concrete filter shape.
type FilterPreset struct {
	ID        int64
	OwnerID   uuid.UUID
	Name      string
	Filters   []byte
	CreatedAt time.Time
}
