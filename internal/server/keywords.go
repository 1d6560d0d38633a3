package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docbase-br/docbase/constants"
	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/intent"
	"github.com/docbase-br/docbase/internal/repository"
)

type KeywordHandler struct {
	Keywords repository.KeywordRepository
	Log      *slog.Logger
}

type keywordRequest struct {
	Label string `json:"label"`
}

type keywordView struct {
	ID            int64     `json:"id"`
	Label         string    `json:"label"`
	SelectedField string    `json:"selected_field"`
	ResolvedKind  string    `json:"resolved_kind"`
	FieldKey      string    `json:"field_key,omitempty"`
	InferredType  string    `json:"inferred_type"`
	Anchors       []string  `json:"anchors"`
	MatchStrategy string    `json:"match_strategy"`
	Confidence    float64   `json:"confidence"`
	CreatedAt     time.Time `json:"created_at"`
}

func toKeywordView(kw entity.ExtractionKeyword) keywordView {
	anchors := kw.Anchors
	if anchors == nil {
		anchors = []string{}
	}
	return keywordView{
		ID:            kw.ID,
		Label:         kw.Label,
		SelectedField: constants.KeywordPrefix + strconv.FormatInt(kw.ID, 10),
		ResolvedKind:  kw.ResolvedKind,
		FieldKey:      kw.FieldKey,
		InferredType:  kw.InferredType,
		Anchors:       anchors,
		MatchStrategy: kw.MatchStrategy,
		Confidence:    kw.Confidence,
		CreatedAt:     kw.CreatedAt,
	}
}

// Create resolves the label's intent once and stores the outcome with the
// keyword; later processing runs reuse it as-is.
func (h *KeywordHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Label) == "" {
		respondError(c, "LABEL_REQUIRED",
			common.NewAppError("LABEL_REQUIRED", "keyword label is required", common.ErrInvalidInput))
		return
	}

	resolver := intent.Resolver{}
	resolved := resolver.Resolve(req.Label, intent.DefaultBuiltinFields)

	kw := &entity.ExtractionKeyword{
		OwnerID:        owner,
		Label:          strings.TrimSpace(req.Label),
		ResolvedKind:   resolved.Kind,
		FieldKey:       resolved.BuiltinKey,
		InferredType:   resolved.InferredType,
		ValueType:      resolved.InferredType,
		Strategy:       "anchor_line",
		StrategyParams: map[string]any{},
		Anchors:        resolved.Anchors,
		MatchStrategy:  resolved.MatchStrategy,
		Confidence:     resolved.Confidence,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.Keywords.Create(c.Request.Context(), kw); err != nil {
		respondError(c, "KEYWORD_CREATE_FAILED", err)
		return
	}

	h.Log.Info("keyword.created",
		"keyword_id", kw.ID, "owner_id", owner,
		"kind", kw.ResolvedKind, "field_key", kw.FieldKey, "strategy", kw.MatchStrategy,
	)
	c.JSON(http.StatusCreated, toKeywordView(*kw))
}

func (h *KeywordHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	keywords, err := h.Keywords.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		respondError(c, "KEYWORD_LIST_FAILED", err)
		return
	}
	views := make([]keywordView, 0, len(keywords))
	for _, kw := range keywords {
		views = append(views, toKeywordView(kw))
	}
	c.JSON(http.StatusOK, gin.H{"keywords": views})
}

func (h *KeywordHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, "BAD_KEYWORD_ID",
			common.NewAppError("BAD_KEYWORD_ID", "keyword id must be a positive integer", common.ErrInvalidInput))
		return
	}
	if err := h.Keywords.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, "KEYWORD_DELETE_FAILED", err)
		return
	}
	c.Status(http.StatusNoContent)
}
