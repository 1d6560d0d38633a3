package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/export"
	"github.com/docbase-br/docbase/internal/repository"
	"github.com/docbase-br/docbase/internal/search"
)

type SearchHandler struct {
	Documents repository.DocumentRepository
	Presets   repository.PresetRepository
	Export    *export.Service
	Log       *slog.Logger
}

const evidenceSnippetLen = 220

type searchResult struct {
	Document documentView `json:"document"`
	Evidence string       `json:"evidence,omitempty"`
}

// Search evaluates the filters over every processed document of the owner
// and attaches an evidence snippet to each hit.
func (h *SearchHandler) Search(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var filters search.Filters
	if err := c.ShouldBindJSON(&filters); err != nil {
		respondError(c, "BAD_FILTERS", common.NewAppError("BAD_FILTERS", "invalid filter body", common.ErrInvalidInput))
		return
	}
	filters.Terms = search.NormalizeTerms(filters.Terms)
	filters.ExcludeTerms = search.NormalizeTerms(filters.ExcludeTerms)

	start := time.Now()
	docs, err := h.Documents.ListDone(c.Request.Context(), owner)
	if err != nil {
		respondError(c, "SEARCH_FAILED", err)
		return
	}

	results := make([]searchResult, 0)
	for _, doc := range docs {
		if !search.Matches(doc, filters) {
			continue
		}
		results = append(results, searchResult{
			Document: toDocumentView(doc),
			Evidence: search.FindEvidence(doc, filters.Terms, evidenceSnippetLen, true),
		})
	}

	h.Log.Info("search.ok",
		"owner_id", owner, "candidates", len(docs), "hits", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}

// ExportXLSX streams the filtered set as a workbook.
func (h *SearchHandler) ExportXLSX(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var filters search.Filters
	if err := c.ShouldBindJSON(&filters); err != nil {
		respondError(c, "BAD_FILTERS", common.NewAppError("BAD_FILTERS", "invalid filter body", common.ErrInvalidInput))
		return
	}

	data, err := h.Export.ExportDocumentsXLSX(c.Request.Context(), owner, &filters)
	if err != nil {
		respondError(c, "EXPORT_FAILED", err)
		return
	}

	filename := fmt.Sprintf("documents-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

type presetRequest struct {
	Name    string         `json:"name"`
	Filters search.Filters `json:"filters"`
}

type presetView struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Filters   search.Filters `json:"filters"`
	CreatedAt time.Time      `json:"created_at"`
}

func (h *SearchHandler) SavePreset(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respondError(c, "BAD_PRESET",
			common.NewAppError("BAD_PRESET", "preset needs a name and filters", common.ErrInvalidInput))
		return
	}
	raw, err := json.Marshal(req.Filters)
	if err != nil {
		respondError(c, "BAD_PRESET", err)
		return
	}
	preset := &entity.FilterPreset{
		OwnerID:   owner,
		Name:      req.Name,
		Filters:   raw,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Presets.Save(c.Request.Context(), preset); err != nil {
		respondError(c, "PRESET_SAVE_FAILED", err)
		return
	}
	c.JSON(http.StatusCreated, presetView{
		ID: preset.ID, Name: preset.Name, Filters: req.Filters, CreatedAt: preset.CreatedAt,
	})
}

func (h *SearchHandler) ListPresets(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	presets, err := h.Presets.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		respondError(c, "PRESET_LIST_FAILED", err)
		return
	}
	views := make([]presetView, 0, len(presets))
	for _, p := range presets {
		var filters search.Filters
		if len(p.Filters) > 0 {
			_ = json.Unmarshal(p.Filters, &filters)
		}
		views = append(views, presetView{
			ID: p.ID, Name: p.Name, Filters: filters, CreatedAt: p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"presets": views})
}

func (h *SearchHandler) DeletePreset(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, "BAD_PRESET_ID",
			common.NewAppError("BAD_PRESET_ID", "preset id must be a positive integer", common.ErrInvalidInput))
		return
	}
	if err := h.Presets.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, "PRESET_DELETE_FAILED", err)
		return
	}
	c.Status(http.StatusNoContent)
}
