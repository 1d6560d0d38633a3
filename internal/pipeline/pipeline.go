package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/extraction"
	"github.com/docbase-br/docbase/internal/fields"
	"github.com/docbase-br/docbase/internal/repository"
)

// Pipeline coordinates text extraction, heuristic matching, AI extraction
// and the final document write.
type Pipeline struct {
	Log       *slog.Logger
	Documents repository.DocumentRepository
	Keywords  repository.KeywordRepository
	Text      TextExtractor
	Extractor extraction.Extractor // nil when AI extraction is disabled
}

func NewPipeline(
	docs repository.DocumentRepository,
	keywords repository.KeywordRepository,
	text TextExtractor,
	extractor extraction.Extractor,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Log:       logger,
		Documents: docs,
		Keywords:  keywords,
		Text:      text,
		Extractor: extractor,
	}
}

// Process runs the full extraction for one document. A document already
// PROCESSING, or DONE without force, is skipped with a sentinel error.
// AI extraction failures degrade to a heuristic-only result; everything
// before that marks the document FAILED.
func (p *Pipeline) Process(ctx context.Context, docID uuid.UUID, force, forceOCR bool) error {
	start := time.Now()

	doc, err := p.Documents.BeginProcessing(ctx, docID, force)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyBusy) || errors.Is(err, common.ErrAlreadyDone) {
			p.Log.Info("pipeline.skip", "doc_id", docID, "reason", err.Error())
		}
		return err
	}

	p.Log.Info("pipeline.start",
		"doc_id", doc.ID,
		"filename", doc.OriginalFilename,
		"selected_fields", len(doc.SelectedFields),
		"force", force,
	)

	fail := func(stage string, cause error) error {
		if markErr := p.Documents.MarkFailed(ctx, doc.ID, cause.Error(), time.Now().UTC()); markErr != nil {
			p.Log.Error("pipeline.mark_failed_error", "doc_id", doc.ID, "error", markErr)
		}
		p.Log.Error("pipeline.failed",
			"doc_id", doc.ID, "stage", stage, "error", cause,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return cause
	}

	keywordIDs := fields.ParseKeywordIDs(doc.SelectedFields)
	keywords, err := p.Keywords.GetByIDs(ctx, doc.OwnerID, keywordIDs)
	if err != nil {
		return fail("keywords", err)
	}
	keywordMap := fields.BuildKeywordMap(keywords)

	textRes, err := p.Text.ExtractText(ctx, doc.StoragePath, forceOCR)
	if err != nil {
		return fail("text_extract", err)
	}

	payload, customValues := BuildHeuristicPayload(textRes.Text, keywordMap)
	fields.Apply(doc, textRes.Text, payload)
	doc.OCRUsed = textRes.OCRUsed
	doc.TextQuality = textRes.Quality

	sanitized := extraction.SanitizePayload(map[string]any{
		"document_type": payload.DocumentType,
		"fields":        payload.Fields,
		"custom_fields": customValues,
	})

	if p.Extractor != nil {
		normalized, meta, err := p.Extractor.Extract(ctx, textRes.Text, doc.OriginalFilename)
		if err != nil {
			return fail("ai_extract", err)
		}
		sanitized.AI = normalized
		sanitized.AIMeta = meta
	}

	now := time.Now().UTC()
	doc.MarkDone(sanitized, now)
	if err := p.Documents.SaveResult(ctx, doc); err != nil {
		return fail("save", err)
	}

	p.Log.Info("pipeline.ok",
		"doc_id", doc.ID,
		"doc_type", doc.DocumentType,
		"ocr_used", doc.OCRUsed,
		"ai", sanitized.AI != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
