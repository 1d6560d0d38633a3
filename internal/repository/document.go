package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/docbase-br/docbase/constants"
	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/extraction"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Document, error)
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Document, int, error)
	ListDone(ctx context.Context, ownerID uuid.UUID) ([]*entity.Document, error)
	BeginProcessing(ctx context.Context, id uuid.UUID, force bool) (*entity.Document, error)
	SaveResult(ctx context.Context, doc *entity.Document) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string, at time.Time) error
	ListExpired(ctx context.Context, cutoff time.Time) ([]*entity.Document, error)
	MarkDeleted(ctx context.Context, id uuid.UUID, reason string, at time.Time) error
}

type documentRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepo{pool: pool, log: logger}
}

// documentColumns is the canonical select list; money columns come back as
// text so decimal parsing stays explicit.
const documentColumns = `
	id, owner_id, original_filename, storage_path, status,
	uploaded_at, processed_at, error_message, selected_fields,
	extracted_text, extracted_text_normalized, text_content, text_content_norm,
	ocr_used, text_quality,
	document_type, issue_date, due_date,
	document_value::text, juros::text, multa::text,
	barcode, payee_name, payer_name, payee_cnpj, payer_cnpj, cpf, document_number,
	contact_phone, extracted_age_years, extracted_experience_years,
	extracted_payload, is_deleted, deleted_at, deleted_reason`

func (r *documentRepo) Create(ctx context.Context, doc *entity.Document) error {
	selected, err := json.Marshal(doc.SelectedFields)
	if err != nil {
		return fmt.Errorf("marshal selected_fields: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO documents (
			id, owner_id, original_filename, storage_path, status,
			uploaded_at, selected_fields, document_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.ID, doc.OwnerID, doc.OriginalFilename, doc.StoragePath,
		string(doc.Status), doc.UploadedAt, selected, doc.DocumentType,
	)
	if err != nil {
		r.log.Error("document create failed", "doc_id", doc.ID, "error", err)
		return common.WrapError(err, "create document")
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Document, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1 AND owner_id = $2 AND NOT is_deleted`,
		id, ownerID,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.log.Error("document load failed", "doc_id", id, "error", err)
		return nil, err
	}
	return doc, nil
}

func (r *documentRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Document, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE owner_id = $1 AND NOT is_deleted`,
		ownerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, common.WrapError(err, "count documents")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+`
		 FROM documents
		 WHERE owner_id = $1 AND NOT is_deleted
		 ORDER BY uploaded_at DESC
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, 0, common.WrapError(err, "list documents")
	}
	defer rows.Close()

	docs, err := collectDocuments(rows)
	if err != nil {
		r.log.Error("document list scan failed", "owner_id", ownerID, "error", err)
		return nil, 0, err
	}
	return docs, total, nil
}

func (r *documentRepo) ListDone(ctx context.Context, ownerID uuid.UUID) ([]*entity.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+`
		 FROM documents
		 WHERE owner_id = $1 AND NOT is_deleted AND status = $2
		 ORDER BY uploaded_at DESC`,
		ownerID, string(constants.StatusDone),
	)
	if err != nil {
		return nil, common.WrapError(err, "list processed documents")
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// BeginProcessing flips the document to PROCESSING. The conditional update is
// the at-most-one-processing guard: a concurrent worker loses the race and
// gets ErrAlreadyBusy; without force, a DONE document is not reprocessed.
func (r *documentRepo) BeginProcessing(ctx context.Context, id uuid.UUID, force bool) (*entity.Document, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2, processed_at = NULL, error_message = ''
		WHERE id = $1 AND NOT is_deleted
		  AND status <> $2
		  AND (status <> $3 OR $4)`,
		id, string(constants.StatusProcessing), string(constants.StatusDone), force,
	)
	if err != nil {
		r.log.Error("document begin processing failed", "doc_id", id, "error", err)
		return nil, common.WrapError(err, "begin processing")
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := r.pool.QueryRow(ctx,
			`SELECT status FROM documents WHERE id = $1 AND NOT is_deleted`, id,
		).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		if err != nil {
			return nil, common.WrapError(err, "begin processing")
		}
		switch constants.DocumentStatus(status) {
		case constants.StatusProcessing:
			return nil, common.ErrAlreadyBusy
		case constants.StatusDone:
			return nil, common.ErrAlreadyDone
		}
		return nil, common.ErrConflict
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id,
	)
	return scanDocument(row)
}

func (r *documentRepo) SaveResult(ctx context.Context, doc *entity.Document) error {
	payload, err := json.Marshal(doc.ExtractedPayload)
	if err != nil {
		return fmt.Errorf("marshal extracted_payload: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE documents SET
			status = $2, processed_at = $3, error_message = $4,
			extracted_text = $5, extracted_text_normalized = $6,
			text_content = $7, text_content_norm = $8,
			ocr_used = $9, text_quality = $10,
			document_type = $11, issue_date = $12, due_date = $13,
			document_value = $14::numeric, juros = $15::numeric, multa = $16::numeric,
			barcode = $17, payee_name = $18, payer_name = $19,
			payee_cnpj = $20, payer_cnpj = $21, cpf = $22, document_number = $23,
			contact_phone = $24, extracted_age_years = $25, extracted_experience_years = $26,
			extracted_payload = $27
		WHERE id = $1`,
		doc.ID,
		string(doc.Status), doc.ProcessedAt, doc.ErrorMessage,
		doc.ExtractedText, doc.ExtractedTextNormalized,
		doc.TextContent, doc.TextContentNorm,
		doc.OCRUsed, doc.TextQuality,
		doc.DocumentType, doc.IssueDate, doc.DueDate,
		decToText(doc.DocumentValue), decToText(doc.Juros), decToText(doc.Multa),
		doc.Barcode, doc.PayeeName, doc.PayerName,
		doc.PayeeCNPJ, doc.PayerCNPJ, doc.CPF, doc.DocumentNumber,
		doc.ContactPhone, doc.ExtractedAgeYears, doc.ExtractedExperienceYears,
		payload,
	)
	if err != nil {
		r.log.Error("document save result failed", "doc_id", doc.ID, "error", err)
		return common.WrapError(err, "save document result")
	}
	return nil
}

func (r *documentRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string, at time.Time) error {
	if runes := []rune(message); len(runes) > 5000 {
		message = string(runes[:5000])
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET status = $2, processed_at = $3, error_message = $4
		WHERE id = $1`,
		id, string(constants.StatusFailed), at, message,
	)
	if err != nil {
		r.log.Error("document mark failed errored", "doc_id", id, "error", err)
		return common.WrapError(err, "mark document failed")
	}
	return nil
}

func (r *documentRepo) ListExpired(ctx context.Context, cutoff time.Time) ([]*entity.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+`
		 FROM documents
		 WHERE uploaded_at < $1 AND NOT is_deleted AND status <> $2`,
		cutoff, string(constants.StatusProcessing),
	)
	if err != nil {
		return nil, common.WrapError(err, "list expired documents")
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (r *documentRepo) MarkDeleted(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET is_deleted = TRUE, deleted_at = $2, deleted_reason = $3
		WHERE id = $1`,
		id, at, reason,
	)
	if err != nil {
		r.log.Error("document mark deleted failed", "doc_id", id, "error", err)
		return common.WrapError(err, "mark document deleted")
	}
	return nil
}

func collectDocuments(rows pgx.Rows) ([]*entity.Document, error) {
	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		doc         entity.Document
		status      string
		selectedRaw []byte
		valueText   *string
		jurosText   *string
		multaText   *string
		payloadRaw  []byte
	)
	err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.OriginalFilename, &doc.StoragePath, &status,
		&doc.UploadedAt, &doc.ProcessedAt, &doc.ErrorMessage, &selectedRaw,
		&doc.ExtractedText, &doc.ExtractedTextNormalized, &doc.TextContent, &doc.TextContentNorm,
		&doc.OCRUsed, &doc.TextQuality,
		&doc.DocumentType, &doc.IssueDate, &doc.DueDate,
		&valueText, &jurosText, &multaText,
		&doc.Barcode, &doc.PayeeName, &doc.PayerName,
		&doc.PayeeCNPJ, &doc.PayerCNPJ, &doc.CPF, &doc.DocumentNumber,
		&doc.ContactPhone, &doc.ExtractedAgeYears, &doc.ExtractedExperienceYears,
		&payloadRaw, &doc.IsDeleted, &doc.DeletedAt, &doc.DeletedReason,
	)
	if err != nil {
		return nil, err
	}
	doc.Status = constants.DocumentStatus(status)
	if len(selectedRaw) > 0 {
		if err := json.Unmarshal(selectedRaw, &doc.SelectedFields); err != nil {
			return nil, fmt.Errorf("decode selected_fields: %w", err)
		}
	}
	doc.DocumentValue = textToDec(valueText)
	doc.Juros = textToDec(jurosText)
	doc.Multa = textToDec(multaText)
	if len(payloadRaw) > 0 {
		var payload extraction.DocumentPayload
		if err := json.Unmarshal(payloadRaw, &payload); err != nil {
			return nil, fmt.Errorf("decode extracted_payload: %w", err)
		}
		doc.ExtractedPayload = &payload
	}
	return &doc, nil
}

func decToText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func textToDec(s *string) *decimal.Decimal {
	if s == nil || *s == "" {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}
