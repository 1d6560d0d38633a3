package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/docbase-br/docbase/constants"
	"github.com/docbase-br/docbase/internal/async"
	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/extraction"
	"github.com/docbase-br/docbase/internal/repository"
)

type DocumentHandler struct {
	Documents repository.DocumentRepository
	Queue     async.Queue
	UploadCfg common.UploadConfig
	Log       *slog.Logger
}

// documentView is the JSON shape returned for a document.
type documentView struct {
	ID               uuid.UUID  `json:"id"`
	OriginalFilename string     `json:"original_filename"`
	Status           string     `json:"status"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	SelectedFields   []string   `json:"selected_fields"`
	DocumentType     string     `json:"document_type,omitempty"`
	IssueDate        *string    `json:"issue_date,omitempty"`
	DueDate          *string    `json:"due_date,omitempty"`
	DocumentValue    *string    `json:"document_value,omitempty"`
	Juros            *string    `json:"juros,omitempty"`
	Multa            *string    `json:"multa,omitempty"`
	Barcode          string     `json:"barcode,omitempty"`
	PayeeName        string     `json:"payee_name,omitempty"`
	PayerName        string     `json:"payer_name,omitempty"`
	PayeeCNPJ        string     `json:"payee_cnpj,omitempty"`
	PayerCNPJ        string     `json:"payer_cnpj,omitempty"`
	CPF              string     `json:"cpf,omitempty"`
	DocumentNumber   string     `json:"document_number,omitempty"`
	ContactPhone     string     `json:"contact_phone,omitempty"`
	OCRUsed          bool       `json:"ocr_used"`
	TextQuality      string     `json:"text_quality,omitempty"`
}

func toDocumentView(doc *entity.Document) documentView {
	v := documentView{
		ID:               doc.ID,
		OriginalFilename: doc.OriginalFilename,
		Status:           string(doc.Status),
		UploadedAt:       doc.UploadedAt,
		ProcessedAt:      doc.ProcessedAt,
		ErrorMessage:     doc.ErrorMessage,
		SelectedFields:   doc.SelectedFields,
		DocumentType:     doc.DocumentType,
		IssueDate:        dateString(doc.IssueDate),
		DueDate:          dateString(doc.DueDate),
		DocumentValue:    decimalString(doc.DocumentValue),
		Juros:            decimalString(doc.Juros),
		Multa:            decimalString(doc.Multa),
		Barcode:          doc.Barcode,
		PayeeName:        doc.PayeeName,
		PayerName:        doc.PayerName,
		PayeeCNPJ:        doc.PayeeCNPJ,
		PayerCNPJ:        doc.PayerCNPJ,
		CPF:              doc.CPF,
		DocumentNumber:   doc.DocumentNumber,
		ContactPhone:     doc.ContactPhone,
		OCRUsed:          doc.OCRUsed,
		TextQuality:      doc.TextQuality,
	}
	if v.SelectedFields == nil {
		v.SelectedFields = []string{}
	}
	return v
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

// Upload stores the file and queues processing.
func (h *DocumentHandler) Upload(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, "FILE_REQUIRED",
			common.NewAppError("FILE_REQUIRED", "multipart field 'file' is required", common.ErrInvalidInput))
		return
	}
	ext := constants.NormalizeExt(filepath.Ext(file.Filename))
	if _, allowed := constants.AllowedExtensions[ext]; !allowed {
		respondError(c, "FILE_REJECTED",
			fmt.Errorf("%w: .%s", common.ErrFileRejected, ext))
		return
	}
	if h.UploadCfg.MaxSizeBytes > 0 && file.Size > h.UploadCfg.MaxSizeBytes {
		respondError(c, "FILE_TOO_LARGE",
			common.NewAppError("FILE_TOO_LARGE",
				fmt.Sprintf("file exceeds %d bytes", h.UploadCfg.MaxSizeBytes), common.ErrInvalidInput))
		return
	}

	selected := parseSelectedFields(c.PostForm("selected_fields"))

	docID := uuid.New()
	storagePath := filepath.Join(h.UploadCfg.Dir, docID.String()+"."+ext)
	if err := os.MkdirAll(h.UploadCfg.Dir, 0o755); err != nil {
		respondError(c, "UPLOAD_FAILED", err)
		return
	}
	if err := c.SaveUploadedFile(file, storagePath); err != nil {
		respondError(c, "UPLOAD_FAILED", err)
		return
	}

	doc := &entity.Document{
		ID:               docID,
		OwnerID:          owner,
		OriginalFilename: file.Filename,
		StoragePath:      storagePath,
		Status:           constants.StatusUploaded,
		UploadedAt:       time.Now().UTC(),
		SelectedFields:   selected,
	}
	if err := h.Documents.Create(c.Request.Context(), doc); err != nil {
		respondError(c, "CREATE_FAILED", err)
		return
	}

	if err := h.Queue.Enqueue(c.Request.Context(), async.Job{DocumentID: docID}); err != nil {
		// The document stays UPLOADED; a later explicit process call retries.
		h.Log.Warn("upload.enqueue_failed", "doc_id", docID, "error", err)
	}

	h.Log.Info("upload.accepted", "doc_id", docID, "filename", file.Filename, "size", file.Size)
	c.JSON(http.StatusCreated, toDocumentView(doc))
}

// parseSelectedFields accepts a JSON array or a comma-separated list.
func parseSelectedFields(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var fields []string
		if err := json.Unmarshal([]byte(raw), &fields); err == nil {
			return fields
		}
	}
	var fields []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, part)
		}
	}
	return fields
}

func (h *DocumentHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	docs, total, err := h.Documents.List(c.Request.Context(), owner, limit, offset)
	if err != nil {
		respondError(c, "LIST_FAILED", err)
		return
	}
	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, toDocumentView(doc))
	}
	c.JSON(http.StatusOK, gin.H{
		"documents": views,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	doc, ok := h.loadDocument(c, owner)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toDocumentView(doc))
}

// Payload returns the full sanitized extraction payload.
func (h *DocumentHandler) Payload(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	doc, ok := h.loadDocument(c, owner)
	if !ok {
		return
	}
	payload := doc.ExtractedPayload
	if payload == nil {
		payload = &extraction.DocumentPayload{
			Fields:       map[string]any{},
			CustomFields: map[string]string{},
		}
	}
	c.JSON(http.StatusOK, payload)
}

type processRequest struct {
	Force    bool `json:"force"`
	ForceOCR bool `json:"force_ocr"`
}

// Process queues a (re)processing run for the document.
func (h *DocumentHandler) Process(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	doc, ok := h.loadDocument(c, owner)
	if !ok {
		return
	}

	var req processRequest
	_ = c.ShouldBindJSON(&req)

	err := h.Queue.Enqueue(c.Request.Context(), async.Job{
		DocumentID: doc.ID,
		Force:      req.Force,
		ForceOCR:   req.ForceOCR,
	})
	if err != nil {
		respondError(c, "ENQUEUE_FAILED", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true, "doc_id": doc.ID})
}

func (h *DocumentHandler) loadDocument(c *gin.Context, owner uuid.UUID) (*entity.Document, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, "BAD_DOCUMENT_ID",
			common.NewAppError("BAD_DOCUMENT_ID", "document id must be a UUID", common.ErrInvalidInput))
		return nil, false
	}
	doc, err := h.Documents.GetByID(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, "DOCUMENT_LOAD_FAILED", err)
		return nil, false
	}
	return doc, true
}
