package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/docbase-br/docbase/constants"
	"github.com/docbase-br/docbase/internal/extraction"
)

// Document is one uploaded file plus everything extraction derived from it.
// Mutation during processing is serialized per document by the caller; the
// pipeline treats a finished extraction as a single atomic write.
type Document struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	OriginalFilename string
	StoragePath      string
	Status           constants.DocumentStatus
	UploadedAt       time.Time
	ProcessedAt      *time.Time
	ErrorMessage     string

	// Which fields the owner asked extraction to fill, including "kw:<id>"
	// references to stored custom keywords.
	SelectedFields []string

	// Raw and normalized text, as produced by the text-extraction stage.
	ExtractedText           string
	ExtractedTextNormalized string
	TextContent             string
	TextContentNorm         string
	OCRUsed                 bool
	TextQuality             string

	// Structured fields applied from the heuristic payload.
	DocumentType   string
	IssueDate      *time.Time
	DueDate        *time.Time
	DocumentValue  *decimal.Decimal
	Juros          *decimal.Decimal
	Multa          *decimal.Decimal
	Barcode        string
	PayeeName      string
	PayerName      string
	PayeeCNPJ      string
	PayerCNPJ      string
	CPF            string
	DocumentNumber string

	// Derived from raw text by heuristic extractors. The AI payload values
	// take precedence over these at filter time.
	ContactPhone             string
	ExtractedAgeYears        *int
	ExtractedExperienceYears *int

	// Full sanitized extraction payload, including the normalized AI section.
	ExtractedPayload *extraction.DocumentPayload

	IsDeleted     bool
	DeletedAt     *time.Time
	DeletedReason string
}

// AIPayload returns the normalized AI section, or nil when absent.
func (d *Document) AIPayload() *extraction.NormalizedExtraction {
	if d == nil || d.ExtractedPayload == nil {
		return nil
	}
	return d.ExtractedPayload.AI
}

func (d *Document) MarkDone(payload extraction.DocumentPayload, now time.Time) {
	d.Status = constants.StatusDone
	d.ProcessedAt = &now
	d.ErrorMessage = ""
	d.ExtractedPayload = &payload
}

func (d *Document) MarkFailed(message string, now time.Time) {
	d.Status = constants.StatusFailed
	d.ProcessedAt = &now
	if runes := []rune(message); len(runes) > 5000 {
		message = string(runes[:5000])
	}
	d.ErrorMessage = message
}

func (d *Document) MarkDeleted(reason string, now time.Time) {
	d.IsDeleted = true
	d.DeletedAt = &now
	d.DeletedReason = reason
}
