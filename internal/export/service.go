// Package export produces XLSX workbooks for filtered document sets.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/docbase-br/docbase/internal/repository"
	"github.com/docbase-br/docbase/internal/search"
)

// Service is a tiny façade over the document repository that produces XLSX
// bytes for exports.
type Service struct {
	documents repository.DocumentRepository
	logger    *slog.Logger
}

func NewService(documents repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{documents: documents, logger: logger}
}

// ExportDocumentsXLSX returns a workbook with every processed document of the
// owner that passes the filters. Nil filters export everything processed.
func (s *Service) ExportDocumentsXLSX(ctx context.Context, ownerID uuid.UUID, filters *search.Filters) ([]byte, error) {
	start := time.Now()

	docs, err := s.documents.ListDone(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	matched := docs
	if filters != nil {
		prepared := *filters
		prepared.Terms = search.NormalizeTerms(prepared.Terms)
		prepared.ExcludeTerms = search.NormalizeTerms(prepared.ExcludeTerms)
		matched = matched[:0:0]
		for _, doc := range docs {
			if search.Matches(doc, prepared) {
				matched = append(matched, doc)
			}
		}
	}

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Uploaded At",
		"Filename",
		"Type",
		"Due Date",
		"Issue Date",
		"Value",
		"Interest",
		"Fine",
		"Payee",
		"Payer",
		"Payee CNPJ",
		"CPF",
		"Document Number",
		"Contact Phone",
		"Experience (years)",
		"Age (years)",
		"Evidence",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	terms := []string(nil)
	if filters != nil {
		terms = search.NormalizeTerms(filters.Terms)
	}

	row := 2
	for _, doc := range matched {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, doc.UploadedAt.Format("2006-01-02"))
		write(2, doc.OriginalFilename)
		write(3, doc.DocumentType)
		write(4, formatDate(doc.DueDate))
		write(5, formatDate(doc.IssueDate))
		write(6, formatDecimal(doc.DocumentValue))
		write(7, formatDecimal(doc.Juros))
		write(8, formatDecimal(doc.Multa))
		write(9, doc.PayeeName)
		write(10, doc.PayerName)
		write(11, doc.PayeeCNPJ)
		write(12, doc.CPF)
		write(13, doc.DocumentNumber)
		write(14, doc.ContactPhone)
		write(15, formatIntPtr(search.ResolveExperienceYears(doc)))
		write(16, formatIntPtr(search.ResolveAgeYears(doc)))
		write(17, search.FindEvidence(doc, terms, 220, true))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 32)
	_ = f.SetColWidth(sheet, "I", "J", 28)
	_ = f.SetColWidth(sheet, "Q", "Q", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"owner_id", ownerID.String(),
		"rows", len(matched),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
