package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docbase-br/docbase/constants"
	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/entity"
	"github.com/docbase-br/docbase/internal/extraction"
	"github.com/docbase-br/docbase/internal/search"
)

type doneLister struct {
	docs []*entity.Document
}

func (r *doneLister) Create(context.Context, *entity.Document) error { return nil }
func (r *doneLister) GetByID(context.Context, uuid.UUID, uuid.UUID) (*entity.Document, error) {
	return nil, common.ErrNotFound
}
func (r *doneLister) List(context.Context, uuid.UUID, int, int) ([]*entity.Document, int, error) {
	return nil, 0, nil
}
func (r *doneLister) ListDone(context.Context, uuid.UUID) ([]*entity.Document, error) {
	return r.docs, nil
}
func (r *doneLister) BeginProcessing(context.Context, uuid.UUID, bool) (*entity.Document, error) {
	return nil, common.ErrNotFound
}
func (r *doneLister) SaveResult(context.Context, *entity.Document) error { return nil }
func (r *doneLister) MarkFailed(context.Context, uuid.UUID, string, time.Time) error {
	return nil
}
func (r *doneLister) ListExpired(context.Context, time.Time) ([]*entity.Document, error) {
	return nil, nil
}
func (r *doneLister) MarkDeleted(context.Context, uuid.UUID, string, time.Time) error {
	return nil
}

func doneDoc(filename, docType, text string) *entity.Document {
	value := decimal.NewFromFloat(1234.56)
	return &entity.Document{
		ID:               uuid.New(),
		OriginalFilename: filename,
		Status:           constants.StatusDone,
		UploadedAt:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		DocumentType:     docType,
		DocumentValue:    &value,
		TextContentNorm:  text,
		ExtractedPayload: &extraction.DocumentPayload{
			DocumentType: docType,
			Fields:       map[string]any{},
			CustomFields: map[string]string{},
		},
	}
}

func TestExportDocumentsXLSX(t *testing.T) {
	repo := &doneLister{docs: []*entity.Document{
		doneDoc("boleto.txt", "boleto", "boleto energia eletrica vencimento"),
		doneDoc("cv.txt", "curriculo", "desenvolvedor backend python docker"),
	}}
	svc := NewService(repo, nil)

	data, err := svc.ExportDocumentsXLSX(context.Background(), uuid.New(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Uploaded At", rows[0][0])
	assert.Equal(t, "boleto.txt", rows[1][1])
	assert.Equal(t, "boleto", rows[1][2])
	assert.Equal(t, "1234.56", rows[1][5])
	assert.Equal(t, "cv.txt", rows[2][1])
}

func TestExportAppliesFilters(t *testing.T) {
	repo := &doneLister{docs: []*entity.Document{
		doneDoc("boleto.txt", "boleto", "boleto energia eletrica"),
		doneDoc("cv.txt", "curriculo", "desenvolvedor backend python docker"),
	}}
	svc := NewService(repo, nil)

	data, err := svc.ExportDocumentsXLSX(context.Background(), uuid.New(),
		&search.Filters{Terms: []string{"Docker"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "cv.txt", rows[1][1])
}
