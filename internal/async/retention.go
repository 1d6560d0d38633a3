package async

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/docbase-br/docbase/internal/repository"
)

const DefaultRetentionReason = "retention_30d"

// RetentionWorker periodically soft-deletes documents older than the
// retention window and removes their files. Documents currently PROCESSING
// are left for the next sweep.
type RetentionWorker struct {
	Documents repository.DocumentRepository
	Days      int
	Interval  time.Duration
	Reason    string
	Log       *slog.Logger
}

func NewRetentionWorker(docs repository.DocumentRepository, days int, interval time.Duration, logger *slog.Logger) *RetentionWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if days <= 0 {
		days = 30
	}
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &RetentionWorker{
		Documents: docs,
		Days:      days,
		Interval:  interval,
		Reason:    DefaultRetentionReason,
		Log:       logger,
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (w *RetentionWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.Log.Info("retention.stopped")
			return
		case <-ticker.C:
			if _, _, err := w.Sweep(ctx); err != nil {
				w.Log.Error("retention.sweep_failed", "error", err)
			}
		}
	}
}

// Sweep performs one cleanup pass and reports (total candidates, deleted).
func (w *RetentionWorker) Sweep(ctx context.Context) (int, int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -w.Days)
	docs, err := w.Documents.ListExpired(ctx, cutoff)
	if err != nil {
		return 0, 0, err
	}

	deleted := 0
	for _, doc := range docs {
		if doc.StoragePath != "" {
			if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
				w.Log.Error("retention.file_delete_failed", "doc_id", doc.ID, "error", err)
			}
		}
		if err := w.Documents.MarkDeleted(ctx, doc.ID, w.Reason, time.Now().UTC()); err != nil {
			w.Log.Error("retention.mark_deleted_failed", "doc_id", doc.ID, "error", err)
			continue
		}
		deleted++
	}
	w.Log.Info("retention.sweep_done",
		"total", len(docs), "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339),
	)
	return len(docs), deleted, nil
}
