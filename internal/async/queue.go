// Package async runs document processing off the request path: a bounded
// in-process queue with a worker pool, plus the periodic retention sweep.
package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Processor runs one document end to end. *pipeline.Pipeline satisfies it.
type Processor interface {
	Process(ctx context.Context, docID uuid.UUID, force, forceOCR bool) error
}

// Job is the smallest useful unit. Extend as needed later (retry, trace, priority).
type Job struct {
	DocumentID  uuid.UUID
	Force       bool // reprocess even if already DONE
	ForceOCR    bool
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

var (
	ErrQueueFull   = errors.New("processing queue is full")
	ErrQueueClosed = errors.New("queue is shutting down")
)

type workerQueue struct {
	jobs      chan Job
	processor Processor
	log       *slog.Logger
	wg        sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewWorkerQueue starts a fixed pool of workers draining a bounded channel.
// Enqueue never blocks; a full queue is reported to the caller instead.
func NewWorkerQueue(p Processor, workers, size int, logger *slog.Logger) Queue {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 16
	}
	q := &workerQueue{
		jobs:      make(chan Job, size),
		processor: p,
		log:       logger,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	logger.Info("queue.started", "workers", workers, "size", size)
	return q
}

func (q *workerQueue) Enqueue(_ context.Context, job Job) error {
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		q.log.Warn("queue.full", "doc_id", job.DocumentID)
		return ErrQueueFull
	}
}

// Shutdown stops intake and waits for in-flight jobs, bounded by ctx.
func (q *workerQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		q.log.Info("queue.drained")
	case <-ctx.Done():
		q.log.Warn("queue.shutdown_timeout")
	}
}

func (q *workerQueue) worker(id int) {
	defer q.wg.Done()
	for job := range q.jobs {
		waited := time.Since(job.SubmittedAt)
		if err := q.processor.Process(context.Background(), job.DocumentID, job.Force, job.ForceOCR); err != nil {
			q.log.Warn("queue.job_failed",
				"worker", id, "doc_id", job.DocumentID,
				"queued_ms", waited.Milliseconds(), "error", err,
			)
			continue
		}
		q.log.Debug("queue.job_done",
			"worker", id, "doc_id", job.DocumentID,
			"queued_ms", waited.Milliseconds(),
		)
	}
}
