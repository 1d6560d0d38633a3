package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProcessor struct {
	mu        sync.Mutex
	processed []uuid.UUID
	block     chan struct{}
}

func (p *recordingProcessor) Process(_ context.Context, docID uuid.UUID, _, _ bool) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed = append(p.processed, docID)
	return nil
}

func (p *recordingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.processed)
}

func TestQueueProcessesJobs(t *testing.T) {
	proc := &recordingProcessor{}
	q := NewWorkerQueue(proc, 2, 8, nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{DocumentID: uuid.New()}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.Equal(t, 5, proc.count())
}

func TestQueueRejectsWhenFull(t *testing.T) {
	proc := &recordingProcessor{block: make(chan struct{})}
	q := NewWorkerQueue(proc, 1, 1, nil)

	// first job occupies the worker, second fills the buffer
	require.NoError(t, q.Enqueue(context.Background(), Job{DocumentID: uuid.New()}))

	var sawFull bool
	for i := 0; i < 4; i++ {
		if err := q.Enqueue(context.Background(), Job{DocumentID: uuid.New()}); err != nil {
			assert.ErrorIs(t, err, ErrQueueFull)
			sawFull = true
			break
		}
	}
	assert.True(t, sawFull)

	close(proc.block)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	proc := &recordingProcessor{}
	q := NewWorkerQueue(proc, 1, 4, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	err := q.Enqueue(context.Background(), Job{DocumentID: uuid.New()})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueEnqueueDuringShutdown(t *testing.T) {
	proc := &recordingProcessor{}
	q := NewWorkerQueue(proc, 2, 4, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				err := q.Enqueue(context.Background(), Job{DocumentID: uuid.New()})
				if err != nil {
					assert.True(t, errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed),
						"unexpected error: %v", err)
				}
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)
	wg.Wait()

	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{DocumentID: uuid.New()}), ErrQueueClosed)
}
