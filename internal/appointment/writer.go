package appointment

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/hackgods/vet-appointments/internal/storage"
)

var ErrWriterClosed = errors.New("writer closed")

// Writer takes serialized snapshots and writes them to the slot without
// blocking the caller. Failures go to the error hook and the log.
type Writer interface {
	Write(ctx context.Context, key string, blob []byte)
	Close(ctx context.Context) error
}

// ErrorHook is told about every failed storage operation.
type ErrorHook func(op string, err error)

type writeJob struct {
	ctx  context.Context
	key  string
	blob []byte
}

// queuedWriter applies writes one at a time in submission order.
type queuedWriter struct {
	provider storage.Provider
	timeout  time.Duration
	onError  ErrorHook

	mu     sync.Mutex
	closed bool
	jobs   chan writeJob
	done   chan struct{}
}

// NewQueuedWriter starts the single writer goroutine. size bounds how many
// snapshots may wait; a full queue makes Write wait for room.
func NewQueuedWriter(provider storage.Provider, size int, timeout time.Duration, onError ErrorHook) Writer {
	if size <= 0 {
		size = 64
	}
	w := &queuedWriter{
		provider: provider,
		timeout:  timeout,
		onError:  onError,
		jobs:     make(chan writeJob, size),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *queuedWriter) run() {
	defer close(w.done)
	for job := range w.jobs {
		write(job, w.provider, w.timeout, w.onError)
	}
}

func (w *queuedWriter) Write(ctx context.Context, key string, blob []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		report(w.onError, "persist", key, ErrWriterClosed)
		return
	}
	w.jobs <- writeJob{ctx: context.WithoutCancel(ctx), key: key, blob: blob}
}

// Close stops accepting writes and waits for the queue to drain or ctx to end.
func (w *queuedWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// asyncWriter fires one goroutine per write. Writes may land out of order.
type asyncWriter struct {
	provider storage.Provider
	timeout  time.Duration
	onError  ErrorHook

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsyncWriter(provider storage.Provider, timeout time.Duration, onError ErrorHook) Writer {
	return &asyncWriter{provider: provider, timeout: timeout, onError: onError}
}

func (w *asyncWriter) Write(ctx context.Context, key string, blob []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		report(w.onError, "persist", key, ErrWriterClosed)
		return
	}
	job := writeJob{ctx: context.WithoutCancel(ctx), key: key, blob: blob}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		write(job, w.provider, w.timeout, w.onError)
	}()
}

func (w *asyncWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func write(job writeJob, provider storage.Provider, timeout time.Duration, onError ErrorHook) {
	ctx := job.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := provider.Set(ctx, job.key, job.blob); err != nil {
		report(onError, "persist", job.key, err)
	}
}

func report(onError ErrorHook, op, key string, err error) {
	serr := &StorageError{Op: op, Key: key, Err: err}
	log.Printf("storage error: %v", serr)
	if onError != nil {
		onError(op, serr)
	}
}
