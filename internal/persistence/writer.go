package persistence

import (
	"context"
	"log/slog"
	"time"
)

type writeCmd struct {
	name string
	fn   func(context.Context) error
	done func(error)
}

type WriterQueue struct {
	logger *slog.Logger
	queue  chan writeCmd
}

func NewWriterQueue(logger *slog.Logger, capacity int) *WriterQueue {
	if capacity <= 0 {
		capacity = 256
	}
	if logger == nil {
		logger = slog.Default().With("component", "persistence.writer")
	}
	return &WriterQueue{
		logger: logger,
		queue:  make(chan writeCmd, capacity),
	}
}

func (w *WriterQueue) Enqueue(name string, fn func(context.Context) error) {
	w.EnqueueThen(name, fn, nil)
}

// EnqueueThen queues fn and calls done with the last attempt's error once the queue is
// finished with it. done is not called when the queue stops before the write completes.
func (w *WriterQueue) EnqueueThen(name string, fn func(context.Context) error, done func(error)) {
	cmd := writeCmd{name: name, fn: fn, done: done}
	select {
	case w.queue <- cmd:
	default:
		go func() { w.queue <- cmd }()
	}
}

func (w *WriterQueue) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case cmd := <-w.queue:
				w.runWithRetry(ctx, cmd)
			}
		}
	}()
}

func (w *WriterQueue) runWithRetry(ctx context.Context, cmd writeCmd) {
	const maxAttempts = 3
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = cmd.fn(ctx); err == nil {
			break
		}
		w.logger.Error("db write failed", "cmd", cmd.name, "attempt", attempt, "error", err)
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
		}
	}
	if cmd.done != nil && ctx.Err() == nil {
		cmd.done(err)
	}
}

// Flush blocks until every write queued before it has been attempted.
func (w *WriterQueue) Flush(ctx context.Context) error {
	done := make(chan struct{})
	w.Enqueue("flush", func(context.Context) error {
		close(done)

		return nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
