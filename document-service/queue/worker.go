package queue

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Processor handles one extraction request
type Processor interface {
	ProcessDocument(ctx context.Context, documentID string) error
}

// Worker is the single background consumer of the extraction queue. It
// drains every currently-eligible message sequentially, sleeps for the
// polling period, and repeats until the context is cancelled. Failures
// inside the loop are logged and never terminate it.
type Worker struct {
	queue         *Queue
	processor     Processor
	maxAttempts   int
	pollingPeriod time.Duration
	retryDelay    time.Duration
}

const defaultRetryDelay = 30 * time.Second

func NewWorker(q *Queue, processor Processor, maxAttempts int, pollingPeriod time.Duration) *Worker {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Worker{
		queue:         q,
		processor:     processor,
		maxAttempts:   maxAttempts,
		pollingPeriod: pollingPeriod,
		retryDelay:    defaultRetryDelay,
	}
}

// Run blocks until ctx is cancelled. Cancellation is cooperative: it is
// checked between messages and between polling sleeps, never mid-message.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("🚀 Extraction worker started (polling every %v)", w.pollingPeriod)

	for {
		w.drain(ctx)

		select {
		case <-ctx.Done():
			log.Println("🛑 Extraction worker stopped")
			return
		case <-time.After(w.pollingPeriod):
		}
	}
}

// drain processes eligible messages until the queue yields none
func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg := w.queue.Pop()
		if msg == nil {
			return
		}

		w.processMessage(ctx, msg)
	}
}

// processMessage runs one extraction and handles retry bookkeeping. A panic
// in the processor is converted to an error so the message gets the same
// re-enqueue treatment as an ordinary failure.
func (w *Worker) processMessage(ctx context.Context, msg *Message) {
	err := w.invokeProcessor(ctx, msg.Content)
	if err == nil {
		return
	}

	if msg.RetryCount >= w.maxAttempts {
		log.Printf("❌ Dropping document %s after %d attempts: %v", msg.Content, msg.RetryCount, err)
		return
	}

	log.Printf("Warning: extraction of document %s failed (attempt %d/%d), re-enqueueing: %v",
		msg.Content, msg.RetryCount, w.maxAttempts, err)

	next := time.Now().UTC().Add(w.retryDelay)
	msg.NextVisibleTime = &next
	w.queue.AddMessage(msg)
}

func (w *Worker) invokeProcessor(ctx context.Context, documentID string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("processor panic: %v", rec)
		}
	}()

	return w.processor.ProcessDocument(ctx, documentID)
}
