package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProcessor struct {
	failFor  map[string]error
	panicFor map[string]string
	seen     []string
}

func (p *fakeProcessor) ProcessDocument(_ context.Context, documentID string) error {
	p.seen = append(p.seen, documentID)
	if msg, ok := p.panicFor[documentID]; ok {
		panic(msg)
	}
	if err, ok := p.failFor[documentID]; ok {
		return err
	}
	return nil
}

func TestWorker_ProcessesEligibleMessages(t *testing.T) {
	q := New()
	q.Add("doc-1")
	q.Add("doc-2")

	processor := &fakeProcessor{}
	w := NewWorker(q, processor, 5, time.Minute)

	w.drain(context.Background())

	if len(processor.seen) != 2 {
		t.Fatalf("processed %d messages, want 2", len(processor.seen))
	}
	if q.Len() != 0 {
		t.Errorf("queue not drained, Len = %d", q.Len())
	}
}

func TestWorker_ReenqueuesFailureWithRetryCount(t *testing.T) {
	q := New()
	q.Add("flaky")

	processor := &fakeProcessor{failFor: map[string]error{"flaky": errors.New("boom")}}
	w := NewWorker(q, processor, 5, time.Minute)

	w.drain(context.Background())

	// The failed message is re-enqueued behind its retry delay, so the drain
	// pass ends instead of spinning on it
	if len(processor.seen) != 1 {
		t.Fatalf("processed %d times in one drain pass, want 1", len(processor.seen))
	}
	if q.Len() != 1 {
		t.Fatal("failed message was not re-enqueued")
	}

	q.mu.Lock()
	retained := q.messages[0]
	q.mu.Unlock()
	if retained.RetryCount != 1 {
		t.Errorf("RetryCount = %d, want 1", retained.RetryCount)
	}
	if retained.NextVisibleTime == nil {
		t.Error("re-enqueued message has no visibility delay")
	}
}

func TestWorker_ReenqueuesAfterProcessorPanic(t *testing.T) {
	q := New()
	q.Add("explosive")
	q.Add("fine")

	processor := &fakeProcessor{panicFor: map[string]string{"explosive": "boom"}}
	w := NewWorker(q, processor, 5, time.Minute)

	w.drain(context.Background())

	// The panicking message gets ordinary retry bookkeeping and the drain
	// pass carries on with the next message
	if len(processor.seen) != 2 {
		t.Fatalf("processed %d messages, want 2", len(processor.seen))
	}
	if q.Len() != 1 {
		t.Fatal("panicking message was not re-enqueued")
	}

	q.mu.Lock()
	retained := q.messages[0]
	q.mu.Unlock()
	if retained.Content != "explosive" {
		t.Errorf("retained message is %q, want the panicking one", retained.Content)
	}
	if retained.RetryCount != 1 {
		t.Errorf("RetryCount = %d, want 1", retained.RetryCount)
	}
	if retained.NextVisibleTime == nil {
		t.Error("re-enqueued message has no visibility delay")
	}
}

func TestWorker_DropsAtRetryCap(t *testing.T) {
	q := New()
	// RetryCount is incremented to 5 by the Pop inside drain
	q.AddMessage(&Message{Content: "doomed", RetryCount: 4})

	processor := &fakeProcessor{failFor: map[string]error{"doomed": errors.New("boom")}}
	w := NewWorker(q, processor, 5, time.Minute)
	w.retryDelay = 0

	w.drain(context.Background())

	if q.Len() != 0 {
		t.Errorf("message past the retry cap was re-enqueued, Len = %d", q.Len())
	}
	if len(processor.seen) != 1 {
		t.Errorf("processed %d times, want 1", len(processor.seen))
	}
}

func TestWorker_RetryThenDrop(t *testing.T) {
	q := New()
	q.Add("always-fails")

	processor := &fakeProcessor{failFor: map[string]error{"always-fails": errors.New("boom")}}
	w := NewWorker(q, processor, 3, time.Minute)
	w.retryDelay = 0

	// Each drain pass keeps popping the re-enqueued message until the
	// retry cap drops it
	w.drain(context.Background())

	if q.Len() != 0 {
		t.Fatalf("queue not empty after retry cap, Len = %d", q.Len())
	}
	if len(processor.seen) != 3 {
		t.Errorf("processed %d times, want 3", len(processor.seen))
	}
}

func TestWorker_RespectsCancellation(t *testing.T) {
	q := New()
	q.Add("pending")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := &fakeProcessor{}
	w := NewWorker(q, processor, 5, time.Minute)

	w.drain(ctx)

	if len(processor.seen) != 0 {
		t.Errorf("processed %d messages after cancellation, want 0", len(processor.seen))
	}
	if q.Len() != 1 {
		t.Errorf("message lost on cancellation, Len = %d", q.Len())
	}
}
