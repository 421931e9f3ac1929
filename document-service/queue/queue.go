package queue

import (
	"sync"
	"time"
)

// Message is one "file needs text extraction" request
type Message struct {
	// Content is the document id to reprocess
	Content string `json:"content"`

	QueuedTime time.Time `json:"queued_time"`
	RetryCount int       `json:"retry_count"`

	// ExpirationTime, when set, drops the message once passed
	ExpirationTime *time.Time `json:"expiration_time,omitempty"`

	// NextVisibleTime, when set, hides the message from Pop and Peek until
	// it passes
	NextVisibleTime *time.Time `json:"next_visible_time,omitempty"`
}

// Queue is an in-process FIFO of extraction requests, safe for concurrent
// enqueue from request handlers and dequeue from the worker.
//
// Pop scans from the head and returns the first visibility-eligible message,
// leaving still-delayed messages in place. A delayed message at the head
// therefore does not block later-eligible ones, and no message is ever lost
// by the scan. The queue holds reprocessing requests, not latency-sensitive
// work.
type Queue struct {
	mu       sync.Mutex
	messages []*Message
	now      func() time.Time
}

func New() *Queue {
	return &Queue{now: time.Now}
}

// newWithClock is used by tests to control visibility decisions
func newWithClock(now func() time.Time) *Queue {
	return &Queue{now: now}
}

// Add enqueues a fresh message for the given document id
func (q *Queue) Add(content string) {
	q.AddMessage(&Message{
		Content:    content,
		QueuedTime: time.Now().UTC(),
	})
}

// AddMessage enqueues a message carrying existing retry state
func (q *Queue) AddMessage(msg *Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, msg)
}

// Pop removes and returns the first eligible message, incrementing its retry
// count. Returns nil when no message is eligible.
func (q *Queue) Pop() *Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.firstEligible()
	if idx < 0 {
		return nil
	}

	msg := q.messages[idx]
	q.messages = append(q.messages[:idx], q.messages[idx+1:]...)
	msg.RetryCount++
	return msg
}

// Peek returns the first eligible message without removing it or touching
// its retry count. Returns nil when no message is eligible.
func (q *Queue) Peek() *Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.firstEligible()
	if idx < 0 {
		return nil
	}
	return q.messages[idx]
}

// Len returns the number of queued messages, including delayed ones
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

// firstEligible returns the index of the first visible, unexpired message.
// Expired messages encountered on the way are dropped. Caller holds the lock.
func (q *Queue) firstEligible() int {
	now := q.now()

	for i := 0; i < len(q.messages); {
		msg := q.messages[i]

		if msg.ExpirationTime != nil && now.After(*msg.ExpirationTime) {
			q.messages = append(q.messages[:i], q.messages[i+1:]...)
			continue
		}

		if msg.NextVisibleTime == nil || !now.Before(*msg.NextVisibleTime) {
			return i
		}

		i++
	}

	return -1
}
