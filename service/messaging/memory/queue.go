package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/kuriosity/internal/idgen"
	"github.com/viant/kuriosity/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	// MaxRetries is the number of redeliveries after the first Nack
	MaxRetries int
	DeadLetter bool
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		DeadLetter: true,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	retryCount int
	lastErr    error
	processed  bool
}

// ID returns the message identifier
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// RetryCount returns how many times the message was redelivered
func (m *Message[T]) RetryCount() int {
	return m.retryCount
}

// Err returns the error of the last Nack
func (m *Message[T]) Err() error {
	return m.lastErr
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.queue.mu.Lock()
	defer m.queue.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return nil
}

// Nack requeues the message at the tail until MaxRetries is exceeded, then
// moves it to the dead letter queue when enabled.
func (m *Message[T]) Nack(err error) error {
	m.queue.mu.Lock()
	defer m.queue.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.lastErr = err
	if m.retryCount < m.queue.config.MaxRetries {
		m.queue.pending = append(m.queue.pending, &Message[T]{
			id:         m.id,
			payload:    m.payload,
			queue:      m.queue,
			retryCount: m.retryCount + 1,
			lastErr:    err,
		})
		return nil
	}
	if m.queue.config.DeadLetter {
		m.queue.dlq = append(m.queue.dlq, m)
	}
	return nil
}

// Queue implements a FIFO in-memory messaging.Queue. Consume never blocks.
type Queue[T any] struct {
	pending []*Message[T]
	dlq     []*Message[T]
	config  Config
	mu      sync.Mutex
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &Queue[T]{config: config}
}

// Publish adds a new item to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("payload was nil")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, &Message[T]{id: idgen.NewString(), payload: *t, queue: q})
	return nil
}

// Consume retrieves the oldest pending item
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil, messaging.ErrEmpty
	}
	msg := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return msg, nil
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// DLQSize returns the number of messages in the dead letter queue
func (q *Queue[T]) DLQSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.dlq)
}

// DeadLetters returns the payloads of the dead letter queue
func (q *Queue[T]) DeadLetters() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	ret := make([]T, 0, len(q.dlq))
	for _, msg := range q.dlq {
		ret = append(ret, msg.payload)
	}
	return ret
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
