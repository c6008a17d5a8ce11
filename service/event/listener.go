package event

import (
	"context"
	"errors"

	"github.com/viant/kuriosity/service/messaging"
	"go.uber.org/zap"
)

// Handler processes one envelope.
type Handler[T any] func(ctx context.Context, event *Event[T]) error

// Listener dispatches pending envelopes to a handler on the caller goroutine.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   Handler[T]
	logger    *zap.Logger
}

// NewListener creates a listener.
func NewListener[T any](publisher *Publisher[T], handler Handler[T], logger *zap.Logger) *Listener[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener[T]{publisher: publisher, handler: handler, logger: logger}
}

// Drain handles every pending envelope and returns how many were handled.
// A failing envelope is nacked and redelivered until the queue gives up on it.
func (l *Listener[T]) Drain(ctx context.Context) (int, error) {
	count := 0
	for {
		message, err := l.publisher.Consume(ctx)
		if errors.Is(err, messaging.ErrEmpty) {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		count++
		if err := l.handler(ctx, message.T()); err != nil {
			l.logger.Error("failed to handle event", zap.String("message", message.ID()), zap.Error(err))
			if nackErr := message.Nack(err); nackErr != nil {
				return count, nackErr
			}
			continue
		}
		if err := message.Ack(); err != nil {
			return count, err
		}
	}
}
