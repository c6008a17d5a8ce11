// Package messaging defines the queue abstraction host events travel through
// before they are dispatched on the update loop.
package messaging

import (
	"context"
	"errors"
)

// ErrEmpty is returned by Consume when no message is pending.
var ErrEmpty = errors.New("messaging: queue is empty")

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message without blocking, ErrEmpty signals an empty queue
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// ID returns the message identifier
	ID() string

	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}
