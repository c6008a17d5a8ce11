package event

import (
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/service/messaging"
	"go.uber.org/zap"
)

// Option customises a Bus.
type Option func(b *Bus)

// WithQueue sets the queue backing the bus.
func WithQueue(queue messaging.Queue[Event[host.Event]]) Option {
	return func(b *Bus) { b.queue = queue }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bus) { b.logger = logger }
}
