package event

import (
	"context"
	"fmt"

	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/service/messaging"
	"github.com/viant/kuriosity/service/messaging/memory"
	"go.uber.org/zap"
)

// Bus queues host events and drains them on demand.
type Bus struct {
	queue     messaging.Queue[Event[host.Event]]
	publisher *Publisher[host.Event]
	logger    *zap.Logger
}

// NewBus creates a bus, by default over an in-memory queue.
func NewBus(options ...Option) *Bus {
	ret := &Bus{}
	for _, opt := range options {
		opt(ret)
	}
	if ret.queue == nil {
		ret.queue = memory.NewQueue[Event[host.Event]](memory.DefaultConfig())
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	ret.publisher = NewPublisher[host.Event](ret.queue)
	return ret
}

// Publish enqueues a host event.
func (b *Bus) Publish(ctx context.Context, event *host.Event) error {
	if event == nil {
		return fmt.Errorf("event was nil")
	}
	envelope := NewEvent(*event)
	envelope.Metadata["type"] = string(event.Type)
	return b.publisher.Publish(ctx, envelope)
}

// Drain dispatches every pending host event to handler.
func (b *Bus) Drain(ctx context.Context, handler func(ctx context.Context, event *host.Event) error) (int, error) {
	listener := NewListener[host.Event](b.publisher, func(ctx context.Context, envelope *Event[host.Event]) error {
		return handler(ctx, &envelope.Data)
	}, b.logger)
	return listener.Drain(ctx)
}
