package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/service/messaging/memory"
)

func TestBus_Drain(t *testing.T) {
	ctx := context.Background()
	bus := NewBus()
	crewID := uuid.New()
	require.NoError(t, bus.Publish(ctx, host.NewCrewRelocated(crewID, "cockpit", "lab")))
	require.NoError(t, bus.Publish(ctx, host.NewVesselEvent(host.EventCommNetChanged, "v1")))
	assert.Error(t, bus.Publish(ctx, nil))

	var received []host.EventType
	count, err := bus.Drain(ctx, func(ctx context.Context, event *host.Event) error {
		received = append(received, event.Type)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []host.EventType{host.EventCrewRelocated, host.EventCommNetChanged}, received)

	count, err = bus.Drain(ctx, func(ctx context.Context, event *host.Event) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBus_DrainRetriesFailures(t *testing.T) {
	ctx := context.Background()
	queue := memory.NewQueue[Event[host.Event]](memory.Config{MaxRetries: 1, DeadLetter: true})
	bus := NewBus(WithQueue(queue))
	require.NoError(t, bus.Publish(ctx, host.NewCrewRemoved(uuid.New())))

	attempts := 0
	count, err := bus.Drain(ctx, func(ctx context.Context, event *host.Event) error {
		attempts++
		return errors.New("boom")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, queue.DLQSize())
}
