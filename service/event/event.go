// Package event carries host lifecycle events from the host to part
// coordinators. Events are queued as they happen and drained synchronously
// on the update loop before coordinators tick.
package event

import (
	"time"

	"github.com/viant/kuriosity/internal/clock"
)

// Event is an envelope around a payload.
type Event[T any] struct {
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent wraps data in an envelope.
func NewEvent[T any](data T) *Event[T] {
	return &Event[T]{
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
