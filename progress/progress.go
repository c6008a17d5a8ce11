package progress

import (
	"sync"
	"time"

	"github.com/viant/kuriosity/internal/clock"
)

// Delta represents an incremental counter change emitted by the engine.
type Delta struct {
	Tracked       int
	Started       int
	Paused        int
	Completed     int
	Deprioritized int
	Failed        int
}

// Counters holds the aggregated values.
type Counters struct {
	StartedAt     time.Time `json:"startedAt"`
	Tracked       int       `json:"tracked"`
	Started       int       `json:"started"`
	Paused        int       `json:"paused"`
	Completed     int       `json:"completed"`
	Deprioritized int       `json:"deprioritized"`
	Failed        int       `json:"failed"`
}

// Progress aggregates counters and is safe for concurrent reads.
type Progress struct {
	counters Counters
	mux      sync.Mutex
	onChange func(Counters)
}

// New creates a progress tracker with an optional onChange callback.
func New(onChange func(Counters)) *Progress {
	return &Progress{counters: Counters{StartedAt: clock.Now()}, onChange: onChange}
}

// Update applies the delta. The callback, if any, is invoked with a copy
// outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.counters.Tracked += d.Tracked
	p.counters.Started += d.Started
	p.counters.Paused += d.Paused
	p.counters.Completed += d.Completed
	p.counters.Deprioritized += d.Deprioritized
	p.counters.Failed += d.Failed
	snapshot := p.counters
	cb := p.onChange
	p.mux.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.counters
}

// OnChange replaces the callback; nil disables it.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.onChange = cb
	p.mux.Unlock()
}
