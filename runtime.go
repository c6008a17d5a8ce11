package kuriosity

import (
	"context"
	"fmt"

	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/internal/clock"
	"github.com/viant/kuriosity/internal/idgen"
	"github.com/viant/kuriosity/progress"
	"github.com/viant/kuriosity/runtime/env"
	"github.com/viant/kuriosity/runtime/part"
	"github.com/viant/kuriosity/service/dao"
	"github.com/viant/kuriosity/service/event"
	"github.com/viant/kuriosity/tracing"
	"go.uber.org/zap"
)

// Runtime drives every registered part coordinator. It is not safe for
// concurrent use.
type Runtime struct {
	env         *env.Env
	registry    *part.Registry
	bus         *event.Bus
	snapshotDAO dao.Service[string, part.Snapshot]
}

// Env returns the shared engine environment
func (r *Runtime) Env() *env.Env {
	return r.env
}

// AddPart creates, activates and registers a coordinator for the part.
func (r *Runtime) AddPart(ctx context.Context, data *part.Data) (*part.Coordinator, error) {
	if data == nil || data.PartID == "" {
		return nil, fmt.Errorf("part data was empty")
	}
	if _, ok := r.registry.Get(data.PartID); ok {
		return nil, fmt.Errorf("part %v already registered", data.PartID)
	}
	return r.activate(ctx, data)
}

func (r *Runtime) activate(ctx context.Context, data *part.Data) (*part.Coordinator, error) {
	ret := part.NewCoordinator(r.env, r.registry, data)
	if err := ret.Activate(ctx); err != nil {
		return nil, fmt.Errorf("failed to activate part %v: %w", data.PartID, err)
	}
	return ret, nil
}

// RemovePart shuts down the coordinator of the part.
func (r *Runtime) RemovePart(partID string) bool {
	coordinator, ok := r.registry.Get(partID)
	if !ok {
		return false
	}
	coordinator.Shutdown()
	return true
}

// Coordinator returns the coordinator of the part.
func (r *Runtime) Coordinator(partID string) (*part.Coordinator, bool) {
	return r.registry.Get(partID)
}

// Coordinators returns every registered coordinator ordered by part ID.
func (r *Runtime) Coordinators() []*part.Coordinator {
	return r.registry.All()
}

// Publish queues a host event for the next Update.
func (r *Runtime) Publish(ctx context.Context, event *host.Event) error {
	return r.bus.Publish(ctx, event)
}

// Update dispatches the pending host events, then advances every coordinator by dt seconds.
func (r *Runtime) Update(ctx context.Context, dt float64) error {
	if _, err := r.bus.Drain(ctx, r.dispatch); err != nil {
		return fmt.Errorf("failed to dispatch events: %w", err)
	}
	for _, coordinator := range r.registry.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		coordinator.Tick(ctx, dt)
	}
	return nil
}

func (r *Runtime) dispatch(ctx context.Context, event *host.Event) error {
	for _, coordinator := range r.registry.All() {
		coordinator.HandleEvent(ctx, event)
	}
	return nil
}

// Progress returns the aggregated progress counters.
func (r *Runtime) Progress() progress.Counters {
	if r.env.Progress == nil {
		return progress.Counters{}
	}
	return r.env.Progress.Snapshot()
}

// Save stores a copy of every coordinator state. An empty id is generated.
func (r *Runtime) Save(ctx context.Context, id string) (*part.Snapshot, error) {
	ctx, span := tracing.StartSpan(ctx, tracing.SpanSave)
	span.Snapshot(id)
	snapshot, err := r.save(ctx, id)
	tracing.EndSpan(span, err)
	return snapshot, err
}

func (r *Runtime) save(ctx context.Context, id string) (*part.Snapshot, error) {
	if id == "" {
		id = idgen.NewString()
	}
	live := &part.Snapshot{ID: id, UniverseTime: r.env.UniverseTime(), CreatedAt: clock.Now()}
	for _, coordinator := range r.registry.All() {
		live.Parts = append(live.Parts, coordinator.Data())
	}
	ret, err := live.Clone()
	if err != nil {
		return nil, err
	}
	if err = r.snapshotDAO.Save(ctx, ret); err != nil {
		r.env.Log().Error("failed to save snapshot", zap.String("snapshot", id), zap.Error(err))
		return nil, fmt.Errorf("failed to save snapshot %v: %w", id, err)
	}
	r.env.Log().Debug("snapshot saved", zap.String("snapshot", id), zap.Int("parts", len(ret.Parts)))
	return ret, nil
}

// Load restores the saved parts, replacing their live coordinators. Parts
// missing from the snapshot keep running. The returned snapshot holds the
// live part data.
func (r *Runtime) Load(ctx context.Context, id string) (*part.Snapshot, error) {
	ctx, span := tracing.StartSpan(ctx, tracing.SpanLoad)
	span.Snapshot(id)
	snapshot, err := r.load(ctx, id)
	tracing.EndSpan(span, err)
	return snapshot, err
}

func (r *Runtime) load(ctx context.Context, id string) (*part.Snapshot, error) {
	stored, err := r.snapshotDAO.Load(ctx, id)
	if err != nil {
		r.env.Log().Error("failed to load snapshot", zap.String("snapshot", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load snapshot %v: %w", id, err)
	}
	restored, err := stored.Clone()
	if err != nil {
		return nil, err
	}
	for _, data := range restored.Parts {
		if data == nil || data.PartID == "" {
			continue
		}
		if current, ok := r.registry.Get(data.PartID); ok {
			current.Shutdown()
		}
		if _, err = r.activate(ctx, data); err != nil {
			return nil, err
		}
	}
	r.env.Log().Debug("snapshot loaded", zap.String("snapshot", id), zap.Int("parts", len(restored.Parts)))
	return restored, nil
}

// Snapshots lists the stored snapshots oldest first.
func (r *Runtime) Snapshots(ctx context.Context, parameters ...*dao.Parameter) ([]*part.Snapshot, error) {
	return r.snapshotDAO.List(ctx, parameters...)
}

// DeleteSnapshot removes a stored snapshot.
func (r *Runtime) DeleteSnapshot(ctx context.Context, id string) error {
	return r.snapshotDAO.Delete(ctx, id)
}

func (r *Runtime) shutdown() {
	for _, coordinator := range r.registry.All() {
		coordinator.Shutdown()
	}
}
