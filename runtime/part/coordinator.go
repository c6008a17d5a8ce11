package part

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/progress"
	"github.com/viant/kuriosity/runtime/controller"
	"github.com/viant/kuriosity/runtime/env"
	"github.com/viant/kuriosity/runtime/tracker"
	"github.com/viant/kuriosity/tracing"
	"go.uber.org/zap"
)

// Completion failure reasons reported to metrics.
const (
	FailureUnknownExperiment = "unknown_experiment"
	FailureNoScienceStorage  = "no_science_storage"
	FailureStorage           = "storage"
)

// Coordinator drives the controllers of the crew seated in one part.
type Coordinator struct {
	data      *Data
	env       *env.Env
	registry  *Registry
	factor    float64
	allowed   map[string]bool
	priority  map[string]bool
	residents []host.CrewMember
}

var _ tracker.Part = (*Coordinator)(nil)

// NewCoordinator creates a coordinator over data.
func NewCoordinator(e *env.Env, registry *Registry, data *Data) *Coordinator {
	data.init()
	return &Coordinator{
		data:     data,
		env:      e,
		registry: registry,
		factor:   data.FactorAdjustment * e.BaseFactor,
		allowed:  map[string]bool{},
		priority: map[string]bool{},
	}
}

// ID returns the part ID.
func (c *Coordinator) ID() string { return c.data.PartID }

// Data returns the persisted state.
func (c *Coordinator) Data() *Data { return c.data }

// Factor returns the current progress factor.
func (c *Coordinator) Factor() float64 { return c.factor }

// Allows reports whether the experiment is allowed in this part.
func (c *Coordinator) Allows(experimentID string) bool { return c.allowed[experimentID] }

// Prioritizes reports whether the experiment is a priority in this part.
func (c *Coordinator) Prioritizes(experimentID string) bool { return c.priority[experimentID] }

// Controller returns the controller of the crew member.
func (c *Coordinator) Controller(crewID uuid.UUID) (*controller.Controller, bool) {
	ret, ok := c.data.Controllers[crewID]
	return ret, ok
}

// Residents returns the crew seated in the part at the last refresh.
func (c *Coordinator) Residents() []host.CrewMember {
	return append([]host.CrewMember(nil), c.residents...)
}

// Description returns the part info line, empty when the adjustment is neutral.
func (c *Coordinator) Description() string {
	if c.data.FactorAdjustment == DefaultFactorAdjustment {
		return ""
	}
	return fmt.Sprintf("Kuriosity factor adjustment: x%.2f", c.data.FactorAdjustment)
}

// Activate migrates legacy IDs, resolves the allowed experiments, registers
// the coordinator and refreshes the seated crew.
func (c *Coordinator) Activate(ctx context.Context) error {
	logger := c.env.Log()
	c.data.migrate(logger)
	ids := c.data.AllowedExperiments
	if len(ids) == 0 && c.env.Catalog != nil {
		ids = c.env.Catalog.IDs()
	}
	c.allowed = map[string]bool{}
	for _, id := range ids {
		if _, ok := c.env.Lookup(id); !ok {
			logger.Error("unknown experiment", zap.String("part", c.ID()), zap.String("experiment", id))
			continue
		}
		c.allowed[id] = true
	}
	c.priority = map[string]bool{}
	for _, id := range c.data.PriorityExperiments {
		c.priority[id] = true
	}
	for _, ctrl := range c.data.Controllers {
		ctrl.Bind(c.env)
	}
	if c.registry != nil {
		c.registry.Register(c)
	}
	c.refresh(ctx)
	return nil
}

// Shutdown unregisters the coordinator.
func (c *Coordinator) Shutdown() {
	if c.registry != nil {
		if current, ok := c.registry.Get(c.ID()); ok && current == c {
			c.registry.Unregister(c.ID())
		}
	}
	c.env.Metrics.ForgetPart(c.ID())
}

func (c *Coordinator) allowedIDs() []string {
	ret := make([]string, 0, len(c.allowed))
	for id := range c.allowed {
		ret = append(ret, id)
	}
	sort.Strings(ret)
	return ret
}

// refresh re-enumerates the seated crew, recomputes the factor and
// refreshes every resident controller.
func (c *Coordinator) refresh(ctx context.Context) {
	if c.env.Universe == nil {
		return
	}
	_, span := tracing.StartSpan(ctx, tracing.SpanRefresh)
	span.Part(c.ID())
	defer tracing.EndSpan(span, nil)
	c.residents = c.env.Universe.CrewInPart(c.ID())
	ids := c.allowedIDs()
	for _, crew := range c.residents {
		ctrl := c.controller(crew.ID)
		for _, id := range ids {
			ctrl.Track(id)
		}
	}
	vessel, ok := c.env.Universe.Vessel(c.ID())
	if !ok {
		return
	}
	c.updateFactor(vessel)
	for _, crew := range c.residents {
		c.data.Controllers[crew.ID].Refresh(vessel, c, c.factor)
	}
}

func (c *Coordinator) controller(crewID uuid.UUID) *controller.Controller {
	ret, ok := c.data.Controllers[crewID]
	if !ok {
		ret = controller.New(c.env, crewID)
		c.data.Controllers[crewID] = ret
	}
	return ret
}

// updateFactor recomputes the factor from the vessel science multiplier,
// the part adjustment and the global base factor.
func (c *Coordinator) updateFactor(vessel host.Vessel) {
	scale := 1.0
	if multiplier := vessel.ScienceSituation().Multiplier(); multiplier > 0 {
		scale = math.Pow(multiplier, 0.3)
	}
	c.factor = scale * c.data.FactorAdjustment * c.env.BaseFactor
	c.env.Metrics.SetFactor(c.ID(), c.factor)
}

// Tick advances the active experiment of every resident by dt.
func (c *Coordinator) Tick(ctx context.Context, dt float64) {
	if c.env.Universe == nil {
		return
	}
	vessel, ok := c.env.Universe.Vessel(c.ID())
	if !ok {
		return
	}
	ctx, span := tracing.StartSpan(ctx, tracing.SpanTick)
	span.Part(c.ID())
	defer tracing.EndSpan(span, nil)

	c.updateFactor(vessel)
	span.Factor(c.factor)
	for _, crew := range c.Residents() {
		ctrl, ok := c.data.Controllers[crew.ID]
		if !ok {
			continue
		}
		if !ctrl.Advance(dt, c.factor) {
			continue
		}
		c.complete(ctx, crew, ctrl, vessel)
	}
}

func (c *Coordinator) complete(ctx context.Context, crew host.CrewMember, ctrl *controller.Controller, vessel host.Vessel) {
	experimentID := ctrl.ActiveExperimentID
	ctx, span := tracing.StartSpan(ctx, tracing.SpanCompletion)
	span.Experiment(experimentID).Crew(crew.ID.String()).Part(c.ID())

	err := ctrl.Trackers[experimentID].TriggerCompletion(ctx, crew, vessel)
	if err != nil {
		c.env.Log().Error("failed to complete experiment",
			zap.String("experiment", experimentID),
			zap.String("crew", crew.Name),
			zap.String("part", c.ID()),
			zap.Error(err))
		c.env.Metrics.ObserveFailure(failureReason(err))
		c.env.Progress.Update(progress.Delta{Failed: 1})
	} else {
		c.env.Metrics.ObserveCompletion(experimentID)
		c.env.Progress.Update(progress.Delta{Completed: 1})
	}
	tracing.EndSpan(span, err)

	c.deprioritizeAcrossVessel(ctx, vessel, crew.ID, experimentID)
	ctrl.Refresh(vessel, c, c.factor)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, tracker.ErrUnknownExperiment):
		return FailureUnknownExperiment
	case errors.Is(err, tracker.ErrNoScienceStorage):
		return FailureNoScienceStorage
	}
	return FailureStorage
}

// deprioritizeAcrossVessel deprioritizes experimentID on every other
// controller aboard the vessel. Coordinators and controllers are
// snapshotted before any of them is mutated.
func (c *Coordinator) deprioritizeAcrossVessel(ctx context.Context, vessel host.Vessel, crewID uuid.UUID, experimentID string) {
	_, span := tracing.StartSpan(ctx, tracing.SpanBroadcast)
	span.Experiment(experimentID).Vessel(vessel.ID())
	defer tracing.EndSpan(span, nil)

	var coordinators []*Coordinator
	if c.registry != nil {
		coordinators = c.registry.Lookup(c.env.Universe.VesselParts(vessel.ID()))
	} else {
		coordinators = []*Coordinator{c}
	}
	type target struct {
		coordinator *Coordinator
		controller  *controller.Controller
	}
	var targets []target
	for _, coordinator := range coordinators {
		for _, ctrl := range coordinator.sortedControllers() {
			if ctrl.CrewID == crewID {
				continue
			}
			if _, ok := ctrl.Trackers[experimentID]; !ok {
				continue
			}
			targets = append(targets, target{coordinator: coordinator, controller: ctrl})
		}
	}
	for _, t := range targets {
		if t.controller.Deprioritize(experimentID) {
			c.env.Metrics.ObserveDeprioritized(experimentID)
			c.env.Progress.Update(progress.Delta{Deprioritized: 1})
		}
		t.controller.Refresh(vessel, t.coordinator, t.coordinator.factor)
	}
}

func (c *Coordinator) sortedControllers() []*controller.Controller {
	ret := make([]*controller.Controller, 0, len(c.data.Controllers))
	for _, ctrl := range c.data.Controllers {
		ret = append(ret, ctrl)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].CrewID.String() < ret[j].CrewID.String() })
	return ret
}

// HandleEvent reacts to a host lifecycle event.
func (c *Coordinator) HandleEvent(ctx context.Context, event *host.Event) {
	switch event.Type {
	case host.EventCrewRelocated:
		if event.ToPartID == c.ID() {
			c.adopt(event.CrewID, event.FromPartID)
		}
		// crew count changed on the source and destination vessels
		c.refresh(ctx)
	case host.EventCrewRemoved:
		if _, ok := c.data.Controllers[event.CrewID]; ok {
			delete(c.data.Controllers, event.CrewID)
			c.env.Log().Debug("crew removed", zap.Stringer("crew", event.CrewID), zap.String("part", c.ID()))
		}
		c.refresh(ctx)
	case host.EventVesselChanged, host.EventCommNetChanged, host.EventScienceSituationChanged, host.EventReportAcquired:
		if c.onVessel(event.VesselID) {
			c.refresh(ctx)
		}
	}
}

// adopt moves the controller of the crew member from the source coordinator.
func (c *Coordinator) adopt(crewID uuid.UUID, fromPartID string) {
	if c.registry == nil || fromPartID == c.ID() {
		return
	}
	source, ok := c.registry.Get(fromPartID)
	if !ok {
		c.env.Log().Debug("relocation source not registered, progress starts over",
			zap.Stringer("crew", crewID), zap.String("from", fromPartID), zap.String("to", c.ID()))
		return
	}
	ctrl, ok := source.data.Controllers[crewID]
	if !ok {
		c.env.Log().Debug("relocation source holds no controller, progress starts over",
			zap.Stringer("crew", crewID), zap.String("from", fromPartID), zap.String("to", c.ID()))
		return
	}
	delete(source.data.Controllers, crewID)
	ctrl.Bind(c.env)
	c.data.Controllers[crewID] = ctrl
	c.env.Log().Debug("crew relocated",
		zap.Stringer("crew", crewID),
		zap.String("from", fromPartID),
		zap.String("to", c.ID()))
}

func (c *Coordinator) onVessel(vesselID string) bool {
	if c.env.Universe == nil {
		return false
	}
	vessel, ok := c.env.Universe.Vessel(c.ID())
	return ok && (vesselID == "" || vessel.ID() == vesselID)
}
