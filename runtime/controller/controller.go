// Package controller aggregates the experiment trackers of one crew member
// and chooses the single experiment that member is actively running.
package controller

import (
	"sort"

	"github.com/google/uuid"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/model"
	"github.com/viant/kuriosity/progress"
	"github.com/viant/kuriosity/runtime/env"
	"github.com/viant/kuriosity/runtime/tracker"
	"go.uber.org/zap"
)

// Controller owns the trackers of one crew member. At most one tracker is
// running and it is always the active one.
type Controller struct {
	CrewID             uuid.UUID                   `json:"crewId" yaml:"crewId"`
	ActiveExperimentID string                      `json:"activeExperimentId,omitempty" yaml:"activeExperimentId,omitempty"`
	Trackers           map[string]*tracker.Tracker `json:"trackers" yaml:"trackers"`

	env *env.Env
}

// New creates a controller for crewID.
func New(e *env.Env, crewID uuid.UUID) *Controller {
	return &Controller{CrewID: crewID, Trackers: map[string]*tracker.Tracker{}, env: e}
}

// Bind attaches the environment to the controller and its trackers after decoding.
func (c *Controller) Bind(e *env.Env) {
	c.env = e
	if c.Trackers == nil {
		c.Trackers = map[string]*tracker.Tracker{}
	}
	for _, t := range c.Trackers {
		t.Bind(e)
	}
}

// Active returns the active tracker, or nil.
func (c *Controller) Active() *tracker.Tracker {
	if c.ActiveExperimentID == "" {
		return nil
	}
	return c.Trackers[c.ActiveExperimentID]
}

// Track adds an initialized tracker for experimentID unless one exists.
// It returns true when a tracker was created.
func (c *Controller) Track(experimentID string) bool {
	if _, ok := c.Trackers[experimentID]; ok {
		return false
	}
	t := tracker.New(c.env, experimentID)
	if err := t.Initialize(); err != nil {
		c.env.Log().Error("failed to initialize experiment",
			zap.String("experiment", experimentID),
			zap.Stringer("crew", c.CrewID),
			zap.Error(err))
	}
	c.Trackers[experimentID] = t
	c.env.Progress.Update(progress.Delta{Tracked: 1})
	return true
}

// sortedIDs returns the tracker IDs in lexical order.
func (c *Controller) sortedIDs() []string {
	ret := make([]string, 0, len(c.Trackers))
	for id := range c.Trackers {
		ret = append(ret, id)
	}
	sort.Strings(ret)
	return ret
}

var (
	precedenceTiers = []model.Precedence{model.PrecedencePriority, model.PrecedenceNonPriority}
	stateTiers      = []model.ExperimentState{model.StateRunning, model.StatePaused, model.StateInitialized}
)

// SelectBest returns the trackers of the first non-empty cell of the
// precedence by state grid, scanned row by row.
func (c *Controller) SelectBest() []*tracker.Tracker {
	ids := c.sortedIDs()
	for _, precedence := range precedenceTiers {
		for _, state := range stateTiers {
			var ret []*tracker.Tracker
			for _, id := range ids {
				t := c.Trackers[id]
				if t.Precedence == precedence && t.State == state {
					ret = append(ret, t)
				}
			}
			if len(ret) > 0 {
				return ret
			}
		}
	}
	return nil
}

// UpdateActiveExperiment picks a candidate among the best trackers. A
// running active tracker that lost its place is paused and the slot is left
// empty until the next call.
func (c *Controller) UpdateActiveExperiment(factor float64) {
	var candidate *tracker.Tracker
	if best := c.SelectBest(); len(best) > 0 {
		candidate = best[c.env.Rand.IntN(len(best))]
	}
	active := c.Active()
	if active == nil && c.ActiveExperimentID != "" {
		c.ActiveExperimentID = ""
	}
	if active != nil && (candidate == nil || candidate != active) {
		c.ActiveExperimentID = ""
		if !active.IsCompleted() {
			if active.State == model.StateRunning {
				c.env.Progress.Update(progress.Delta{Paused: 1})
			}
			active.Pause()
			c.env.Log().Debug("experiment paused",
				zap.String("experiment", active.ExperimentID),
				zap.Stringer("crew", c.CrewID))
			return
		}
	}
	if candidate == nil {
		c.ActiveExperimentID = ""
		return
	}
	if candidate.State != model.StateRunning {
		c.env.Progress.Update(progress.Delta{Started: 1})
		c.env.Log().Debug("experiment running",
			zap.String("experiment", candidate.ExperimentID),
			zap.Stringer("crew", c.CrewID))
	}
	candidate.Run(factor)
	c.ActiveExperimentID = candidate.ExperimentID
}

// Advance ticks the active tracker and reports whether it completed.
func (c *Controller) Advance(dt, factor float64) bool {
	active := c.Active()
	if active == nil {
		return false
	}
	return active.UpdateTick(dt, factor)
}

// UpdatePrecedences recomputes the precedence of every tracker.
func (c *Controller) UpdatePrecedences(vessel host.Vessel, part tracker.Part) {
	for _, id := range c.sortedIDs() {
		c.Trackers[id].UpdatePrecedence(vessel, part, c.CrewID)
	}
}

// Refresh recomputes precedences then updates the active experiment.
func (c *Controller) Refresh(vessel host.Vessel, part tracker.Part, factor float64) {
	c.UpdatePrecedences(vessel, part)
	c.UpdateActiveExperiment(factor)
}

// Deprioritize marks the experiment DePrioritized, pauses it when running
// and clears it from the active slot. It returns true when the precedence
// changed.
func (c *Controller) Deprioritize(experimentID string) bool {
	t, ok := c.Trackers[experimentID]
	if !ok {
		return false
	}
	changed := t.Precedence != model.PrecedenceDePrioritized
	if t.State == model.StateRunning {
		c.env.Progress.Update(progress.Delta{Paused: 1})
	}
	t.Deprioritize()
	if c.ActiveExperimentID == experimentID {
		c.ActiveExperimentID = ""
	}
	if changed {
		c.env.Log().Debug("experiment deprioritized",
			zap.String("experiment", experimentID),
			zap.Stringer("crew", c.CrewID))
	}
	return changed
}
