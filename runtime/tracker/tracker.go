package tracker

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/internal/ksptime"
	"github.com/viant/kuriosity/model"
	"github.com/viant/kuriosity/random"
	"github.com/viant/kuriosity/runtime/env"
	"go.uber.org/zap"
)

var (
	// ErrUnknownExperiment is returned when the definition cannot be resolved
	ErrUnknownExperiment = errors.New("unknown experiment")
	// ErrNoScienceStorage is returned when the vessel cannot store reports
	ErrNoScienceStorage = errors.New("vessel has no science storage")
)

// Part exposes the part level experiment lists a tracker is checked against.
type Part interface {
	Allows(experimentID string) bool
	Prioritizes(experimentID string) bool
}

// Tracker is the progress state machine of one experiment for one crew member.
type Tracker struct {
	ExperimentID string `json:"experimentId" yaml:"experimentId"`
	// TimeLeftRaw is the remaining time before the factor is applied
	TimeLeftRaw   float64               `json:"timeLeft" yaml:"timeLeft"`
	State         model.ExperimentState `json:"state" yaml:"state"`
	Precedence    model.Precedence      `json:"precedence" yaml:"precedence"`
	CurrentFactor float64               `json:"currentFactor" yaml:"currentFactor"`

	experiment *model.Experiment
	env        *env.Env
}

// New creates an uninitialized tracker bound to e.
func New(e *env.Env, experimentID string) *Tracker {
	return &Tracker{
		ExperimentID:  experimentID,
		State:         model.StateUninitialized,
		Precedence:    model.PrecedenceNone,
		CurrentFactor: 1,
		env:           e,
	}
}

// Bind attaches the environment after the tracker was decoded.
func (t *Tracker) Bind(e *env.Env) {
	t.env = e
	t.experiment = nil
}

// Experiment returns the definition, resolving it lazily from the catalog.
func (t *Tracker) Experiment() *model.Experiment {
	if t.experiment == nil {
		if exp, ok := t.env.Lookup(t.ExperimentID); ok {
			t.experiment = exp
		}
	}
	return t.experiment
}

// Initialize draws the experiment duration. It only applies to an
// uninitialized tracker and is a no-op afterwards.
func (t *Tracker) Initialize() error {
	if !t.State.IsUninitialized() {
		return nil
	}
	exp := t.Experiment()
	if exp == nil {
		return ErrUnknownExperiment
	}
	mean := exp.MeanTimeToHappen
	t.TimeLeftRaw = random.HalfNormal(t.env.Rand, mean, mean/3)
	t.CurrentFactor = 1
	t.State = model.StateInitialized
	t.env.Log().Debug("experiment initialized",
		zap.String("experiment", t.ExperimentID),
		zap.String("timeLeft", ksptime.Format(t.TimeLeftRaw)))
	return nil
}

// TimeLeft returns the remaining time at the current factor.
func (t *Tracker) TimeLeft() float64 {
	if t.CurrentFactor <= 0 {
		return t.TimeLeftRaw
	}
	return t.TimeLeftRaw / t.CurrentFactor
}

// UpdateTick advances the countdown and reports whether the experiment just
// completed. A completed tracker never completes again.
func (t *Tracker) UpdateTick(dt, factor float64) bool {
	if t.State == model.StateCompleted {
		return false
	}
	t.CurrentFactor = factor
	t.State = model.StateRunning
	if step := dt * factor; step > 0 {
		t.TimeLeftRaw -= step
	}
	if t.TimeLeftRaw > 0 {
		return false
	}
	t.State = model.StateCompleted
	return true
}

// Run marks the tracker running at factor.
func (t *Tracker) Run(factor float64) {
	if t.State == model.StateCompleted {
		return
	}
	if factor > 0 {
		t.CurrentFactor = factor
	}
	t.State = model.StateRunning
}

// Pause pauses a running tracker.
func (t *Tracker) Pause() {
	if t.State == model.StateRunning {
		t.State = model.StatePaused
	}
}

// Deprioritize makes the tracker ineligible for selection until reset.
func (t *Tracker) Deprioritize() {
	t.Precedence = model.PrecedenceDePrioritized
	t.Pause()
}

// IsCompleted reports whether the experiment completed.
func (t *Tracker) IsCompleted() bool {
	return t.State == model.StateCompleted
}

// UpdatePrecedence recomputes the precedence. DePrioritized is sticky.
func (t *Tracker) UpdatePrecedence(vessel host.Vessel, part Part, crewID uuid.UUID) {
	if t.Precedence == model.PrecedenceDePrioritized {
		return
	}
	if t.State == model.StateCompleted || t.State.IsUninitialized() || !t.IsValid(vessel, part, crewID) {
		t.Precedence = model.PrecedenceNone
		return
	}
	if part.Prioritizes(t.ExperimentID) {
		t.Precedence = model.PrecedencePriority
		return
	}
	t.Precedence = model.PrecedenceNonPriority
}

func multiplier(apply bool, situation model.ScienceSituation) float64 {
	if !apply {
		return 1
	}
	value := situation.Multiplier()
	if value <= 0 {
		return 1
	}
	return math.Pow(value, 0.3)
}
