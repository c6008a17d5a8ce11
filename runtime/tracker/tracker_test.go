package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/internal/idgen"
	"github.com/viant/kuriosity/model"
	"github.com/viant/kuriosity/random"
	"github.com/viant/kuriosity/runtime/env"
	"github.com/viant/kuriosity/service/catalog"
	"github.com/viant/kuriosity/service/report/memory"
	"github.com/viant/kuriosity/sim"
)

const bugsID = "kuriosity_experiment_bugs"

type testPart struct {
	allowed  map[string]bool
	priority map[string]bool
}

func (p *testPart) Allows(id string) bool      { return p.allowed[id] }
func (p *testPart) Prioritizes(id string) bool { return p.priority[id] }

func allowAll(ids ...string) *testPart {
	ret := &testPart{allowed: map[string]bool{}, priority: map[string]bool{}}
	for _, id := range ids {
		ret.allowed[id] = true
	}
	return ret
}

type recorder struct {
	notifications []*model.Notification
	events        []*host.Event
}

func (r *recorder) Notify(_ context.Context, notification *model.Notification) {
	r.notifications = append(r.notifications, notification)
}

func (r *recorder) Publish(_ context.Context, event *host.Event) error {
	r.events = append(r.events, event)
	return nil
}

func newExperiment(id string, mean float64) *model.Experiment {
	ret := model.NewExperiment()
	ret.ID = id
	ret.MeanTimeToHappen = mean
	ret.Science = &model.Science{Type: model.ExperimentTypeData, DisplayName: "Bugs", DataValue: 10}
	return ret
}

func newEnv(t *testing.T, universe *sim.Universe, source random.Source, experiments ...*model.Experiment) (*env.Env, *recorder) {
	c, err := catalog.New(experiments...)
	require.NoError(t, err)
	rec := &recorder{}
	var u host.Universe
	var archive host.ReportArchive
	if universe != nil {
		u = universe
		archive = universe.Archive()
	}
	return env.New(c, u,
		env.WithRandom(source),
		env.WithArchive(archive),
		env.WithNotifier(rec),
		env.WithPublisher(rec),
	), rec
}

func newUniverse(vessel *sim.VesselSpec, crew ...string) *sim.Universe {
	if vessel.ID == "" {
		vessel.ID = "v1"
	}
	vessel.Parts = []*sim.PartSpec{{ID: "lab", Crew: crew}}
	return sim.New(&sim.Scenario{Vessels: []*sim.VesselSpec{vessel}}, memory.NewArchive())
}

func TestTracker_Initialize(t *testing.T) {
	e, _ := newEnv(t, nil, &random.Fixed{Normals: []float64{-1.5, 2}}, newExperiment(bugsID, 1000.1))
	tr := New(e, bugsID)
	require.NoError(t, tr.Initialize())
	assert.InDelta(t, 500.05, tr.TimeLeftRaw, 1e-9)
	assert.Equal(t, model.StateInitialized, tr.State)
	assert.Equal(t, 1.0, tr.CurrentFactor)

	require.NoError(t, tr.Initialize())
	assert.InDelta(t, 500.05, tr.TimeLeftRaw, 1e-9, "second initialize must not redraw")

	unknown := New(e, "kuriosity_experiment_unknown")
	assert.True(t, errors.Is(unknown.Initialize(), ErrUnknownExperiment))
	assert.True(t, unknown.State.IsUninitialized())
}

func TestTracker_UpdateTick(t *testing.T) {
	e, _ := newEnv(t, nil, &random.Fixed{Normals: []float64{0}}, newExperiment(bugsID, 100))
	tr := New(e, bugsID)
	require.NoError(t, tr.Initialize())
	assert.Equal(t, 100.0, tr.TimeLeftRaw)

	completions := 0
	previous := tr.TimeLeftRaw
	for i := 0; i < 20; i++ {
		if tr.UpdateTick(10, 2) {
			completions++
		}
		assert.LessOrEqual(t, tr.TimeLeftRaw, previous)
		previous = tr.TimeLeftRaw
	}
	assert.Equal(t, 1, completions)
	assert.Equal(t, model.StateCompleted, tr.State)
	assert.Equal(t, 2.0, tr.CurrentFactor)

	frozen := tr.TimeLeftRaw
	assert.False(t, tr.UpdateTick(10, 2))
	assert.Equal(t, frozen, tr.TimeLeftRaw, "completed tracker keeps its remaining time")

	rewind := &Tracker{ExperimentID: bugsID, TimeLeftRaw: 50, State: model.StateRunning, CurrentFactor: 1}
	assert.False(t, rewind.UpdateTick(-10, 1))
	assert.Equal(t, 50.0, rewind.TimeLeftRaw, "negative steps never add time")
}

func TestTracker_TimeLeft(t *testing.T) {
	tr := &Tracker{TimeLeftRaw: 100, CurrentFactor: 4}
	assert.Equal(t, 25.0, tr.TimeLeft())
	tr.CurrentFactor = 0
	assert.Equal(t, 100.0, tr.TimeLeft())
}

func TestTracker_RunPauseDeprioritize(t *testing.T) {
	tr := &Tracker{State: model.StateInitialized, Precedence: model.PrecedencePriority, CurrentFactor: 1}
	tr.Run(3)
	assert.Equal(t, model.StateRunning, tr.State)
	assert.Equal(t, 3.0, tr.CurrentFactor)
	tr.Pause()
	assert.Equal(t, model.StatePaused, tr.State)

	tr.Run(1)
	tr.Deprioritize()
	assert.Equal(t, model.StatePaused, tr.State)
	assert.Equal(t, model.PrecedenceDePrioritized, tr.Precedence)

	done := &Tracker{State: model.StateCompleted}
	done.Run(1)
	assert.Equal(t, model.StateCompleted, done.State)
}

func TestTracker_UpdatePrecedence(t *testing.T) {
	universe := newUniverse(&sim.VesselSpec{}, "Jebediah Kerman")
	vessel, _ := universe.Vessel("lab")
	crewID := idgen.ForName("Jebediah Kerman")
	e, _ := newEnv(t, universe, &random.Fixed{}, newExperiment(bugsID, 100))

	priority := allowAll(bugsID)
	priority.priority[bugsID] = true

	testCases := []struct {
		name       string
		state      model.ExperimentState
		precedence model.Precedence
		part       Part
		expected   model.Precedence
	}{
		{name: "priority", state: model.StateInitialized, precedence: model.PrecedenceNone, part: priority, expected: model.PrecedencePriority},
		{name: "non priority", state: model.StatePaused, precedence: model.PrecedencePriority, part: allowAll(bugsID), expected: model.PrecedenceNonPriority},
		{name: "not allowed", state: model.StateRunning, precedence: model.PrecedencePriority, part: allowAll(), expected: model.PrecedenceNone},
		{name: "completed", state: model.StateCompleted, precedence: model.PrecedencePriority, part: priority, expected: model.PrecedenceNone},
		{name: "uninitialized", state: model.StateUninitialized, precedence: model.PrecedencePriority, part: priority, expected: model.PrecedenceNone},
		{name: "sticky deprioritized", state: model.StateInitialized, precedence: model.PrecedenceDePrioritized, part: priority, expected: model.PrecedenceDePrioritized},
		{name: "sticky deprioritized invalid", state: model.StateInitialized, precedence: model.PrecedenceDePrioritized, part: allowAll(), expected: model.PrecedenceDePrioritized},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := New(e, bugsID)
			tr.State = tc.state
			tr.Precedence = tc.precedence
			tr.UpdatePrecedence(vessel, tc.part, crewID)
			assert.Equal(t, tc.expected, tr.Precedence)
		})
	}
}
