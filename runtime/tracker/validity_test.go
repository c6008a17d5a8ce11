package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/kuriosity/internal/idgen"
	"github.com/viant/kuriosity/model"
	"github.com/viant/kuriosity/random"
	"github.com/viant/kuriosity/sim"
)

func TestTracker_Check(t *testing.T) {
	yes, no := true, false
	jeb := idgen.ForName("Jebediah Kerman")

	testCases := []struct {
		name      string
		configure func(exp *model.Experiment)
		vessel    sim.VesselSpec
		crew      []string
		tech      []string
		submitted []string
		notInPart bool
		expected  string
	}{
		{name: "valid"},
		{
			name: "location",
			configure: func(exp *model.Experiment) {
				exp.Science.ValidLocations = []model.LocationRequirement{{Situation: "orbiting"}}
			},
			vessel:   sim.VesselSpec{Situation: model.ScienceSituation{Location: model.ResearchLocation{Body: "Mun", Situation: "landed"}}},
			expected: ReasonLocation,
		},
		{
			name: "location match",
			configure: func(exp *model.Experiment) {
				exp.Science.ValidLocations = []model.LocationRequirement{{Situation: "landed"}}
			},
			vessel: sim.VesselSpec{Situation: model.ScienceSituation{Location: model.ResearchLocation{Body: "Mun", Situation: "Landed"}}},
		},
		{name: "not allowed by part", notInPart: true, expected: ReasonNotAllowed},
		{name: "already completed", submitted: []string{ReportID(bugsID, jeb)}, expected: ReasonAlreadyCompleted},
		{name: "already completed legacy id", submitted: []string{ReportID("bugs", jeb)}, expected: ReasonAlreadyCompleted},
		{
			name:      "rerunnable completed",
			configure: func(exp *model.Experiment) { exp.Rerunnable = true },
			submitted: []string{ReportID(bugsID, jeb)},
		},
		{
			name:      "minimum crew",
			configure: func(exp *model.Experiment) { exp.MinimumAdditionalCrew = 1 },
			expected:  ReasonCrewCount,
		},
		{
			name:      "maximum crew",
			configure: func(exp *model.Experiment) { exp.MaximumAdditionalCrew = 0 },
			crew:      []string{"Jebediah Kerman", "Bill Kerman"},
			expected:  ReasonCrewCount,
		},
		{
			name:      "crew within bounds",
			configure: func(exp *model.Experiment) { exp.MinimumAdditionalCrew, exp.MaximumAdditionalCrew = 1, 1 },
			crew:      []string{"Jebediah Kerman", "Bill Kerman"},
		},
		{
			name:      "probe core",
			configure: func(exp *model.Experiment) { exp.RequiresProbeCore = true },
			expected:  ReasonProbeCore,
		},
		{
			name:      "probe core present",
			configure: func(exp *model.Experiment) { exp.RequiresProbeCore = true },
			vessel:    sim.VesselSpec{ProbeCore: true},
		},
		{
			name:      "tech locked",
			configure: func(exp *model.Experiment) { exp.TechRequired = []string{"basicScience", "spaceExploration"} },
			tech:      []string{"basicScience"},
			expected:  ReasonTech,
		},
		{
			name:      "tech unlocked",
			configure: func(exp *model.Experiment) { exp.TechRequired = []string{"basicScience"} },
			tech:      []string{"basicScience"},
		},
		{
			name:      "prerequisite missing",
			configure: func(exp *model.Experiment) { exp.ExperimentsRequired = []string{"kuriosity_experiment_ufk"} },
			expected:  ReasonPrerequisite,
		},
		{
			name:      "prerequisite completed",
			configure: func(exp *model.Experiment) { exp.ExperimentsRequired = []string{"kuriosity_experiment_ufk"} },
			submitted: []string{ReportID("kuriosity_experiment_ufk", jeb)},
		},
		{
			name:      "comm-net connected required",
			configure: func(exp *model.Experiment) { exp.CommNetStateRequired = model.CommNetConnected },
			vessel:    sim.VesselSpec{CommNet: &no},
			expected:  ReasonCommNet,
		},
		{
			name:      "comm-net disconnected required",
			configure: func(exp *model.Experiment) { exp.CommNetStateRequired = model.CommNetDisconnected },
			vessel:    sim.VesselSpec{CommNet: &yes},
			expected:  ReasonCommNet,
		},
		{
			name:      "comm-net without telemetry",
			configure: func(exp *model.Experiment) { exp.CommNetStateRequired = model.CommNetConnected },
		},
		{
			name:      "home world",
			configure: func(exp *model.Experiment) { exp.AllowHomeWorld = false },
			vessel:    sim.VesselSpec{HomeWorld: &yes},
			expected:  ReasonHomeWorld,
		},
		{
			name:      "home world unknown body",
			configure: func(exp *model.Experiment) { exp.AllowHomeWorld = false },
			expected:  ReasonHomeWorld,
		},
		{
			name:      "away from home world",
			configure: func(exp *model.Experiment) { exp.AllowHomeWorld = false },
			vessel:    sim.VesselSpec{HomeWorld: &no},
		},
		{
			name:      "eva required",
			configure: func(exp *model.Experiment) { exp.Science.RequiresEVA = true },
			expected:  ReasonEVA,
		},
		{
			name:      "eva",
			configure: func(exp *model.Experiment) { exp.Science.RequiresEVA = true },
			vessel:    sim.VesselSpec{EVA: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			exp := newExperiment(bugsID, 100)
			if tc.configure != nil {
				tc.configure(exp)
			}
			crew := tc.crew
			if len(crew) == 0 {
				crew = []string{"Jebediah Kerman"}
			}
			vesselSpec := tc.vessel
			vesselSpec.ID = "v1"
			vesselSpec.Parts = []*sim.PartSpec{{ID: "lab", Crew: crew}}
			universe := sim.New(&sim.Scenario{
				Tech:    sim.Tech{Unlocked: tc.tech},
				Vessels: []*sim.VesselSpec{&vesselSpec},
			}, nil)
			for _, id := range tc.submitted {
				universe.Archive().Submit(&model.ResearchReport{ExperimentID: id})
			}
			e, _ := newEnv(t, universe, &random.Fixed{}, exp)
			e.Tech = universe
			part := allowAll(bugsID)
			if tc.notInPart {
				part = allowAll()
			}
			vessel, _ := universe.Vessel("lab")

			tr := New(e, bugsID)
			ok, reason := tr.Check(vessel, part, jeb)
			assert.Equal(t, tc.expected, reason)
			assert.Equal(t, tc.expected == "", ok)
			assert.Equal(t, ok, tr.IsValid(vessel, part, jeb))
		})
	}
}

func TestTracker_CheckUnknownExperiment(t *testing.T) {
	universe := newUniverse(&sim.VesselSpec{}, "Jebediah Kerman")
	e, _ := newEnv(t, universe, &random.Fixed{})
	vessel, _ := universe.Vessel("lab")
	ok, reason := New(e, bugsID).Check(vessel, allowAll(bugsID), idgen.ForName("Jebediah Kerman"))
	assert.False(t, ok)
	assert.Equal(t, ReasonUnknownExperiment, reason)
}
