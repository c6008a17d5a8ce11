package part

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/kuriosity/random"
	"github.com/viant/kuriosity/sim"
)

func TestRegistry(t *testing.T) {
	f := newFixture(t, &sim.Scenario{}, &random.Fixed{})
	registry := NewRegistry()
	b := NewCoordinator(f.env, registry, NewData("b"))
	a := NewCoordinator(f.env, registry, NewData("a"))
	registry.Register(b)
	registry.Register(a)

	assert.Equal(t, 2, registry.Len())
	assert.Equal(t, []*Coordinator{a, b}, registry.All())
	assert.Equal(t, []*Coordinator{b}, registry.Lookup([]string{"b", "missing"}))

	registry.Unregister("a")
	_, ok := registry.Get("a")
	assert.False(t, ok)
}

func TestMigrateID(t *testing.T) {
	id, ok := MigrateID("kabin_fever")
	assert.True(t, ok)
	assert.Equal(t, "kuriosity_experiment_kabin_fever", id)

	id, ok = MigrateID("kuriosity_experiment_kabin_fever")
	assert.False(t, ok)
	assert.Equal(t, "kuriosity_experiment_kabin_fever", id)
}

func TestSnapshot_Part(t *testing.T) {
	snapshot := &Snapshot{Parts: []*Data{NewData("cockpit"), NewData("lab")}}
	data, ok := snapshot.Part("lab")
	assert.True(t, ok)
	assert.Equal(t, "lab", data.PartID)
	_, ok = snapshot.Part("tank")
	assert.False(t, ok)
}

func TestSnapshot_Clone(t *testing.T) {
	f := newFixture(t, twoPartScenario(), &random.Fixed{})
	cockpit := f.activate(t, NewData("cockpit"))
	snapshot := &Snapshot{ID: "s1", Parts: []*Data{cockpit.Data()}}

	clone, err := snapshot.Clone()
	assert.NoError(t, err)
	assert.Equal(t, []string{"cockpit"}, clone.PartIDs())
	jeb, _ := f.universe.CrewMember("Jebediah Kerman")
	original := cockpit.Data().Controllers[jeb.ID]
	copied := clone.Parts[0].Controllers[jeb.ID]
	assert.NotSame(t, original, copied)
	assert.Equal(t, original.ActiveExperimentID, copied.ActiveExperimentID)
	assert.Equal(t, original.Trackers[bugsID].TimeLeftRaw, copied.Trackers[bugsID].TimeLeftRaw)
}
