package kuriosity_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kuriosity"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/model"
	"github.com/viant/kuriosity/progress"
	"github.com/viant/kuriosity/random"
	"github.com/viant/kuriosity/runtime/part"
	"github.com/viant/kuriosity/runtime/tracker"
	"github.com/viant/kuriosity/service/catalog"
	"github.com/viant/kuriosity/sim"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

const bugsID = "kuriosity_experiment_bugs"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newScenario() *sim.Scenario {
	return &sim.Scenario{Vessels: []*sim.VesselSpec{{
		ID:   "v1",
		Name: "Kerbal X",
		Parts: []*sim.PartSpec{
			{ID: "cockpit", Crew: []string{"Jebediah Kerman"}},
			{ID: "lab", Crew: []string{"Bill Kerman"}},
		},
	}}}
}

func newCatalog(t *testing.T) *catalog.Catalog {
	bugs := model.NewExperiment()
	bugs.ID = bugsID
	bugs.MeanTimeToHappen = 100
	bugs.Science = &model.Science{Type: model.ExperimentTypeData, DisplayName: "Bugs", DataValue: 5}
	ret, err := catalog.New(bugs)
	require.NoError(t, err)
	return ret
}

func newService(t *testing.T, universe *sim.Universe, options ...kuriosity.Option) *kuriosity.Service {
	options = append([]kuriosity.Option{
		kuriosity.WithLogger(zap.NewNop()),
		kuriosity.WithCatalog(newCatalog(t)),
		kuriosity.WithUniverse(universe),
		kuriosity.WithArchive(universe.Archive()),
		kuriosity.WithRandom(&random.Fixed{Normals: []float64{-1.5, 0}}),
	}, options...)
	srv, err := kuriosity.New(context.Background(), options...)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, srv.Close(context.Background())) })
	return srv
}

func addParts(t *testing.T, rt *kuriosity.Runtime) {
	ctx := context.Background()
	for _, partID := range []string{"cockpit", "lab"} {
		_, err := rt.AddPart(ctx, part.NewData(partID))
		require.NoError(t, err)
	}
}

func TestService_Update(t *testing.T) {
	universe := sim.New(newScenario(), nil)
	registry := prometheus.NewRegistry()
	var observed []progress.Counters
	srv := newService(t, universe,
		kuriosity.WithMetricsRegisterer(registry),
		kuriosity.WithProgressListener(func(c progress.Counters) { observed = append(observed, c) }))
	rt := srv.Runtime()
	ctx := context.Background()
	addParts(t, rt)

	_, err := rt.AddPart(ctx, part.NewData("lab"))
	assert.Error(t, err, "part registered twice")
	require.Len(t, rt.Coordinators(), 2)

	require.NoError(t, rt.Update(ctx, 60))

	jeb, _ := universe.CrewMember("Jebediah Kerman")
	bill, _ := universe.CrewMember("Bill Kerman")
	assert.Len(t, universe.Archive().SubmittedReports(tracker.ReportID(bugsID, jeb.ID)), 1)
	assert.Empty(t, universe.Archive().SubmittedReports(tracker.ReportID(bugsID, bill.ID)))

	lab, ok := rt.Coordinator("lab")
	require.True(t, ok)
	billCtrl, _ := lab.Controller(bill.ID)
	assert.Equal(t, model.PrecedenceDePrioritized, billCtrl.Trackers[bugsID].Precedence)
	assert.Equal(t, model.StatePaused, billCtrl.Trackers[bugsID].State)

	counters := rt.Progress()
	assert.Equal(t, 2, counters.Tracked)
	assert.Equal(t, 1, counters.Completed)
	assert.Equal(t, 1, counters.Deprioritized)
	require.NotEmpty(t, observed)
	assert.Equal(t, counters.Completed, observed[len(observed)-1].Completed)

	assert.Same(t, registry, srv.Gatherer())
	series, err := testutil.GatherAndCount(registry, "kuriosity_experiments_completed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)

	// the report acquired event is drained by the next update
	require.NoError(t, rt.Update(ctx, 1000))
	assert.Equal(t, model.StatePaused, billCtrl.Trackers[bugsID].State)
	assert.Equal(t, 1, rt.Progress().Completed)
}

func TestService_Relocation(t *testing.T) {
	universe := sim.New(newScenario(), nil)
	srv := newService(t, universe)
	rt := srv.Runtime()
	ctx := context.Background()
	addParts(t, rt)

	jeb, _ := universe.CrewMember("Jebediah Kerman")
	cockpit, _ := rt.Coordinator("cockpit")
	lab, _ := rt.Coordinator("lab")
	ctrl, ok := cockpit.Controller(jeb.ID)
	require.True(t, ok)

	event, err := universe.MoveCrew(jeb.ID, "lab")
	require.NoError(t, err)
	require.NoError(t, rt.Publish(ctx, event))
	require.NoError(t, rt.Update(ctx, 1))

	_, ok = cockpit.Controller(jeb.ID)
	assert.False(t, ok)
	moved, ok := lab.Controller(jeb.ID)
	require.True(t, ok)
	assert.Same(t, ctrl, moved)

	removed, err := universe.RemoveCrew(jeb.ID)
	require.NoError(t, err)
	require.NoError(t, rt.Publish(ctx, removed))
	require.NoError(t, rt.Update(ctx, 1))
	_, ok = lab.Controller(jeb.ID)
	assert.False(t, ok)

	assert.Error(t, rt.Publish(ctx, nil))
}

func TestService_SaveLoad(t *testing.T) {
	universe := sim.New(newScenario(), nil)
	srv := newService(t, universe)
	rt := srv.Runtime()
	ctx := context.Background()
	addParts(t, rt)

	saved, err := rt.Save(ctx, "before")
	require.NoError(t, err)
	assert.Equal(t, "before", saved.ID)
	assert.Equal(t, []string{"cockpit", "lab"}, saved.PartIDs())

	generated, err := rt.Save(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID)

	require.NoError(t, rt.Update(ctx, 60))
	bill, _ := universe.CrewMember("Bill Kerman")
	oldLab, _ := rt.Coordinator("lab")

	stored, err := rt.Snapshots(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, snapshot := range stored {
		data, ok := snapshot.Part("lab")
		require.True(t, ok)
		assert.NotEqual(t, model.PrecedenceDePrioritized, data.Controllers[bill.ID].Trackers[bugsID].Precedence, "stored snapshot must not follow live state")
	}

	restored, err := rt.Load(ctx, "before")
	require.NoError(t, err)
	assert.Equal(t, "before", restored.ID)

	lab, ok := rt.Coordinator("lab")
	require.True(t, ok)
	assert.NotSame(t, oldLab, lab)
	billCtrl, ok := lab.Controller(bill.ID)
	require.True(t, ok)
	billTracker := billCtrl.Trackers[bugsID]
	assert.Equal(t, 100.0, billTracker.TimeLeftRaw)
	assert.Equal(t, model.StateRunning, billTracker.State)
	assert.NotEqual(t, model.PrecedenceDePrioritized, billTracker.Precedence)
	assert.Len(t, rt.Coordinators(), 2)

	_, err = rt.Load(ctx, "missing")
	assert.Error(t, err)

	require.NoError(t, rt.DeleteSnapshot(ctx, generated.ID))
	stored, err = rt.Snapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	assert.True(t, rt.RemovePart("cockpit"))
	assert.False(t, rt.RemovePart("cockpit"))
	assert.Len(t, rt.Coordinators(), 1)
}

func TestService_SQLiteStore(t *testing.T) {
	universe := sim.New(newScenario(), nil)
	cfg := kuriosity.DefaultConfig()
	cfg.Store = kuriosity.StoreConfig{Kind: kuriosity.StoreSQLite, URL: filepath.Join(t.TempDir(), "kuriosity.db")}
	srv := newService(t, universe, kuriosity.WithConfig(cfg))
	rt := srv.Runtime()
	ctx := context.Background()
	addParts(t, rt)

	_, err := rt.Save(ctx, "quicksave")
	require.NoError(t, err)
	restored, err := rt.Load(ctx, "quicksave")
	require.NoError(t, err)
	assert.Equal(t, []string{"cockpit", "lab"}, restored.PartIDs())
}

func TestService_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	universe := sim.New(newScenario(), nil)
	srv := newService(t, universe, kuriosity.WithTracingExporter(exporter))
	rt := srv.Runtime()
	ctx := context.Background()
	addParts(t, rt)
	require.NoError(t, rt.Update(ctx, 60))

	names := map[string]bool{}
	for _, span := range exporter.GetSpans() {
		names[span.Name] = true
	}
	assert.True(t, names["kuriosity.tick"])
	assert.True(t, names["kuriosity.completion"])
	assert.True(t, names["kuriosity.broadcast"])
}

func TestService_CatalogFromConfig(t *testing.T) {
	dir, err := filepath.Abs(filepath.Join("service", "catalog", "testdata", "catalog"))
	require.NoError(t, err)
	cfg := kuriosity.DefaultConfig()
	cfg.Catalog = kuriosity.CatalogConfig{URL: dir, Block: []string{"*bugs"}}
	universe := sim.New(newScenario(), nil)
	srv, err := kuriosity.New(context.Background(),
		kuriosity.WithConfig(cfg),
		kuriosity.WithLogger(zap.NewNop()),
		kuriosity.WithUniverse(universe))
	require.NoError(t, err)
	defer srv.Close(context.Background())

	assert.Equal(t, []string{"kuriosity_experiment_micrometeor", "kuriosity_experiment_space_sickness"}, srv.Catalog().IDs())
	assert.Nil(t, srv.Gatherer())
}

func TestNew_Errors(t *testing.T) {
	universe := sim.New(newScenario(), nil)
	var testCases = []struct {
		description string
		options     []kuriosity.Option
	}{
		{
			description: "missing universe",
			options:     []kuriosity.Option{kuriosity.WithCatalog(newCatalog(t))},
		},
		{
			description: "missing catalog",
			options:     []kuriosity.Option{kuriosity.WithUniverse(universe)},
		},
		{
			description: "invalid base factor",
			options: []kuriosity.Option{
				kuriosity.WithUniverse(universe),
				kuriosity.WithCatalog(newCatalog(t)),
				kuriosity.WithConfig(&kuriosity.Config{BaseFactor: 2}),
			},
		},
		{
			description: "catalog not found",
			options: []kuriosity.Option{
				kuriosity.WithUniverse(universe),
				kuriosity.WithConfig(&kuriosity.Config{BaseFactor: 1, Catalog: kuriosity.CatalogConfig{URL: filepath.Join(t.TempDir(), "missing")}}),
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			options := append([]kuriosity.Option{kuriosity.WithLogger(zap.NewNop())}, testCase.options...)
			srv, err := kuriosity.New(context.Background(), options...)
			assert.Error(t, err)
			assert.Nil(t, srv)
		})
	}
}

func TestService_VesselEvent(t *testing.T) {
	universe := sim.New(newScenario(), nil)
	srv := newService(t, universe)
	rt := srv.Runtime()
	ctx := context.Background()
	addParts(t, rt)
	require.NoError(t, rt.Publish(ctx, host.NewVesselEvent(host.EventCommNetChanged, "v1")))
	require.NoError(t, rt.Update(ctx, 0))
	assert.Equal(t, 1.0, rt.Env().BaseFactor)
	assert.Equal(t, "info", srv.Config().Logging.Level)
	_, statErr := os.Stat("kuriosity.db")
	assert.True(t, os.IsNotExist(statErr), "memory store must not create files")
}

func TestService_DurableEvents(t *testing.T) {
	cfg := kuriosity.DefaultConfig()
	cfg.Events = kuriosity.EventsConfig{Queue: kuriosity.StoreFS, URL: filepath.Join(t.TempDir(), "events")}
	universe := sim.New(newScenario(), nil)
	ctx := context.Background()

	first, err := kuriosity.New(ctx,
		kuriosity.WithConfig(cfg),
		kuriosity.WithLogger(zap.NewNop()),
		kuriosity.WithCatalog(newCatalog(t)),
		kuriosity.WithUniverse(universe))
	require.NoError(t, err)
	jeb, _ := universe.CrewMember("Jebediah Kerman")
	event, err := universe.MoveCrew(jeb.ID, "lab")
	require.NoError(t, err)
	require.NoError(t, first.Runtime().Publish(ctx, event))
	require.NoError(t, first.Close(ctx))

	second := newService(t, universe, kuriosity.WithConfig(cfg))
	rt := second.Runtime()
	cockpit, err := rt.AddPart(ctx, part.NewData("cockpit"))
	require.NoError(t, err)
	lab, err := rt.AddPart(ctx, part.NewData("lab"))
	require.NoError(t, err)
	_, ok := cockpit.Controller(jeb.ID)
	assert.False(t, ok, "jeb already seated in the lab")
	_, ok = lab.Controller(jeb.ID)
	assert.True(t, ok)

	pending := filepath.Join(cfg.Events.URL, "pending")
	entries, err := os.ReadDir(pending)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "relocation published by the previous run")

	require.NoError(t, rt.Update(ctx, 1))
	entries, err = os.ReadDir(pending)
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, ok = lab.Controller(jeb.ID)
	assert.True(t, ok)
}
