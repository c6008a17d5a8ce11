// Package env defines the explicit context shared by trackers, controllers
// and part coordinators. An Env is built once at startup and passed down;
// nothing in the engine reads package level state.
package env

import (
	"context"

	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/metrics"
	"github.com/viant/kuriosity/model"
	"github.com/viant/kuriosity/progress"
	"github.com/viant/kuriosity/random"
	"go.uber.org/zap"
)

// DefaultBaseFactor is the global progress rate applied when none is configured.
const DefaultBaseFactor = 1.0

// Catalog resolves experiment definitions by ID.
type Catalog interface {
	Lookup(id string) (*model.Experiment, bool)
	// IDs returns all known experiment IDs in a stable order
	IDs() []string
}

// Publisher receives events raised by the engine itself.
type Publisher interface {
	Publish(ctx context.Context, event *host.Event) error
}

// Env groups engine collaborators.
type Env struct {
	Catalog    Catalog
	Universe   host.Universe
	Tech       host.TechTree
	Archive    host.ReportArchive
	Notifier   host.Notifier
	Publisher  Publisher
	Rand       random.Source
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Progress   *progress.Progress
	BaseFactor float64
}

// Option mutates an Env.
type Option func(e *Env)

// New creates an Env with defaults for every optional collaborator.
func New(catalog Catalog, universe host.Universe, options ...Option) *Env {
	ret := &Env{Catalog: catalog, Universe: universe}
	for _, opt := range options {
		opt(ret)
	}
	if ret.Logger == nil {
		ret.Logger = zap.NewNop()
	}
	if ret.Rand == nil {
		ret.Rand = random.New(0)
	}
	if ret.BaseFactor <= 0 {
		ret.BaseFactor = DefaultBaseFactor
	}
	return ret
}

// WithTechTree sets the tech tree.
func WithTechTree(tech host.TechTree) Option {
	return func(e *Env) { e.Tech = tech }
}

// WithArchive sets the submitted report archive.
func WithArchive(archive host.ReportArchive) Option {
	return func(e *Env) { e.Archive = archive }
}

// WithNotifier sets the notification sink.
func WithNotifier(notifier host.Notifier) Option {
	return func(e *Env) { e.Notifier = notifier }
}

// WithPublisher sets the engine event publisher.
func WithPublisher(publisher Publisher) Option {
	return func(e *Env) { e.Publisher = publisher }
}

// WithRandom sets the random source.
func WithRandom(source random.Source) Option {
	return func(e *Env) { e.Rand = source }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Env) { e.Logger = logger }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Env) { e.Metrics = m }
}

// WithProgress sets the progress aggregator.
func WithProgress(p *progress.Progress) Option {
	return func(e *Env) { e.Progress = p }
}

// WithBaseFactor sets the global base factor.
func WithBaseFactor(factor float64) Option {
	return func(e *Env) { e.BaseFactor = factor }
}

// Lookup resolves a definition, returning false when no catalog is bound.
func (e *Env) Lookup(id string) (*model.Experiment, bool) {
	if e == nil || e.Catalog == nil {
		return nil, false
	}
	return e.Catalog.Lookup(id)
}

// UniverseTime returns the simulated time, or zero without a universe.
func (e *Env) UniverseTime() float64 {
	if e == nil || e.Universe == nil {
		return 0
	}
	return e.Universe.UniverseTime()
}

// IsTechUnlocked reports whether the tech node is unlocked. Without a tech
// tree every node counts as unlocked.
func (e *Env) IsTechUnlocked(techID string) bool {
	if e == nil || e.Tech == nil {
		return true
	}
	return e.Tech.IsNodeUnlocked(techID)
}

// SubmittedReports returns the archived reports for the report ID.
func (e *Env) SubmittedReports(reportID string) []*model.ResearchReport {
	if e == nil || e.Archive == nil {
		return nil
	}
	return e.Archive.SubmittedReports(reportID)
}

// CountReportsWithPrefix counts archived reports starting with prefix.
func (e *Env) CountReportsWithPrefix(prefix string) int {
	if e == nil || e.Archive == nil {
		return 0
	}
	return e.Archive.CountReportsWithPrefix(prefix)
}

// Notify forwards the notification to the sink, if any.
func (e *Env) Notify(ctx context.Context, notification *model.Notification) {
	if e == nil || e.Notifier == nil {
		return
	}
	e.Notifier.Notify(ctx, notification)
}

// Publish forwards an engine event, if a publisher is bound.
func (e *Env) Publish(ctx context.Context, event *host.Event) error {
	if e == nil || e.Publisher == nil {
		return nil
	}
	return e.Publisher.Publish(ctx, event)
}

// Log returns the logger, never nil.
func (e *Env) Log() *zap.Logger {
	if e == nil || e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
