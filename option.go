package kuriosity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/afs"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/progress"
	"github.com/viant/kuriosity/random"
	"github.com/viant/kuriosity/runtime/part"
	"github.com/viant/kuriosity/service/catalog"
	"github.com/viant/kuriosity/service/dao"
	"github.com/viant/kuriosity/service/event"
	"go.uber.org/zap"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option represents kuriosity service option
type Option func(s *Service)

// WithConfig sets the configuration, DefaultConfig is used otherwise
func WithConfig(cfg *Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger sets the logger, overriding the logging config
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRandom sets the random source, overriding the configured seed
func WithRandom(source random.Source) Option {
	return func(s *Service) {
		s.random = source
	}
}

// WithFS sets the file system used to load the catalog and fs snapshots
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithCatalog sets a preloaded experiment catalog
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithUniverse sets the host universe
func WithUniverse(universe host.Universe) Option {
	return func(s *Service) {
		s.universe = universe
	}
}

// WithTechTree sets the tech tree, the universe is used when it answers tech queries
func WithTechTree(tech host.TechTree) Option {
	return func(s *Service) {
		s.tech = tech
	}
}

// WithArchive sets the submitted report archive
func WithArchive(archive host.ReportArchive) Option {
	return func(s *Service) {
		s.archive = archive
	}
}

// WithNotifier sets the notifier, zap logging notifier is used otherwise
func WithNotifier(notifier host.Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithSnapshotDAO sets the snapshot store, overriding the store config
func WithSnapshotDAO(snapshotDAO dao.Service[string, part.Snapshot]) Option {
	return func(s *Service) {
		s.snapshotDAO = snapshotDAO
	}
}

// WithEventBus sets the host event bus
func WithEventBus(bus *event.Bus) Option {
	return func(s *Service) {
		s.bus = bus
	}
}

// WithMetricsRegisterer enables metrics on the supplied registerer
func WithMetricsRegisterer(registerer prometheus.Registerer) Option {
	return func(s *Service) {
		s.registerer = registerer
	}
}

// WithProgressListener sets a callback invoked on every progress change
func WithProgressListener(listener func(progress.Counters)) Option {
	return func(s *Service) {
		s.onProgress = listener
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path.
func WithTracing(outputFile string) Option {
	return func(s *Service) {
		s.tracing = true
		s.traceOutput = outputFile
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracing = true
		s.traceExporter = exporter
	}
}
