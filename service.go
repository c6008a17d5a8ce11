package kuriosity

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/afs"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/metrics"
	"github.com/viant/kuriosity/progress"
	"github.com/viant/kuriosity/random"
	"github.com/viant/kuriosity/runtime/env"
	"github.com/viant/kuriosity/runtime/part"
	"github.com/viant/kuriosity/service/catalog"
	"github.com/viant/kuriosity/service/dao"
	"github.com/viant/kuriosity/service/dao/snapshot/fs"
	smemory "github.com/viant/kuriosity/service/dao/snapshot/memory"
	"github.com/viant/kuriosity/service/dao/snapshot/sqlite"
	"github.com/viant/kuriosity/service/event"
	fsqueue "github.com/viant/kuriosity/service/messaging/fs"
	mqueue "github.com/viant/kuriosity/service/messaging/memory"
	"github.com/viant/kuriosity/service/notify"
	"github.com/viant/kuriosity/tracing"
	"go.uber.org/zap"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Service represents kuriosity service
type Service struct {
	config        *Config
	runtime       *Runtime
	logger        *zap.Logger
	fs            afs.Service
	random        random.Source
	catalog       *catalog.Catalog
	universe      host.Universe
	tech          host.TechTree
	archive       host.ReportArchive
	notifier      host.Notifier
	snapshotDAO   dao.Service[string, part.Snapshot]
	bus           *event.Bus
	registerer    prometheus.Registerer
	metrics       *metrics.Metrics
	onProgress    func(progress.Counters)
	tracing       bool
	traceOutput   string
	traceExporter sdktrace.SpanExporter
	closers       []io.Closer
}

// New creates a service, loading the catalog when none was supplied.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(ctx, options); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context, options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.universe == nil {
		return fmt.Errorf("universe was nil")
	}
	if err := s.ensureBaseSetup(ctx); err != nil {
		return err
	}
	if err := s.initTracing(); err != nil {
		return err
	}
	if err := s.initMetrics(); err != nil {
		return err
	}
	e := env.New(s.catalog, s.universe,
		env.WithTechTree(s.tech),
		env.WithArchive(s.archive),
		env.WithNotifier(s.notifier),
		env.WithPublisher(s.bus),
		env.WithRandom(s.random),
		env.WithLogger(s.logger),
		env.WithMetrics(s.metrics),
		env.WithProgress(progress.New(s.onProgress)),
		env.WithBaseFactor(s.config.BaseFactor),
	)
	s.runtime = &Runtime{
		env:         e,
		registry:    part.NewRegistry(),
		bus:         s.bus,
		snapshotDAO: s.snapshotDAO,
	}
	return nil
}

func (s *Service) ensureBaseSetup(ctx context.Context) error {
	if s.logger == nil {
		logger, err := s.config.Logging.NewLogger()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		s.logger = logger
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.random == nil {
		s.random = random.New(s.config.Seed)
	}
	if s.tech == nil {
		if tech, ok := s.universe.(host.TechTree); ok {
			s.tech = tech
		}
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogger(s.logger)
	}
	if s.bus == nil {
		bus, err := s.newBus()
		if err != nil {
			return err
		}
		s.bus = bus
	}
	if s.catalog == nil {
		if s.config.Catalog.URL == "" {
			return fmt.Errorf("catalog.url was empty")
		}
		loader := catalog.NewLoader(
			catalog.WithFS(s.fs),
			catalog.WithPolicy(s.config.Catalog.Policy()),
			catalog.WithLogger(s.logger))
		loaded, err := loader.Load(ctx, s.config.Catalog.URL)
		if err != nil {
			return err
		}
		s.catalog = loaded
	}
	if s.snapshotDAO == nil {
		snapshotDAO, err := s.newSnapshotDAO()
		if err != nil {
			return err
		}
		s.snapshotDAO = snapshotDAO
	}
	return nil
}

func (s *Service) newSnapshotDAO() (dao.Service[string, part.Snapshot], error) {
	store := s.config.Store
	switch store.Kind {
	case StoreFS:
		return fs.New(store.URL, s.logger)
	case StoreSQLite:
		ret, err := sqlite.New(store.URL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, ret)
		return ret, nil
	default:
		return smemory.New(), nil
	}
}

func (s *Service) newBus() (*event.Bus, error) {
	events := s.config.Events
	options := []event.Option{event.WithLogger(s.logger)}
	switch events.Queue {
	case StoreFS:
		queue, err := fsqueue.NewQueue[event.Event[host.Event]](s.fs, fsqueue.Config{BasePath: events.URL, MaxRetries: events.MaxRetries})
		if err != nil {
			return nil, fmt.Errorf("failed to create event queue: %w", err)
		}
		options = append(options, event.WithQueue(queue))
	default:
		options = append(options, event.WithQueue(mqueue.NewQueue[event.Event[host.Event]](mqueue.Config{MaxRetries: events.MaxRetries, DeadLetter: true})))
	}
	return event.NewBus(options...), nil
}

func (s *Service) initTracing() error {
	switch {
	case s.traceExporter != nil:
		return tracing.InitWithExporter(Name, Version, s.traceExporter)
	case s.tracing:
		return tracing.Init(Name, Version, s.traceOutput)
	case s.config.Tracing.Enabled:
		s.tracing = true
		return tracing.Init(Name, Version, s.config.Tracing.OutputFile)
	}
	return nil
}

func (s *Service) initMetrics() error {
	if s.registerer == nil {
		if !s.config.Metrics.Enabled {
			return nil
		}
		s.registerer = prometheus.NewRegistry()
	}
	m, err := metrics.New(s.registerer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	s.metrics = m
	return nil
}

// Runtime returns the engine runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Catalog returns the loaded experiment catalog
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Logger returns the service logger
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Gatherer returns the metrics gatherer, nil when metrics are disabled or
// the registerer cannot gather.
func (s *Service) Gatherer() prometheus.Gatherer {
	if g, ok := s.registerer.(prometheus.Gatherer); ok {
		return g
	}
	return nil
}

// Close shuts down every coordinator, closes the snapshot store and flushes traces.
func (s *Service) Close(ctx context.Context) error {
	var errs []error
	if s.runtime != nil {
		s.runtime.shutdown()
	}
	for _, closer := range s.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	if s.tracing {
		if err := tracing.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	_ = s.logger.Sync()
	return errors.Join(errs...)
}
