package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/viant/kuriosity"

// Span names emitted by the engine
const (
	SpanRefresh    = "kuriosity.refresh"
	SpanTick       = "kuriosity.tick"
	SpanCompletion = "kuriosity.completion"
	SpanBroadcast  = "kuriosity.broadcast"
	SpanSave       = "kuriosity.save"
	SpanLoad       = "kuriosity.load"
)

var (
	mux      sync.Mutex
	provider *sdktrace.TracerProvider
	output   io.Closer
)

// Init installs a stdout exporter writing to outputFile, or os.Stdout when empty.
// Init is a no-op while a provider is installed.
func Init(serviceName, serviceVersion, outputFile string) error {
	mux.Lock()
	defer mux.Unlock()
	if provider != nil {
		return nil
	}
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		w, closer = f, f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return err
	}
	if err = install(serviceName, serviceVersion, exporter); err != nil {
		return err
	}
	output = closer
	return nil
}

// InitWithExporter installs the supplied exporter.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	mux.Lock()
	defer mux.Unlock()
	if provider != nil {
		return nil
	}
	return install(serviceName, serviceVersion, exporter)
}

func install(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return err
	}
	provider = sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return nil
}

// Shutdown flushes the installed provider and closes the trace file. A later
// Init installs a fresh provider.
func Shutdown(ctx context.Context) error {
	mux.Lock()
	defer mux.Unlock()
	if provider == nil {
		return nil
	}
	err := provider.Shutdown(ctx)
	provider = nil
	if output != nil {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
		output = nil
	}
	return err
}

// Span wraps an OpenTelemetry span with engine specific attribute helpers.
type Span struct {
	span trace.Span
}

func (s *Span) set(kv attribute.KeyValue) *Span {
	if s == nil {
		return s
	}
	s.span.SetAttributes(kv)
	return s
}

// Part tags the span with a part ID
func (s *Span) Part(id string) *Span { return s.set(attribute.String("part", id)) }

// Vessel tags the span with a vessel ID
func (s *Span) Vessel(id string) *Span { return s.set(attribute.String("vessel", id)) }

// Crew tags the span with a crew ID
func (s *Span) Crew(id string) *Span { return s.set(attribute.String("crew", id)) }

// Experiment tags the span with an experiment ID
func (s *Span) Experiment(id string) *Span { return s.set(attribute.String("experiment", id)) }

// Snapshot tags the span with a snapshot ID
func (s *Span) Snapshot(id string) *Span { return s.set(attribute.String("snapshot", id)) }

// Factor records the progress factor
func (s *Span) Factor(value float64) *Span { return s.set(attribute.Float64("factor", value)) }

// SetStatus records err on the span, or an OK status when nil.
func (s *Span) SetStatus(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		return
	}
	s.span.SetStatus(codes.Ok, "")
}

// StartSpan starts an internal span.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	return ctx, &Span{span: span}
}

// EndSpan records status depending on err and ends the span.
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	sp.SetStatus(err)
	sp.span.End()
}
