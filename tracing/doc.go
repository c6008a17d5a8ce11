// Package tracing integrates OpenTelemetry with the kuriosity engine. Ticks,
// experiment completions and deprioritization broadcasts are recorded as
// spans. Until Init or InitWithExporter is called the global no-op provider
// is used and spans cost nothing.
package tracing
