// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Crew members named in scenarios get stable name based identifiers instead.
package idgen
