// Package progress keeps aggregated experiment counters (tracked, started,
// paused, completed, deprioritized, failed completions) for a running
// engine. Callers read consistent copies through Snapshot or register an
// onChange callback to observe every update.
package progress
