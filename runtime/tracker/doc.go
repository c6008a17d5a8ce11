// Package tracker implements the per crew member experiment state machine:
// duration draw, countdown, run conditions, precedence and report emission
// on completion.
package tracker
