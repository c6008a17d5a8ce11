package model

// ExperimentState represents the run state of a tracked experiment.
type ExperimentState string

const (
	StateUninitialized ExperimentState = "uninitialized"
	StateInitialized   ExperimentState = "initialized"
	StateRunning       ExperimentState = "running"
	StatePaused        ExperimentState = "paused"
	// StateCompleted is terminal, a completed tracker is never re-initialized.
	StateCompleted ExperimentState = "completed"
)

// IsUninitialized reports whether the state is uninitialized. The empty
// value decoded from an old save counts as uninitialized.
func (s ExperimentState) IsUninitialized() bool {
	return s == StateUninitialized || s == ""
}

// Precedence is the tie-break category used to choose among eligible experiments.
type Precedence string

const (
	PrecedencePriority    Precedence = "priority"
	PrecedenceNonPriority Precedence = "nonPriority"
	// PrecedenceDePrioritized is sticky, only resetting the tracker clears it.
	PrecedenceDePrioritized Precedence = "dePrioritized"
	PrecedenceNone          Precedence = "none"
)

// CommNetState is the comm-net requirement of an experiment.
type CommNetState string

const (
	CommNetConnected    CommNetState = "connected"
	CommNetDisconnected CommNetState = "disconnected"
	CommNetAny          CommNetState = "any"
)

// ExperimentType defines which reports a completed experiment produces.
type ExperimentType string

const (
	ExperimentTypeData   ExperimentType = "data"
	ExperimentTypeSample ExperimentType = "sample"
	ExperimentTypeBoth   ExperimentType = "both"
)

// HasData reports whether a data report is produced.
func (t ExperimentType) HasData() bool {
	return t == ExperimentTypeData || t == ExperimentTypeBoth || t == ""
}

// HasSample reports whether a sample report is produced.
func (t ExperimentType) HasSample() bool {
	return t == ExperimentTypeSample || t == ExperimentTypeBoth
}
