package model

import (
	"fmt"
	"strings"
)

// Experiment defaults applied before a definition is decoded.
const (
	DefaultMeanTimeToHappen      = 20000000.0
	UnboundedAdditionalCrew      = -1
	DefaultMinimumAdditionalCrew = 0
)

// IDPrefix is the namespace prefix of every experiment ID.
const IDPrefix = "kuriosity_experiment_"

// Experiment represents an immutable kuriosity experiment definition.
type Experiment struct {
	// ID is the unique identifier of the experiment
	ID string `json:"id" yaml:"id"`

	// MeanTimeToHappen is the mean duration in seconds before the experiment completes
	MeanTimeToHappen float64 `json:"meanTimeToHappen" yaml:"meanTimeToHappen"`

	MinimumAdditionalCrew int `json:"minimumAdditionalCrew" yaml:"minimumAdditionalCrew"`
	// MaximumAdditionalCrew of -1 means no upper bound
	MaximumAdditionalCrew int `json:"maximumAdditionalCrew" yaml:"maximumAdditionalCrew"`

	RequiresProbeCore bool `json:"requiresProbeCore,omitempty" yaml:"requiresProbeCore,omitempty"`

	// TechRequired lists tech tree nodes that must all be unlocked
	TechRequired []string `json:"techRequired,omitempty" yaml:"techRequired,omitempty"`

	// ExperimentsRequired lists experiments the crew member must have completed first
	ExperimentsRequired []string `json:"experimentsRequired,omitempty" yaml:"experimentsRequired,omitempty"`

	CommNetStateRequired CommNetState `json:"commNetStateRequired,omitempty" yaml:"commNetStateRequired,omitempty"`

	AllowHomeWorld bool `json:"allowHomeWorld" yaml:"allowHomeWorld"`

	Rerunnable bool `json:"rerunnable,omitempty" yaml:"rerunnable,omitempty"`

	ApplyScienceMultiplier bool `json:"applyScienceMultiplier,omitempty" yaml:"applyScienceMultiplier,omitempty"`

	ConditionsDescription string `json:"conditionsDescription,omitempty" yaml:"conditionsDescription,omitempty"`

	// Science describes the research reports produced on completion
	Science *Science `json:"science,omitempty" yaml:"science,omitempty"`
}

// Science holds the host science definition of an experiment.
type Science struct {
	Type                    ExperimentType        `json:"type,omitempty" yaml:"type,omitempty"`
	DisplayName             string                `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	DataReportDisplayName   string                `json:"dataReportDisplayName,omitempty" yaml:"dataReportDisplayName,omitempty"`
	SampleReportDisplayName string                `json:"sampleReportDisplayName,omitempty" yaml:"sampleReportDisplayName,omitempty"`
	DataValue               float64               `json:"dataValue,omitempty" yaml:"dataValue,omitempty"`
	SampleValue             float64               `json:"sampleValue,omitempty" yaml:"sampleValue,omitempty"`
	TransmissionSize        float64               `json:"transmissionSize,omitempty" yaml:"transmissionSize,omitempty"`
	RequiresEVA             bool                  `json:"requiresEVA,omitempty" yaml:"requiresEVA,omitempty"`
	ValidLocations          []LocationRequirement `json:"validLocations,omitempty" yaml:"validLocations,omitempty"`
}

// NewExperiment returns a definition populated with defaults, ready to be decoded into.
func NewExperiment() *Experiment {
	return &Experiment{
		MeanTimeToHappen:      DefaultMeanTimeToHappen,
		MinimumAdditionalCrew: DefaultMinimumAdditionalCrew,
		MaximumAdditionalCrew: UnboundedAdditionalCrew,
		CommNetStateRequired:  CommNetAny,
		AllowHomeWorld:        true,
	}
}

// RequiresEVA reports whether the crew member must be on EVA.
func (e *Experiment) RequiresEVA() bool {
	return e.Science != nil && e.Science.RequiresEVA
}

// AllowsAdditionalCrew reports whether count additional crew satisfies the bounds.
func (e *Experiment) AllowsAdditionalCrew(count int) bool {
	if count < e.MinimumAdditionalCrew {
		return false
	}
	return e.MaximumAdditionalCrew == UnboundedAdditionalCrew || count <= e.MaximumAdditionalCrew
}

// DisplayName returns the science display name, or the ID.
func (e *Experiment) DisplayName() string {
	if e.Science != nil && e.Science.DisplayName != "" {
		return e.Science.DisplayName
	}
	return e.ID
}

// Validate returns the structural problems of the definition.
func (e *Experiment) Validate() []error {
	var issues []error
	if strings.TrimSpace(e.ID) == "" {
		issues = append(issues, fmt.Errorf("experiment id is empty"))
	}
	if e.MeanTimeToHappen <= 0 {
		issues = append(issues, fmt.Errorf("experiment %q: meanTimeToHappen must be > 0, got %v", e.ID, e.MeanTimeToHappen))
	}
	if e.MinimumAdditionalCrew < 0 {
		issues = append(issues, fmt.Errorf("experiment %q: minimumAdditionalCrew must be >= 0", e.ID))
	}
	if e.MaximumAdditionalCrew < UnboundedAdditionalCrew {
		issues = append(issues, fmt.Errorf("experiment %q: maximumAdditionalCrew must be >= -1", e.ID))
	}
	if e.MaximumAdditionalCrew != UnboundedAdditionalCrew && e.MaximumAdditionalCrew < e.MinimumAdditionalCrew {
		issues = append(issues, fmt.Errorf("experiment %q: maximumAdditionalCrew below minimumAdditionalCrew", e.ID))
	}
	switch e.CommNetStateRequired {
	case CommNetAny, CommNetConnected, CommNetDisconnected, "":
	default:
		issues = append(issues, fmt.Errorf("experiment %q: unsupported commNetStateRequired %q", e.ID, e.CommNetStateRequired))
	}
	if e.Science != nil {
		switch e.Science.Type {
		case ExperimentTypeData, ExperimentTypeSample, ExperimentTypeBoth, "":
		default:
			issues = append(issues, fmt.Errorf("experiment %q: unsupported science type %q", e.ID, e.Science.Type))
		}
	}
	return issues
}
