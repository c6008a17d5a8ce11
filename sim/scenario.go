// Package sim is a scenario driven host universe: vessels, parts, crew,
// tech unlocks and a timeline of lifecycle events, all described in YAML.
package sim

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/model"
	"gopkg.in/yaml.v3"
)

// Scenario describes the initial universe and its timeline.
type Scenario struct {
	UniverseTime float64           `yaml:"universeTime,omitempty"`
	Tech         Tech              `yaml:"tech,omitempty"`
	Vessels      []*VesselSpec     `yaml:"vessels"`
	Events       []*ScheduledEvent `yaml:"events,omitempty"`
}

// Tech describes tech tree unlocks.
type Tech struct {
	All      bool     `yaml:"all,omitempty"`
	Unlocked []string `yaml:"unlocked,omitempty"`
}

// VesselSpec describes a vessel.
type VesselSpec struct {
	ID        string                 `yaml:"id"`
	Name      string                 `yaml:"name,omitempty"`
	Situation model.ScienceSituation `yaml:"situation"`
	ProbeCore bool                   `yaml:"probeCore,omitempty"`
	// CommNet is nil when the vessel has no comm-net telemetry
	CommNet *bool `yaml:"commNet,omitempty"`
	// HomeWorld is nil when the orbited body is unknown
	HomeWorld *bool `yaml:"homeWorld,omitempty"`
	EVA       bool  `yaml:"eva,omitempty"`
	// NoScienceStorage removes the science storage capability
	NoScienceStorage bool `yaml:"noScienceStorage,omitempty"`
	// HoldReports keeps reports aboard instead of submitting them
	HoldReports bool        `yaml:"holdReports,omitempty"`
	Parts       []*PartSpec `yaml:"parts"`
}

// PartSpec describes a part and its seated crew.
type PartSpec struct {
	ID        string      `yaml:"id"`
	Crew      []string    `yaml:"crew,omitempty"`
	Kuriosity *PartConfig `yaml:"kuriosity,omitempty"`
}

// PartConfig is the experiment configuration of a part hosting a coordinator.
type PartConfig struct {
	FactorAdjustment    float64  `yaml:"factorAdjustment,omitempty"`
	AllowedExperiments  []string `yaml:"allowedExperiments,omitempty"`
	PriorityExperiments []string `yaml:"priorityExperiments,omitempty"`
}

// ScheduledEvent mutates the universe once the universe time reaches At.
type ScheduledEvent struct {
	At     float64        `yaml:"at"`
	Type   host.EventType `yaml:"type"`
	Crew   string         `yaml:"crew,omitempty"`
	ToPart string         `yaml:"toPart,omitempty"`
	Vessel string         `yaml:"vessel,omitempty"`
	// CommNet sets the telemetry of a commNetChanged event
	CommNet *bool `yaml:"commNet,omitempty"`
	// Situation replaces the vessel situation of a scienceSituationChanged event
	Situation *model.ScienceSituation `yaml:"situation,omitempty"`
	// Tech unlocks a node with a vesselChanged event
	Tech string `yaml:"tech,omitempty"`
}

// Validate checks part and vessel references.
func (s *Scenario) Validate() error {
	parts := map[string]bool{}
	vessels := map[string]bool{}
	for _, vessel := range s.Vessels {
		if vessel.ID == "" {
			return fmt.Errorf("vessel id was empty")
		}
		if vessels[vessel.ID] {
			return fmt.Errorf("duplicate vessel %v", vessel.ID)
		}
		vessels[vessel.ID] = true
		for _, part := range vessel.Parts {
			if part.ID == "" {
				return fmt.Errorf("vessel %v: part id was empty", vessel.ID)
			}
			if parts[part.ID] {
				return fmt.Errorf("duplicate part %v", part.ID)
			}
			parts[part.ID] = true
		}
	}
	for i, event := range s.Events {
		if event.ToPart != "" && !parts[event.ToPart] {
			return fmt.Errorf("event[%d]: unknown part %v", i, event.ToPart)
		}
		if event.Vessel != "" && !vessels[event.Vessel] {
			return fmt.Errorf("event[%d]: unknown vessel %v", i, event.Vessel)
		}
	}
	return nil
}

// DecodeScenario parses a YAML scenario.
func DecodeScenario(data []byte) (*Scenario, error) {
	ret := &Scenario{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// LoadScenario reads a YAML scenario from URL.
func LoadScenario(ctx context.Context, fs afs.Service, URL string) (*Scenario, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download scenario %v: %w", URL, err)
	}
	return DecodeScenario(data)
}
