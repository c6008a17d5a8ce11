package model

import "strings"

// ResearchLocation identifies where a vessel currently performs research.
type ResearchLocation struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Body      string `json:"body,omitempty" yaml:"body,omitempty"`
	Situation string `json:"situation,omitempty" yaml:"situation,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
}

// LocationRequirement describes one location an experiment may run in.
// Empty fields match anything.
type LocationRequirement struct {
	Body           string `json:"body,omitempty" yaml:"body,omitempty"`
	Situation      string `json:"situation,omitempty" yaml:"situation,omitempty"`
	RequiresRegion bool   `json:"requiresRegion,omitempty" yaml:"requiresRegion,omitempty"`
}

// Matches reports whether location satisfies the requirement.
func (r LocationRequirement) Matches(location ResearchLocation) bool {
	if r.Body != "" && !strings.EqualFold(r.Body, location.Body) {
		return false
	}
	if r.Situation != "" && !strings.EqualFold(r.Situation, location.Situation) {
		return false
	}
	if r.RequiresRegion && location.Region == "" {
		return false
	}
	return true
}

// IsLocationValid reports whether the location is valid for the science
// definition. A definition without location requirements is valid anywhere.
func (s *Science) IsLocationValid(location ResearchLocation) bool {
	if s == nil || len(s.ValidLocations) == 0 {
		return true
	}
	for _, requirement := range s.ValidLocations {
		if requirement.Matches(location) {
			return true
		}
	}
	return false
}

// ScienceSituation carries the vessel science scalars and research location.
type ScienceSituation struct {
	Location      ResearchLocation `json:"location" yaml:"location"`
	CelestialBody float64          `json:"celestialBody" yaml:"celestialBody"`
	Situation     float64          `json:"situation" yaml:"situation"`
	ScienceRegion float64          `json:"scienceRegion" yaml:"scienceRegion"`
}

// Multiplier returns the product of the celestial body, situation and region scalars.
func (s ScienceSituation) Multiplier() float64 {
	return s.CelestialBody * s.Situation * s.ScienceRegion
}
