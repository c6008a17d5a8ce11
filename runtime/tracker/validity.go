package tracker

import (
	"strings"

	"github.com/google/uuid"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/model"
	"go.uber.org/zap"
)

// Reasons returned by Check for the first failed condition.
const (
	ReasonUnknownExperiment = "unknownExperiment"
	ReasonLocation          = "location"
	ReasonNotAllowed        = "notAllowed"
	ReasonAlreadyCompleted  = "alreadyCompleted"
	ReasonCrewCount         = "crewCount"
	ReasonProbeCore         = "probeCore"
	ReasonTech              = "tech"
	ReasonPrerequisite      = "prerequisite"
	ReasonCommNet           = "commNet"
	ReasonHomeWorld         = "homeWorld"
	ReasonEVA               = "eva"
)

// IsValid reports whether the experiment can run for crewID aboard vessel.
func (t *Tracker) IsValid(vessel host.Vessel, part Part, crewID uuid.UUID) bool {
	ok, reason := t.Check(vessel, part, crewID)
	if !ok {
		t.env.Log().Debug("experiment not valid",
			zap.String("experiment", t.ExperimentID),
			zap.Stringer("crew", crewID),
			zap.String("reason", reason))
	}
	return ok
}

// Check evaluates every run condition and returns the first one that fails.
func (t *Tracker) Check(vessel host.Vessel, part Part, crewID uuid.UUID) (bool, string) {
	exp := t.Experiment()
	if exp == nil || vessel == nil {
		return false, ReasonUnknownExperiment
	}
	situation := vessel.ScienceSituation()
	if !exp.Science.IsLocationValid(situation.Location) {
		return false, ReasonLocation
	}
	if part == nil || !part.Allows(t.ExperimentID) {
		return false, ReasonNotAllowed
	}
	if !exp.Rerunnable && t.isCompletedBy(t.ExperimentID, crewID) {
		return false, ReasonAlreadyCompleted
	}
	if !exp.AllowsAdditionalCrew(vessel.CrewCount() - 1) {
		return false, ReasonCrewCount
	}
	if exp.RequiresProbeCore && !vessel.HasProbeCore() {
		return false, ReasonProbeCore
	}
	for _, techID := range exp.TechRequired {
		if !t.env.IsTechUnlocked(techID) {
			return false, ReasonTech
		}
	}
	for _, required := range exp.ExperimentsRequired {
		if !t.isCompletedBy(required, crewID) {
			return false, ReasonPrerequisite
		}
	}
	if !isCommNetValid(exp.CommNetStateRequired, vessel) {
		return false, ReasonCommNet
	}
	if !exp.AllowHomeWorld {
		if home, known := vessel.HomeWorld(); !known || home {
			return false, ReasonHomeWorld
		}
	}
	if exp.RequiresEVA() && !vessel.IsEVA() {
		return false, ReasonEVA
	}
	return true, ""
}

// isCompletedBy reports whether a report of experimentID by crewID was
// submitted, also matching the ID without the namespace prefix.
func (t *Tracker) isCompletedBy(experimentID string, crewID uuid.UUID) bool {
	if len(t.env.SubmittedReports(ReportID(experimentID, crewID))) > 0 {
		return true
	}
	if short := strings.TrimPrefix(experimentID, model.IDPrefix); short != experimentID {
		return len(t.env.SubmittedReports(ReportID(short, crewID))) > 0
	}
	return false
}

// A vessel without comm-net telemetry satisfies any requirement.
func isCommNetValid(required model.CommNetState, vessel host.Vessel) bool {
	if required == model.CommNetAny || required == "" {
		return true
	}
	connected, ok := vessel.CommNetConnected()
	if !ok {
		return true
	}
	switch required {
	case model.CommNetConnected:
		return connected
	case model.CommNetDisconnected:
		return !connected
	}
	return true
}

// ReportID returns the per-crew report ID of an experiment.
func ReportID(experimentID string, crewID uuid.UUID) string {
	return experimentID + "_" + crewID.String()
}
