package host

import "github.com/google/uuid"

// EventType represents the kind of a host event.
type EventType string

const (
	EventCrewRelocated           EventType = "crewRelocated"
	EventCrewRemoved             EventType = "crewRemoved"
	EventVesselChanged           EventType = "vesselChanged"
	EventCommNetChanged          EventType = "commNetChanged"
	EventScienceSituationChanged EventType = "scienceSituationChanged"
	// EventReportAcquired is raised by the engine after reports are stored
	EventReportAcquired EventType = "reportAcquired"
)

// Event is a host lifecycle notification consumed by part coordinators.
type Event struct {
	Type     EventType `json:"type" yaml:"type"`
	VesselID string    `json:"vesselId,omitempty" yaml:"vesselId,omitempty"`
	CrewID   uuid.UUID `json:"crewId,omitempty" yaml:"crewId,omitempty"`
	// FromPartID and ToPartID are set for crew relocations
	FromPartID string `json:"fromPartId,omitempty" yaml:"fromPartId,omitempty"`
	ToPartID   string `json:"toPartId,omitempty" yaml:"toPartId,omitempty"`
	// ReportID is set for acquired reports
	ReportID string `json:"reportId,omitempty" yaml:"reportId,omitempty"`
}

// NewCrewRelocated returns a relocation event.
func NewCrewRelocated(crewID uuid.UUID, fromPartID, toPartID string) *Event {
	return &Event{Type: EventCrewRelocated, CrewID: crewID, FromPartID: fromPartID, ToPartID: toPartID}
}

// NewCrewRemoved returns a roster removal event.
func NewCrewRemoved(crewID uuid.UUID) *Event {
	return &Event{Type: EventCrewRemoved, CrewID: crewID}
}

// NewVesselEvent returns a vessel scoped event.
func NewVesselEvent(eventType EventType, vesselID string) *Event {
	return &Event{Type: eventType, VesselID: vesselID}
}
