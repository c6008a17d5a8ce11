package host

import (
	"context"

	"github.com/google/uuid"
	"github.com/viant/kuriosity/model"
)

// CrewMember identifies a crew member.
type CrewMember struct {
	ID   uuid.UUID `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
}

// Vessel exposes the vessel context used by experiment validity checks.
type Vessel interface {
	ID() string
	Name() string
	// ScienceSituation returns the science scalars and research location
	ScienceSituation() model.ScienceSituation
	// CrewCount returns the number of crew members aboard the vessel
	CrewCount() int
	// HasProbeCore reports whether any command module needs no crew
	HasProbeCore() bool
	// CommNetConnected returns the comm-net status; ok is false when no telemetry is available
	CommNetConnected() (connected bool, ok bool)
	// HomeWorld reports whether the vessel is within the home world SOI; ok is false when the body is unknown
	HomeWorld() (home bool, ok bool)
	// IsEVA reports whether the vessel is a stand-alone EVA crew member
	IsEVA() bool
	// ScienceStorage returns the storage capability, if any part offers one
	ScienceStorage() (ScienceStorage, bool)
}

// Universe exposes crew placement, part topology and simulated time.
type Universe interface {
	// Vessel returns the vessel that currently owns the part
	Vessel(partID string) (Vessel, bool)
	// VesselParts returns the part IDs of the vessel
	VesselParts(vesselID string) []string
	// CrewInPart returns the crew members seated in the part
	CrewInPart(partID string) []CrewMember
	// UniverseTime returns the current simulated time in seconds
	UniverseTime() float64
}

// TechTree answers tech unlock queries.
type TechTree interface {
	IsNodeUnlocked(techID string) bool
}

// ScienceStorage stores research reports aboard a vessel.
type ScienceStorage interface {
	StoreResearchReport(ctx context.Context, report *model.ResearchReport) error
}

// ReportArchive answers queries about submitted research reports.
type ReportArchive interface {
	// SubmittedReports returns the submitted reports with the given report ID
	SubmittedReports(experimentID string) []*model.ResearchReport
	// CountReportsWithPrefix counts submitted reports whose ID starts with prefix
	CountReportsWithPrefix(prefix string) int
}

// Notifier raises user notifications.
type Notifier interface {
	Notify(ctx context.Context, notification *model.Notification)
}
