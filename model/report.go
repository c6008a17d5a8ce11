package model

// ReportType is the kind of a research report.
type ReportType string

const (
	ReportTypeData   ReportType = "data"
	ReportTypeSample ReportType = "sample"
)

// ResearchReport is emitted to a vessel's science storage when an experiment completes.
type ResearchReport struct {
	// ExperimentID is the per-crew report ID, experimentId_crewId[_N]
	ExperimentID string           `json:"experimentId" yaml:"experimentId"`
	SourceID     string           `json:"sourceId" yaml:"sourceId"`
	DisplayName  string           `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Location     ResearchLocation `json:"location" yaml:"location"`
	Type         ReportType       `json:"type" yaml:"type"`
	Value        float64          `json:"value" yaml:"value"`
	CrewName     string           `json:"crewName,omitempty" yaml:"crewName,omitempty"`
	VesselName   string           `json:"vesselName,omitempty" yaml:"vesselName,omitempty"`
	// UniverseTime is the simulated time the report was created at
	UniverseTime float64 `json:"universeTime" yaml:"universeTime"`
}

// Notification is a fire-and-forget user notification.
type Notification struct {
	TitleKey  string  `json:"titleKey"`
	Params    []any   `json:"params,omitempty"`
	FirstLine string  `json:"firstLine,omitempty"`
	Timestamp float64 `json:"timestamp"`
}

// NotificationExperimentTriggered is the title key raised on completion.
const NotificationExperimentTriggered = "KuriosityScience/Notifications/ExperimentTriggered"
