package tracker

import (
	"context"
	"fmt"

	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/model"
	"go.uber.org/zap"
)

// NextReportID returns the ID of the next report for crewID. Rerunnable
// experiments carry an occurrence counter.
func (t *Tracker) NextReportID(crew host.CrewMember) string {
	base := ReportID(t.ExperimentID, crew.ID)
	exp := t.Experiment()
	if exp == nil || !exp.Rerunnable {
		return base
	}
	return fmt.Sprintf("%s_%d", base, t.env.CountReportsWithPrefix(base))
}

// TriggerCompletion emits the research reports of a completed experiment to
// the vessel science storage and raises a notification. Nothing is stored
// when the definition or the storage is missing.
func (t *Tracker) TriggerCompletion(ctx context.Context, crew host.CrewMember, vessel host.Vessel) error {
	exp := t.Experiment()
	if exp == nil {
		return fmt.Errorf("%w: %s", ErrUnknownExperiment, t.ExperimentID)
	}
	storage, ok := vessel.ScienceStorage()
	if !ok || storage == nil {
		return fmt.Errorf("%w: %s", ErrNoScienceStorage, vessel.Name())
	}
	science := exp.Science
	if science == nil {
		science = &model.Science{}
	}
	situation := vessel.ScienceSituation()
	scale := multiplier(exp.ApplyScienceMultiplier, situation)
	now := t.env.UniverseTime()
	reportID := t.NextReportID(crew)

	newReport := func(kind model.ReportType, displayName string, value float64) *model.ResearchReport {
		if displayName == "" {
			displayName = exp.DisplayName()
		}
		return &model.ResearchReport{
			ExperimentID: reportID,
			SourceID:     t.ExperimentID,
			DisplayName:  displayName,
			Location:     situation.Location,
			Type:         kind,
			Value:        value * scale,
			CrewName:     crew.Name,
			VesselName:   vessel.Name(),
			UniverseTime: now,
		}
	}
	var reports []*model.ResearchReport
	if science.Type.HasData() {
		reports = append(reports, newReport(model.ReportTypeData, science.DataReportDisplayName, science.DataValue))
	}
	if science.Type.HasSample() {
		reports = append(reports, newReport(model.ReportTypeSample, science.SampleReportDisplayName, science.SampleValue))
	}
	for _, report := range reports {
		if err := storage.StoreResearchReport(ctx, report); err != nil {
			return fmt.Errorf("failed to store report %v: %w", reportID, err)
		}
	}

	t.env.Log().Debug("experiment completed",
		zap.String("experiment", t.ExperimentID),
		zap.String("report", reportID),
		zap.String("crew", crew.Name),
		zap.Float64("multiplier", scale))
	t.env.Notify(ctx, &model.Notification{
		TitleKey:  model.NotificationExperimentTriggered,
		Params:    []any{crew.Name, vessel.Name()},
		FirstLine: exp.DisplayName(),
		Timestamp: now,
	})
	event := &host.Event{Type: host.EventReportAcquired, VesselID: vessel.ID(), CrewID: crew.ID, ReportID: reportID}
	if err := t.env.Publish(ctx, event); err != nil {
		t.env.Log().Error("failed to publish report event", zap.String("report", reportID), zap.Error(err))
	}
	return nil
}
