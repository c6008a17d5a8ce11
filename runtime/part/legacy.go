package part

import (
	"github.com/viant/kuriosity/model"
	"go.uber.org/zap"
)

// legacyIDs are experiment IDs saved before the namespace prefix was introduced.
var legacyIDs = map[string]bool{
	"space_sickness":       true,
	"bugs":                 true,
	"mun_cheesecake":       true,
	"kedankenexperiment":   true,
	"ghost_in_the_machine": true,
	"kabin_fever":          true,
	"micrometeor":          true,
	"ufk":                  true,
	"karicebo":             true,
}

// MigrateID returns the prefixed ID of a legacy experiment ID.
func MigrateID(id string) (string, bool) {
	if !legacyIDs[id] {
		return id, false
	}
	return model.IDPrefix + id, true
}

func migrateIDs(ids []string) []string {
	for i, id := range ids {
		ids[i], _ = MigrateID(id)
	}
	return ids
}

// migrate rewrites legacy IDs in place.
func (d *Data) migrate(logger *zap.Logger) {
	d.AllowedExperiments = migrateIDs(d.AllowedExperiments)
	d.PriorityExperiments = migrateIDs(d.PriorityExperiments)
	for _, ctrl := range d.Controllers {
		if migrated, ok := MigrateID(ctrl.ActiveExperimentID); ok {
			ctrl.ActiveExperimentID = migrated
		}
		for id, t := range ctrl.Trackers {
			migrated, ok := MigrateID(id)
			if !ok {
				continue
			}
			if _, exists := ctrl.Trackers[migrated]; exists {
				delete(ctrl.Trackers, id)
				continue
			}
			logger.Debug("fixed legacy experiment id",
				zap.String("from", id),
				zap.String("to", migrated),
				zap.Stringer("crew", ctrl.CrewID))
			t.ExperimentID = migrated
			delete(ctrl.Trackers, id)
			ctrl.Trackers[migrated] = t
		}
	}
}
