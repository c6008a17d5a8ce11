package sim

import (
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/model"
	"github.com/viant/kuriosity/service/report/memory"
)

// Vessel implements host.Vessel.
type Vessel struct {
	universe *Universe
	spec     *VesselSpec
	parts    []string
	storage  *memory.Storage
}

var _ host.Vessel = (*Vessel)(nil)

func newVessel(universe *Universe, spec *VesselSpec, archive *memory.Archive) *Vessel {
	ret := &Vessel{universe: universe, spec: spec}
	if !spec.NoScienceStorage {
		ret.storage = memory.NewStorage(archive, !spec.HoldReports)
	}
	return ret
}

func (v *Vessel) ID() string { return v.spec.ID }

func (v *Vessel) Name() string {
	if v.spec.Name == "" {
		return v.spec.ID
	}
	return v.spec.Name
}

func (v *Vessel) ScienceSituation() model.ScienceSituation { return v.spec.Situation }

func (v *Vessel) CrewCount() int {
	count := 0
	for _, partID := range v.parts {
		count += len(v.universe.crew[partID])
	}
	return count
}

func (v *Vessel) HasProbeCore() bool { return v.spec.ProbeCore }

func (v *Vessel) CommNetConnected() (bool, bool) {
	if v.spec.CommNet == nil {
		return false, false
	}
	return *v.spec.CommNet, true
}

func (v *Vessel) HomeWorld() (bool, bool) {
	if v.spec.HomeWorld == nil {
		return false, false
	}
	return *v.spec.HomeWorld, true
}

func (v *Vessel) IsEVA() bool { return v.spec.EVA }

func (v *Vessel) ScienceStorage() (host.ScienceStorage, bool) {
	if v.storage == nil {
		return nil, false
	}
	return v.storage, true
}

// Storage returns the concrete storage, nil when the vessel has none.
func (v *Vessel) Storage() *memory.Storage { return v.storage }
