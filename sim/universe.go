package sim

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/internal/idgen"
	"github.com/viant/kuriosity/model"
	"github.com/viant/kuriosity/service/report/memory"
)

// Universe implements host.Universe and host.TechTree over a scenario.
type Universe struct {
	time     float64
	allTech  bool
	tech     map[string]bool
	vessels  map[string]*Vessel
	partOf   map[string]*Vessel
	crew     map[string][]host.CrewMember
	roster   map[uuid.UUID]host.CrewMember
	configs  map[string]*PartConfig
	timeline []*ScheduledEvent
	archive  *memory.Archive
}

var (
	_ host.Universe = (*Universe)(nil)
	_ host.TechTree = (*Universe)(nil)
)

// New builds a universe from the scenario. Reports stored aboard vessels end
// up in archive.
func New(scenario *Scenario, archive *memory.Archive) *Universe {
	if archive == nil {
		archive = memory.NewArchive()
	}
	ret := &Universe{
		time:    scenario.UniverseTime,
		allTech: scenario.Tech.All,
		tech:    map[string]bool{},
		vessels: map[string]*Vessel{},
		partOf:  map[string]*Vessel{},
		crew:    map[string][]host.CrewMember{},
		roster:  map[uuid.UUID]host.CrewMember{},
		configs: map[string]*PartConfig{},
		archive: archive,
	}
	for _, techID := range scenario.Tech.Unlocked {
		ret.tech[techID] = true
	}
	for _, spec := range scenario.Vessels {
		vessel := newVessel(ret, spec, archive)
		ret.vessels[spec.ID] = vessel
		for _, part := range spec.Parts {
			vessel.parts = append(vessel.parts, part.ID)
			ret.partOf[part.ID] = vessel
			if part.Kuriosity != nil {
				ret.configs[part.ID] = part.Kuriosity
			}
			for _, name := range part.Crew {
				member := host.CrewMember{ID: idgen.ForName(name), Name: name}
				ret.crew[part.ID] = append(ret.crew[part.ID], member)
				ret.roster[member.ID] = member
			}
		}
	}
	ret.timeline = append(ret.timeline, scenario.Events...)
	sort.SliceStable(ret.timeline, func(i, j int) bool { return ret.timeline[i].At < ret.timeline[j].At })
	return ret
}

// Archive returns the submitted report archive.
func (u *Universe) Archive() *memory.Archive {
	return u.archive
}

// Vessel returns the vessel owning the part.
func (u *Universe) Vessel(partID string) (host.Vessel, bool) {
	vessel, ok := u.partOf[partID]
	if !ok {
		return nil, false
	}
	return vessel, true
}

// VesselByID returns the vessel with the ID.
func (u *Universe) VesselByID(vesselID string) (*Vessel, bool) {
	vessel, ok := u.vessels[vesselID]
	return vessel, ok
}

// VesselParts returns the vessel part IDs.
func (u *Universe) VesselParts(vesselID string) []string {
	vessel, ok := u.vessels[vesselID]
	if !ok {
		return nil
	}
	return append([]string(nil), vessel.parts...)
}

// CrewInPart returns the crew seated in the part.
func (u *Universe) CrewInPart(partID string) []host.CrewMember {
	return append([]host.CrewMember(nil), u.crew[partID]...)
}

// UniverseTime returns the simulated time in seconds.
func (u *Universe) UniverseTime() float64 {
	return u.time
}

// IsNodeUnlocked reports whether the tech node is unlocked.
func (u *Universe) IsNodeUnlocked(techID string) bool {
	return u.allTech || u.tech[techID]
}

// UnlockTech unlocks a tech node.
func (u *Universe) UnlockTech(techID string) {
	u.tech[techID] = true
}

// PartConfigs returns the experiment configuration of every coordinator part keyed by part ID.
func (u *Universe) PartConfigs() map[string]*PartConfig {
	ret := make(map[string]*PartConfig, len(u.configs))
	for k, v := range u.configs {
		ret[k] = v
	}
	return ret
}

// PartIDs returns the coordinator part IDs in lexical order.
func (u *Universe) PartIDs() []string {
	ret := make([]string, 0, len(u.configs))
	for id := range u.configs {
		ret = append(ret, id)
	}
	sort.Strings(ret)
	return ret
}

// CrewMember returns a rostered crew member by name.
func (u *Universe) CrewMember(name string) (host.CrewMember, bool) {
	member, ok := u.roster[idgen.ForName(name)]
	return member, ok
}

func (u *Universe) partOfCrew(crewID uuid.UUID) (string, int) {
	for partID, members := range u.crew {
		for i, member := range members {
			if member.ID == crewID {
				return partID, i
			}
		}
	}
	return "", -1
}

// MoveCrew seats the crew member in toPartID and returns the relocation event.
func (u *Universe) MoveCrew(crewID uuid.UUID, toPartID string) (*host.Event, error) {
	if _, ok := u.partOf[toPartID]; !ok {
		return nil, fmt.Errorf("unknown part %v", toPartID)
	}
	fromPartID, index := u.partOfCrew(crewID)
	if index < 0 {
		return nil, fmt.Errorf("crew %v is not seated", crewID)
	}
	member := u.crew[fromPartID][index]
	u.crew[fromPartID] = append(u.crew[fromPartID][:index], u.crew[fromPartID][index+1:]...)
	u.crew[toPartID] = append(u.crew[toPartID], member)
	return host.NewCrewRelocated(crewID, fromPartID, toPartID), nil
}

// RemoveCrew removes the crew member from the roster.
func (u *Universe) RemoveCrew(crewID uuid.UUID) (*host.Event, error) {
	partID, index := u.partOfCrew(crewID)
	if index < 0 {
		return nil, fmt.Errorf("crew %v is not seated", crewID)
	}
	u.crew[partID] = append(u.crew[partID][:index], u.crew[partID][index+1:]...)
	delete(u.roster, crewID)
	return host.NewCrewRemoved(crewID), nil
}

// SetCommNet sets the vessel comm-net status.
func (u *Universe) SetCommNet(vesselID string, connected *bool) (*host.Event, error) {
	vessel, ok := u.vessels[vesselID]
	if !ok {
		return nil, fmt.Errorf("unknown vessel %v", vesselID)
	}
	vessel.spec.CommNet = connected
	return host.NewVesselEvent(host.EventCommNetChanged, vesselID), nil
}

// SetSituation replaces the vessel science situation.
func (u *Universe) SetSituation(vesselID string, situation model.ScienceSituation) (*host.Event, error) {
	vessel, ok := u.vessels[vesselID]
	if !ok {
		return nil, fmt.Errorf("unknown vessel %v", vesselID)
	}
	vessel.spec.Situation = situation
	return host.NewVesselEvent(host.EventScienceSituationChanged, vesselID), nil
}

// Advance moves the universe time by dt and applies every scheduled event
// that became due, returning the resulting host events in order.
func (u *Universe) Advance(dt float64) ([]*host.Event, error) {
	if dt > 0 {
		u.time += dt
	}
	var ret []*host.Event
	for len(u.timeline) > 0 && u.timeline[0].At <= u.time {
		scheduled := u.timeline[0]
		u.timeline = u.timeline[1:]
		event, err := u.apply(scheduled)
		if err != nil {
			return ret, err
		}
		ret = append(ret, event)
	}
	return ret, nil
}

func (u *Universe) apply(scheduled *ScheduledEvent) (*host.Event, error) {
	switch scheduled.Type {
	case host.EventCrewRelocated, host.EventCrewRemoved:
		member, ok := u.CrewMember(scheduled.Crew)
		if !ok {
			return nil, fmt.Errorf("unknown crew %v", scheduled.Crew)
		}
		if scheduled.Type == host.EventCrewRemoved {
			return u.RemoveCrew(member.ID)
		}
		return u.MoveCrew(member.ID, scheduled.ToPart)
	case host.EventCommNetChanged:
		return u.SetCommNet(scheduled.Vessel, scheduled.CommNet)
	case host.EventScienceSituationChanged:
		if scheduled.Situation == nil {
			return nil, fmt.Errorf("situation was empty for vessel %v", scheduled.Vessel)
		}
		return u.SetSituation(scheduled.Vessel, *scheduled.Situation)
	case host.EventVesselChanged:
		if scheduled.Tech != "" {
			u.UnlockTech(scheduled.Tech)
		}
		return host.NewVesselEvent(host.EventVesselChanged, scheduled.Vessel), nil
	}
	return nil, fmt.Errorf("unsupported scheduled event %v", scheduled.Type)
}
