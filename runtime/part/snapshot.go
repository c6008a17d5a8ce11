package part

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is a saved state of every coordinator.
type Snapshot struct {
	ID           string    `json:"id" yaml:"id"`
	UniverseTime float64   `json:"universeTime" yaml:"universeTime"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
	Parts        []*Data   `json:"parts" yaml:"parts"`
}

// Part returns the saved data of the part.
func (s *Snapshot) Part(partID string) (*Data, bool) {
	for _, data := range s.Parts {
		if data.PartID == partID {
			return data, true
		}
	}
	return nil, false
}

// PartIDs returns the saved part IDs.
func (s *Snapshot) PartIDs() []string {
	ret := make([]string, 0, len(s.Parts))
	for _, data := range s.Parts {
		ret = append(ret, data.PartID)
	}
	return ret
}

// Clone returns a deep copy sharing no controller or tracker with s.
func (s *Snapshot) Clone() (*Snapshot, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot %v: %w", s.ID, err)
	}
	ret := &Snapshot{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %v: %w", s.ID, err)
	}
	return ret, nil
}
