package part

import (
	"github.com/google/uuid"
	"github.com/viant/kuriosity/runtime/controller"
)

// DefaultFactorAdjustment is the part factor adjustment used when none is set.
const DefaultFactorAdjustment = 1.0

// Data is the persisted state of a part coordinator.
type Data struct {
	PartID              string   `json:"partId" yaml:"partId"`
	FactorAdjustment    float64  `json:"factorAdjustment" yaml:"factorAdjustment"`
	AllowedExperiments  []string `json:"allowedExperiments,omitempty" yaml:"allowedExperiments,omitempty"`
	PriorityExperiments []string `json:"priorityExperiments,omitempty" yaml:"priorityExperiments,omitempty"`
	// Controllers are keyed by crew ID
	Controllers map[uuid.UUID]*controller.Controller `json:"controllers" yaml:"controllers"`
}

// NewData creates part data with defaults.
func NewData(partID string) *Data {
	return &Data{
		PartID:           partID,
		FactorAdjustment: DefaultFactorAdjustment,
		Controllers:      map[uuid.UUID]*controller.Controller{},
	}
}

func (d *Data) init() {
	if d.FactorAdjustment <= 0 {
		d.FactorAdjustment = DefaultFactorAdjustment
	}
	if d.Controllers == nil {
		d.Controllers = map[uuid.UUID]*controller.Controller{}
	}
}
