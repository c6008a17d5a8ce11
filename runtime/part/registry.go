package part

import (
	"sort"
	"sync"
)

// Registry indexes active coordinators by part ID.
type Registry struct {
	coordinators map[string]*Coordinator
	mux          sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{coordinators: map[string]*Coordinator{}}
}

// Register adds the coordinator, replacing any previous one for the part.
func (r *Registry) Register(c *Coordinator) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.coordinators[c.ID()] = c
}

// Unregister removes the coordinator of the part.
func (r *Registry) Unregister(partID string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	delete(r.coordinators, partID)
}

// Get returns the coordinator of the part.
func (r *Registry) Get(partID string) (*Coordinator, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret, ok := r.coordinators[partID]
	return ret, ok
}

// Lookup returns a snapshot of the coordinators of the listed parts.
func (r *Registry) Lookup(partIDs []string) []*Coordinator {
	r.mux.RLock()
	defer r.mux.RUnlock()
	var ret []*Coordinator
	for _, partID := range partIDs {
		if c, ok := r.coordinators[partID]; ok {
			ret = append(ret, c)
		}
	}
	return ret
}

// All returns a snapshot of every coordinator ordered by part ID.
func (r *Registry) All() []*Coordinator {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]*Coordinator, 0, len(r.coordinators))
	for _, c := range r.coordinators {
		ret = append(ret, c)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID() < ret[j].ID() })
	return ret
}

// Len returns the number of registered coordinators.
func (r *Registry) Len() int {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return len(r.coordinators)
}
