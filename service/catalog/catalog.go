// Package catalog holds the read-only registry of experiment definitions and
// loads it from YAML or JSON files at any afs supported URL.
package catalog

import (
	"fmt"
	"sort"

	"github.com/viant/kuriosity/model"
)

// Catalog is a static registry of experiment definitions keyed by ID.
type Catalog struct {
	experiments map[string]*model.Experiment
	ids         []string
}

// New creates a catalog with the supplied definitions.
func New(experiments ...*model.Experiment) (*Catalog, error) {
	ret := &Catalog{experiments: map[string]*model.Experiment{}}
	for _, exp := range experiments {
		if err := ret.add(exp); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (c *Catalog) add(exp *model.Experiment) error {
	if exp == nil {
		return fmt.Errorf("experiment was nil")
	}
	if issues := exp.Validate(); len(issues) > 0 {
		return fmt.Errorf("invalid experiment %q: %v", exp.ID, issues[0])
	}
	if _, ok := c.experiments[exp.ID]; ok {
		return fmt.Errorf("duplicate experiment %q", exp.ID)
	}
	c.experiments[exp.ID] = exp
	index := sort.SearchStrings(c.ids, exp.ID)
	c.ids = append(c.ids, "")
	copy(c.ids[index+1:], c.ids[index:])
	c.ids[index] = exp.ID
	return nil
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id string) (*model.Experiment, bool) {
	if c == nil {
		return nil, false
	}
	exp, ok := c.experiments[id]
	return exp, ok
}

// IDs returns all experiment IDs in lexical order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.ids...)
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}
