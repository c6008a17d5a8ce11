package policy

import (
	"path"
	"strings"
)

// Policy filters experiment IDs. A nil *Policy allows everything.
//
//   - AllowList: when not empty only matching IDs are allowed.
//   - BlockList: matching IDs are rejected, it takes priority over AllowList.
//
// Entries match case-insensitively and may use path.Match wildcards, for
// example "kuriosity_experiment_*".
type Policy struct {
	AllowList []string
	BlockList []string
}

// Config represents the serialisable form of a Policy.
type Config struct {
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a Policy.
func FromConfig(c *Config) *Policy {
	if c == nil || (len(c.AllowList) == 0 && len(c.BlockList) == 0) {
		return nil
	}
	return &Policy{
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates BlockList then AllowList.
func (p *Policy) IsAllowed(id string) bool {
	if p == nil {
		return true
	}
	normalized := strings.ToLower(id)
	for _, b := range p.BlockList {
		if matches(b, normalized) {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if matches(a, normalized) {
			return true
		}
	}
	return false
}

// Filter returns the allowed IDs preserving order.
func (p *Policy) Filter(ids []string) []string {
	var ret []string
	for _, id := range ids {
		if p.IsAllowed(id) {
			ret = append(ret, id)
		}
	}
	return ret
}

func matches(pattern, normalized string) bool {
	pattern = strings.ToLower(pattern)
	if pattern == normalized {
		return true
	}
	ok, err := path.Match(pattern, normalized)
	return err == nil && ok
}
