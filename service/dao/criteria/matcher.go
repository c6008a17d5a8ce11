package criteria

import (
	"github.com/viant/kuriosity/service/dao"
)

// Matches reports whether any of values satisfies the parameter called name.
// Parameters with other names are ignored; without a matching parameter
// everything matches.
func Matches(name string, values []string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != name {
			continue
		}
		accepted := parameter.Values()
		if accepted == nil {
			continue
		}
		if !containsAny(values, accepted) {
			return false
		}
	}
	return true
}

func containsAny(values, candidates []string) bool {
	for _, candidate := range candidates {
		for _, value := range values {
			if candidate == value {
				return true
			}
		}
	}
	return false
}
