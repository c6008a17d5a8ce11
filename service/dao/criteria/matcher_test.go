package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/kuriosity/service/dao"
)

func TestMatches(t *testing.T) {
	values := []string{"cockpit", "lab"}
	testCases := []struct {
		name       string
		parameters []*dao.Parameter
		expected   bool
	}{
		{name: "no parameters", expected: true},
		{name: "other parameter", parameters: []*dao.Parameter{dao.NewParameter("Vessel", "v1")}, expected: true},
		{name: "single match", parameters: []*dao.Parameter{dao.NewParameter(PartID, "lab")}, expected: true},
		{name: "single miss", parameters: []*dao.Parameter{dao.NewParameter(PartID, "tank")}, expected: false},
		{name: "any of", parameters: []*dao.Parameter{dao.NewParameter(PartID, "tank", "cockpit")}, expected: true},
		{name: "none of", parameters: []*dao.Parameter{dao.NewParameter(PartID, "tank", "hub")}, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Matches(PartID, values, tc.parameters))
		})
	}
}
