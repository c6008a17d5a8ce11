// Package snapshot holds helpers shared by the snapshot dao backends.
package snapshot

import (
	"sort"

	"github.com/viant/kuriosity/runtime/part"
	"github.com/viant/kuriosity/service/dao"
	"github.com/viant/kuriosity/service/dao/criteria"
)

// Filter reports whether the snapshot satisfies the list parameters.
func Filter(s *part.Snapshot, parameters []*dao.Parameter) bool {
	return criteria.Matches(criteria.PartID, s.PartIDs(), parameters)
}

// Sort orders snapshots by creation time, then ID.
func Sort(snapshots []*part.Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
		}
		return snapshots[i].ID < snapshots[j].ID
	})
}
