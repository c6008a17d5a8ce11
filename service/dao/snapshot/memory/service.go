// Package memory keeps snapshots in process memory.
package memory

import (
	"context"

	"github.com/viant/kuriosity/runtime/part"
	"github.com/viant/kuriosity/service/dao"
	"github.com/viant/kuriosity/service/dao/snapshot"
	"github.com/viant/kuriosity/service/dao/store"
)

// Service implements an in-memory snapshot store.
type Service struct {
	*store.MemoryStore[string, part.Snapshot]
}

var _ dao.Service[string, part.Snapshot] = (*Service)(nil)

// List returns matching snapshots oldest first.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*part.Snapshot, error) {
	ret, err := s.MemoryStore.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	snapshot.Sort(ret)
	return ret, nil
}

// New creates an empty store.
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[string, part.Snapshot](func(s *part.Snapshot) string { return s.ID }, snapshot.Filter)}
}
