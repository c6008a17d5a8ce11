package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/model"
)

// Storage is a vessel science storage. With auto submit enabled every stored
// report is submitted to the archive straight away.
type Storage struct {
	archive    *Archive
	autoSubmit bool
	stored     []*model.ResearchReport
	mux        sync.Mutex
}

var _ host.ScienceStorage = (*Storage)(nil)

// NewStorage creates a storage backed by archive.
func NewStorage(archive *Archive, autoSubmit bool) *Storage {
	return &Storage{archive: archive, autoSubmit: autoSubmit}
}

// StoreResearchReport stores the report.
func (s *Storage) StoreResearchReport(ctx context.Context, report *model.ResearchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report was nil")
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.autoSubmit && s.archive != nil {
		s.archive.Submit(report)
		return nil
	}
	s.stored = append(s.stored, report)
	return nil
}

// Reports returns the reports held and not yet submitted.
func (s *Storage) Reports() []*model.ResearchReport {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]*model.ResearchReport(nil), s.stored...)
}

// Transmit submits every held report and returns how many were sent.
func (s *Storage) Transmit() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.archive == nil {
		return 0
	}
	count := len(s.stored)
	s.archive.Submit(s.stored...)
	s.stored = nil
	return count
}
