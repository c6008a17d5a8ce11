// Package memory provides an in-memory research report archive and a per
// vessel science storage that submits into it.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/model"
)

// Archive keeps submitted research reports keyed by report ID.
type Archive struct {
	reports map[string][]*model.ResearchReport
	mux     sync.RWMutex
}

var _ host.ReportArchive = (*Archive)(nil)

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{reports: map[string][]*model.ResearchReport{}}
}

// Submit adds reports to the archive.
func (a *Archive) Submit(reports ...*model.ResearchReport) {
	a.mux.Lock()
	defer a.mux.Unlock()
	for _, report := range reports {
		if report == nil {
			continue
		}
		a.reports[report.ExperimentID] = append(a.reports[report.ExperimentID], report)
	}
}

// SubmittedReports returns the reports submitted under the report ID.
func (a *Archive) SubmittedReports(reportID string) []*model.ResearchReport {
	a.mux.RLock()
	defer a.mux.RUnlock()
	return append([]*model.ResearchReport(nil), a.reports[reportID]...)
}

// CountReportsWithPrefix counts distinct report IDs starting with prefix.
// Data and sample reports of one completion share an ID and count once.
func (a *Archive) CountReportsWithPrefix(prefix string) int {
	a.mux.RLock()
	defer a.mux.RUnlock()
	count := 0
	for id := range a.reports {
		if strings.HasPrefix(id, prefix) {
			count++
		}
	}
	return count
}

// IDs returns the submitted report IDs in lexical order.
func (a *Archive) IDs() []string {
	a.mux.RLock()
	defer a.mux.RUnlock()
	ret := make([]string, 0, len(a.reports))
	for id := range a.reports {
		ret = append(ret, id)
	}
	sort.Strings(ret)
	return ret
}

// Len returns the total number of submitted reports.
func (a *Archive) Len() int {
	a.mux.RLock()
	defer a.mux.RUnlock()
	count := 0
	for _, reports := range a.reports {
		count += len(reports)
	}
	return count
}
