package audit

import (
	"slices"

	"github.com/nao1215/inventoryaudit/internal/model"
)

// CompareRuns reports how the stats and candidate counts changed from prev
// to curr. Agencies are listed in name order.
func CompareRuns(prev, curr model.StoredRun) model.Comparison {
	c := model.Comparison{
		Previous: model.RunRef{ID: prev.Summary.ID, FinishedAt: prev.Summary.FinishedAt},
		Current:  model.RunRef{ID: curr.Summary.ID, FinishedAt: curr.Summary.FinishedAt},
		Additions: model.Delta{
			Previous: outputRows(&prev.Summary, model.FileAdditions),
			Current:  outputRows(&curr.Summary, model.FileAdditions),
		},
		Removals: model.Delta{
			Previous: outputRows(&prev.Summary, model.FileRemovals),
			Current:  outputRows(&curr.Summary, model.FileRemovals),
		},
		ScanErrors: model.Delta{
			Previous: prev.Summary.TotalScanErrors(),
			Current:  curr.Summary.TotalScanErrors(),
		},
	}

	before := indexStats(prev.Stats)
	after := indexStats(curr.Stats)

	for _, name := range sortedKeys(after) {
		p, ok := before[name]
		if !ok {
			c.AddedAgencies = append(c.AddedAgencies, name)
			continue
		}
		d := agencyDelta(p, after[name])
		if d.Changed() {
			c.ChangedAgencies = append(c.ChangedAgencies, d)
		}
	}
	for _, name := range sortedKeys(before) {
		if _, ok := after[name]; !ok {
			c.RemovedAgencies = append(c.RemovedAgencies, name)
		}
	}
	return c
}

// outputRows treats a report that was not written as empty.
func outputRows(s *model.RunSummary, name string) int {
	if n := s.OutputRows(name); n > 0 {
		return n
	}
	return 0
}

func indexStats(stats []model.InventoryStats) map[string]model.InventoryStats {
	m := make(map[string]model.InventoryStats, len(stats))
	for _, s := range stats {
		m[s.Agency] = s
	}
	return m
}

func sortedKeys(m map[string]model.InventoryStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func agencyDelta(p, c model.InventoryStats) model.AgencyDelta {
	return model.AgencyDelta{
		Agency:               c.Agency,
		WebsiteCount:         model.Delta{Previous: p.WebsiteCount, Current: c.WebsiteCount},
		BureauCount:          model.Delta{Previous: p.BureauCount, Current: c.BureauCount},
		OfficeCount:          model.Delta{Previous: p.OfficeCount, Current: c.OfficeCount},
		EntriesWithoutBureau: model.Delta{Previous: p.EntriesWithoutBureau, Current: c.EntriesWithoutBureau},
		EntriesWithoutOffice: model.Delta{Previous: p.EntriesWithoutOffice, Current: c.EntriesWithoutOffice},
		DuplicateWebsites:    model.Delta{Previous: p.DuplicateWebsites, Current: c.DuplicateWebsites},
	}
}
