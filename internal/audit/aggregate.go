package audit

import "github.com/nao1215/inventoryaudit/internal/model"

// Aggregator accumulates per-agency statistics over the public inventory.
// It is not safe for concurrent use; each run owns its own Aggregator.
type Aggregator struct {
	order       []string
	stats       map[string]model.InventoryStats
	occurrences map[string]int
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		stats:       make(map[string]model.InventoryStats),
		occurrences: make(map[string]int),
	}
}

// Upsert applies fn to the statistics of agency, creating them first when
// the agency has not been seen, and stores the result.
func (a *Aggregator) Upsert(agency string, fn func(model.InventoryStats) model.InventoryStats) model.InventoryStats {
	s, ok := a.stats[agency]
	if !ok {
		s = model.NewInventoryStats(agency)
		a.order = append(a.order, agency)
	}
	s = fn(s)
	a.stats[agency] = s
	return s
}

// Add counts one public inventory row. No row is dropped: blank fields are
// counted as missing bureau or office.
func (a *Aggregator) Add(r model.PublicInventoryRecord) {
	a.Upsert(r.Agency, func(s model.InventoryStats) model.InventoryStats {
		if r.HasWebsite() {
			s.WebsiteCount++
			a.occurrences[r.Website]++
			s.UniqueWebsites[r.Website] = struct{}{}
			if IsUnacceptableURL(r.Website) {
				s.UnacceptableURLs++
			}
		}
		if r.HasBureau() {
			s.BureauCount++
		} else {
			s.EntriesWithoutBureau++
		}
		if r.HasOffice() {
			s.OfficeCount++
		} else {
			s.EntriesWithoutOffice++
		}
		return s
	})
}

// Stats returns the statistics of agency.
func (a *Aggregator) Stats(agency string) (model.InventoryStats, bool) {
	s, ok := a.stats[agency]
	return s, ok
}

// Agencies returns the agencies in first-seen order.
func (a *Aggregator) Agencies() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Len returns the number of agencies seen.
func (a *Aggregator) Len() int {
	return len(a.order)
}

// Occurrences returns how many rows, across all agencies, carried the exact
// website string.
func (a *Aggregator) Occurrences(website string) int {
	return a.occurrences[website]
}

// DuplicateCount sums the global occurrences of the agency's websites that
// appear more than once anywhere in the inventory.
func (a *Aggregator) DuplicateCount(s model.InventoryStats) int {
	total := 0
	for w := range s.UniqueWebsites {
		if n, ok := a.occurrences[w]; ok && n > 1 {
			total += n
		}
	}
	return total
}
