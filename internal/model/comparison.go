package model

import (
	"time"

	"github.com/google/uuid"
)

// StoredRun is a run loaded back from the history database.
type StoredRun struct {
	Summary RunSummary       `json:"summary"`
	Stats   []InventoryStats `json:"stats"`
}

// RunRef identifies one side of a comparison.
type RunRef struct {
	ID         uuid.UUID `json:"id"`
	FinishedAt time.Time `json:"finished_at"`
}

// Delta is a counter observed in two runs.
type Delta struct {
	Previous int `json:"previous"`
	Current  int `json:"current"`
}

// Change returns Current minus Previous.
func (d Delta) Change() int {
	return d.Current - d.Previous
}

// Changed reports whether the counter moved.
func (d Delta) Changed() bool {
	return d.Previous != d.Current
}

// AgencyDelta holds the stats counters of one agency in two runs.
type AgencyDelta struct {
	Agency               string `json:"agency"`
	WebsiteCount         Delta  `json:"website_count"`
	BureauCount          Delta  `json:"bureau_count"`
	OfficeCount          Delta  `json:"office_count"`
	EntriesWithoutBureau Delta  `json:"entries_without_bureau"`
	EntriesWithoutOffice Delta  `json:"entries_without_office"`
	DuplicateWebsites    Delta  `json:"duplicate_websites"`
}

// Changed reports whether any counter moved.
func (a AgencyDelta) Changed() bool {
	for _, d := range a.Counters() {
		if d.Delta.Changed() {
			return true
		}
	}
	return false
}

// NamedDelta pairs a counter name with its values.
type NamedDelta struct {
	Name  string
	Delta Delta
}

// Counters returns the counters in inventory_stats.csv column order.
func (a AgencyDelta) Counters() []NamedDelta {
	return []NamedDelta{
		{Name: "website_count", Delta: a.WebsiteCount},
		{Name: "bureau_count", Delta: a.BureauCount},
		{Name: "office_count", Delta: a.OfficeCount},
		{Name: "entries_without_bureau", Delta: a.EntriesWithoutBureau},
		{Name: "entries_without_office", Delta: a.EntriesWithoutOffice},
		{Name: "duplicate_websites", Delta: a.DuplicateWebsites},
	}
}

// Comparison describes how the audit results changed between two runs.
type Comparison struct {
	Previous RunRef `json:"previous"`
	Current  RunRef `json:"current"`

	// ChangedAgencies lists agencies present in both runs whose counters moved.
	ChangedAgencies []AgencyDelta `json:"changed_agencies,omitempty"`

	// AddedAgencies appear only in the current run.
	AddedAgencies []string `json:"added_agencies,omitempty"`

	// RemovedAgencies appear only in the previous run.
	RemovedAgencies []string `json:"removed_agencies,omitempty"`

	Additions  Delta `json:"additions"`
	Removals   Delta `json:"removals"`
	ScanErrors Delta `json:"scan_errors"`
}

// HasChanges reports whether anything differs between the runs.
func (c *Comparison) HasChanges() bool {
	return len(c.ChangedAgencies) > 0 ||
		len(c.AddedAgencies) > 0 ||
		len(c.RemovedAgencies) > 0 ||
		c.Additions.Changed() ||
		c.Removals.Changed() ||
		c.ScanErrors.Changed()
}
