package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// AgencyURLCount is an agency with the number of unacceptable website URLs.
type AgencyURLCount struct {
	Agency string `json:"agency"`
	Count  int    `json:"count"`
}

// RunSummary is the outcome of one invocation across all flows.
// It is written as summary.md / summary.json and stored in the history database.
type RunSummary struct {
	// ID uniquely identifies the run in the history database.
	ID uuid.UUID `json:"id"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Flows lists the flows that ran, e.g. "stats" and "reports".
	Flows []string `json:"flows"`

	// Steps lists every completed step, prefixed with its flow.
	Steps []string `json:"steps"`

	Sources []SourceInfo    `json:"sources"`
	Outputs []OutputInfo    `json:"outputs"`
	Skipped []SkippedOutput `json:"skipped,omitempty"`

	// AgencyCount is the number of agencies in inventory_stats.csv.
	AgencyCount int `json:"agency_count"`

	IssueCounts  map[Issue]int         `json:"issue_counts,omitempty"`
	ReasonCounts map[RemovalReason]int `json:"reason_counts,omitempty"`

	// UnacceptableURLs lists agencies with at least one malformed website,
	// most offending first.
	UnacceptableURLs []AgencyURLCount `json:"unacceptable_urls,omitempty"`

	// Errors holds the messages of flows that stopped early.
	Errors []string `json:"errors,omitempty"`
}

// NewRunSummary merges the state of finished flows into one summary.
func NewRunSummary(id uuid.UUID, startedAt, finishedAt time.Time, runs ...*Run) *RunSummary {
	s := &RunSummary{
		ID:           id,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
		IssueCounts:  make(map[Issue]int),
		ReasonCounts: make(map[RemovalReason]int),
	}

	for _, r := range runs {
		if r == nil {
			continue
		}
		s.Flows = append(s.Flows, r.Flow)
		for _, step := range r.PerformedSteps {
			s.Steps = append(s.Steps, r.Flow+"/"+step)
		}
		s.Sources = append(s.Sources, r.Sources...)
		s.Outputs = append(s.Outputs, r.Outputs...)
		s.Skipped = append(s.Skipped, r.Skipped...)
		for issue, n := range r.IssueCounts {
			s.IssueCounts[issue] += n
		}
		for reason, n := range r.ReasonCounts {
			s.ReasonCounts[reason] += n
		}
		s.AgencyCount += len(r.Stats)
		for _, st := range r.Stats {
			if st.UnacceptableURLs > 0 {
				s.UnacceptableURLs = append(s.UnacceptableURLs, AgencyURLCount{
					Agency: st.Agency,
					Count:  st.UnacceptableURLs,
				})
			}
		}
		if r.Error != nil {
			s.Errors = append(s.Errors, r.Flow+": "+r.Error.Error())
		}
	}

	sort.SliceStable(s.UnacceptableURLs, func(i, j int) bool {
		if s.UnacceptableURLs[i].Count != s.UnacceptableURLs[j].Count {
			return s.UnacceptableURLs[i].Count > s.UnacceptableURLs[j].Count
		}
		return s.UnacceptableURLs[i].Agency < s.UnacceptableURLs[j].Agency
	})

	return s
}

// OutputRows returns the row count of a written report, or -1 when the
// report was not written.
func (s *RunSummary) OutputRows(name string) int {
	for _, o := range s.Outputs {
		if o.Name == name {
			return o.Rows
		}
	}
	return -1
}

// Source returns the recorded source with the given name.
func (s *RunSummary) Source(name string) (SourceInfo, bool) {
	for _, src := range s.Sources {
		if src.Name == name {
			return src, true
		}
	}
	return SourceInfo{}, false
}

// UnavailableSources returns the sources that could not be read.
func (s *RunSummary) UnavailableSources() []SourceInfo {
	var out []SourceInfo
	for _, src := range s.Sources {
		if !src.Available {
			out = append(out, src)
		}
	}
	return out
}

// TotalScanErrors returns the number of classified scan errors.
func (s *RunSummary) TotalScanErrors() int {
	total := 0
	for _, n := range s.IssueCounts {
		total += n
	}
	return total
}

// Failed reports whether any flow stopped on an error.
func (s *RunSummary) Failed() bool {
	return len(s.Errors) > 0
}
