package model

import "time"

// Report file names written to the report directory.
const (
	FileInventoryStats    = "inventory_stats.csv"
	FileInventoryAnalysis = "inventory_analysis.csv"
	FileAdditions         = "candidates_for_addition.csv"
	FileRemovals          = "candidates_for_removal.csv"
	FileScanErrors        = "scan_errors.csv"
	FileSummaryMarkdown   = "summary.md"
	FileSummaryJSON       = "summary.json"
)

// Source names recorded in SourceInfo.
const (
	SourceInventoryMap    = "inventory_map"
	SourcePublicInventory = "public_inventory"
	SourceFederalRegistry = "federal_registry"
	SourceSiteScanner     = "site_scanner"
)

// SourceInfo describes one input consumed during a run.
type SourceInfo struct {
	// Name is one of the Source* constants.
	Name string `json:"name"`

	// Location is the file path or URL the source was read from.
	Location string `json:"location"`

	// Rows is the number of records read.
	Rows int `json:"rows"`

	// StatusCode is the HTTP status for remote sources, zero for files.
	StatusCode int `json:"status_code,omitempty"`

	// Digest is the SHA3-256 of the downloaded body, hex encoded.
	Digest string `json:"digest,omitempty"`

	// Available is false when the source could not be read.
	Available bool `json:"available"`

	// Error holds the read or fetch failure, if any.
	Error string `json:"error,omitempty"`
}

// OutputInfo describes a report file that was written.
type OutputInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// SkippedOutput records a report that was not produced and why.
type SkippedOutput struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Run is the working state of one flow (stats or reports).
// Pipeline steps read the data loaded by earlier steps and record what they
// produced. A Run is owned by a single flow and never shared.
type Run struct {
	// Flow names the flow this state belongs to.
	Flow string

	// StartedAt is when the flow started.
	StartedAt time.Time

	// InventoryMap is the agency to inventory URL mapping.
	InventoryMap *InventoryMap

	// FederalRecords holds the registry rows; empty when the fetch failed.
	FederalRecords []FederalRecord

	// ScannerRecords holds the site-scanner rows.
	ScannerRecords []ScannerRecord

	// ScannerAvailable is false when the site-scanner fetch failed.
	// The classification steps are skipped in that case.
	ScannerAvailable bool

	// Stats holds the resolved per-agency statistics.
	Stats []InventoryStats

	// IssueCounts counts scan errors by issue.
	IssueCounts map[Issue]int

	// ReasonCounts counts removal candidates carrying each reason.
	ReasonCounts map[RemovalReason]int

	Sources []SourceInfo
	Outputs []OutputInfo
	Skipped []SkippedOutput

	// PerformedSteps lists the names of completed steps in order.
	PerformedSteps []string

	// Error is the failure that stopped the flow, if any.
	Error error `json:"-"`

	// Cancelled is set when the context was cancelled mid-flow.
	Cancelled bool
}

// NewRun creates the state for a flow.
func NewRun(flow string) *Run {
	return &Run{
		Flow:         flow,
		StartedAt:    time.Now(),
		IssueCounts:  make(map[Issue]int),
		ReasonCounts: make(map[RemovalReason]int),
	}
}

// AddSource records an input.
func (r *Run) AddSource(s SourceInfo) {
	r.Sources = append(r.Sources, s)
}

// AddOutput records a written report.
func (r *Run) AddOutput(name, path string, rows int) {
	r.Outputs = append(r.Outputs, OutputInfo{Name: name, Path: path, Rows: rows})
}

// Skip records a report that was not produced.
func (r *Run) Skip(name, reason string) {
	r.Skipped = append(r.Skipped, SkippedOutput{Name: name, Reason: reason})
}

// HasRegistry reports whether federal registry rows are available.
func (r *Run) HasRegistry() bool {
	return len(r.FederalRecords) > 0
}

// Output returns the written report called name.
func (r *Run) Output(name string) (OutputInfo, bool) {
	for _, o := range r.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return OutputInfo{}, false
}
