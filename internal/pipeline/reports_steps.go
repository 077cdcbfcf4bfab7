package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/inventoryaudit/internal/audit"
	"github.com/nao1215/inventoryaudit/internal/model"
	"github.com/nao1215/inventoryaudit/internal/source"
)

const reasonScannerUnavailable = "site scanner unavailable"

// SiteScannerStep downloads the site-scanning dataset.
type SiteScannerStep struct {
	getter source.Getter
	url    string
	logger *slog.Logger
}

// NewSiteScannerStep creates the step.
func NewSiteScannerStep(getter source.Getter, url string, logger *slog.Logger) *SiteScannerStep {
	return &SiteScannerStep{getter: getter, url: url, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *SiteScannerStep) Name() string {
	return "site_scanner"
}

// Do executes the step.
func (s *SiteScannerStep) Do(ctx context.Context, run *model.Run) error {
	s.logger.Info("fetching site scanner data", "url", s.url)
	records, info, err := source.FetchSiteScanner(ctx, s.getter, s.url)
	run.AddSource(info)
	if err != nil {
		s.logger.Warn("site scanner unavailable", "status", info.StatusCode, "error", err)
		run.ScannerAvailable = false
		return nil
	}
	s.logger.Info("fetched site scanner data", "rows", len(records), "digest", info.Digest)
	run.ScannerRecords = records
	run.ScannerAvailable = true
	return nil
}

// AdditionsStep writes candidates_for_addition.csv. The file is written
// even when no site qualifies.
type AdditionsStep struct {
	reportDir string
	marker    string
	logger    *slog.Logger
}

// NewAdditionsStep creates the step.
func NewAdditionsStep(reportDir, marker string, logger *slog.Logger) *AdditionsStep {
	return &AdditionsStep{reportDir: reportDir, marker: marker, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *AdditionsStep) Name() string {
	return "additions"
}

// Do executes the step.
func (s *AdditionsStep) Do(_ context.Context, run *model.Run) error {
	if !run.ScannerAvailable {
		run.Skip(model.FileAdditions, reasonScannerUnavailable)
		return nil
	}
	rows := audit.Additions(run.ScannerRecords, s.marker)
	writeReport(run, s.logger, s.reportDir, model.FileAdditions, model.AdditionCandidateHeader, rows)
	return nil
}

// RemovalsStep writes candidates_for_removal.csv when any site qualifies.
type RemovalsStep struct {
	reportDir string
	marker    string
	logger    *slog.Logger
}

// NewRemovalsStep creates the step.
func NewRemovalsStep(reportDir, marker string, logger *slog.Logger) *RemovalsStep {
	return &RemovalsStep{reportDir: reportDir, marker: marker, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *RemovalsStep) Name() string {
	return "removals"
}

// Do executes the step.
func (s *RemovalsStep) Do(_ context.Context, run *model.Run) error {
	if !run.ScannerAvailable {
		run.Skip(model.FileRemovals, reasonScannerUnavailable)
		return nil
	}
	rows := audit.Removals(run.ScannerRecords, s.marker)
	for reason, n := range audit.CountReasons(rows) {
		run.ReasonCounts[reason] += n
	}
	if len(rows) == 0 {
		s.logger.Info("no removal candidates")
		run.Skip(model.FileRemovals, "no candidates")
		return nil
	}
	writeReport(run, s.logger, s.reportDir, model.FileRemovals, model.RemovalCandidateHeader, rows)
	return nil
}

// ScanErrorsStep writes scan_errors.csv when any site has an issue.
type ScanErrorsStep struct {
	reportDir string
	logger    *slog.Logger
}

// NewScanErrorsStep creates the step.
func NewScanErrorsStep(reportDir string, logger *slog.Logger) *ScanErrorsStep {
	return &ScanErrorsStep{reportDir: reportDir, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ScanErrorsStep) Name() string {
	return "scan_errors"
}

// Do executes the step.
func (s *ScanErrorsStep) Do(_ context.Context, run *model.Run) error {
	if !run.ScannerAvailable {
		run.Skip(model.FileScanErrors, reasonScannerUnavailable)
		return nil
	}
	rows := audit.ScanErrors(run.ScannerRecords)
	for issue, n := range audit.CountIssues(rows) {
		run.IssueCounts[issue] += n
	}
	if len(rows) == 0 {
		s.logger.Info("no scan errors")
		run.Skip(model.FileScanErrors, "no scan errors")
		return nil
	}
	writeReport(run, s.logger, s.reportDir, model.FileScanErrors, model.ScanErrorHeader, rows)
	return nil
}
