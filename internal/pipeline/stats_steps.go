package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/inventoryaudit/internal/audit"
	"github.com/nao1215/inventoryaudit/internal/csvio"
	"github.com/nao1215/inventoryaudit/internal/model"
	"github.com/nao1215/inventoryaudit/internal/source"
)

// InventoryMapStep loads the agency to inventory URL mapping.
// A missing map is not fatal: the stats report is then empty.
type InventoryMapStep struct {
	path   string
	logger *slog.Logger
}

// NewInventoryMapStep creates the step.
func NewInventoryMapStep(path string, logger *slog.Logger) *InventoryMapStep {
	return &InventoryMapStep{path: path, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *InventoryMapStep) Name() string {
	return "inventory_map"
}

// Do executes the step.
func (s *InventoryMapStep) Do(_ context.Context, run *model.Run) error {
	m, info, err := source.LoadInventoryMap(s.path)
	run.AddSource(info)
	if err != nil {
		s.logger.Warn("inventory map unavailable", "path", s.path, "error", err)
		run.InventoryMap = model.NewInventoryMap()
		return nil
	}
	s.logger.Info("loaded inventory map", "agencies", m.Len())
	run.InventoryMap = m
	return nil
}

// FederalRegistryStep downloads the federal .gov registry.
// A failed download leaves run.FederalRecords empty.
type FederalRegistryStep struct {
	getter source.Getter
	url    string
	logger *slog.Logger
}

// NewFederalRegistryStep creates the step.
func NewFederalRegistryStep(getter source.Getter, url string, logger *slog.Logger) *FederalRegistryStep {
	return &FederalRegistryStep{getter: getter, url: url, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *FederalRegistryStep) Name() string {
	return "federal_registry"
}

// Do executes the step.
func (s *FederalRegistryStep) Do(ctx context.Context, run *model.Run) error {
	s.logger.Info("fetching federal registry", "url", s.url)
	records, info, err := source.FetchFederalRegistry(ctx, s.getter, s.url)
	run.AddSource(info)
	if err != nil {
		s.logger.Warn("federal registry unavailable", "status", info.StatusCode, "error", err)
		run.FederalRecords = nil
		return nil
	}
	s.logger.Info("fetched federal registry", "rows", len(records), "digest", info.Digest)
	run.FederalRecords = records
	return nil
}

// InventoryStatsStep makes one pass over the public inventory. It
// aggregates per-agency statistics, streams inventory_analysis.csv when
// registry rows are available, then resolves and writes
// inventory_stats.csv.
//
// It is the only step whose input failure is fatal.
type InventoryStatsStep struct {
	publicPath string
	reportDir  string
	resolver   *audit.Resolver
	logger     *slog.Logger
}

// NewInventoryStatsStep creates the step.
func NewInventoryStatsStep(publicPath, reportDir string, resolver *audit.Resolver, logger *slog.Logger) *InventoryStatsStep {
	return &InventoryStatsStep{
		publicPath: publicPath,
		reportDir:  reportDir,
		resolver:   resolver,
		logger:     orDefault(logger),
	}
}

// Name returns the step name.
func (s *InventoryStatsStep) Name() string {
	return "inventory_stats"
}

// Do executes the step.
func (s *InventoryStatsStep) Do(ctx context.Context, run *model.Run) error {
	info := model.SourceInfo{Name: model.SourcePublicInventory, Location: s.publicPath}
	agg := audit.NewAggregator()
	analysis := s.startAnalysis(run)

	for rec, err := range source.PublicInventory(s.publicPath) {
		if err != nil {
			analysis.abort()
			info.Error = err.Error()
			run.AddSource(info)
			return fmt.Errorf("%w: %s: %w", audit.ErrSourceRead, s.publicPath, err)
		}
		info.Rows++
		agg.Add(rec)
		analysis.match(rec)
	}
	info.Available = true
	run.AddSource(info)
	analysis.commit()

	if run.InventoryMap == nil {
		run.InventoryMap = model.NewInventoryMap()
	}
	stats, err := s.resolver.Resolve(ctx, agg, run.InventoryMap)
	if err != nil {
		return err
	}
	run.Stats = stats
	s.logger.Info("aggregated public inventory", "rows", info.Rows, "agencies", agg.Len(), "reported", len(stats))

	writeReport(run, s.logger, s.reportDir, model.FileInventoryStats, model.InventoryStatsHeader, stats)
	return nil
}

// analysisSink streams inventory_analysis.csv. A nil writer drops rows.
type analysisSink struct {
	run      *model.Run
	logger   *slog.Logger
	registry *audit.Registry
	w        *csvio.FileWriter
}

func (s *InventoryStatsStep) startAnalysis(run *model.Run) *analysisSink {
	sink := &analysisSink{run: run, logger: s.logger}
	if !run.HasRegistry() {
		run.Skip(model.FileInventoryAnalysis, "federal registry unavailable")
		return sink
	}
	if err := os.MkdirAll(s.reportDir, reportDirPerm); err != nil {
		sink.fail(err)
		return sink
	}
	w, err := csvio.Create(filepath.Join(s.reportDir, model.FileInventoryAnalysis), model.InventoryAnalysisHeader)
	if err != nil {
		sink.fail(err)
		return sink
	}
	sink.registry = audit.NewRegistry(run.FederalRecords)
	sink.w = w
	return sink
}

func (a *analysisSink) match(rec model.PublicInventoryRecord) {
	if a.w == nil {
		return
	}
	err := audit.MatchRecord(rec, a.registry, func(row model.InventoryAnalysis) error {
		return a.w.WriteRow(row)
	})
	if err != nil {
		a.w.Abort()
		a.w = nil
		a.fail(err)
	}
}

func (a *analysisSink) commit() {
	if a.w == nil {
		return
	}
	w := a.w
	a.w = nil
	if err := w.Commit(); err != nil {
		a.fail(err)
		return
	}
	a.logger.Info("report written", "report", model.FileInventoryAnalysis, "rows", w.Count())
	a.run.AddOutput(model.FileInventoryAnalysis, w.Path(), w.Count())
}

func (a *analysisSink) abort() {
	if a.w != nil {
		a.w.Abort()
		a.w = nil
	}
}

func (a *analysisSink) fail(err error) {
	a.logger.Error("failed to write report", "report", model.FileInventoryAnalysis, "error", err)
	a.run.Skip(model.FileInventoryAnalysis, "write failed: "+err.Error())
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
