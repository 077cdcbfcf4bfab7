package pipeline

import (
	"log/slog"

	"github.com/nao1215/inventoryaudit/internal/audit"
	"github.com/nao1215/inventoryaudit/internal/source"
)

// Flow names.
const (
	FlowStats   = "stats"
	FlowReports = "reports"
)

// FlowConfig holds everything the two flows need.
type FlowConfig struct {
	// Getter downloads the remote sources.
	Getter source.Getter

	// Resolver completes the per-agency statistics.
	Resolver *audit.Resolver

	InventoryMapPath    string
	PublicInventoryPath string
	ReportDir           string
	FederalURL          string
	ScannerURL          string

	// Marker is the source_list token that marks public-inventory sites.
	Marker string

	// Logger is passed to every step.
	Logger *slog.Logger
}

// StatsFlow builds the flow that writes inventory_stats.csv and
// inventory_analysis.csv.
func StatsFlow(cfg FlowConfig, opts ...Option) Flow {
	p := New(append([]Option{WithLogger(cfg.Logger)}, opts...)...)
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = audit.NewResolver(nil, audit.WithResolverLogger(cfg.Logger))
	}
	p.AddSteps(
		NewInventoryMapStep(cfg.InventoryMapPath, cfg.Logger),
		NewFederalRegistryStep(cfg.Getter, cfg.FederalURL, cfg.Logger),
		NewInventoryStatsStep(cfg.PublicInventoryPath, cfg.ReportDir, resolver, cfg.Logger),
	)
	return Flow{Name: FlowStats, Pipeline: p}
}

// ReportsFlow builds the flow that writes the site-scanner reports.
func ReportsFlow(cfg FlowConfig, opts ...Option) Flow {
	p := New(append([]Option{WithLogger(cfg.Logger)}, opts...)...)
	marker := cfg.Marker
	if marker == "" {
		marker = audit.DefaultMarker
	}
	p.AddSteps(
		NewSiteScannerStep(cfg.Getter, cfg.ScannerURL, cfg.Logger),
		NewAdditionsStep(cfg.ReportDir, marker, cfg.Logger),
		NewRemovalsStep(cfg.ReportDir, marker, cfg.Logger),
		NewScanErrorsStep(cfg.ReportDir, cfg.Logger),
	)
	return Flow{Name: FlowReports, Pipeline: p}
}
