package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/inventoryaudit/internal/audit"
	"github.com/nao1215/inventoryaudit/internal/config"
	"github.com/nao1215/inventoryaudit/internal/database"
	"github.com/nao1215/inventoryaudit/internal/fetch"
	"github.com/nao1215/inventoryaudit/internal/log"
	"github.com/nao1215/inventoryaudit/internal/model"
	"github.com/nao1215/inventoryaudit/internal/pipeline"
	"github.com/nao1215/inventoryaudit/internal/report"
	"github.com/nao1215/inventoryaudit/internal/vcs"
)

// apiKeyHeader carries the site-scanning API key.
const apiKeyHeader = "X-Api-Key"

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate every report",
		Long: `Run generates the inventory statistics and the site-scanner reports.

Outputs written to the report directory:
  inventory_stats.csv          per-agency data-quality statistics
  inventory_analysis.csv       inventory rows compared with the .gov registry
  candidates_for_addition.csv  scanned sites missing from the inventory
  candidates_for_removal.csv   inventoried sites that should be reviewed
  scan_errors.csv              redirect, SSL and www inconsistencies

Examples:
  # Generate everything with the defaults
  inventoryaudit run

  # Write the reports elsewhere and add a markdown summary
  inventoryaudit run -o out -m

  # Run both flows at the same time
  inventoryaudit run -p 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAuditCmd(cmd, pipeline.FlowStats, pipeline.FlowReports)
		},
	}
	addAuditFlags(cmd)
	return cmd
}

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Generate inventory_stats.csv and inventory_analysis.csv",
		Long: `Stats aggregates the public inventory per agency and compares each
inventory row with the federal .gov registry.

When the registry cannot be downloaded, inventory_analysis.csv is skipped
and inventory_stats.csv is still written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAuditCmd(cmd, pipeline.FlowStats)
		},
	}
	addAuditFlags(cmd)
	return cmd
}

// NewReportsCmd creates the reports command.
func NewReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Generate the site-scanner reports",
		Long: `Reports downloads the site-scanning dataset and writes the candidates
for addition, the candidates for removal and the scan errors.

Set SITE_SCANNING_API_KEY (environment or .env) when the endpoint
requires an API key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAuditCmd(cmd, pipeline.FlowReports)
		},
	}
	addAuditFlags(cmd)
	return cmd
}

// addAuditFlags registers the flags shared by run, stats and reports.
func addAuditFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.StringP("config", "c", "",
		"Configuration file path (default: .inventoryaudit in current, home or XDG config directory)")
	f.StringP("output", "o", config.DefaultReportDir, "Report directory")

	f.String("inventory-map", config.DefaultInventoryMapPath, "Agency to inventory URL mapping CSV")
	f.String("public-inventory", config.DefaultPublicInventoryPath, "Public website inventory CSV")
	f.String("snapshots", config.DefaultSnapshotDir, "Directory of per-agency snapshots")
	f.String("repo", "", "Git working tree holding the snapshots (default: current directory)")

	f.String("federal-url", config.DefaultFederalURL, "Federal .gov registry CSV URL")
	f.String("scanner-url", config.DefaultScannerURL, "Site-scanning dataset CSV URL")
	f.String("marker", config.DefaultMarker, "source_list token of sites already in the inventory")

	f.String("proxy", "", "SOCKS5 proxy for downloads (host:port)")
	f.DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each download")
	f.Int64("max-body-size", config.DefaultMaxBodySize, "Largest accepted download in bytes (0 disables the limit)")
	f.IntP("parallel", "p", config.DefaultParallelism, "Number of flows run at the same time (1 or 2)")

	f.BoolP("markdown", "m", false, "Write summary.md to the report directory (mutually exclusive with --json)")
	f.BoolP("json", "j", false, "Write summary.json to the report directory (mutually exclusive with --markdown)")

	f.Bool("no-history", false, "Do not record the run for 'inventoryaudit compare'")
	f.String("history-dir", "", "History database directory (default: XDG data directory)")
}

func runAuditCmd(cmd *cobra.Command, flows ...string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAudit(ctx, cfg, flows, logger, cmd.OutOrStdout())
}

// buildConfig layers defaults, the config file and changed flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit config file must exist; a discovered one is optional.
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.Apply(file)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	stringFlags := map[string]*string{
		"output":           &cfg.ReportDir,
		"inventory-map":    &cfg.InventoryMapPath,
		"public-inventory": &cfg.PublicInventoryPath,
		"snapshots":        &cfg.SnapshotDir,
		"repo":             &cfg.RepoDir,
		"federal-url":      &cfg.FederalURL,
		"scanner-url":      &cfg.ScannerURL,
		"marker":           &cfg.Marker,
		"proxy":            &cfg.ProxyAddress,
		"history-dir":      &cfg.DBDir,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("parallel") {
		if cfg.Parallelism, err = flags.GetInt("parallel"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveHistory = !noHistory
	}

	if cfg.MarkdownSummary, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.JSONSummary, err = flags.GetBool("json"); err != nil {
		return nil, err
	}

	cfg.Verbose = persistentBool(cmd, "verbose")
	cfg.LogJSON = persistentBool(cmd, "log-json")
	cfg.APIKey = os.Getenv(config.EnvAPIKey)

	return cfg, nil
}

// persistentBool reads a flag from the command or the root command.
func persistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger creates the redacting logger.
func setupLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return log.NewSecureJSONLogger(w, verbose)
	}
	return log.NewSecureLogger(w, verbose)
}

// runAudit executes the named flows and writes the summary.
// It returns an error when a flow stopped early.
func runAudit(ctx context.Context, cfg *config.Config, flowNames []string, logger *slog.Logger, out io.Writer) error {
	flows, err := buildFlows(cfg, flowNames, logger)
	if err != nil {
		return err
	}

	id := uuid.New()
	started := time.Now()
	logger.Info("starting audit", "run_id", id.String(), "flows", flowNames, "parallel", cfg.Parallelism)

	runner := pipeline.NewRunner(
		pipeline.WithRunnerLogger(logger),
		pipeline.WithConcurrency(cfg.Parallelism),
	)
	runs, runErr := runner.Run(ctx, flows)
	summary := model.NewRunSummary(id, started, time.Now(), runs...)

	if err := writeSummaryFile(cfg, summary); err != nil {
		logger.Error("failed to write summary", "error", err)
	}
	if _, err := report.NewSimpleWriter(out).WriteSummary(summary); err != nil {
		logger.Error("failed to print summary", "error", err)
	}

	if cfg.SaveHistory && runErr == nil {
		if err := saveHistory(ctx, cfg, summary, runs, logger); err != nil {
			logger.Error("failed to save run history", "error", err)
		}
	}
	return runErr
}

// buildFlows wires the sources into the requested flows. The API key is
// only sent to the site-scanning endpoint.
func buildFlows(cfg *config.Config, names []string, logger *slog.Logger) ([]pipeline.Flow, error) {
	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, fetch.WithProxy(cfg.ProxyAddress))
	}

	var flows []pipeline.Flow
	for _, name := range names {
		fc := pipeline.FlowConfig{
			InventoryMapPath:    cfg.InventoryMapPath,
			PublicInventoryPath: cfg.PublicInventoryPath,
			ReportDir:           cfg.ReportDir,
			FederalURL:          cfg.FederalURL,
			ScannerURL:          cfg.ScannerURL,
			Marker:              cfg.Marker,
			Logger:              logger,
		}

		switch name {
		case pipeline.FlowStats:
			client, err := fetch.NewClient(opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create download client: %w", err)
			}
			fc.Getter = client
			fc.Resolver = audit.NewResolver(
				vcs.NewGit(cfg.RepoDir),
				audit.WithSnapshotDir(cfg.SnapshotDir),
				audit.WithResolverLogger(logger),
			)
			flows = append(flows, pipeline.StatsFlow(fc))
		case pipeline.FlowReports:
			client, err := fetch.NewClient(append(opts, fetch.WithHeader(apiKeyHeader, cfg.APIKey))...)
			if err != nil {
				return nil, fmt.Errorf("failed to create download client: %w", err)
			}
			fc.Getter = client
			flows = append(flows, pipeline.ReportsFlow(fc))
		default:
			return nil, fmt.Errorf("unknown flow %q", name)
		}
	}
	return flows, nil
}

// writeSummaryFile writes summary.md or summary.json when requested.
func writeSummaryFile(cfg *config.Config, summary *model.RunSummary) error {
	var (
		name  string
		write func(io.Writer) error
	)
	switch {
	case cfg.MarkdownSummary:
		name = model.FileSummaryMarkdown
		write = func(w io.Writer) error {
			_, err := report.NewMarkdownWriter(w).WriteSummary(summary)
			return err
		}
	case cfg.JSONSummary:
		name = model.FileSummaryJSON
		write = func(w io.Writer) error {
			_, err := report.NewJSONWriter(w, report.WithPrettyPrint()).WriteSummary(summary)
			return err
		}
	default:
		return nil
	}

	if err := os.MkdirAll(cfg.ReportDir, 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	path := cfg.ReportPath(name)
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// saveHistory records the run in the history database.
func saveHistory(ctx context.Context, cfg *config.Config, summary *model.RunSummary, runs []*model.Run, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var stats []model.InventoryStats
	for _, r := range runs {
		stats = append(stats, r.Stats...)
	}

	// The flows already finished, so a late interrupt must not lose the run.
	if err := db.SaveRun(context.WithoutCancel(ctx), summary, stats); err != nil {
		return err
	}
	logger.Info("run saved to history", "run_id", summary.ID.String(), "db", db.Path())
	return nil
}
