package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "inventoryaudit"

	// DefaultInventoryMapPath is the CSV mapping agencies to their inventory URLs.
	DefaultInventoryMapPath = "website_inventories.csv"

	// DefaultPublicInventoryPath is the public website inventory CSV.
	DefaultPublicInventoryPath = "us-gov-public-website-inventory.csv"

	// DefaultSnapshotDir holds one "<domain token>.csv" snapshot per agency.
	DefaultSnapshotDir = "snapshots"

	// DefaultReportDir receives the generated CSV reports.
	DefaultReportDir = "reports"

	// DefaultFederalURL is the federal .gov domain registry.
	DefaultFederalURL = "https://raw.githubusercontent.com/cisagov/dotgov-data/refs/heads/main/current-federal.csv"

	// DefaultScannerURL is the latest site-scanning dataset.
	DefaultScannerURL = "https://api.gsa.gov/technology/site-scanning/data/site-scanning-latest.csv"

	// DefaultMarker is the source_list token of sites already in the public inventory.
	DefaultMarker = "omb_idea"

	// DefaultTimeout bounds each download. The site-scanning dataset is large,
	// so this is generous.
	DefaultTimeout = 2 * time.Minute

	// DefaultMaxBodySize limits a download to 1 GiB.
	DefaultMaxBodySize int64 = 1 << 30

	// DefaultParallelism runs the flows one after another.
	DefaultParallelism = 1

	// MaxParallelism is the number of independent flows.
	MaxParallelism = 2

	// EnvAPIKey names the environment variable holding the site-scanning API key.
	EnvAPIKey = "SITE_SCANNING_API_KEY"
)

// Config holds all options of an audit run. It is built once from defaults,
// the config file and flags, then passed down explicitly.
type Config struct {
	// InventoryMapPath is the CSV with agency and website_inventory columns.
	InventoryMapPath string

	// PublicInventoryPath is the public website inventory CSV. It is the only
	// required source: failing to read it aborts the stats flow.
	PublicInventoryPath string

	// SnapshotDir is where agency snapshots live, relative to RepoDir.
	SnapshotDir string

	// RepoDir is the git working tree queried for snapshot dates.
	// Empty means the current directory.
	RepoDir string

	// ReportDir receives every output file. It is created when missing.
	ReportDir string

	// FederalURL and ScannerURL are the remote registries.
	FederalURL string
	ScannerURL string

	// Marker identifies scanner rows already listed in the public inventory.
	Marker string

	// ProxyAddress routes downloads through a SOCKS5 proxy ("host:port").
	ProxyAddress string

	// Timeout bounds each download.
	Timeout time.Duration

	// MaxBodySize limits each download in bytes. Zero disables the limit.
	MaxBodySize int64

	// Parallelism is how many flows may run at the same time.
	Parallelism int

	// APIKey is sent as X-Api-Key to the site-scanning API. Read from EnvAPIKey.
	APIKey string

	// MarkdownSummary writes summary.md; JSONSummary writes summary.json.
	// At most one of them may be set.
	MarkdownSummary bool
	JSONSummary     bool

	// SaveHistory stores the run in the history database under DBDir.
	SaveHistory bool
	DBDir       string

	// Verbose enables debug logging; LogJSON switches logs to JSON.
	Verbose bool
	LogJSON bool

	// ConfigFilePath is the explicit config file, if any.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		InventoryMapPath:    DefaultInventoryMapPath,
		PublicInventoryPath: DefaultPublicInventoryPath,
		SnapshotDir:         DefaultSnapshotDir,
		ReportDir:           DefaultReportDir,
		FederalURL:          DefaultFederalURL,
		ScannerURL:          DefaultScannerURL,
		Marker:              DefaultMarker,
		Timeout:             DefaultTimeout,
		MaxBodySize:         DefaultMaxBodySize,
		Parallelism:         DefaultParallelism,
		SaveHistory:         true,
		DBDir:               XDGDataDir(),
	}
}

// XDGDataDir returns the data directory holding the history database.
// On Linux: ~/.local/share/inventoryaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory searched for the config file.
// On Linux: ~/.config/inventoryaudit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.InventoryMapPath == "" {
		return ErrNoInventoryMap
	}
	if c.PublicInventoryPath == "" {
		return ErrNoPublicInventory
	}
	if c.ReportDir == "" {
		return ErrNoReportDir
	}
	if !isHTTPURL(c.FederalURL) || !isHTTPURL(c.ScannerURL) {
		return ErrInvalidSourceURL
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Parallelism < 1 || c.Parallelism > MaxParallelism {
		return ErrInvalidParallelism
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MarkdownSummary && c.JSONSummary {
		return ErrConflictingSummaryFormats
	}
	if c.SaveHistory && c.DBDir == "" {
		return ErrNoDBDir
	}
	return nil
}

// ReportPath returns the path of a report file inside ReportDir.
func (c *Config) ReportPath(name string) string {
	return filepath.Join(c.ReportDir, name)
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
