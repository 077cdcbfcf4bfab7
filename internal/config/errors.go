package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoInventoryMap is returned when the inventory map path is empty.
	ErrNoInventoryMap = errors.New("no inventory map specified: use --inventory-map")

	// ErrNoPublicInventory is returned when the public inventory path is empty.
	ErrNoPublicInventory = errors.New("no public inventory specified: use --public-inventory")

	// ErrNoReportDir is returned when the report directory is empty.
	ErrNoReportDir = errors.New("no report directory specified: use --output")

	// ErrInvalidSourceURL is returned when a registry URL is not an absolute http(s) URL.
	ErrInvalidSourceURL = errors.New("invalid source url: must be an absolute http or https url")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidParallelism is returned when parallelism is outside 1..2.
	ErrInvalidParallelism = errors.New("invalid parallelism: must be 1 or 2")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingSummaryFormats is returned when both --json and --markdown are set.
	ErrConflictingSummaryFormats = errors.New("conflicting summary formats: --json and --markdown cannot be used together")

	// ErrNoDBDir is returned when history is enabled without a database directory.
	ErrNoDBDir = errors.New("no history database directory: set db_dir or use --no-history")

	// ErrInvalidConfigFile is returned when the config file fails validation.
	ErrInvalidConfigFile = errors.New("invalid configuration file")
)
