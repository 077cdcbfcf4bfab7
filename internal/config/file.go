package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// File is the structure of the .inventoryaudit configuration file.
// Every field is optional; empty values keep the defaults.
type File struct {
	// Inputs locates the local CSV sources.
	Inputs Inputs `yaml:"inputs,omitempty"`

	// Sources overrides the remote registry URLs.
	Sources Sources `yaml:"sources,omitempty"`

	// Fetch tunes downloads.
	Fetch Fetch `yaml:"fetch,omitempty"`

	// Output is the report directory.
	Output string `yaml:"output,omitempty"`

	// Marker overrides the source_list token of inventoried sites.
	Marker string `yaml:"marker,omitempty"`

	// Parallel is the number of flows run at the same time.
	Parallel int `yaml:"parallel,omitempty" validate:"omitempty,min=1,max=2"`

	// History controls the run history database.
	History History `yaml:"history,omitempty"`
}

// Inputs locates the local sources.
type Inputs struct {
	InventoryMap    string `yaml:"inventory_map,omitempty"`
	PublicInventory string `yaml:"public_inventory,omitempty"`
	Snapshots       string `yaml:"snapshots,omitempty"`
	Repo            string `yaml:"repo,omitempty" validate:"omitempty,dir"`
}

// Sources holds the remote registry URLs.
type Sources struct {
	Federal string `yaml:"federal,omitempty" validate:"omitempty,http_url"`
	Scanner string `yaml:"scanner,omitempty" validate:"omitempty,http_url"`
}

// Fetch tunes downloads.
type Fetch struct {
	// Proxy is a SOCKS5 proxy address, "host:port".
	Proxy string `yaml:"proxy,omitempty" validate:"omitempty,hostname_port"`

	// Timeout is parsed with time.ParseDuration, e.g. "90s".
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`

	// MaxBodySize is in bytes.
	MaxBodySize int64 `yaml:"max_body_size,omitempty" validate:"gte=0"`
}

// History controls the run history database.
type History struct {
	// Disabled turns history off, like --no-history.
	Disabled bool `yaml:"disabled,omitempty"`

	// Dir overrides the database directory.
	Dir string `yaml:"dir,omitempty"`
}

// Validate checks the struct tags of the file.
// The returned error wraps ErrInvalidConfigFile and names the offending fields.
func (f *File) Validate() error {
	err := validator.New().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed on %q", ErrInvalidConfigFile, fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
}

// Apply copies the non-empty values of f onto c.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	setString(&c.InventoryMapPath, f.Inputs.InventoryMap)
	setString(&c.PublicInventoryPath, f.Inputs.PublicInventory)
	setString(&c.SnapshotDir, f.Inputs.Snapshots)
	setString(&c.RepoDir, f.Inputs.Repo)
	setString(&c.FederalURL, f.Sources.Federal)
	setString(&c.ScannerURL, f.Sources.Scanner)
	setString(&c.ProxyAddress, f.Fetch.Proxy)
	setString(&c.ReportDir, f.Output)
	setString(&c.Marker, f.Marker)
	setString(&c.DBDir, f.History.Dir)

	if f.Fetch.Timeout > 0 {
		c.Timeout = f.Fetch.Timeout
	}
	if f.Fetch.MaxBodySize > 0 {
		c.MaxBodySize = f.Fetch.MaxBodySize
	}
	if f.Parallel > 0 {
		c.Parallelism = f.Parallel
	}
	if f.History.Disabled {
		c.SaveHistory = false
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
