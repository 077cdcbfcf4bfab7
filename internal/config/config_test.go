package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig documents the defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default sources", func(t *testing.T) {
		t.Parallel()
		if cfg.FederalURL != DefaultFederalURL {
			t.Errorf("expected FederalURL %q, got %q", DefaultFederalURL, cfg.FederalURL)
		}
		if !strings.HasSuffix(cfg.ScannerURL, "site-scanning-latest.csv") {
			t.Errorf("unexpected ScannerURL %q", cfg.ScannerURL)
		}
	})

	t.Run("default marker is omb_idea", func(t *testing.T) {
		t.Parallel()
		if cfg.Marker != "omb_idea" {
			t.Errorf("expected marker omb_idea, got %q", cfg.Marker)
		}
	})

	t.Run("flows run sequentially by default", func(t *testing.T) {
		t.Parallel()
		if cfg.Parallelism != 1 {
			t.Errorf("expected Parallelism 1, got %d", cfg.Parallelism)
		}
	})

	t.Run("history is on by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveHistory || cfg.DBDir == "" {
			t.Errorf("expected history enabled with a directory, got %v %q", cfg.SaveHistory, cfg.DBDir)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected default config to be valid, got %v", err)
		}
	})
}

// TestConfigValidate tests one rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"no inventory map", func(c *Config) { c.InventoryMapPath = "" }, ErrNoInventoryMap},
		{"no public inventory", func(c *Config) { c.PublicInventoryPath = "" }, ErrNoPublicInventory},
		{"no report dir", func(c *Config) { c.ReportDir = "" }, ErrNoReportDir},
		{"relative federal url", func(c *Config) { c.FederalURL = "current-federal.csv" }, ErrInvalidSourceURL},
		{"ftp scanner url", func(c *Config) { c.ScannerURL = "ftp://example.gov/x.csv" }, ErrInvalidSourceURL},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"zero parallelism", func(c *Config) { c.Parallelism = 0 }, ErrInvalidParallelism},
		{"too much parallelism", func(c *Config) { c.Parallelism = 3 }, ErrInvalidParallelism},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"both summaries", func(c *Config) { c.MarkdownSummary, c.JSONSummary = true, true }, ErrConflictingSummaryFormats},
		{"history without dir", func(c *Config) { c.DBDir = "" }, ErrNoDBDir},
		{"no history without dir", func(c *Config) { c.DBDir, c.SaveHistory = "", false }, nil},
		{"parallel two", func(c *Config) { c.Parallelism = 2 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigApply(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Apply(&File{
		Inputs:  Inputs{InventoryMap: "map.csv"},
		Sources: Sources{Scanner: "https://example.gov/scan.csv"},
		Fetch:   Fetch{Timeout: 30 * time.Second, Proxy: "127.0.0.1:1080"},
		Output:  "out",
		History: History{Disabled: true},
	})

	if cfg.InventoryMapPath != "map.csv" {
		t.Errorf("expected map.csv, got %q", cfg.InventoryMapPath)
	}
	if cfg.PublicInventoryPath != DefaultPublicInventoryPath {
		t.Errorf("expected default public inventory to be kept, got %q", cfg.PublicInventoryPath)
	}
	if cfg.ScannerURL != "https://example.gov/scan.csv" || cfg.FederalURL != DefaultFederalURL {
		t.Errorf("unexpected urls %q %q", cfg.ScannerURL, cfg.FederalURL)
	}
	if cfg.Timeout != 30*time.Second || cfg.MaxBodySize != DefaultMaxBodySize {
		t.Errorf("unexpected fetch settings %v %d", cfg.Timeout, cfg.MaxBodySize)
	}
	if cfg.ProxyAddress != "127.0.0.1:1080" || cfg.ReportDir != "out" {
		t.Errorf("unexpected proxy or output %q %q", cfg.ProxyAddress, cfg.ReportDir)
	}
	if cfg.SaveHistory {
		t.Error("expected history to be disabled")
	}

	cfg.Apply(nil)
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		path := write(t, `
inputs:
  inventory_map: data/map.csv
sources:
  federal: https://example.gov/federal.csv
fetch:
  timeout: 90s
  max_body_size: 1024
parallel: 2
`)
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Inputs.InventoryMap != "data/map.csv" {
			t.Errorf("unexpected inventory map %q", cf.Inputs.InventoryMap)
		}
		if cf.Fetch.Timeout != 90*time.Second {
			t.Errorf("expected 90s timeout, got %v", cf.Fetch.Timeout)
		}
		if cf.Parallel != 2 || cf.Fetch.MaxBodySize != 1024 {
			t.Errorf("unexpected values %d %d", cf.Parallel, cf.Fetch.MaxBodySize)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := write(t, "inputs: [unclosed")
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	invalid := map[string]string{
		"bad url":      "sources:\n  scanner: not-a-url\n",
		"bad proxy":    "fetch:\n  proxy: localhost\n",
		"bad parallel": "parallel: 5\n",
		"missing repo": "inputs:\n  repo: /definitely/not/here\n",
	}
	for name, content := range invalid {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfigFile(write(t, content))
			if !errors.Is(err, ErrInvalidConfigFile) {
				t.Errorf("expected ErrInvalidConfigFile, got %v", err)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit path missing", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
