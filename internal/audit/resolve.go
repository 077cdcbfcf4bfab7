package audit

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nao1215/inventoryaudit/internal/model"
)

const (
	// DefaultSnapshotDir is where agency snapshots are kept, relative to the repository.
	DefaultSnapshotDir = "snapshots"

	// DateLayout formats last_updated_date as MM-DD-YY.
	DateLayout = "01-02-06"
)

// DateSource returns the last modification time of a path.
// vcs.Git implements it.
type DateSource interface {
	LastModified(ctx context.Context, path string) (time.Time, error)
}

// Resolver completes the aggregated statistics of the agencies listed in
// the inventory map.
type Resolver struct {
	dates       DateSource
	snapshotDir string
	logger      *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSnapshotDir sets the directory holding "<token>.csv" snapshots.
func WithSnapshotDir(dir string) ResolverOption {
	return func(r *Resolver) {
		r.snapshotDir = dir
	}
}

// WithResolverLogger sets the logger for failed date lookups.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a Resolver. A nil dates leaves every date empty.
func NewResolver(dates DateSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		dates:       dates,
		snapshotDir: DefaultSnapshotDir,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SnapshotPath returns the snapshot file for an inventory URL.
func (r *Resolver) SnapshotPath(inventoryURL string) string {
	return filepath.Join(r.snapshotDir, DomainToken(inventoryURL)+".csv")
}

// Resolve returns one stats row per inventory map entry that has
// aggregated statistics, in inventory map order.
//
// Agencies missing from the inventory map produce no row. A failed date
// lookup is logged and leaves LastUpdatedDate empty; only a cancelled
// context stops the resolution.
func (r *Resolver) Resolve(ctx context.Context, agg *Aggregator, inv *model.InventoryMap) ([]model.InventoryStats, error) {
	var out []model.InventoryStats

	for _, entry := range inv.Entries() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if _, ok := agg.Stats(entry.Agency); !ok {
			continue
		}

		date := r.lastUpdated(ctx, entry)
		s := agg.Upsert(entry.Agency, func(s model.InventoryStats) model.InventoryStats {
			s.DuplicateWebsites = agg.DuplicateCount(s)
			s.WebsiteInventory = entry.WebsiteInventory
			s.LastUpdatedDate = date
			return s
		})
		out = append(out, s)
	}
	return out, nil
}

func (r *Resolver) lastUpdated(ctx context.Context, entry model.InventoryMapEntry) string {
	if r.dates == nil {
		return ""
	}
	path := r.SnapshotPath(entry.WebsiteInventory)
	t, err := r.dates.LastModified(ctx, path)
	if err != nil {
		r.logger.Warn("failed to look up snapshot date",
			"agency", entry.Agency,
			"path", path,
			"error", err,
		)
		return ""
	}
	return t.Format(DateLayout)
}
