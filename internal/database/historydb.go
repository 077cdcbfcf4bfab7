package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/inventoryaudit/internal/model"
)

// FileName is the database file created in the database directory.
const FileName = "inventoryaudit.db"

var (
	// ErrRunNotFound is returned when no run has the requested ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrNotEnoughRuns is returned when a comparison needs more stored runs.
	ErrNotEnoughRuns = errors.New("not enough runs in history")
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02 15:04:05.000000000"

// HistoryDB stores run summaries and per-agency statistics.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return h, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		failed INTEGER NOT NULL DEFAULT 0,
		agency_count INTEGER NOT NULL DEFAULT 0,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at);

	-- One row per agency of inventory_stats.csv
	CREATE TABLE IF NOT EXISTS agency_stats (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		agency TEXT NOT NULL,
		website_inventory TEXT,
		last_updated_date TEXT,
		website_count INTEGER NOT NULL,
		bureau_count INTEGER NOT NULL,
		office_count INTEGER NOT NULL,
		entries_without_bureau INTEGER NOT NULL,
		entries_without_office INTEGER NOT NULL,
		duplicate_websites INTEGER NOT NULL,
		unacceptable_urls INTEGER NOT NULL,
		PRIMARY KEY (run_id, agency)
	);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run summary with its per-agency statistics in one
// transaction.
func (h *HistoryDB) SaveRun(ctx context.Context, summary *model.RunSummary, stats []model.InventoryStats) (err error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, finished_at, failed, agency_count, summary_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		summary.ID.String(),
		formatTime(summary.StartedAt),
		formatTime(summary.FinishedAt),
		summary.Failed(),
		summary.AgencyCount,
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO agency_stats (
		run_id, position, agency, website_inventory, last_updated_date,
		website_count, bureau_count, office_count,
		entries_without_bureau, entries_without_office,
		duplicate_websites, unacceptable_urls
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare stats insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range stats {
		_, err = stmt.ExecContext(ctx,
			summary.ID.String(), i, s.Agency, s.WebsiteInventory, s.LastUpdatedDate,
			s.WebsiteCount, s.BureauCount, s.OfficeCount,
			s.EntriesWithoutBureau, s.EntriesWithoutOffice,
			s.DuplicateWebsites, s.UnacceptableURLs,
		)
		if err != nil {
			return fmt.Errorf("failed to save stats of %s: %w", s.Agency, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// RunRecord is a row of the run list, without the stored statistics.
type RunRecord struct {
	ID          uuid.UUID
	StartedAt   time.Time
	FinishedAt  time.Time
	Failed      bool
	AgencyCount int
}

// ListRuns returns stored runs, most recent first. A limit of zero or
// less returns every run.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, started_at, finished_at, failed, agency_count
	FROM runs
	ORDER BY finished_at DESC, seq DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec               RunRecord
			id                string
			started, finished string
		)
		if err := rows.Scan(&id, &started, &finished, &rec.Failed, &rec.AgencyCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.ID, err = uuid.Parse(id)
		if err != nil {
			continue // Skip rows with a malformed ID
		}
		rec.StartedAt = parseTimestamp(started)
		rec.FinishedAt = parseTimestamp(finished)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRun loads a stored run. It returns ErrRunNotFound when the ID is
// unknown.
func (h *HistoryDB) GetRun(ctx context.Context, id uuid.UUID) (*model.StoredRun, error) {
	var summaryJSON string
	err := h.db.QueryRowContext(ctx, `SELECT summary_json FROM runs WHERE id = ?`, id.String()).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run := &model.StoredRun{}
	if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	run.Stats, err = h.agencyStats(ctx, id)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (h *HistoryDB) agencyStats(ctx context.Context, id uuid.UUID) ([]model.InventoryStats, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT agency, website_inventory, last_updated_date,
		website_count, bureau_count, office_count,
		entries_without_bureau, entries_without_office,
		duplicate_websites, unacceptable_urls
	FROM agency_stats
	WHERE run_id = ?
	ORDER BY position
	`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	var stats []model.InventoryStats
	for rows.Next() {
		var (
			s         model.InventoryStats
			inventory sql.NullString
			updated   sql.NullString
		)
		err := rows.Scan(&s.Agency, &inventory, &updated,
			&s.WebsiteCount, &s.BureauCount, &s.OfficeCount,
			&s.EntriesWithoutBureau, &s.EntriesWithoutOffice,
			&s.DuplicateWebsites, &s.UnacceptableURLs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		s.WebsiteInventory = inventory.String
		s.LastUpdatedDate = updated.String
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// LatestRuns loads the two most recent runs, oldest first, ready for
// comparison. It returns ErrNotEnoughRuns when fewer than two are stored.
func (h *HistoryDB) LatestRuns(ctx context.Context) (prev, curr *model.StoredRun, err error) {
	records, err := h.ListRuns(ctx, 2)
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%w: found %d, need 2", ErrNotEnoughRuns, len(records))
	}
	if curr, err = h.GetRun(ctx, records[0].ID); err != nil {
		return nil, nil, err
	}
	if prev, err = h.GetRun(ctx, records[1].ID); err != nil {
		return nil, nil, err
	}
	return prev, curr, nil
}

// LatestRun loads the most recent run other than exclude. It returns
// ErrNotEnoughRuns when there is none.
func (h *HistoryDB) LatestRun(ctx context.Context, exclude uuid.UUID) (*model.StoredRun, error) {
	records, err := h.ListRuns(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID != exclude {
			return h.GetRun(ctx, rec.ID)
		}
	}
	return nil, ErrNotEnoughRuns
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// timestampFormats contains the timestamp formats that may be stored.
// More specific formats come first.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339Nano,
}

// parseTimestamp parses a stored timestamp as UTC, or returns the zero
// time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
