package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ssdetect/ssdetect/internal/model"
)

// DB provides SQLite-based storage for run summaries.
// It manages connection pooling and provides methods for saving and
// listing past runs.
//
// Design decision: We use a single database file for all runs rather
// than one file per scanned directory. This keeps cross-run queries
// simple and makes backup a single-file copy.
type DB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a history database in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dbDir, "ssdetect.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple connections add nothing
	// for this workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &DB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *DB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *DB) createTables() error {
	schema := `
	-- Runs store one row per classification run. The counters are
	-- denormalized for filtering and aggregation; summary_json holds the
	-- complete summary.
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_dir TEXT NOT NULL,
		mode TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		total INTEGER NOT NULL,
		screenshots INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root_dir);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Record is one stored run.
type Record struct {
	// ID is the unique identifier of the run in the database.
	ID int64 `json:"id"`

	// RecordedAt is when the run was saved.
	RecordedAt time.Time `json:"recorded_at"`

	// Summary is the complete run summary.
	Summary model.RunSummary `json:"summary"`
}

// SaveRun appends a run summary to the history.
func (h *DB) SaveRun(ctx context.Context, sum *model.RunSummary) (int64, error) {
	summaryJSON, err := json.Marshal(sum)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO runs (root_dir, mode, total, screenshots, summary_json)
	VALUES (?, ?, ?, ?, ?)
	`

	result, err := h.db.ExecContext(ctx, query,
		sum.RootDir,
		sum.Mode,
		sum.Total,
		sum.Screenshots,
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return result.LastInsertId()
}

// Filter restricts which runs ListRuns returns.
type Filter struct {
	// RootDir limits results to runs over this directory. Empty matches all.
	RootDir string

	// Limit caps the number of returned runs, newest first. Zero means
	// no limit.
	Limit int
}

// ListRuns returns stored runs, newest first.
func (h *DB) ListRuns(ctx context.Context, filter Filter) ([]Record, error) {
	query := `
	SELECT id, timestamp, summary_json
	FROM runs
	WHERE 1=1
	`
	args := make([]any, 0, 2)

	if filter.RootDir != "" {
		query += " AND root_dir = ?"
		args = append(args, filter.RootDir)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var timestamp string
		var summaryJSON string

		if err := rows.Scan(&rec.ID, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		rec.RecordedAt = parseTimestamp(timestamp)
		if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
			continue // Skip malformed rows
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetRun retrieves one stored run by its database ID.
// It returns nil without an error when the ID does not exist.
func (h *DB) GetRun(ctx context.Context, id int64) (*Record, error) {
	query := `
	SELECT id, timestamp, summary_json
	FROM runs
	WHERE id = ?
	`

	var rec Record
	var timestamp string
	var summaryJSON string

	err := h.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &timestamp, &summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rec.RecordedAt = parseTimestamp(timestamp)
	if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	return &rec, nil
}

// Totals aggregates the stored runs.
type Totals struct {
	// Runs is the number of stored runs.
	Runs int

	// Images is the number of images processed across all runs.
	Images int

	// Screenshots is the number of screenshots detected across all runs.
	Screenshots int
}

// Totals aggregates stored runs, optionally restricted to one directory.
// The aggregation runs in SQL over the denormalized counter columns, so
// it never parses the stored summaries.
func (h *DB) Totals(ctx context.Context, rootDir string) (Totals, error) {
	query := `
	SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(screenshots), 0)
	FROM runs
	`
	args := make([]any, 0, 1)

	if rootDir != "" {
		query += " WHERE root_dir = ?"
		args = append(args, rootDir)
	}

	var totals Totals
	err := h.db.QueryRowContext(ctx, query, args...).Scan(&totals.Runs, &totals.Images, &totals.Screenshots)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to aggregate runs: %w", err)
	}

	return totals, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
