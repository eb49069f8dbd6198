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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/placescout/placescout/internal/model"
)

// dbFileName is the SQLite file name inside the data directory.
const dbFileName = "placescout.db"

// HistoryDB stores completed search runs and their records.
//
// Design decision: We use a single database file for all runs rather than
// one file per run. This keeps the history command a single query and makes
// backup/restore a one-file operation.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
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

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned instead of silently creating an empty history.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
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
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
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
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per completed search run
	CREATE TABLE IF NOT EXISTS searches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		specialty TEXT,
		places TEXT,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		total_records INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_searches_started ON searches(started_at);

	-- One row per collected record, keyed to its run
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		search_id INTEGER NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		address TEXT,
		phone TEXT,
		website TEXT,
		tags TEXT,
		rating TEXT,
		user_ratings_total TEXT,
		price_level TEXT,
		open_now TEXT,
		captured_at TEXT,
		location TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_records_search ON records(search_id);
	CREATE INDEX IF NOT EXISTS idx_records_location ON records(location);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SearchRun is the stored metadata of one run.
type SearchRun struct {
	// ID is the run's database identifier.
	ID int64

	// Query is the full search text, or the specialty for multi-place runs.
	Query string

	// Specialty is the category term, empty for free-text runs.
	Specialty string

	// Places is the ordered place list of the run.
	Places []string

	// StartedAt is when the run began.
	StartedAt time.Time

	// TotalRecords is the number of records the run collected.
	TotalRecords int
}

// SaveSearch stores one completed run with all its records.
// The insert is transactional: a failure leaves no half-saved run behind.
func (hdb *HistoryDB) SaveSearch(ctx context.Context, run SearchRun, results *model.ResultSet) (int64, error) {
	placesJSON, err := json.Marshal(run.Places)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize place list: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO searches (query, specialty, places, started_at, total_records)
	VALUES (?, ?, ?, ?, ?)
	`,
		run.Query,
		run.Specialty,
		string(placesJSON),
		run.StartedAt.UTC().Format(time.RFC3339),
		results.Len(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert search: %w", err)
	}

	searchID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read search id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO records (search_id, name, address, phone, website, tags,
		rating, user_ratings_total, price_level, open_now, captured_at, location)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // read-side close

	for _, r := range results.Records {
		if _, err := stmt.ExecContext(ctx,
			searchID,
			r.Name,
			r.Address,
			r.Phone,
			r.Website,
			r.Tags,
			r.Rating,
			r.UserRatingsTotal,
			r.PriceLevel,
			r.OpenNow,
			r.CapturedAt,
			r.Location,
		); err != nil {
			return 0, fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit search: %w", err)
	}
	return searchID, nil
}

// ListSearches returns the most recent runs, newest first.
// A limit of 0 returns everything.
func (hdb *HistoryDB) ListSearches(ctx context.Context, limit int) ([]SearchRun, error) {
	query := `
	SELECT id, query, specialty, places, started_at, total_records
	FROM searches
	ORDER BY started_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var runs []SearchRun
	for rows.Next() {
		var run SearchRun
		var placesJSON sql.NullString
		var startedAt string

		if err := rows.Scan(&run.ID, &run.Query, &run.Specialty, &placesJSON, &startedAt, &run.TotalRecords); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}

		run.StartedAt = parseTimestamp(startedAt)
		if placesJSON.Valid && placesJSON.String != "" {
			if err := json.Unmarshal([]byte(placesJSON.String), &run.Places); err != nil {
				run.Places = nil
			}
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// RecordsBySearch returns every record of one run, in collection order.
// An unknown id yields an empty slice, not an error.
func (hdb *HistoryDB) RecordsBySearch(ctx context.Context, searchID int64) ([]model.PlaceRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT name, address, phone, website, tags, rating,
		user_ratings_total, price_level, open_now, captured_at, location
	FROM records
	WHERE search_id = ?
	ORDER BY id
	`, searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []model.PlaceRecord
	for rows.Next() {
		var r model.PlaceRecord
		if err := rows.Scan(
			&r.Name,
			&r.Address,
			&r.Phone,
			&r.Website,
			&r.Tags,
			&r.Rating,
			&r.UserRatingsTotal,
			&r.PriceLevel,
			&r.OpenNow,
			&r.CapturedAt,
			&r.Location,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// ErrEmptyHistory is returned when the history store has no runs.
var ErrEmptyHistory = errors.New("database: no search runs recorded yet")

// LatestSearch returns the most recent run.
func (hdb *HistoryDB) LatestSearch(ctx context.Context) (*SearchRun, error) {
	runs, err := hdb.ListSearches(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrEmptyHistory
	}
	return &runs[0], nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
