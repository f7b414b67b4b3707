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

	"github.com/epubtools/epubscan/internal/model"
)

// dbFileName is the name of the SQLite database file inside the data dir.
const dbFileName = "epubscan.db"

// ScanDB provides SQLite-based storage for scan outcomes.
// It manages connection pooling and provides methods for saving and
// listing scan history.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ScanRecord is one row of scan history.
type ScanRecord struct {
	// ID is the database identifier of the scan.
	ID int64 `json:"id"`

	// Directory is the directory that was scanned.
	Directory string `json:"directory"`

	// ScannedAt is when the scan started.
	ScannedAt time.Time `json:"scanned_at"`

	// Total is the number of archives checked.
	Total int `json:"total"`

	// Valid is the number of archives that passed validation.
	Valid int `json:"valid"`

	// Broken is the number of archives that failed validation.
	Broken int `json:"broken"`

	// IsolationDir is where broken archives were moved, if isolation ran.
	IsolationDir string `json:"isolation_dir,omitempty"`
}

// Open opens or creates a ScanDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
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

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY churn for this write-light workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// Path returns the path of the database file.
func (sdb *ScanDB) Path() string {
	return sdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
//
// Design decision: per-archive results are stored as a JSON column rather
// than normalized rows. History queries only ever need the summary columns
// or the complete result set of one scan; a findings table would add joins
// without a query that wants them.
func (sdb *ScanDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		directory TEXT NOT NULL,
		scanned_at DATETIME NOT NULL,
		total INTEGER NOT NULL,
		valid INTEGER NOT NULL,
		broken INTEGER NOT NULL,
		isolation_dir TEXT NOT NULL DEFAULT '',
		results TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_directory ON scans(directory);
	CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans(scanned_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScanOutcome stores a completed scan outcome as one history record.
func (sdb *ScanDB) SaveScanOutcome(ctx context.Context, outcome *model.ScanOutcome) error {
	results, err := json.Marshal(outcome.Results)
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}

	_, err = sdb.db.ExecContext(ctx, `
		INSERT INTO scans (directory, scanned_at, total, valid, broken, isolation_dir, results)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		outcome.Directory,
		outcome.DateScanned.UTC(),
		outcome.Total(),
		outcome.ValidCount(),
		outcome.BrokenCount(),
		outcome.IsolationDir,
		string(results),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan outcome: %w", err)
	}
	return nil
}

// ListScans returns up to limit scan records, newest first.
// A limit of 0 or less returns all records.
func (sdb *ScanDB) ListScans(ctx context.Context, limit int) ([]ScanRecord, error) {
	query := `
		SELECT id, directory, scanned_at, total, valid, broken, isolation_dir
		FROM scans
		ORDER BY scanned_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	records := make([]ScanRecord, 0)
	for rows.Next() {
		var rec ScanRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Directory,
			&rec.ScannedAt,
			&rec.Total,
			&rec.Valid,
			&rec.Broken,
			&rec.IsolationDir,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetScanResults returns the stored per-archive results of one scan.
func (sdb *ScanDB) GetScanResults(ctx context.Context, id int64) ([]*model.ValidationResult, error) {
	var raw string
	err := sdb.db.QueryRowContext(ctx,
		"SELECT results FROM scans WHERE id = ?", id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scan %d: %w", id, err)
	}

	var results []*model.ValidationResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, fmt.Errorf("failed to decode results of scan %d: %w", id, err)
	}
	return results, nil
}
