// Package store provides a SQLite-backed cache for parsed events and a
// table of saved cash-flow scenarios.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/cashcal/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a saved scenario id does not exist.
var ErrNotFound = errors.New("store: not found")

// Cache is the SQLite handle shared by the event cache and scenario store.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version < schemaVersion {
		if _, err := db.Exec(resetEventsSQL); err != nil {
			return fmt.Errorf("resetting event cache: %w", err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("writing schema version: %w", err)
	}
	return nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs     int64
	SizeBytes   int64
	ParseErrors int
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes, parse_errors FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes, &fi.ParseErrors); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFileEvents replaces everything cached for path with events and records
// the file's tracking info in one transaction.
func (c *Cache) SaveFileEvents(path string, events []model.Event, fi FileInfo) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// INSERT OR REPLACE on the tracker would cascade anyway; clear explicitly
	// so the order does not depend on that.
	if _, err := tx.Exec("DELETE FROM events WHERE file_path = ?", path); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker
		(file_path, mtime_ns, size_bytes, parse_errors, parsed_at)
		VALUES (?, ?, ?, ?, ?)`,
		path, fi.MtimeNs, fi.SizeBytes, fi.ParseErrors, now,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO events (file_path, seq, date, value, priority, vendor)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, ev := range events {
		priority := 0
		if ev.Priority {
			priority = 1
		}
		if _, err := stmt.Exec(path, i, ev.Date, ev.Value.Float(), priority, ev.Vendor); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadEvents reads every cached event, grouped by source file and kept in
// file order.
func (c *Cache) LoadEvents() (map[string][]model.Event, error) {
	rows, err := c.db.Query("SELECT file_path, date, value, priority, vendor FROM events ORDER BY file_path, seq")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string][]model.Event)
	for rows.Next() {
		var path string
		var ev model.Event
		var value float64
		var priority int
		if err := rows.Scan(&path, &ev.Date, &value, &priority, &ev.Vendor); err != nil {
			return nil, err
		}
		ev.Value = model.Amount(value)
		ev.Priority = priority != 0
		result[path] = append(result[path], ev)
	}
	return result, rows.Err()
}

// DeleteFile removes a file's tracking entry and its cached events.
func (c *Cache) DeleteFile(path string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM events WHERE file_path = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}

// EventCount returns the number of cached events.
func (c *Cache) EventCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	return count, err
}
