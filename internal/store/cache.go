// Package store provides a SQLite-backed cache of parsed meter readings.
// The cache is disposable; deleting the database only costs a re-parse.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/powerlytics/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dateLayout = "2006-01-02"

// Cache provides SQLite-backed reading caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked state of a parsed file.
type FileInfo struct {
	MtimeNs    int64
	SizeBytes  int64
	OptionsKey string // parse options the cached readings were produced with
	Dropped    int
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes, options_key, dropped_rows FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes, &fi.OptionsKey, &fi.Dropped); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveReadings replaces the cached readings of one file along with its
// tracking info.
func (c *Cache) SaveReadings(path string, info FileInfo, readings []model.Reading) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Cascades to readings.
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO file_tracker
		(file_path, mtime_ns, size_bytes, options_key, dropped_rows, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		path, info.MtimeNs, info.SizeBytes, info.OptionsKey, info.Dropped, now,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO readings
		(file_path, seq, reading_date, clock_secs, energy_kwh)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range readings {
		if _, err := stmt.Exec(path, i, r.Date.Format(dateLayout), int(r.Time), r.EnergyKWh); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadReadings returns the cached readings of one file in their original order.
func (c *Cache) LoadReadings(path string) ([]model.Reading, error) {
	rows, err := c.db.Query(`SELECT reading_date, clock_secs, energy_kwh
		FROM readings WHERE file_path = ? ORDER BY seq`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Reading
	for rows.Next() {
		var dateStr string
		var clock int
		var r model.Reading
		if err := rows.Scan(&dateStr, &clock, &r.EnergyKWh); err != nil {
			return nil, err
		}
		d, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("cached date %q: %w", dateStr, err)
		}
		r.Date = d
		r.Time = model.Clock(clock)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Forget drops a file and its readings from the cache.
func (c *Cache) Forget(path string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", path)
	return err
}

// Clear removes every cached file.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM file_tracker")
	return err
}
