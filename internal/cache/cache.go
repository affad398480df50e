// Package cache provides a small SQLite-backed TTL cache for fetched
// weather bundles, keyed on rounded coordinates and unit system.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path. ":memory:" gives
// an ephemeral cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS weather_cache (
		lat        REAL NOT NULL,
		lon        REAL NOT NULL,
		unit       TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		PRIMARY KEY (lat, lon, unit)
	)`)
	return err
}

// RoundCoord rounds a coordinate to 2 decimal places (about 1.1 km), so
// nearby lookups share a cache entry.
func RoundCoord(v float64) float64 {
	const precision = 100.0
	return math.Round(v*precision) / precision
}

// Get returns the cached payload for the coordinate/unit key, if a
// non-expired entry exists.
func (c *Cache) Get(lat, lon float64, unit string) (string, bool, error) {
	row := c.db.QueryRow(
		`SELECT data FROM weather_cache WHERE lat = ? AND lon = ? AND unit = ? AND expires_at > ?`,
		RoundCoord(lat), RoundCoord(lon), unit, time.Now().UTC(),
	)

	var data string
	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache: %w", err)
	}
	return data, true, nil
}

// Set stores a payload under the coordinate/unit key with the given TTL,
// replacing any previous entry.
func (c *Cache) Set(lat, lon float64, unit, data string, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO weather_cache (lat, lon, unit, data, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?)`,
		RoundCoord(lat), RoundCoord(lon), unit, data, now, now.Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
