package nominatim

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// cache persists geocode results keyed by the normalized query. A row with
// empty lat/lon records a non-match.
type cache struct {
	db *sql.DB
}

func openCache(path string) (*cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "nominatim: create cache dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: open cache")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "nominatim: exec %s", pragma)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			query        TEXT PRIMARY KEY,
			lat          TEXT,
			lon          TEXT,
			display_name TEXT
		)`); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "nominatim: migrate cache")
	}
	return &cache{db: db}, nil
}

func (c *cache) get(norm string) (*Result, bool, error) {
	var lat, lon, name string
	err := c.db.QueryRow(
		"SELECT lat, lon, display_name FROM geocode_cache WHERE query = ?", norm,
	).Scan(&lat, &lon, &name)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "nominatim: cache select")
	}
	if lat == "" && lon == "" {
		// Cached non-match.
		return nil, true, nil
	}
	return &Result{Lat: lat, Lon: lon, DisplayName: name}, true, nil
}

func (c *cache) put(norm string, res *Result) error {
	var lat, lon, name string
	if res != nil {
		lat, lon, name = res.Lat, res.Lon, res.DisplayName
	}
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO geocode_cache(query, lat, lon, display_name)
		VALUES(?, ?, ?, ?)`, norm, lat, lon, name)
	return eris.Wrap(err, "nominatim: cache insert")
}

func (c *cache) close() error {
	return c.db.Close()
}
