// Package cache is an ephemeral SQLite-backed store for fetched API
// responses. It exists so repeat CLI runs inside the TTL do not re-hit the
// upstream API; it holds no user data and can be deleted at any time.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultTTL is how long a cached response stays fresh.
const DefaultTTL = 15 * time.Minute

const ddl = `CREATE TABLE IF NOT EXISTS responses (
  key TEXT PRIMARY KEY,
  body BLOB NOT NULL,
  fetched_at INTEGER NOT NULL
)`

// Cache stores response bodies keyed by request URL with a freshness TTL.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// DefaultPath returns the cache database location under the user cache
// directory, or empty when no cache directory is available.
func DefaultPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "hifive", "responses.db")
}

// Open opens (creating if needed) the cache database at path.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if path == "" {
		return nil, errors.New("cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for key if it exists and is still fresh.
func (c *Cache) Get(key string) ([]byte, bool) {
	var body []byte
	var fetchedAt int64

	err := c.db.QueryRow(
		"SELECT body, fetched_at FROM responses WHERE key = ?", key,
	).Scan(&body, &fetchedAt)
	if err != nil {
		return nil, false
	}

	if c.now().Unix()-fetchedAt > int64(c.ttl.Seconds()) {
		// Stale; evict lazily.
		c.db.Exec("DELETE FROM responses WHERE key = ?", key)
		return nil, false
	}
	return body, true
}

// Set stores a response body for key, replacing any previous entry.
func (c *Cache) Set(key string, value []byte) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO responses (key, body, fetched_at) VALUES (?, ?, ?)",
		key, value, c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge removes every entry, fresh or stale.
func (c *Cache) Purge() error {
	if _, err := c.db.Exec("DELETE FROM responses"); err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	return nil
}
