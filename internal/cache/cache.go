// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/cache/cache.go
// Summary: SQLite cache of fetched sources.
//
// Remote sources (URLs and submissions) are kept so they can be shown again
// when the network is unavailable. A trigram FTS5 table over the content
// supports substring search across everything cached.

package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framegrace/texelcode/internal/logging"

	_ "modernc.org/sqlite"
)

// ErrMiss is returned by Get when nothing is cached under a key.
var ErrMiss = errors.New("cache: miss")

// Entry is one cached source.
type Entry struct {
	Key       string
	Name      string
	Language  string
	Content   string
	FetchedAt time.Time
}

// Increment when the schema changes; older databases are rebuilt.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS sources (
    key TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    language TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    fetched_at INTEGER NOT NULL        -- UnixNano
);

CREATE INDEX IF NOT EXISTS idx_sources_fetched ON sources(fetched_at);

CREATE VIRTUAL TABLE IF NOT EXISTS sources_fts USING fts5(
    content,
    content='sources',
    content_rowid='rowid',
    tokenize='trigram'
);

CREATE TRIGGER IF NOT EXISTS sources_ai AFTER INSERT ON sources BEGIN
    INSERT INTO sources_fts(rowid, content) VALUES (new.rowid, new.content);
END;

CREATE TRIGGER IF NOT EXISTS sources_au AFTER UPDATE ON sources BEGIN
    INSERT INTO sources_fts(sources_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
    INSERT INTO sources_fts(rowid, content) VALUES (new.rowid, new.content);
END;

CREATE TRIGGER IF NOT EXISTS sources_ad AFTER DELETE ON sources BEGIN
    INSERT INTO sources_fts(sources_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
END;
`

// Cache is a SQLite-backed source cache.
type Cache struct {
	db     *sql.DB
	logger *log.Logger
	mu     sync.Mutex
	closed bool
}

// DefaultPath returns the cache database location under the user cache dir.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "texelcode", "sources.db"), nil
}

// Open opens or creates the database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(2000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c := &Cache{db: db, logger: logging.Default().With(logging.FieldComponent, "cache")}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// migrate drops and recreates the tables when the stored version differs.
func (c *Cache) migrate() error {
	if _, err := c.db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	var current int
	if err := c.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&current); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current != 0 && current != schemaVersion {
		c.logger.Info("Cache: schema changed, dropping cached sources", "from", current, "to", schemaVersion)
		for _, stmt := range []string{
			"DROP TRIGGER IF EXISTS sources_ai",
			"DROP TRIGGER IF EXISTS sources_au",
			"DROP TRIGGER IF EXISTS sources_ad",
			"DROP TABLE IF EXISTS sources_fts",
			"DROP TABLE IF EXISTS sources",
			"DELETE FROM schema_version",
		} {
			if _, err := c.db.Exec(stmt); err != nil {
				return fmt.Errorf("migration failed on '%s': %w", stmt, err)
			}
		}
	}
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := c.db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return nil
}

// Get returns the entry stored under key, or ErrMiss.
func (c *Cache) Get(key string) (*Entry, error) {
	var (
		e       Entry
		fetched int64
	)
	err := c.db.QueryRow(
		"SELECT key, name, language, content, fetched_at FROM sources WHERE key = ?", key,
	).Scan(&e.Key, &e.Name, &e.Language, &e.Content, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	e.FetchedAt = time.Unix(0, fetched)
	return &e, nil
}

// Put stores e, replacing any entry with the same key. A zero FetchedAt is
// set to now.
func (c *Cache) Put(e Entry) error {
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now()
	}
	_, err := c.db.Exec(`
		INSERT INTO sources (key, name, language, content, fetched_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			language = excluded.language,
			content = excluded.content,
			fetched_at = excluded.fetched_at`,
		e.Key, e.Name, e.Language, e.Content, e.FetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("cache put %s: %w", e.Key, err)
	}
	return nil
}

// Prune removes entries fetched before cutoff and returns how many went.
func (c *Cache) Prune(cutoff time.Time) (int64, error) {
	res, err := c.db.Exec("DELETE FROM sources WHERE fetched_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		c.logger.Debug("Cache: pruned", "entries", n)
	}
	return n, nil
}

// Search returns entries whose content contains query, newest first.
// Queries shorter than three characters, which the trigram index cannot
// serve, fall back to a LIKE scan.
func (c *Cache) Search(query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	var (
		rows *sql.Rows
		err  error
	)
	if query == "" {
		rows, err = c.db.Query(
			"SELECT key, name, language, fetched_at FROM sources ORDER BY fetched_at DESC LIMIT ?", limit)
	} else if len([]rune(query)) < 3 {
		rows, err = c.db.Query(
			"SELECT key, name, language, fetched_at FROM sources WHERE instr(content, ?) > 0 ORDER BY fetched_at DESC LIMIT ?",
			query, limit)
	} else {
		rows, err = c.db.Query(`
			SELECT s.key, s.name, s.language, s.fetched_at
			FROM sources_fts f JOIN sources s ON s.rowid = f.rowid
			WHERE sources_fts MATCH ?
			ORDER BY s.fetched_at DESC LIMIT ?`, quoteFTS(query), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("cache search: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			fetched int64
		)
		if err := rows.Scan(&e.Key, &e.Name, &e.Language, &fetched); err != nil {
			return nil, fmt.Errorf("cache search: %w", err)
		}
		e.FetchedAt = time.Unix(0, fetched)
		out = append(out, e)
	}
	return out, rows.Err()
}

// quoteFTS turns query into a single FTS5 phrase.
func quoteFTS(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}

// Close closes the database. It is safe to call more than once.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}
