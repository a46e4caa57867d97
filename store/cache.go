// Package store persists HTTP response bodies across runs in a SQLite file,
// so re-archiving a user only fetches items not seen before.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is a read-through HTTP response cache keyed by request URL.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the response cache at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("response cache ready", "path", path)
	return &Cache{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS responses (
			url        TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_responses_created ON responses(created_at);
	`)
	return err
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for url. The second return reports presence.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	var body []byte
	err := c.db.QueryRowContext(ctx, `SELECT body FROM responses WHERE url = ?`, url).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Put stores a freshly fetched body for url, replacing any prior entry.
func (c *Cache) Put(ctx context.Context, url string, body []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO responses (url, body, created_at) VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET body=excluded.body, created_at=excluded.created_at`,
		url, body, time.Now().Unix())
	return err
}

// RemoveOlderThan deletes entries created before t and returns the count deleted.
func (c *Cache) RemoveOlderThan(ctx context.Context, t time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE created_at < ?`, t.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RemoveNewerThan deletes entries created after t and returns the count deleted.
// Items on HN are editable for 14 days, so recently cached copies may be stale.
func (c *Cache) RemoveNewerThan(ctx context.Context, t time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE created_at > ?`, t.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
