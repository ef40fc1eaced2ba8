// Package cache is the process-wide query cache shared by every
// component that reads the same key. Readers fill entries on fetch;
// mutation completions are the only permitted invalidators. Backing
// storage is an in-memory SQLite database, so nothing outlives the
// process.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// KeySchedules is the cache key for the paged schedules collection.
const KeySchedules = "schedules"

// KeySchedule returns the cache key for a single schedule's detail.
func KeySchedule(scheduleID string) string {
	return "schedules/" + scheduleID
}

// DefaultFreshFor is the staleness window applied when none is given.
const DefaultFreshFor = 5 * time.Minute

// Cache stores serialized query results keyed by query identity, each
// stamped with its fetch time.
type Cache struct {
	db       *sqlx.DB
	freshFor time.Duration
	now      func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithFreshFor overrides the staleness window.
func WithFreshFor(d time.Duration) Option {
	return func(c *Cache) { c.freshFor = d }
}

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New opens an in-memory cache and applies its schema.
func New(opts ...Option) (*Cache, error) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	// Every connection to ":memory:" is a distinct database, so the
	// pool must stay at a single connection.
	db.SetMaxOpenConns(1)

	c := &Cache{
		db:       db,
		freshFor: DefaultFreshFor,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running cache migrations: %w", err)
	}

	return c, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// runMigrations applies any outstanding schema migrations in order.
func (c *Cache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Get returns the cached value for key. fresh reports whether the
// entry is still inside the staleness window; ok reports whether any
// entry exists at all. A stale entry is still returned so callers can
// render it while revalidating.
func (c *Cache) Get(ctx context.Context, key string) (value []byte, fresh, ok bool, err error) {
	var row struct {
		Value     []byte    `db:"value"`
		FetchedAt time.Time `db:"fetched_at"`
	}

	err = c.db.GetContext(ctx, &row,
		"SELECT value, fetched_at FROM query_cache WHERE key = ?", key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, false, nil
	}
	if err != nil {
		return nil, false, false, fmt.Errorf("reading cache key %s: %w", key, err)
	}

	fresh = c.now().Sub(row.FetchedAt) < c.freshFor
	return row.Value, fresh, true, nil
}

// Put stores value under key, stamping it with the current time.
func (c *Cache) Put(ctx context.Context, key string, value []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO query_cache (key, value, fetched_at)
		VALUES (?, ?, ?)`,
		key, value, c.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing cache key %s: %w", key, err)
	}
	return nil
}

// Invalidate removes the entries for the given keys. Missing keys are
// not an error.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := c.db.ExecContext(ctx,
			"DELETE FROM query_cache WHERE key = ?", key,
		); err != nil {
			return fmt.Errorf("invalidating cache key %s: %w", key, err)
		}
	}
	return nil
}

// InvalidateAll clears the whole cache.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM query_cache"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// MarkStale ages the given entries out of the freshness window without
// dropping their values, so the next read revalidates but can still
// show the old data meanwhile. Used on regaining foreground focus.
func (c *Cache) MarkStale(ctx context.Context, keys ...string) error {
	ancient := c.now().Add(-2 * c.freshFor).UTC()
	for _, key := range keys {
		if _, err := c.db.ExecContext(ctx,
			"UPDATE query_cache SET fetched_at = ? WHERE key = ?", ancient, key,
		); err != nil {
			return fmt.Errorf("marking cache key %s stale: %w", key, err)
		}
	}
	return nil
}

// MarkAllStale ages every entry out of the freshness window.
func (c *Cache) MarkAllStale(ctx context.Context) error {
	ancient := c.now().Add(-2 * c.freshFor).UTC()
	if _, err := c.db.ExecContext(ctx,
		"UPDATE query_cache SET fetched_at = ?", ancient,
	); err != nil {
		return fmt.Errorf("marking cache stale: %w", err)
	}
	return nil
}
