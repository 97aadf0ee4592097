// Package store persists site content in SQLite or PostgreSQL and serves
// the read queries of the sitemap engine.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/eringen/pubsitemap/sitemap"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store wraps a SQL database holding items, terms and their flags.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open opens a store for driver "sqlite" (dsn is a file path) or
// "postgres" (dsn is a connection string).
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLite(dsn)
	case "postgres", "postgresql":
		return NewPostgres(dsn)
	}
	return nil, fmt.Errorf("store: unknown driver %q", driver)
}

// NewSQLite opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewSQLite(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets sitemap reads run alongside admin writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, dialect: dialectSQLite}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgres connects to PostgreSQL and runs schema migrations.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	s := &Store{db: db, dialect: dialectPostgres}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Capabilities reports that host and flag predicates run in SQL.
func (s *Store) Capabilities() sitemap.Capability {
	return sitemap.CapHostFilter | sitemap.CapFlagFilter
}

func (s *Store) ensureSchema() error {
	id := "INTEGER PRIMARY KEY"
	if s.dialect == dialectPostgres {
		id = "BIGSERIAL PRIMARY KEY"
	}
	queries := []string{
		`CREATE TABLE IF NOT EXISTS items (
    id ` + id + `,
    type TEXT NOT NULL,
    status TEXT NOT NULL,
    parent_id BIGINT NOT NULL DEFAULT 0,
    slug TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    permalink TEXT NOT NULL DEFAULT '',
    permalink_host TEXT NOT NULL DEFAULT '',
    mime_type TEXT NOT NULL DEFAULT '',
    file_url TEXT NOT NULL DEFAULT '',
    published_at BIGINT NOT NULL,
    modified_at BIGINT NOT NULL
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_items_type_slug ON items(type, slug)`,
		`CREATE INDEX IF NOT EXISTS idx_items_listing ON items(type, status, published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id)`,
		`CREATE TABLE IF NOT EXISTS item_flags (
    item_id BIGINT NOT NULL,
    flag TEXT NOT NULL,
    PRIMARY KEY (item_id, flag)
)`,
		`CREATE TABLE IF NOT EXISTS terms (
    id ` + id + `,
    taxonomy TEXT NOT NULL,
    slug TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    noindex INTEGER NOT NULL DEFAULT 0,
    UNIQUE (taxonomy, slug)
)`,
		`CREATE TABLE IF NOT EXISTS term_items (
    term_id BIGINT NOT NULL,
    item_id BIGINT NOT NULL,
    PRIMARY KEY (term_id, item_id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_term_items_item ON term_items(item_id)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL. Queries never carry
// a literal question mark.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// inStrings renders "col IN (...)" or "col = ANY(?)" for a bound list.
func (s *Store) inStrings(col string, vals []string) (string, []interface{}) {
	if s.dialect == dialectPostgres {
		return col + " = ANY(?)", []interface{}{pq.Array(vals)}
	}
	args := make([]interface{}, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	return col + " IN (" + placeholders(len(vals)) + ")", args
}

func (s *Store) inInts(col string, vals []int64) (string, []interface{}) {
	if s.dialect == dialectPostgres {
		return col + " = ANY(?)", []interface{}{pq.Array(vals)}
	}
	args := make([]interface{}, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	return col + " IN (" + placeholders(len(vals)) + ")", args
}

func placeholders(n int) string {
	if n <= 0 {
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func (s *Store) yearMonth(col string) (string, string) {
	if s.dialect == dialectPostgres {
		ts := "(to_timestamp(" + col + ") AT TIME ZONE 'UTC')"
		return "CAST(EXTRACT(YEAR FROM " + ts + ") AS INTEGER)",
			"CAST(EXTRACT(MONTH FROM " + ts + ") AS INTEGER)"
	}
	return "CAST(strftime('%Y', " + col + ", 'unixepoch') AS INTEGER)",
		"CAST(strftime('%m', " + col + ", 'unixepoch') AS INTEGER)"
}

func (s *Store) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}
