// Package sqlite provides an embedded SQLite implementation of
// localstore.Store. It is the durable device-local store used by default,
// playing the role the browser's localStorage played for the original
// storefront.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/atunesdelpacifico/storefront/pkg/localstore/migrate"
)

// Store implements localstore.Store backed by an SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and applies
// pending migrations. Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// modernc.org/sqlite serializes access through a single connection;
	// more than one writer connection produces SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := migrate.Run(db, migrate.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// New wraps an already opened and migrated database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get retrieves the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := sq.Select("value").
		From("entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("building query: %w", err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading entry: %w", err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any existing entry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	query, args, err := sq.Insert("entries").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')").
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return nil
}

// Remove deletes the entry under key.
func (s *Store) Remove(ctx context.Context, key string) error {
	query, args, err := sq.Delete("entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
