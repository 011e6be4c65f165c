// Package postgres provides a PostgreSQL implementation of localstore.Store
// for deployments where storefront state is kept server-side rather than on
// the device.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store implements localstore.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a store over an already opened and migrated database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get retrieves the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := psq.Select("value").
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
	query, args, err := psq.Insert("entries").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
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
	query, args, err := psq.Delete("entries").
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
