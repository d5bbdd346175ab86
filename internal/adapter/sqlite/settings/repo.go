// Package settings implements the key/value settings repository on SQLite.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ecoscan/wastecal/internal/adapter/sqlite"
)

// Repo provides settings persistence backed by SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a new settings repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Get returns the stored value for key. A missing key and a stored NULL
// both yield nil without error.
func (r *Repo) Get(ctx context.Context, key string) (*string, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Select("value").From("settings").Where(squirrel.Eq{"key": key})

	value, err := sqlite.GetFirst(ctx, q, b, func(s sqlite.Scanner) (sql.NullString, error) {
		var v sql.NullString
		err := s.Scan(&v)
		return v, err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting %s: %w", key, err)
	}

	return sqlite.StringPtr(value), nil
}

// Set stores value under key, replacing any previous value. A nil value is
// stored as NULL.
func (r *Repo) Set(ctx context.Context, key string, value *string) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Insert("settings").
		Columns("key", "value").
		Values(key, sqlite.StringArg(value)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value")

	if _, err := sqlite.Run(ctx, q, b); err != nil {
		return sqlite.MapError(err, "setting", key)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *Repo) Delete(ctx context.Context, key string) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Delete("settings").Where(squirrel.Eq{"key": key})

	if _, err := sqlite.Run(ctx, q, b); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}
