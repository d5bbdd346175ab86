// Package sqlite holds the embedded SQLite store: the shared handle,
// transaction management, schema migrations and the query helpers used by
// the per-entity repositories in its subpackages.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/ecoscan/wastecal/internal/config"
)

const driverName = "sqlite"

var errHandleClosed = errors.New("sqlite handle closed before open")

// Builder is the statement builder shared by all repositories.
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Open opens the SQLite database at cfg.Path and pings it. Every connection
// enables foreign keys and WAL, and transactions take the write lock up front.
// The pool is capped at a single connection so all statements serialize in
// submission order.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", cfg.Path, err)
	}

	return db, nil
}

func dsn(cfg config.DatabaseConfig) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	params.Set("_txlock", "exclusive")

	path := cfg.Path
	if path == ":memory:" {
		return path + "?" + params.Encode()
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + "?" + params.Encode()
}

// Handle lazily opens the database exactly once, no matter how many
// goroutines ask for it first. Construct one per process and inject it.
type Handle struct {
	cfg config.DatabaseConfig
	log *slog.Logger

	once sync.Once
	db   *sql.DB
	err  error
}

// NewHandle creates a Handle. Nothing is opened until DB is called.
func NewHandle(cfg config.DatabaseConfig, log *slog.Logger) *Handle {
	return &Handle{cfg: cfg, log: log}
}

// DB returns the shared *sql.DB, opening it on the first call. A failed
// open is remembered and returned to every later caller, so the open
// ignores the cancellation of whichever caller happens to be first.
func (h *Handle) DB(ctx context.Context) (*sql.DB, error) {
	h.once.Do(func() {
		h.db, h.err = Open(context.WithoutCancel(ctx), h.cfg)
		if h.err == nil {
			h.log.Info("sqlite opened", slog.String("path", h.cfg.Path))
		}
	})
	return h.db, h.err
}

// Close closes the database if it was opened. A Handle closed before its
// first use stays unusable.
func (h *Handle) Close() error {
	h.once.Do(func() { h.err = errHandleClosed })
	if h.db == nil {
		return nil
	}
	return h.db.Close()
}
