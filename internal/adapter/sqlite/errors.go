package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ecoscan/wastecal/internal/domain"
)

// MapError converts database/sql and SQLite errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
func MapError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %v: %w", entity, id, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
	}

	var sqlErr *moderncsqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrAlreadyExists)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrValidation)
		}

		// Connections without extended result codes only report SQLITE_CONSTRAINT.
		if sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := sqlErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return fmt.Errorf("%s %v: %w", entity, id, domain.ErrAlreadyExists)
			case strings.Contains(msg, "FOREIGN KEY"):
				return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
			case strings.Contains(msg, "NOT NULL"), strings.Contains(msg, "CHECK"):
				return fmt.Errorf("%s %v: %w", entity, id, domain.ErrValidation)
			}
		}
	}

	return fmt.Errorf("%s %v: %w", entity, id, err)
}
