package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Migrate brings the schema to SchemaVersion. All pending steps run inside
// one exclusive transaction together with the PRAGMA user_version bump, so
// either every step lands or none does. A database already at the latest
// version is left untouched. Returns the version found before migrating.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) (int, error) {
	return migrate(ctx, db, log, migrations)
}

func migrate(ctx context.Context, db *sql.DB, log *slog.Logger, steps []migration) (int, error) {
	if len(steps) == 0 {
		return 0, nil
	}
	latest := steps[len(steps)-1].version

	current, err := UserVersion(ctx, db)
	if err != nil {
		return 0, err
	}
	if current >= latest {
		return current, nil
	}

	err = NewTxManager(db).RunInTx(ctx, func(ctx context.Context) error {
		q := QuerierFromCtx(ctx, db)

		// Re-read under the write lock; another process may have migrated meanwhile.
		var v int
		if err := q.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
			return fmt.Errorf("read user_version: %w", err)
		}
		current = v

		for _, m := range steps {
			if m.version <= current {
				continue
			}
			for i, stmt := range m.stmts {
				if _, err := q.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %d (%s) statement %d: %w", m.version, m.name, i+1, err)
				}
			}
			log.Info("migration applied", slog.Int("version", m.version), slog.String("name", m.name))
		}

		// PRAGMA does not take bound parameters; latest is a compile-time constant.
		if _, err := q.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", latest)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
		return nil
	})
	if err != nil {
		return current, fmt.Errorf("migrate from %d to %d: %w", current, latest, err)
	}

	return current, nil
}

// UserVersion returns the stored schema version.
func UserVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return v, nil
}
