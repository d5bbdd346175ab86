package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoscan/wastecal/internal/adapter/sqlite"
	"github.com/ecoscan/wastecal/internal/adapter/sqlite/testhelper"
	"github.com/ecoscan/wastecal/internal/config"
)

func TestHandle_OpensOnceUnderConcurrentFirstAccess(t *testing.T) {
	h := sqlite.NewHandle(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "handle.db"),
		BusyTimeout: time.Second,
	}, testhelper.DiscardLogger())
	t.Cleanup(func() { _ = h.Close() })

	const n = 16
	var (
		wg  sync.WaitGroup
		dbs = make([]*sql.DB, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := h.DB(context.Background())
			assert.NoError(t, err)
			dbs[i] = db
		}(i)
	}
	wg.Wait()

	require.NotNil(t, dbs[0])
	for i := 1; i < n; i++ {
		assert.Same(t, dbs[0], dbs[i], "caller %d got a different handle", i)
	}
}

func TestHandle_CloseBeforeOpen(t *testing.T) {
	h := sqlite.NewHandle(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "x.db")}, testhelper.DiscardLogger())

	require.NoError(t, h.Close())

	_, err := h.DB(context.Background())
	assert.Error(t, err)
}

func TestHandle_CanceledFirstCallerDoesNotPoison(t *testing.T) {
	h := sqlite.NewHandle(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "cancel.db"),
		BusyTimeout: time.Second,
	}, testhelper.DiscardLogger())
	t.Cleanup(func() { _ = h.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first, err := h.DB(ctx)
	require.NoError(t, err)

	second, err := h.DB(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.NoError(t, second.PingContext(context.Background()))
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	db := testhelper.OpenTestDB(t)

	var on int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&on))
	assert.Equal(t, 1, on)

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestRunInTx_Commit(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	tm := sqlite.NewTxManager(db)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := sqlite.QuerierFromCtx(ctx, db)
		_, err := q.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)`, "k", "v")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 1, testhelper.CountRows(t, db, "settings"))
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	tm := sqlite.NewTxManager(db)
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := sqlite.QuerierFromCtx(ctx, db)
		_, execErr := q.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)`, "k", "v")
		require.NoError(t, execErr)
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, testhelper.CountRows(t, db, "settings"))
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	tm := sqlite.NewTxManager(db)

	assert.Panics(t, func() {
		_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
			q := sqlite.QuerierFromCtx(ctx, db)
			_, _ = q.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)`, "k", "v")
			panic("boom")
		})
	})

	assert.Equal(t, 0, testhelper.CountRows(t, db, "settings"))
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	tm := sqlite.NewTxManager(db)
	sentinel := errors.New("outer fails")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		innerErr := tm.RunInTx(ctx, func(ctx context.Context) error {
			_, err := sqlite.QuerierFromCtx(ctx, db).ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('a', '1')`)
			return err
		})
		require.NoError(t, innerErr)
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, testhelper.CountRows(t, db, "settings"), "inner write must roll back with the outer tx")
}

func TestGetFirstAndGetAll(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	ctx := context.Background()

	for _, k := range []string{"b", "a", "c"} {
		_, err := sqlite.Run(ctx, db, sqlite.Builder.Insert("settings").Columns("key", "value").Values(k, k+"-value"))
		require.NoError(t, err)
	}

	scanKey := func(s sqlite.Scanner) (string, error) {
		var k string
		err := s.Scan(&k)
		return k, err
	}

	keys, err := sqlite.GetAll(ctx, db, sqlite.Builder.Select("key").From("settings").OrderBy("key"), scanKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	first, err := sqlite.GetFirst(ctx, db, sqlite.Builder.Select("key").From("settings").OrderBy("key DESC"), scanKey)
	require.NoError(t, err)
	assert.Equal(t, "c", first)

	_, err = sqlite.GetFirst(ctx, db, sqlite.Builder.Select("key").From("settings").Where("key = ?", "zzz"), scanKey)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	none, err := sqlite.GetAll(ctx, db, sqlite.Builder.Select("key").From("settings").Where("key = ?", "zzz"), scanKey)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRun_BindsValuesVerbatim(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	ctx := context.Background()

	tricky := `'); DROP TABLE settings; --`
	_, err := sqlite.Run(ctx, db, sqlite.Builder.Insert("settings").Columns("key", "value").Values(tricky, ""))
	require.NoError(t, err)
	_, err = sqlite.Run(ctx, db, sqlite.Builder.Insert("settings").Columns("key", "value").Values("nil", nil))
	require.NoError(t, err)

	var empty, null sql.NullString
	require.NoError(t, db.QueryRow(`SELECT value FROM settings WHERE key = ?`, tricky).Scan(&empty))
	require.NoError(t, db.QueryRow(`SELECT value FROM settings WHERE key = 'nil'`).Scan(&null))

	assert.True(t, empty.Valid, "empty string must stay non-null")
	assert.Equal(t, "", empty.String)
	assert.False(t, null.Valid, "nil must be stored as NULL")
}
