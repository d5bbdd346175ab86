package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoscan/wastecal/internal/adapter/sqlite"
	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newRemote serves one August collection day for every place.
func newRemote(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events":[
			{"id":501,"day":"2025-08-05","flags":[{"is_week_long":0,"name":"Garbage","subject":"garbage day","service_name":"Waste"}]}
		]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, remoteURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		Database:  config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "app.db"), BusyTimeout: 5 * time.Second},
		Recollect: config.RecollectConfig{BaseURL: remoteURL, Area: "Test", ServiceID: 1110, Locale: "en", Timeout: 5 * time.Second, UserAgent: "wastecal-test"},
		Sync:      config.SyncConfig{MonthsAhead: 4},
		Calendar:  config.CalendarConfig{MonthsAhead: 3, TimeZone: "UTC", ReminderTime: "07:00"},
		Suggest:   config.SuggestConfig{MinQueryLength: 3, Limit: 10},
		Log:       config.LogConfig{Level: "error", Format: "text"},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(context.Background(), testConfig(t, newRemote(t).URL), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func augustOptions() domain.SyncOptions {
	start := domain.MustParseDate("2025-08-01")
	end := domain.MustParseDate("2025-08-31")
	return domain.SyncOptions{Start: &start, End: &end}
}

func TestApp_SyncPlace_Explicit(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	res, err := a.SyncPlace(ctx, "place-1", augustOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Saved)
	assert.Equal(t, "2025-08-01", res.After.String())

	w := domain.Window{After: domain.MustParseDate("2025-08-01"), Before: domain.MustParseDate("2025-08-31")}
	sections, err := a.Calendar.AgendaSections(ctx, "place-1", w)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "2025-08-05", sections[0].Title)
}

func TestApp_SyncPlace_NoSelection(t *testing.T) {
	a := newTestApp(t)

	_, err := a.SyncPlace(context.Background(), "", augustOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestApp_Handler_Health(t *testing.T) {
	a := newTestApp(t)

	h, limiter := a.Handler()
	defer limiter.Stop()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestApp_Serve_CanceledDuringStartup(t *testing.T) {
	a := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestApp_Serve_StopsOnCancelAfterStart(t *testing.T) {
	a := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	select {
	case <-a.Location.Resolved():
	case <-time.After(5 * time.Second):
		t.Fatal("selection never resolved")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	cfg := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "m.db"), BusyTimeout: time.Second}

	from, to, err := Migrate(ctx, cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, from)
	assert.Equal(t, sqlite.SchemaVersion, to)

	from, to, err = Migrate(ctx, cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, sqlite.SchemaVersion, from)
	assert.Equal(t, sqlite.SchemaVersion, to)
}

func TestApp_Prune(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	_, err := a.SyncPlace(ctx, "place-1", augustOptions())
	require.NoError(t, err)

	_, n, err := a.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// The synced event is from August 2025, well past one day of retention.
	cutoff, n, err := a.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, a.Sync.Today().AddDays(-1), cutoff)
}
