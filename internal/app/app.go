// Package app wires configuration, storage, remote adapters and services
// into a runnable process.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecoscan/wastecal/internal/adapter/provider/ecoscan"
	"github.com/ecoscan/wastecal/internal/adapter/provider/recollect"
	"github.com/ecoscan/wastecal/internal/adapter/sqlite"
	"github.com/ecoscan/wastecal/internal/adapter/sqlite/event"
	"github.com/ecoscan/wastecal/internal/adapter/sqlite/place"
	reminderrepo "github.com/ecoscan/wastecal/internal/adapter/sqlite/reminder"
	"github.com/ecoscan/wastecal/internal/adapter/sqlite/settings"
	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/scheduler"
	"github.com/ecoscan/wastecal/internal/service/calendar"
	"github.com/ecoscan/wastecal/internal/service/eventsync"
	"github.com/ecoscan/wastecal/internal/service/location"
	"github.com/ecoscan/wastecal/internal/service/reminder"
	"github.com/ecoscan/wastecal/internal/transport/middleware"
	"github.com/ecoscan/wastecal/internal/transport/rest"
)

// App holds the wired components of one process.
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	handle *sqlite.Handle
	db     *sql.DB

	places *place.Repo
	events *event.Repo

	Sync      *eventsync.Service
	Location  *location.Service
	Reminders *reminder.Service
	Calendar  *calendar.Service
	Scan      *ecoscan.Client
}

// New opens and migrates the store and builds every service. The caller
// must Close the App.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	handle := sqlite.NewHandle(cfg.Database, logger)
	db, err := handle.DB(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := sqlite.Migrate(ctx, db, logger); err != nil {
		_ = handle.Close()
		return nil, err
	}

	events := event.New(db)
	places := place.New(db)
	reminders := reminderrepo.New(db)
	txm := sqlite.NewTxManager(db)
	feed := recollect.NewClient(cfg.Recollect, logger)

	coord := eventsync.NewService(logger, feed, events, cfg.Sync, cfg.Recollect.Locale, cfg.Calendar.Location)

	return &App{
		cfg:       cfg,
		log:       logger,
		handle:    handle,
		db:        db,
		places:    places,
		events:    events,
		Sync:      coord,
		Location:  location.NewService(logger, places, settings.New(db), feed, coord, txm, cfg.Suggest),
		Reminders: reminder.NewService(logger, reminders, events, places, txm),
		Calendar:  calendar.NewService(logger, events, reminders, places, cfg.Calendar),
		Scan:      ecoscan.NewClient(cfg.EcoScan, logger),
	}, nil
}

// Close waits for background selection syncs, releases subscribers and
// closes the store.
func (a *App) Close() error {
	a.Location.Wait()
	a.Sync.Close()
	a.Reminders.Close()
	return a.handle.Close()
}

// Handler builds the HTTP handler. Stop the returned limiter on shutdown.
func (a *App) Handler() (http.Handler, *middleware.RateLimiter) {
	limiter := middleware.NewRateLimiter(time.Minute)

	h := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(a.db, a.Sync, versionInfo()),
		Location:  rest.NewLocationHandler(a.Location, a.places, a.log),
		Sync:      rest.NewSyncHandler(a.Sync, a.Location, a.log),
		Calendar:  rest.NewCalendarHandler(a.Calendar, a.Location, a.log),
		Reminders: rest.NewReminderHandler(a.Reminders, a.log),
		Scan:      rest.NewScanHandler(a.Scan, a.cfg.EcoScan.MaxImageBytes, a.log),
	}, rest.RouterConfig{
		CORS:          a.cfg.CORS,
		Auth:          a.cfg.Auth,
		ScanRateLimit: a.cfg.EcoScan.RateLimit,
	}, limiter, a.log)

	return h, limiter
}

// Serve rehydrates the selection, then runs the HTTP server, the refresh
// scheduler and the change watchers until ctx is cancelled. Cancellation,
// including during startup, is a clean stop and returns nil.
func (a *App) Serve(ctx context.Context) error {
	if _, err := a.Location.Resolve(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("resolve selection: %w", err)
	}

	handler, limiter := a.Handler()
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port)),
		Handler:           handler,
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: a.cfg.Server.ReadTimeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
		IdleTimeout:       a.cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if a.cfg.Sync.RefreshEnabled {
		sched := scheduler.New(a.log, a.Location, a.cfg.Sync, a.cfg.Calendar.Location)
		g.Go(func() error { return sched.Run(gctx) })
	}

	g.Go(func() error {
		a.watch(gctx)
		return nil
	})

	return g.Wait()
}

// watch logs sync completions and reminder changes until ctx is done.
func (a *App) watch(ctx context.Context) {
	syncs, stopSyncs := a.Sync.Subscribe()
	defer stopSyncs()
	changes, stopChanges := a.Reminders.Subscribe()
	defer stopChanges()

	for {
		select {
		case <-ctx.Done():
			return
		case ts, ok := <-syncs:
			if !ok {
				return
			}
			a.log.Debug("sync completed", slog.Time("at", time.UnixMilli(ts)))
		case ch, ok := <-changes:
			if !ok {
				return
			}
			a.log.Debug("reminder changed",
				slog.Int64("event_id", ch.EventID),
				slog.String("place_id", ch.PlaceID),
				slog.Bool("has_reminder", ch.HasReminder),
			)
		}
	}
}

// SyncPlace runs one sync for placeID, or for the persisted selection when
// placeID is empty.
func (a *App) SyncPlace(ctx context.Context, placeID string, opts domain.SyncOptions) (domain.SyncResult, error) {
	if placeID != "" {
		return a.Sync.Sync(ctx, placeID, opts)
	}
	if _, err := a.Location.Resolve(ctx); err != nil {
		return domain.SyncResult{}, fmt.Errorf("resolve selection: %w", err)
	}
	return a.Location.SyncSelected(ctx, opts)
}

// Prune hard-deletes events more than days before today, along with their
// reminders. days <= 0 keeps everything. Returns the cutoff day and the
// number of events removed.
func (a *App) Prune(ctx context.Context, days int) (domain.Date, int64, error) {
	cutoff := a.Sync.Today().AddDays(-days)
	if days <= 0 {
		return cutoff, 0, nil
	}

	n, err := a.events.DeleteBefore(ctx, cutoff)
	if err != nil {
		return cutoff, 0, err
	}
	return cutoff, n, nil
}

// Migrate opens the store and applies pending migrations. Returns the
// schema version found before and after.
func Migrate(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (int, int, error) {
	handle := sqlite.NewHandle(cfg, logger)
	defer handle.Close()

	db, err := handle.DB(ctx)
	if err != nil {
		return 0, 0, err
	}

	from, err := sqlite.Migrate(ctx, db, logger)
	if err != nil {
		return from, from, err
	}
	to, err := sqlite.UserVersion(ctx, db)
	return from, to, err
}

// Run is the application entry point for the serve command. It loads
// configuration, initializes the logger and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("database", cfg.Database.Path),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("close app", slog.String("error", err.Error()))
		}
	}()

	return a.Serve(ctx)
}
