// Package scheduler runs the periodic background refresh of the selected
// place's collection schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
)

type selectionSyncer interface {
	SyncSelected(ctx context.Context, opts domain.SyncOptions) (domain.SyncResult, error)
}

// Scheduler re-syncs the selected place on a cron schedule. A run that is
// still in progress when the next one fires causes that one to be skipped.
type Scheduler struct {
	syncer selectionSyncer
	spec   string
	loc    *time.Location
	log    *slog.Logger
}

// New creates a Scheduler from cfg. loc is the zone the cron spec is read in.
func New(logger *slog.Logger, syncer selectionSyncer, cfg config.SyncConfig, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		syncer: syncer,
		spec:   cfg.RefreshCron,
		loc:    loc,
		log:    logger.With("component", "scheduler"),
	}
}

// Run starts the cron loop and blocks until ctx is done, then waits for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	cl := cronLogger{log: s.log}
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduler: add job %q: %w", s.spec, err)
	}

	c.Start()
	s.log.InfoContext(ctx, "scheduler started", slog.String("spec", s.spec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

// RunOnce performs one refresh. Having no selection is not an error.
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()

	res, err := s.syncer.SyncSelected(ctx, domain.SyncOptions{})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.log.DebugContext(ctx, "refresh skipped: no place selected")
	case err != nil:
		s.log.ErrorContext(ctx, "refresh failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
	case res.IsZero():
		s.log.DebugContext(ctx, "refresh joined an in-flight sync")
	default:
		s.log.InfoContext(ctx, "refresh complete",
			slog.Int("saved", res.Saved),
			slog.Int("total", res.Total),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}
