// Package eventsync is the only writer of collection events. It fetches a
// date window from the remote feed, mirrors it into the store, folds
// identical concurrent requests into one, and publishes a monotonic
// last-sync timestamp.
package eventsync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
	"github.com/ecoscan/wastecal/pkg/broadcast"
)

type eventFeed interface {
	FetchEvents(ctx context.Context, placeID string, w domain.Window, locale string) ([]provider.EventRecord, error)
}

type eventRepo interface {
	Normalize(rec provider.EventRecord, placeID string) (domain.Event, error)
	UpsertMany(ctx context.Context, events []domain.Event) (int, error)
}

// Defaults are applied to options a caller leaves unset.
type Defaults struct {
	MonthsAhead   int
	PadBeforeDays int
	PadAfterDays  int
	Locale        string
}

// flight is the sync currently tracked for de-duplication. seq tells apart
// two flights with the same key.
type flight struct {
	key string
	seq uint64
}

// Service coordinates event synchronization.
type Service struct {
	feed     eventFeed
	events   eventRepo
	defaults Defaults
	loc      *time.Location
	now      func() time.Time
	log      *slog.Logger

	mu       sync.Mutex
	inflight *flight
	seq      uint64
	running  int
	lastSync int64
	hub      *broadcast.Hub[int64]
}

// NewService creates a new sync Service. Today is evaluated in loc.
func NewService(
	logger *slog.Logger,
	feed eventFeed,
	events eventRepo,
	cfg config.SyncConfig,
	locale string,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		feed:   feed,
		events: events,
		defaults: Defaults{
			MonthsAhead:   cfg.MonthsAhead,
			PadBeforeDays: cfg.PadBeforeDays,
			PadAfterDays:  cfg.PadAfterDays,
			Locale:        locale,
		},
		loc: loc,
		now: time.Now,
		log: logger.With("service", "eventsync"),
		hub: broadcast.New[int64](1),
	}
}

// Today returns the current calendar date in the service's time zone.
func (s *Service) Today() domain.Date {
	return domain.DateOf(s.now().In(s.loc))
}

// Window returns the window a sync with opts would fetch today.
func (s *Service) Window(opts domain.SyncOptions) (domain.Window, error) {
	return ComputeWindow(opts, s.Today(), s.defaults)
}

// Close releases every status subscriber.
func (s *Service) Close() {
	s.hub.Close()
}
