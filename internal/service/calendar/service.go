// Package calendar projects stored events into read-only calendar views:
// per-day color marks, day-grouped agenda sections and an iCalendar feed.
package calendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
)

type eventRepo interface {
	ListByPlaceAndRange(ctx context.Context, placeID string, after, before domain.Date) ([]domain.Event, error)
}

type reminderRepo interface {
	ListByPlaceAndRange(ctx context.Context, placeID string, after, before domain.Date) ([]domain.Reminder, error)
}

type placeRepo interface {
	GetByPlaceID(ctx context.Context, placeID string) (*domain.Place, error)
}

// Service builds calendar projections.
type Service struct {
	events    eventRepo
	reminders reminderRepo
	places    placeRepo
	cfg       config.CalendarConfig
	now       func() time.Time
	log       *slog.Logger
}

// NewService creates a new calendar Service.
func NewService(
	logger *slog.Logger,
	events eventRepo,
	reminders reminderRepo,
	places placeRepo,
	cfg config.CalendarConfig,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MonthsAhead < 1 {
		cfg.MonthsAhead = 1
	}
	return &Service{
		events:    events,
		reminders: reminders,
		places:    places,
		cfg:       cfg,
		now:       time.Now,
		log:       logger.With("service", "calendar"),
	}
}

// DefaultWindow spans the first day of the current month through the last
// day of the month MonthsAhead-1 later.
func (s *Service) DefaultWindow() domain.Window {
	today := domain.DateOf(s.now().In(s.cfg.Location))
	start := today.StartOfMonth()
	return domain.Window{
		After:  start,
		Before: start.AddMonthsClamped(s.cfg.MonthsAhead - 1).EndOfMonth(),
	}
}

func validateRange(placeID string, w domain.Window) error {
	var errs []domain.FieldError
	if placeID == "" {
		errs = append(errs, domain.FieldError{Field: "place_id", Message: "required"})
	}
	if w.After.IsZero() || w.Before.IsZero() {
		errs = append(errs, domain.FieldError{Field: "range", Message: "after and before are required"})
	} else if w.Before.Before(w.After) {
		errs = append(errs, domain.FieldError{Field: "before", Message: "must not precede after"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
