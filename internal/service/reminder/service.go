// Package reminder manages user reminders on collection events and
// announces every change on an in-process bus.
package reminder

import (
	"context"
	"log/slog"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/pkg/broadcast"
)

type reminderRepo interface {
	Upsert(ctx context.Context, rem domain.Reminder) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Reminder, error)
	GetByEvent(ctx context.Context, eventID int64, placeID string) (*domain.Reminder, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteByEvent(ctx context.Context, eventID int64, placeID string) (bool, error)
	ListAll(ctx context.Context) ([]domain.Reminder, error)
	ListByPlace(ctx context.Context, placeID string) ([]domain.Reminder, error)
	ListByPlaceAndRange(ctx context.Context, placeID string, after, before domain.Date) ([]domain.Reminder, error)
	HasReminderOnDate(ctx context.Context, placeID string, day domain.Date) (bool, error)
}

type eventRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
}

type placeRepo interface {
	GetByPlaceID(ctx context.Context, placeID string) (*domain.Place, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// busBuffer bounds the pending changes per subscriber; older ones are
// dropped first.
const busBuffer = 64

// Service provides reminder operations.
type Service struct {
	reminders reminderRepo
	events    eventRepo
	places    placeRepo
	tx        txManager
	bus       *broadcast.Hub[domain.ReminderChange]
	log       *slog.Logger
}

// NewService creates a new reminder Service.
func NewService(
	logger *slog.Logger,
	reminders reminderRepo,
	events eventRepo,
	places placeRepo,
	tx txManager,
) *Service {
	return &Service{
		reminders: reminders,
		events:    events,
		places:    places,
		tx:        tx,
		bus:       broadcast.New[domain.ReminderChange](busBuffer),
		log:       logger.With("service", "reminder"),
	}
}

// Subscribe returns a channel of reminder changes and its cancel func.
func (s *Service) Subscribe() (<-chan domain.ReminderChange, func()) {
	return s.bus.Subscribe()
}

// Close releases every subscriber.
func (s *Service) Close() {
	s.bus.Close()
}

func (s *Service) publish(eventID int64, placeID string, has bool) {
	s.bus.Publish(domain.ReminderChange{EventID: eventID, PlaceID: placeID, HasReminder: has})
}
