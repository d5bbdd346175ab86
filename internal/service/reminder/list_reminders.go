package reminder

import (
	"context"

	"github.com/ecoscan/wastecal/internal/domain"
)

// Get returns the reminder on (eventID, placeID), or nil if none.
func (s *Service) Get(ctx context.Context, eventID int64, placeID string) (*domain.Reminder, error) {
	return s.reminders.GetByEvent(ctx, eventID, placeID)
}

// List returns reminders ordered by event day then id.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Reminder, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	switch {
	case input.After != nil:
		return s.reminders.ListByPlaceAndRange(ctx, input.PlaceID, *input.After, *input.Before)
	case input.PlaceID != "":
		return s.reminders.ListByPlace(ctx, input.PlaceID)
	default:
		return s.reminders.ListAll(ctx)
	}
}

// HasReminderOnDate reports whether placeID has a reminder for an event on day.
func (s *Service) HasReminderOnDate(ctx context.Context, placeID string, day domain.Date) (bool, error) {
	return s.reminders.HasReminderOnDate(ctx, placeID, day)
}
