package reminder

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ecoscan/wastecal/internal/domain"
)

// Set creates or updates the reminder for (EventID, PlaceID). The pair is
// the only key: the place need not be the one the event was synced for.
// Display fields are snapshotted from the stored event and place. The remind date
// must not fall after the event day.
func (s *Service) Set(ctx context.Context, input SetReminderInput) (*domain.Reminder, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	placeID := strings.TrimSpace(input.PlaceID)

	var saved *domain.Reminder
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ev, err := s.events.GetByID(ctx, input.EventID)
		if err != nil {
			return err
		}

		remind := ev.Day
		if input.RemindDate != nil && !input.RemindDate.IsZero() {
			remind = *input.RemindDate
		}
		if remind.After(ev.Day) {
			return domain.NewValidationError("remind_date", "must not be after the event day")
		}

		var placeTitle *string
		p, err := s.places.GetByPlaceID(ctx, placeID)
		switch {
		case err == nil:
			t := p.DisplayTitle()
			placeTitle = &t
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		title := ev.Title()
		id, err := s.reminders.Upsert(ctx, domain.Reminder{
			EventID:     ev.ID,
			PlaceID:     placeID,
			EventDate:   ev.Day,
			RemindDate:  remind,
			Note:        trimOrNil(input.Note),
			PlaceTitle:  placeTitle,
			EventTitle:  &title,
			ServiceName: ev.ServiceName,
			EventType:   ev.EventType,
		})
		if err != nil {
			return err
		}

		saved, err = s.reminders.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(saved.EventID, saved.PlaceID, true)

	s.log.InfoContext(ctx, "reminder saved",
		slog.Int64("reminder_id", saved.ID),
		slog.Int64("event_id", saved.EventID),
		slog.String("place_id", saved.PlaceID),
		slog.String("remind_date", saved.RemindDate.String()),
	)

	return saved, nil
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
