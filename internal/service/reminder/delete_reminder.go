package reminder

import (
	"context"
	"log/slog"
)

// Delete removes a reminder by id. Returns domain.ErrNotFound if it does
// not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	rem, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reminders.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.publish(rem.EventID, rem.PlaceID, false)
	s.log.InfoContext(ctx, "reminder deleted",
		slog.Int64("reminder_id", id),
		slog.Int64("event_id", rem.EventID),
	)
	return nil
}

// DeleteForEvent removes the reminder on (eventID, placeID) if any.
func (s *Service) DeleteForEvent(ctx context.Context, eventID int64, placeID string) error {
	existed, err := s.reminders.DeleteByEvent(ctx, eventID, placeID)
	if err != nil {
		return err
	}
	if existed {
		s.publish(eventID, placeID, false)
	}
	return nil
}
