package reminder

import (
	"strings"

	"github.com/ecoscan/wastecal/internal/domain"
)

const maxNoteLength = 1000

// SetReminderInput holds the parameters for creating or updating a reminder.
type SetReminderInput struct {
	EventID    int64
	PlaceID    string
	RemindDate *domain.Date // nil = the event day
	Note       *string
}

// Validate checks all fields and collects all errors.
func (i SetReminderInput) Validate() error {
	var errs []domain.FieldError

	if i.EventID <= 0 {
		errs = append(errs, domain.FieldError{Field: "event_id", Message: "must be positive"})
	}
	if strings.TrimSpace(i.PlaceID) == "" {
		errs = append(errs, domain.FieldError{Field: "place_id", Message: "required"})
	}
	if i.Note != nil && len(*i.Note) > maxNoteLength {
		errs = append(errs, domain.FieldError{Field: "note", Message: "max 1000 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListInput selects reminders. An empty PlaceID lists every place; a range
// needs both bounds.
type ListInput struct {
	PlaceID string
	After   *domain.Date
	Before  *domain.Date
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if (i.After == nil) != (i.Before == nil) {
		errs = append(errs, domain.FieldError{Field: "range", Message: "after and before go together"})
	}
	if i.After != nil && i.PlaceID == "" {
		errs = append(errs, domain.FieldError{Field: "place_id", Message: "required with a range"})
	}
	if i.After != nil && i.Before != nil && i.Before.Before(*i.After) {
		errs = append(errs, domain.FieldError{Field: "before", Message: "must not precede after"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
