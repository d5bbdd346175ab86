// Package reminder implements the reminder repository on SQLite.
package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ecoscan/wastecal/internal/adapter/sqlite"
	"github.com/ecoscan/wastecal/internal/domain"
)

// Repo provides reminder persistence backed by SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a new reminder repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

var columns = []string{
	"id", "event_id", "place_id", "event_date", "remind_date", "note",
	"place_title", "event_title", "service_name", "event_type",
	"created_at", "updated_at",
}

const upsertSuffix = `ON CONFLICT(event_id, place_id) DO UPDATE SET
    event_date   = excluded.event_date,
    remind_date  = excluded.remind_date,
    note         = excluded.note,
    place_title  = excluded.place_title,
    event_title  = excluded.event_title,
    service_name = excluded.service_name,
    event_type   = excluded.event_type
RETURNING id`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert creates or updates the reminder for (EventID, PlaceID) and returns
// its id, which stays stable across updates. Returns domain.ErrNotFound if
// the event is not stored.
func (r *Repo) Upsert(ctx context.Context, rem domain.Reminder) (int64, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Insert("reminders").
		Columns("event_id", "place_id", "event_date", "remind_date", "note",
			"place_title", "event_title", "service_name", "event_type").
		Values(
			rem.EventID,
			rem.PlaceID,
			rem.EventDate,
			rem.RemindDate,
			sqlite.StringArg(rem.Note),
			sqlite.StringArg(rem.PlaceTitle),
			sqlite.StringArg(rem.EventTitle),
			sqlite.StringArg(rem.ServiceName),
			sqlite.StringArg(rem.EventType),
		).
		Suffix(upsertSuffix)

	id, err := sqlite.GetFirst(ctx, q, b, func(s sqlite.Scanner) (int64, error) {
		var id int64
		err := s.Scan(&id)
		return id, err
	})
	if err != nil {
		return 0, sqlite.MapError(err, "event", rem.EventID)
	}

	return id, nil
}

// DeleteByID removes a reminder. Returns domain.ErrNotFound if none matched.
func (r *Repo) DeleteByID(ctx context.Context, id int64) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	n, err := sqlite.Run(ctx, q, sqlite.Builder.Delete("reminders").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("reminder %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteByEvent removes the reminder for (eventID, placeID) and reports
// whether one existed.
func (r *Repo) DeleteByEvent(ctx context.Context, eventID int64, placeID string) (bool, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Delete("reminders").
		Where(squirrel.Eq{"event_id": eventID, "place_id": placeID})

	n, err := sqlite.Run(ctx, q, b)
	if err != nil {
		return false, fmt.Errorf("delete reminder for event %d: %w", eventID, err)
	}
	return n > 0, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a reminder by id.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Reminder, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Select(columns...).From("reminders").Where(squirrel.Eq{"id": id})

	rem, err := sqlite.GetFirst(ctx, q, b, scanReminder)
	if err != nil {
		return nil, sqlite.MapError(err, "reminder", id)
	}
	return &rem, nil
}

// GetByEvent returns the reminder for (eventID, placeID), or nil if none.
func (r *Repo) GetByEvent(ctx context.Context, eventID int64, placeID string) (*domain.Reminder, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Select(columns...).
		From("reminders").
		Where(squirrel.Eq{"event_id": eventID, "place_id": placeID})

	rem, err := sqlite.GetFirst(ctx, q, b, scanReminder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reminder for event %d: %w", eventID, err)
	}
	return &rem, nil
}

// ListAll returns every reminder ordered by event date then id.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Reminder, error) {
	return r.list(ctx, nil)
}

// ListByPlace returns the reminders of placeID ordered by event date then id.
func (r *Repo) ListByPlace(ctx context.Context, placeID string) ([]domain.Reminder, error) {
	return r.list(ctx, squirrel.Eq{"place_id": placeID})
}

// ListByPlaceAndRange returns the reminders of placeID whose event date is
// within the inclusive [after, before] range.
func (r *Repo) ListByPlaceAndRange(ctx context.Context, placeID string, after, before domain.Date) ([]domain.Reminder, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"place_id": placeID},
		squirrel.GtOrEq{"event_date": after},
		squirrel.LtOrEq{"event_date": before},
	})
}

// HasReminderOnDate reports whether placeID has a reminder for an event on day.
func (r *Repo) HasReminderOnDate(ctx context.Context, placeID string, day domain.Date) (bool, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Select("1").
		From("reminders").
		Where(squirrel.Eq{"place_id": placeID, "event_date": day}).
		Limit(1)

	_, err := sqlite.GetFirst(ctx, q, b, func(s sqlite.Scanner) (int, error) {
		var one int
		err := s.Scan(&one)
		return one, err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("has reminder on %s: %w", day, err)
	}
	return true, nil
}

func (r *Repo) list(ctx context.Context, where squirrel.Sqlizer) ([]domain.Reminder, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Select(columns...).From("reminders").OrderBy("event_date ASC", "id ASC")
	if where != nil {
		b = b.Where(where)
	}

	rems, err := sqlite.GetAll(ctx, q, b, scanReminder)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return rems, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func scanReminder(s sqlite.Scanner) (domain.Reminder, error) {
	var (
		rem                          domain.Reminder
		note, placeTitle, eventTitle sql.NullString
		serviceName, eventType       sql.NullString
		createdAt, updatedAt         string
	)

	if err := s.Scan(
		&rem.ID, &rem.EventID, &rem.PlaceID, &rem.EventDate, &rem.RemindDate, &note,
		&placeTitle, &eventTitle, &serviceName, &eventType,
		&createdAt, &updatedAt,
	); err != nil {
		return domain.Reminder{}, err
	}

	rem.Note = sqlite.StringPtr(note)
	rem.PlaceTitle = sqlite.StringPtr(placeTitle)
	rem.EventTitle = sqlite.StringPtr(eventTitle)
	rem.ServiceName = sqlite.StringPtr(serviceName)
	rem.EventType = sqlite.StringPtr(eventType)
	rem.CreatedAt = sqlite.ParseTimestamp(createdAt)
	rem.UpdatedAt = sqlite.ParseTimestamp(updatedAt)

	return rem, nil
}
