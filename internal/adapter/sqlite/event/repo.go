// Package event implements the collection event repository on SQLite.
// Rows mirror the remote feed: they are written only by sync and each
// write overwrites every mapped column.
package event

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/ecoscan/wastecal/internal/adapter/sqlite"
	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
)

// Repo provides event persistence backed by SQLite.
type Repo struct {
	db *sql.DB
	tx *sqlite.TxManager
}

// New creates a new event repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db, tx: sqlite.NewTxManager(db)}
}

// mapped are the columns written by an upsert, in bind order.
var mapped = []string{
	"place_id", "day", "zone_id", "custom_message", "custom_subject",
	"is_week_long", "event_type", "short_text_message", "name",
	"plain_text_message", "area_name", "service_name", "subject",
}

var columns = append(append([]string{"id"}, mapped...), "created_at", "updated_at")

// upsertSuffix overwrites every mapped column on conflict. The WHERE clause
// turns an identical write into a no-op so the affected row count reports
// genuine changes only.
var upsertSuffix = func() string {
	set := make([]string, len(mapped))
	diff := make([]string, len(mapped))
	for i, c := range mapped {
		set[i] = fmt.Sprintf("%s = excluded.%s", c, c)
		diff[i] = fmt.Sprintf("events.%s IS NOT excluded.%s", c, c)
	}
	return "ON CONFLICT(id) DO UPDATE SET " + strings.Join(set, ", ") +
		" WHERE " + strings.Join(diff, " OR ")
}()

// ---------------------------------------------------------------------------
// Normalization
// ---------------------------------------------------------------------------

// Normalize maps a remote record onto an event row for placeID. Descriptive
// fields come from the first flag; absent fields stay nil.
func Normalize(rec provider.EventRecord, placeID string) (domain.Event, error) {
	day, err := domain.ParseDateLoose(rec.Day)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event %d: %w", rec.ID, err)
	}

	ev := domain.Event{
		ID:            rec.ID,
		PlaceID:       placeID,
		Day:           day,
		ZoneID:        rec.ZoneID,
		CustomMessage: rec.CustomMessage,
		CustomSubject: rec.CustomSubject,
	}

	if len(rec.Flags) > 0 {
		f := rec.Flags[0]
		ev.IsWeekLong = f.IsWeekLong.Ptr()
		ev.EventType = f.EventType
		ev.ShortTextMessage = f.ShortTextMessage
		ev.Name = f.Name
		ev.PlainTextMessage = f.PlainTextMessage
		ev.AreaName = f.AreaName
		ev.ServiceName = f.ServiceName
		ev.Subject = f.Subject
	}

	return ev, nil
}

// Normalize is the package-level Normalize, exposed for callers that only
// hold the repository.
func (r *Repo) Normalize(rec provider.EventRecord, placeID string) (domain.Event, error) {
	return Normalize(rec, placeID)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// UpsertOne writes e and returns 1 if the row was inserted or changed,
// 0 if it already held identical content.
func (r *Repo) UpsertOne(ctx context.Context, e domain.Event) (int, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Insert("events").
		Columns(append([]string{"id"}, mapped...)...).
		Values(
			e.ID,
			e.PlaceID,
			e.Day,
			sqlite.Int64Arg(e.ZoneID),
			sqlite.StringArg(e.CustomMessage),
			sqlite.StringArg(e.CustomSubject),
			sqlite.BoolArg(e.IsWeekLong),
			sqlite.StringArg(e.EventType),
			sqlite.StringArg(e.ShortTextMessage),
			sqlite.StringArg(e.Name),
			sqlite.StringArg(e.PlainTextMessage),
			sqlite.StringArg(e.AreaName),
			sqlite.StringArg(e.ServiceName),
			sqlite.StringArg(e.Subject),
		).
		Suffix(upsertSuffix)

	n, err := sqlite.Run(ctx, q, b)
	if err != nil {
		return 0, sqlite.MapError(err, "event", e.ID)
	}

	return int(n), nil
}

// UpsertMany writes events in one transaction and returns the total number
// of rows changed. An empty slice returns 0 without opening a transaction.
// Any failure rolls back the whole batch.
func (r *Repo) UpsertMany(ctx context.Context, events []domain.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	var total int
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		total = 0
		for _, e := range events {
			n, err := r.UpsertOne(ctx, e)
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert events: %w", err)
	}

	return total, nil
}

// DeleteBefore hard-deletes every event whose day is strictly before day
// and returns the number removed. Reminders on those events go with them
// through the foreign key.
func (r *Repo) DeleteBefore(ctx context.Context, day domain.Date) (int64, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Delete("events").Where(squirrel.Lt{"day": day})

	n, err := sqlite.Run(ctx, q, b)
	if err != nil {
		return 0, fmt.Errorf("delete events before %s: %w", day, err)
	}

	return n, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an event by its remote id.
// Returns domain.ErrNotFound if it was never synced.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Select(columns...).From("events").Where(squirrel.Eq{"id": id})

	e, err := sqlite.GetFirst(ctx, q, b, scanEvent)
	if err != nil {
		return nil, sqlite.MapError(err, "event", id)
	}

	return &e, nil
}

// ListByPlaceAndRange returns the events of placeID whose day falls in the
// inclusive [after, before] range, ordered by day then id.
func (r *Repo) ListByPlaceAndRange(ctx context.Context, placeID string, after, before domain.Date) ([]domain.Event, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	b := sqlite.Builder.Select(columns...).
		From("events").
		Where(squirrel.Eq{"place_id": placeID}).
		Where(squirrel.GtOrEq{"day": after}).
		Where(squirrel.LtOrEq{"day": before}).
		OrderBy("day ASC", "id ASC")

	events, err := sqlite.GetAll(ctx, q, b, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("list events %s [%s, %s]: %w", placeID, after, before, err)
	}

	return events, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func scanEvent(s sqlite.Scanner) (domain.Event, error) {
	var (
		e                                  domain.Event
		zoneID, weekLong                   sql.NullInt64
		customMessage, customSubject       sql.NullString
		eventType, shortText, name         sql.NullString
		plainText, areaName, service, subj sql.NullString
		createdAt, updatedAt               string
	)

	if err := s.Scan(
		&e.ID, &e.PlaceID, &e.Day, &zoneID, &customMessage, &customSubject,
		&weekLong, &eventType, &shortText, &name,
		&plainText, &areaName, &service, &subj,
		&createdAt, &updatedAt,
	); err != nil {
		return domain.Event{}, err
	}

	e.ZoneID = sqlite.Int64Ptr(zoneID)
	e.CustomMessage = sqlite.StringPtr(customMessage)
	e.CustomSubject = sqlite.StringPtr(customSubject)
	e.IsWeekLong = sqlite.BoolPtr(weekLong)
	e.EventType = sqlite.StringPtr(eventType)
	e.ShortTextMessage = sqlite.StringPtr(shortText)
	e.Name = sqlite.StringPtr(name)
	e.PlainTextMessage = sqlite.StringPtr(plainText)
	e.AreaName = sqlite.StringPtr(areaName)
	e.ServiceName = sqlite.StringPtr(service)
	e.Subject = sqlite.StringPtr(subj)
	e.CreatedAt = sqlite.ParseTimestamp(createdAt)
	e.UpdatedAt = sqlite.ParseTimestamp(updatedAt)

	return e, nil
}
