package calendar

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoscan/wastecal/internal/adapter/sqlite/event"
	"github.com/ecoscan/wastecal/internal/adapter/sqlite/place"
	"github.com/ecoscan/wastecal/internal/adapter/sqlite/reminder"
	"github.com/ecoscan/wastecal/internal/adapter/sqlite/testhelper"
	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
)

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db := testhelper.SetupTestDB(t)
	svc := NewService(
		testhelper.DiscardLogger(),
		event.New(db),
		reminder.New(db),
		place.New(db),
		config.CalendarConfig{MonthsAhead: 3, Location: time.UTC, ReminderOffset: 7 * time.Hour},
	)
	return svc, db
}

func window(after, before string) domain.Window {
	return domain.Window{After: domain.MustParseDate(after), Before: domain.MustParseDate(before)}
}

func str(s string) *string { return &s }

func TestColorFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   domain.Event
		want string
	}{
		{name: "garbage by name", ev: domain.Event{Name: str("Garbage")}, want: "#9e9e9e"},
		{name: "substring", ev: domain.Event{Name: str("blue box recycling")}, want: "#00adf5"},
		{name: "yard waste underscore", ev: domain.Event{Name: str("YARD_WASTE")}, want: "#FF9800"},
		{name: "green bin", ev: domain.Event{Name: str("green_bin")}, want: "#4CAF50"},
		{name: "organics", ev: domain.Event{Name: str("Organics")}, want: "#4CAF50"},
		{name: "subject when name empty", ev: domain.Event{Name: str(""), Subject: str("yardwaste")}, want: "#FF9800"},
		{name: "name wins over subject", ev: domain.Event{Name: str("bulky"), Subject: str("garbage")}, want: DefaultColor},
		{name: "event type fallback", ev: domain.Event{EventType: str("garbage_day")}, want: "#9e9e9e"},
		{name: "nothing set", ev: domain.Event{}, want: DefaultColor},
		{name: "first keyword wins", ev: domain.Event{Name: str("garbage and recycling")}, want: "#9e9e9e"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ColorFor(tt.ev))
		})
	}
}

func TestMarkedDates_DistinctColorsPerDay(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	testhelper.SeedEvent(t, db, 1, "p1", "2025-08-05", "garbage")
	testhelper.SeedEvent(t, db, 2, "p1", "2025-08-05", "recycling")
	testhelper.SeedEvent(t, db, 3, "p1", "2025-08-05", "garbage bags")
	testhelper.SeedEvent(t, db, 4, "p1", "2025-08-12", "green_bin")
	testhelper.SeedEvent(t, db, 5, "p2", "2025-08-06", "garbage")
	testhelper.SeedEvent(t, db, 6, "p1", "2025-09-30", "garbage")

	marks, err := svc.MarkedDates(ctx, "p1", window("2025-08-01", "2025-08-31"))
	require.NoError(t, err)

	require.Len(t, marks, 2)
	assert.Equal(t, DayMark{
		Dots:   []Dot{{Color: "#9e9e9e"}, {Color: "#00adf5"}},
		Marked: true,
	}, marks["2025-08-05"])
	assert.Equal(t, DayMark{Dots: []Dot{{Color: "#4CAF50"}}, Marked: true}, marks["2025-08-12"])
}

func TestAgendaSections_GroupedAndOrdered(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	testhelper.SeedEvent(t, db, 20, "p1", "2025-08-12", "yard_waste")
	testhelper.SeedEvent(t, db, 11, "p1", "2025-08-05", "recycling")
	testhelper.SeedEvent(t, db, 10, "p1", "2025-08-05", "garbage")

	sections, err := svc.AgendaSections(ctx, "p1", window("2025-08-01", "2025-08-31"))
	require.NoError(t, err)

	require.Len(t, sections, 2)
	assert.Equal(t, "2025-08-05", sections[0].Title)
	assert.Equal(t, "2025-08-12", sections[1].Title)

	require.Len(t, sections[0].Data, 2)
	first := sections[0].Data[0]
	assert.Equal(t, "10-2025-08-05", first.ID)
	assert.Equal(t, int64(10), first.EventID)
	assert.Equal(t, "All day", first.Hour)
	assert.Equal(t, "Garbage", first.Title)
	assert.Equal(t, "Waste Collection", first.ServiceName)
	assert.Equal(t, "pickup", first.EventType)
	assert.Equal(t, "#9e9e9e", first.Color)
	assert.Equal(t, "11-2025-08-05", sections[0].Data[1].ID)

	assert.Equal(t, "Yard_waste", sections[1].Data[0].Title)
	assert.Equal(t, "#FF9800", sections[1].Data[0].Color)
}

func TestAgendaSections_EmptyIsNotNil(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	sections, err := svc.AgendaSections(context.Background(), "p1", window("2025-08-01", "2025-08-31"))
	require.NoError(t, err)
	assert.NotNil(t, sections)
	assert.Empty(t, sections)
}

func TestProjection_RejectsBadRange(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.MarkedDates(ctx, "", window("2025-08-01", "2025-08-31"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AgendaSections(ctx, "p1", window("2025-08-31", "2025-08-01"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Export(ctx, "p1", domain.Window{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDefaultWindow(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	svc.now = func() time.Time { return time.Date(2025, time.November, 17, 15, 0, 0, 0, time.UTC) }

	w := svc.DefaultWindow()
	assert.Equal(t, "2025-11-01", w.After.String())
	assert.Equal(t, "2026-01-31", w.Before.String())
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PT7H", FormatDuration(7*time.Hour))
	assert.Equal(t, "-PT17H", FormatDuration(-17*time.Hour))
	assert.Equal(t, "PT7H30M", FormatDuration(7*time.Hour+30*time.Minute))
	assert.Equal(t, "-PT30M", FormatDuration(-30*time.Minute))
	assert.Equal(t, "PT0S", FormatDuration(0))
}

func TestExport_EventsAndAlarms(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC) }

	testhelper.SeedPlace(t, db, "p1", "12 Main St")
	testhelper.SeedEvent(t, db, 42, "p1", "2025-08-05", "garbage")
	testhelper.SeedEvent(t, db, 43, "p1", "2025-08-12", "recycling")

	_, err := reminder.New(db).Upsert(ctx, domain.Reminder{
		EventID:    42,
		PlaceID:    "p1",
		EventDate:  domain.MustParseDate("2025-08-05"),
		RemindDate: domain.MustParseDate("2025-08-04"),
		Note:       str("curb"),
	})
	require.NoError(t, err)

	out, err := svc.Export(ctx, "p1", window("2025-08-01", "2025-08-31"))
	require.NoError(t, err)

	assert.Contains(t, out, "PRODID:"+productID)
	assert.Contains(t, out, "UID:42-2025-08-05@wastecal")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250805")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250806")
	assert.Contains(t, out, "LOCATION:12 Main St")
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VALARM"))
	assert.Contains(t, out, "TRIGGER:-PT17H")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "Garbage", events[0].GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "Recycling", events[1].GetProperty(ical.ComponentPropertySummary).Value)
}

func TestExport_UnknownPlaceUsesPlaceID(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	testhelper.SeedEvent(t, db, 7, "p9", "2025-08-05", "organics")

	out, err := svc.Export(context.Background(), "p9", window("2025-08-01", "2025-08-31"))
	require.NoError(t, err)
	assert.Contains(t, out, "LOCATION:p9")
	assert.NotContains(t, out, "BEGIN:VALARM")
}
