package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/ecoscan/wastecal/internal/domain"
)

const productID = "-//ecoscan//wastecal//EN"

// Export renders the events of placeID in w as an iCalendar document. Each
// event is an all-day VEVENT; an event with a reminder carries a display
// alarm at the remind date plus the configured reminder time.
func (s *Service) Export(ctx context.Context, placeID string, w domain.Window) (string, error) {
	events, err := s.list(ctx, placeID, w)
	if err != nil {
		return "", err
	}

	reminders, err := s.reminders.ListByPlaceAndRange(ctx, placeID, w.After, w.Before)
	if err != nil {
		return "", fmt.Errorf("export: list reminders: %w", err)
	}
	byEvent := make(map[int64]domain.Reminder, len(reminders))
	for _, r := range reminders {
		byEvent[r.EventID] = r
	}

	location := placeID
	p, err := s.places.GetByPlaceID(ctx, placeID)
	switch {
	case err == nil:
		location = p.DisplayTitle()
	case !errors.Is(err, domain.ErrNotFound):
		return "", fmt.Errorf("export: get place: %w", err)
	}

	stamp := s.now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, e := range events {
		ve := cal.AddEvent(AgendaItemID(e.ID, e.Day) + "@wastecal")
		ve.SetDtStampTime(stamp)
		ve.SetAllDayStartAt(e.Day.Time(s.cfg.Location))
		ve.SetAllDayEndAt(e.Day.AddDays(1).Time(s.cfg.Location))
		ve.SetSummary(e.Title())
		ve.SetLocation(location)
		if desc := describe(e); desc != "" {
			ve.SetDescription(desc)
		}

		if r, ok := byEvent[e.ID]; ok {
			alarm := ve.AddAlarm()
			alarm.SetProperty(ical.ComponentPropertyAction, "DISPLAY")
			alarm.SetProperty(ical.ComponentPropertyTrigger, s.trigger(e.Day, r.RemindDate))
			alarm.SetProperty(ical.ComponentPropertyDescription, alarmText(e, r))
		}
	}

	s.log.DebugContext(ctx, "calendar exported",
		slog.String("place_id", placeID),
		slog.Int("events", len(events)),
		slog.Int("alarms", len(byEvent)),
	)

	return cal.Serialize(), nil
}

// trigger is the alarm offset relative to the start of the event day.
func (s *Service) trigger(eventDay, remindDay domain.Date) string {
	if remindDay.IsZero() {
		remindDay = eventDay
	}
	start := eventDay.Time(s.cfg.Location)
	at := remindDay.Time(s.cfg.Location).Add(s.cfg.ReminderOffset)
	return FormatDuration(at.Sub(start))
}

// FormatDuration renders d as an RFC 5545 duration such as -PT17H or PT7H30M.
func FormatDuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteString("PT")

	h := int64(d / time.Hour)
	m := int64((d % time.Hour) / time.Minute)
	switch {
	case h == 0 && m == 0:
		b.WriteString("0S")
	default:
		if h > 0 {
			fmt.Fprintf(&b, "%dH", h)
		}
		if m > 0 {
			fmt.Fprintf(&b, "%dM", m)
		}
	}
	return b.String()
}

func describe(e domain.Event) string {
	var parts []string
	if e.ServiceName != nil && *e.ServiceName != "" {
		parts = append(parts, *e.ServiceName)
	}
	for _, v := range []*string{e.CustomMessage, e.PlainTextMessage} {
		if v != nil && strings.TrimSpace(*v) != "" {
			parts = append(parts, strings.TrimSpace(*v))
			break
		}
	}
	return strings.Join(parts, "\n")
}

func alarmText(e domain.Event, r domain.Reminder) string {
	if r.Note != nil && *r.Note != "" {
		return e.Title() + ": " + *r.Note
	}
	return e.Title()
}
