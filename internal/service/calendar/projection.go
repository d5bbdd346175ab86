package calendar

import (
	"context"
	"fmt"

	"github.com/ecoscan/wastecal/internal/domain"
)

// Dot is one colored marker on a calendar day.
type Dot struct {
	Color string `json:"color"`
}

// DayMark holds the distinct category colors of one day.
type DayMark struct {
	Dots   []Dot `json:"dots"`
	Marked bool  `json:"marked"`
}

// AgendaItem is one event in an agenda section. ID combines the event id
// and day and is the item's identity within an agenda.
type AgendaItem struct {
	ID            string  `json:"id"`
	EventID       int64   `json:"event_id"`
	Day           string  `json:"day"`
	Hour          string  `json:"hour"`
	Title         string  `json:"title"`
	Name          string  `json:"name"`
	Subject       string  `json:"subject"`
	CustomSubject *string `json:"custom_subject"`
	CustomMessage *string `json:"custom_message"`
	EventType     string  `json:"event_type"`
	ServiceName   string  `json:"service_name"`
	IsWeekLong    bool    `json:"is_week_long"`
	ZoneID        int64   `json:"zone_id"`
	Color         string  `json:"color"`
}

// AgendaSection groups the items of one day.
type AgendaSection struct {
	Title string       `json:"title"`
	Data  []AgendaItem `json:"data"`
}

// AgendaItemID is the composite identity of an event on a day.
func AgendaItemID(eventID int64, day domain.Date) string {
	return fmt.Sprintf("%d-%s", eventID, day)
}

// MarkedDates maps each day in w that has events for placeID to its marks,
// one dot per distinct color in first-seen order.
func (s *Service) MarkedDates(ctx context.Context, placeID string, w domain.Window) (map[string]DayMark, error) {
	events, err := s.list(ctx, placeID, w)
	if err != nil {
		return nil, err
	}

	marks := make(map[string]DayMark)
	for _, e := range events {
		day := e.Day.String()
		mark := marks[day]
		mark.Marked = true

		color := ColorFor(e)
		if !hasColor(mark.Dots, color) {
			mark.Dots = append(mark.Dots, Dot{Color: color})
		}
		marks[day] = mark
	}

	return marks, nil
}

// AgendaSections groups the events of placeID in w by day, days ascending
// and events within a day by id.
func (s *Service) AgendaSections(ctx context.Context, placeID string, w domain.Window) ([]AgendaSection, error) {
	events, err := s.list(ctx, placeID, w)
	if err != nil {
		return nil, err
	}

	sections := make([]AgendaSection, 0)
	for _, e := range events {
		day := e.Day.String()
		if n := len(sections); n == 0 || sections[n-1].Title != day {
			sections = append(sections, AgendaSection{Title: day})
		}
		last := &sections[len(sections)-1]
		last.Data = append(last.Data, toAgendaItem(e))
	}

	return sections, nil
}

// list relies on the repository ordering by day then id.
func (s *Service) list(ctx context.Context, placeID string, w domain.Window) ([]domain.Event, error) {
	if err := validateRange(placeID, w); err != nil {
		return nil, err
	}
	return s.events.ListByPlaceAndRange(ctx, placeID, w.After, w.Before)
}

func toAgendaItem(e domain.Event) AgendaItem {
	item := AgendaItem{
		ID:            AgendaItemID(e.ID, e.Day),
		EventID:       e.ID,
		Day:           e.Day.String(),
		Hour:          "All day",
		Title:         e.Title(),
		Name:          domain.Deref(e.Name),
		Subject:       domain.Deref(e.Subject),
		CustomSubject: e.CustomSubject,
		CustomMessage: e.CustomMessage,
		EventType:     domain.Deref(e.EventType),
		ServiceName:   domain.Deref(e.ServiceName),
		Color:         ColorFor(e),
	}
	if e.IsWeekLong != nil {
		item.IsWeekLong = *e.IsWeekLong
	}
	if e.ZoneID != nil {
		item.ZoneID = *e.ZoneID
	}
	return item
}

func hasColor(dots []Dot, color string) bool {
	for _, d := range dots {
		if d.Color == color {
			return true
		}
	}
	return false
}
