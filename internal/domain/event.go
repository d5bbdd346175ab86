package domain

import "time"

// Event is one collection occurrence on one day for one place. ID is
// assigned by the remote feed and is globally unique; the local row is a
// mirror that every sync of an overlapping window overwrites.
type Event struct {
	ID               int64
	PlaceID          string
	Day              Date
	ZoneID           *int64
	CustomMessage    *string
	CustomSubject    *string
	IsWeekLong       *bool
	EventType        *string
	ShortTextMessage *string
	Name             *string
	PlainTextMessage *string
	AreaName         *string
	ServiceName      *string
	Subject          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Title is the label shown for the event: title-cased subject, then name,
// then event type, then "Collection".
func (e Event) Title() string {
	if s, ok := FirstNonEmpty(e.Subject, e.Name, e.EventType); ok {
		return TitleCase(s)
	}
	return "Collection"
}
