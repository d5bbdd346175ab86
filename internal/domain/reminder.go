package domain

import "time"

// Reminder is a user annotation on an event for a place. At most one exists
// per (EventID, PlaceID). The display fields are snapshots taken when the
// reminder was last written.
type Reminder struct {
	ID          int64
	EventID     int64
	PlaceID     string
	EventDate   Date
	RemindDate  Date
	Note        *string
	PlaceTitle  *string
	EventTitle  *string
	ServiceName *string
	EventType   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReminderChange is broadcast after a reminder is written or removed.
type ReminderChange struct {
	EventID     int64
	PlaceID     string
	HasReminder bool
}
