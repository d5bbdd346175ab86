package testhelper

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ecoscan/wastecal/internal/domain"
)

// SeedEvent inserts a bare event row and returns it.
func SeedEvent(t *testing.T, db *sql.DB, id int64, placeID, day string, name string) domain.Event {
	t.Helper()

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO events (id, place_id, day, name, service_name, event_type) VALUES (?, ?, ?, ?, ?, ?)`,
		id, placeID, day, name, "Waste Collection", "pickup",
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEvent %d: %v", id, err)
	}

	service := "Waste Collection"
	eventType := "pickup"
	return domain.Event{
		ID:          id,
		PlaceID:     placeID,
		Day:         domain.MustParseDate(day),
		Name:        &name,
		ServiceName: &service,
		EventType:   &eventType,
	}
}

// SeedPlace inserts an address row with the given title.
func SeedPlace(t *testing.T, db *sql.DB, placeID, title string) {
	t.Helper()

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO addresses (place_id, title, name) VALUES (?, ?, ?)`,
		placeID, title, title,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPlace %s: %v", placeID, err)
	}
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	// table comes from test code only.
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("testhelper: count %s: %v", table, err)
	}
	return n
}
