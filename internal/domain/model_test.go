package domain

import "testing"

func strPtr(s string) *string { return &s }

func TestEvent_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{name: "subject wins", event: Event{Subject: strPtr("garbage day"), Name: strPtr("Garbage")}, want: "Garbage Day"},
		{name: "name when subject blank", event: Event{Subject: strPtr(" "), Name: strPtr("recycling")}, want: "Recycling"},
		{name: "event type last", event: Event{EventType: strPtr("pickup")}, want: "Pickup"},
		{name: "fallback", event: Event{}, want: "Collection"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.event.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlace_DisplayTitle(t *testing.T) {
	t.Parallel()

	if got := (Place{PlaceID: "p1", Title: strPtr("Home"), Name: strPtr("123 Main St")}).DisplayTitle(); got != "Home" {
		t.Errorf("DisplayTitle = %q, want Home", got)
	}
	if got := (Place{PlaceID: "p1", Name: strPtr("123 Main St")}).DisplayTitle(); got != "123 Main St" {
		t.Errorf("DisplayTitle = %q, want name", got)
	}
	if got := (Place{PlaceID: "p1"}).DisplayTitle(); got != "p1" {
		t.Errorf("DisplayTitle = %q, want p1", got)
	}
}

func TestWindow_Contains(t *testing.T) {
	t.Parallel()

	w := Window{After: MustParseDate("2025-08-01"), Before: MustParseDate("2025-08-31")}

	for _, in := range []string{"2025-08-01", "2025-08-15", "2025-08-31"} {
		if !w.Contains(MustParseDate(in)) {
			t.Errorf("window should contain %s", in)
		}
	}
	for _, out := range []string{"2025-07-31", "2025-09-01"} {
		if w.Contains(MustParseDate(out)) {
			t.Errorf("window should not contain %s", out)
		}
	}
}

func TestSyncResult_IsZero(t *testing.T) {
	t.Parallel()

	if !(SyncResult{}).IsZero() {
		t.Error("empty result should be zero")
	}
	if (SyncResult{Total: 1}).IsZero() {
		t.Error("result with total should not be zero")
	}
	if (SyncResult{After: MustParseDate("2025-08-01")}).IsZero() {
		t.Error("result with window should not be zero")
	}
}
