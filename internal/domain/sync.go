package domain

// SyncOptions narrows or widens the window fetched by a sync. Nil fields
// fall back to configured defaults.
type SyncOptions struct {
	Start         *Date  `json:"start_date,omitempty"`
	End           *Date  `json:"end_date,omitempty"`
	MonthsAhead   *int   `json:"months_ahead,omitempty"`
	PadBeforeDays *int   `json:"pad_before_days,omitempty"`
	PadAfterDays  *int   `json:"pad_after_days,omitempty"`
	Locale        string `json:"locale,omitempty"`
}

// Window is the inclusive [After, Before] date range of a sync.
type Window struct {
	After  Date
	Before Date
}

// Contains reports whether d falls inside the window, bounds included.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.After) && !d.After(w.Before)
}

// SyncResult reports one sync. Saved counts rows actually changed, Total
// counts rows attempted. The zero value is returned for a call that was
// folded into an identical sync already in flight.
type SyncResult struct {
	Saved  int  `json:"saved"`
	Total  int  `json:"total"`
	After  Date `json:"after"`
	Before Date `json:"before"`
}

// IsZero reports whether r is the result of a de-duplicated call.
func (r SyncResult) IsZero() bool {
	return r == SyncResult{}
}

// SyncStatus is the observable state of the sync coordinator.
type SyncStatus struct {
	Syncing    bool  `json:"syncing"`
	LastSyncAt int64 `json:"last_sync_at"`
}
