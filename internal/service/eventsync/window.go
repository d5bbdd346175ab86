package eventsync

import (
	"fmt"

	"github.com/ecoscan/wastecal/internal/domain"
)

// ComputeWindow derives the fetch window. The start is opts.Start or today;
// the end is opts.End or the start advanced by the months-ahead setting,
// clamped to the last day of the target month. The start is moved back by
// the pad-before days and the end forward by the pad-after days. Absent
// option values fall back to defaults; an explicit zero pad means no pad.
func ComputeWindow(opts domain.SyncOptions, today domain.Date, defaults Defaults) (domain.Window, error) {
	start := today
	if opts.Start != nil && !opts.Start.IsZero() {
		start = *opts.Start
	}

	months := defaults.MonthsAhead
	if opts.MonthsAhead != nil {
		months = *opts.MonthsAhead
	}
	if months < 0 {
		return domain.Window{}, domain.NewValidationError("months_ahead", "must not be negative")
	}

	end := start.AddMonthsClamped(months)
	if opts.End != nil && !opts.End.IsZero() {
		end = *opts.End
	}

	padBefore := pick(opts.PadBeforeDays, defaults.PadBeforeDays)
	padAfter := pick(opts.PadAfterDays, defaults.PadAfterDays)
	if padBefore < 0 || padAfter < 0 {
		return domain.Window{}, domain.NewValidationError("pad_days", "must not be negative")
	}

	w := domain.Window{
		After:  start.AddDays(-padBefore),
		Before: end.AddDays(padAfter),
	}
	if w.Before.Before(w.After) {
		return domain.Window{}, domain.NewValidationError("end_date",
			fmt.Sprintf("window end %s is before start %s", w.Before, w.After))
	}

	return w, nil
}

func pick(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}
