package report

import "time"

// Offset is the fixed shift between UTC and the community's local midnight.
const Offset = 4 * time.Hour

// Window is a half-open month interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor returns the month window monthsAgo months before the month of ref.
// Month arithmetic rolls over year boundaries, so January minus two months is
// November of the previous year.
func WindowFor(ref time.Time, monthsAgo int) Window {
	ref = ref.UTC()
	month := ref.Month() - time.Month(monthsAgo)
	start := time.Date(ref.Year(), month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(ref.Year(), month+1, 1, 0, 0, 0, 0, time.UTC)
	return Window{
		Start: start.Add(Offset),
		End:   end.Add(Offset),
	}
}

// Contains reports whether t is within the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Label names the month the window covers, e.g. "March 2024".
func (w Window) Label() string {
	return w.Start.Add(-Offset).Format("January 2006")
}
