package booking

import "time"

const dateLayout = "2006-01-02"

// DisabledDates expands every booking into the calendar days it occupies in
// loc, from DateFrom through DateTo inclusive, and concatenates the results in
// booking order. Overlapping bookings produce repeated days; a booking whose
// DateTo falls before DateFrom produces none.
func DisabledDates(bookings []Booking, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}

	dates := make([]time.Time, 0)

	for _, b := range bookings {
		first := calendarDay(b.DateFrom, loc)
		end := calendarDay(b.DateTo, loc).AddDate(0, 0, 1)

		for d := first; d.Before(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
	}

	return dates
}

// DisabledDateStrings is DisabledDates formatted as YYYY-MM-DD.
func DisabledDateStrings(bookings []Booking, loc *time.Location) []string {
	dates := DisabledDates(bookings, loc)
	out := make([]string, 0, len(dates))

	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}

	return out
}

// calendarDay is midnight of t's day in loc.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
