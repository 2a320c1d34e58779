package calendar

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/avstrong/holidaze/internal/booking"
)

const productID = "-//Holidaze//Bookings//EN"

// Export renders bookings as all-day VEVENTs. DTEND is the day after the
// last booked day because iCalendar end dates are exclusive. Bookings whose
// end precedes their start are skipped.
func Export(title string, bookings []booking.Booking, loc *time.Location, now time.Time) string {
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(title)

	for _, b := range bookings {
		days := booking.DisabledDates([]booking.Booking{b}, loc)
		if len(days) == 0 {
			continue
		}

		event := cal.AddEvent(b.ID + "@holidaze")
		event.SetDtStampTime(now.UTC())
		event.SetSummary(summary(b))
		event.SetAllDayStartAt(days[0])
		event.SetAllDayEndAt(days[len(days)-1].AddDate(0, 0, 1))

		if b.Venue != nil {
			event.SetLocation(location(b.Venue))
		}
	}

	return cal.Serialize()
}

func summary(b booking.Booking) string {
	guests := "guests"
	if b.Guests == 1 {
		guests = "guest"
	}

	if b.Venue != nil && b.Venue.Name != "" {
		return fmt.Sprintf("%s (%d %s)", b.Venue.Name, b.Guests, guests)
	}

	return fmt.Sprintf("Booking %s (%d %s)", b.ID, b.Guests, guests)
}

func location(v *booking.Venue) string {
	switch {
	case v.Location.City != "" && v.Location.Country != "":
		return v.Location.City + ", " + v.Location.Country
	case v.Location.City != "":
		return v.Location.City
	default:
		return v.Location.Country
	}
}
