package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/avstrong/holidaze/internal/booking"
)

func TestExport(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	bookings := []booking.Booking{
		{
			ID:       "b1",
			DateFrom: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
			Guests:   2,
			Venue:    &booking.Venue{Name: "Cabin", Location: booking.Location{City: "Bergen", Country: "Norway"}},
		},
		{
			ID:       "reversed",
			DateFrom: time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
			Guests:   1,
		},
		{
			ID:       "b2",
			DateFrom: time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC),
			Guests:   1,
		},
	}

	out := Export("My bookings", bookings, time.UTC, now)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"UID:b1@holidaze",
		"DTSTART;VALUE=DATE:20240701",
		"DTEND;VALUE=DATE:20240703",
		"SUMMARY:Cabin (2 guests)",
		"LOCATION:Bergen",
		"UID:b2@holidaze",
		"DTSTART;VALUE=DATE:20240810",
		"DTEND;VALUE=DATE:20240811",
		"SUMMARY:Booking b2 (1 guest)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	if strings.Contains(out, "reversed@holidaze") {
		t.Error("reversed booking exported")
	}

	if n := strings.Count(out, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("expected 2 events, got %d", n)
	}
}

func TestExportEmpty(t *testing.T) {
	out := Export("Empty", nil, nil, time.Now())

	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Contains(out, "BEGIN:VEVENT") {
		t.Errorf("unexpected calendar:\n%s", out)
	}
}
