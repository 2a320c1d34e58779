package booking

import (
	"fmt"
	"strings"
	"time"
)

// BookingForm is what the venue page's booking widget submits.
type BookingForm struct {
	VenueID  string    `json:"venueId" validate:"notblank"`
	DateFrom time.Time `json:"dateFrom" validate:"required"`
	DateTo   time.Time `json:"dateTo" validate:"required"`
	Guests   int       `json:"guests" validate:"gte=1"`
}

var bookingFormMessages = map[string]string{
	"venueId.notblank":  "provide venueId",
	"dateFrom.required": "pick a check-in date",
	"dateTo.required":   "pick a check-out date",
	"guests.gte":        "guests must be at least 1",
}

// Validate checks the form. maxGuests is the venue capacity, 0 when unknown.
// Overlap with existing bookings is left to the remote API.
func (f *BookingForm) Validate(maxGuests int) error {
	inputErr := validateStruct(f, bookingFormMessages)

	if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateTo.Before(f.DateFrom) {
		inputErr.addError("dateTo", "check-out must not be before check-in")
	}

	if maxGuests > 0 && f.Guests > maxGuests {
		inputErr.addError("guests", fmt.Sprintf("this venue takes at most %d guests", maxGuests))
	}

	return inputErr.errOrNil()
}

func (f *BookingForm) Input() *BookingInput {
	return &BookingInput{
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
		Guests:   f.Guests,
		VenueID:  strings.TrimSpace(f.VenueID),
	}
}

func validateCredentials(c *Credentials) error {
	inputErr := newInputError()

	if strings.TrimSpace(c.Email) == "" {
		inputErr.addError("email", "provide email")
	}

	if c.Password == "" {
		inputErr.addError("password", "provide password")
	}

	return inputErr.errOrNil()
}
