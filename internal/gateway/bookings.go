package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avstrong/holidaze/internal/booking"
)

func (c *Client) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	var out booking.Booking

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodGet,
		segments: []string{"holidaze", "bookings", id},
		route:    "/holidaze/bookings/{id}",
		query:    url.Values{"_venue": {"true"}, "_customer": {"true"}},
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, input *booking.BookingInput) (*booking.Booking, error) {
	var out booking.Booking

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodPost,
		segments: []string{"holidaze", "bookings"},
		route:    "/holidaze/bookings",
		body:     input,
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateBooking(ctx context.Context, id string, input *booking.BookingInput) (*booking.Booking, error) {
	var out booking.Booking

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodPut,
		segments: []string{"holidaze", "bookings", id},
		route:    "/holidaze/bookings/{id}",
		body:     input,
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodDelete,
		segments: []string{"holidaze", "bookings", id},
		route:    "/holidaze/bookings/{id}",
	})
}
