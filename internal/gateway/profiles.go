package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avstrong/holidaze/internal/booking"
)

func (c *Client) UpdateProfile(ctx context.Context, name string, update *booking.ProfileUpdate) (*booking.Profile, error) {
	var out booking.Profile

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodPut,
		segments: []string{"holidaze", "profiles", name},
		route:    "/holidaze/profiles/{name}",
		body:     update,
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ProfileBookings(ctx context.Context, name string) ([]booking.Booking, error) {
	out := make([]booking.Booking, 0)

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodGet,
		segments: []string{"holidaze", "profiles", name, "bookings"},
		route:    "/holidaze/profiles/{name}/bookings",
		query:    url.Values{"_venue": {"true"}},
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) ProfileVenues(ctx context.Context, name string) ([]booking.Venue, error) {
	out := make([]booking.Venue, 0)

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodGet,
		segments: []string{"holidaze", "profiles", name, "venues"},
		route:    "/holidaze/profiles/{name}/venues",
		query:    url.Values{"_bookings": {"true"}},
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
