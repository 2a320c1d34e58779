package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/avstrong/holidaze/internal/booking"
)

func pageQuery(input booking.ListVenuesInput) url.Values {
	q := url.Values{}

	if input.Limit > 0 {
		q.Set("limit", strconv.Itoa(input.Limit))
	}

	if input.Page > 0 {
		q.Set("page", strconv.Itoa(input.Page))
	}

	if input.Sort != "" {
		q.Set("sort", input.Sort)
	}

	if input.SortOrder != "" {
		q.Set("sortOrder", input.SortOrder)
	}

	return q
}

func (c *Client) listVenues(ctx context.Context, cl call) (*booking.VenuePage, error) {
	page := &booking.VenuePage{Venues: make([]booking.Venue, 0)} //nolint:exhaustruct

	cl.method = http.MethodGet
	cl.data = &page.Venues
	cl.meta = &page.Meta

	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}

	return page, nil
}

func (c *Client) ListVenues(ctx context.Context, input booking.ListVenuesInput) (*booking.VenuePage, error) {
	return c.listVenues(ctx, call{ //nolint:exhaustruct
		segments: []string{"holidaze", "venues"},
		route:    "/holidaze/venues",
		query:    pageQuery(input),
	})
}

func (c *Client) SearchVenues(ctx context.Context, input booking.ListVenuesInput) (*booking.VenuePage, error) {
	q := pageQuery(input)
	q.Set("q", strings.TrimSpace(input.Query))

	return c.listVenues(ctx, call{ //nolint:exhaustruct
		segments: []string{"holidaze", "venues", "search"},
		route:    "/holidaze/venues/search",
		query:    q,
	})
}

func (c *Client) GetVenue(ctx context.Context, id string) (*booking.Venue, error) {
	var out booking.Venue

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodGet,
		segments: []string{"holidaze", "venues", id},
		route:    "/holidaze/venues/{id}",
		query:    url.Values{"_bookings": {"true"}, "_owner": {"true"}},
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CreateVenue(ctx context.Context, input *booking.VenueInput) (*booking.Venue, error) {
	var out booking.Venue

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodPost,
		segments: []string{"holidaze", "venues"},
		route:    "/holidaze/venues",
		body:     input,
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateVenue(ctx context.Context, id string, input *booking.VenueInput) (*booking.Venue, error) {
	var out booking.Venue

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodPut,
		segments: []string{"holidaze", "venues", id},
		route:    "/holidaze/venues/{id}",
		body:     input,
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteVenue(ctx context.Context, id string) error {
	return c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodDelete,
		segments: []string{"holidaze", "venues", id},
		route:    "/holidaze/venues/{id}",
	})
}
