package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avstrong/holidaze/internal/booking"
)

type loginData struct {
	booking.Profile
	AccessToken string `json:"accessToken"`
}

func (c *Client) Login(ctx context.Context, credentials *booking.Credentials) (*booking.Session, error) {
	var out loginData

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodPost,
		segments: []string{"auth", "login"},
		route:    "/auth/login",
		query:    url.Values{"_holidaze": {"true"}},
		body:     credentials,
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return &booking.Session{
		AccessToken: out.AccessToken,
		Profile:     out.Profile,
	}, nil
}

func (c *Client) Register(ctx context.Context, registration *booking.Registration) (*booking.Profile, error) {
	var out booking.Profile

	err := c.do(ctx, call{ //nolint:exhaustruct
		method:   http.MethodPost,
		segments: []string{"auth", "register"},
		route:    "/auth/register",
		body:     registration,
		data:     &out,
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}
