package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/avstrong/holidaze/internal/booking"
	"github.com/avstrong/holidaze/internal/idgen/uuidgen"
	"github.com/avstrong/holidaze/internal/logger"
)

type staticToken string

func (s staticToken) Token(_ context.Context) (string, error) {
	return string(s), nil
}

func newTestClient(t *testing.T, url string, token string, reg prometheus.Registerer) *Client {
	t.Helper()

	l := logrus.New()
	l.SetOutput(io.Discard)

	c, err := New(Conf{
		L:           logger.New(l),
		BaseURL:     url,
		APIKey:      "test-key",
		Timeout:     time.Second,
		MaxFailures: 2,
		OpenTimeout: time.Minute,
		Tracer:      nil,
		Metrics:     NewMetrics(reg),
	}, staticToken(token), uuidgen.New())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)

	_, err := New(Conf{L: logger.New(l), BaseURL: "/holidaze"}, staticToken(""), uuidgen.New()) //nolint:exhaustruct
	if !errors.Is(err, ErrBaseURL) {
		t.Fatalf("expected ErrBaseURL, got %v", err)
	}
}

func TestHeaders(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantAuth string
	}{
		{name: "anonymous", token: "", wantAuth: ""},
		{name: "logged in", token: "tok", wantAuth: "Bearer tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get(APIKeyHeader); got != "test-key" {
					t.Errorf("api key header: %q", got)
				}

				if got := r.Header.Get("Authorization"); got != tt.wantAuth {
					t.Errorf("authorization header: %q, want %q", got, tt.wantAuth)
				}

				if r.Header.Get(RequestIDHeader) == "" {
					t.Error("missing request id")
				}

				_, _ = w.Write([]byte(`{"data":[],"meta":{"isFirstPage":true,"isLastPage":true,"currentPage":1,"pageCount":1,"totalCount":0}}`))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, tt.token, nil)

			page, err := c.ListVenues(context.Background(), booking.ListVenuesInput{})
			if err != nil {
				t.Fatalf("list venues: %v", err)
			}

			if page.Venues == nil || !page.Meta.IsLastPage {
				t.Errorf("unexpected page: %+v", page)
			}
		})
	}
}

func TestLoginDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" || r.URL.Query().Get("_holidaze") != "true" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}

		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}

		_, _ = w.Write([]byte(`{"data":{"name":"kari","email":"kari@stud.noroff.no","venueManager":true,"accessToken":"tok"},"meta":{}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", nil)

	session, err := c.Login(context.Background(), &booking.Credentials{Email: "kari@stud.noroff.no", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if session.AccessToken != "tok" || session.Profile.Name != "kari" || !session.Profile.VenueManager {
		t.Errorf("unexpected session: %+v", session)
	}
}

func TestRemoteErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Invalid email or password"}],"status":"Unauthorized","statusCode":401}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	c := newTestClient(t, srv.URL, "", reg)

	_, err := c.Login(context.Background(), &booking.Credentials{Email: "a@b.no", Password: "wrongpass"})

	remoteErr := booking.IsRemoteError(err)
	if remoteErr == nil {
		t.Fatalf("expected remote error, got %v", err)
	}

	if remoteErr.StatusCode != http.StatusUnauthorized || remoteErr.Message() != "Invalid email or password" {
		t.Errorf("unexpected remote error: %+v", remoteErr)
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("expected one request, got %d", n)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var counted bool

	for _, mf := range families {
		if mf.GetName() != "holidaze_remote_requests_total" {
			continue
		}

		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "status" && lp.GetValue() == "401" && m.GetCounter().GetValue() == 1 {
					counted = true
				}
			}
		}
	}

	if !counted {
		t.Error("request not counted with status 401")
	}
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.GetVenue(ctx, "v1")
		if remoteErr := booking.IsRemoteError(err); remoteErr == nil || remoteErr.StatusCode != http.StatusInternalServerError {
			t.Fatalf("call %d: expected 500 remote error, got %v", i, err)
		}
	}

	_, err := c.GetVenue(ctx, "v1")
	if !errors.Is(err, booking.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	if n := hits.Load(); n != 2 {
		t.Errorf("expected 2 requests to reach the server, got %d", n)
	}
}

func TestClientErrorsDoNotOpenBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"message":"No venue with such ID"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", nil)

	for i := 0; i < 4; i++ {
		_, err := c.GetVenue(context.Background(), "missing")
		if remoteErr := booking.IsRemoteError(err); remoteErr == nil || remoteErr.StatusCode != http.StatusNotFound {
			t.Fatalf("call %d: expected 404 remote error, got %v", i, err)
		}
	}
}

func TestVenueRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		switch r.URL.Path {
		case "/holidaze/venues/search":
			if q.Get("q") != "cabin" || q.Get("limit") != "10" || q.Get("page") != "2" {
				t.Errorf("unexpected search query: %s", r.URL.RawQuery)
			}

			_, _ = w.Write([]byte(`{"data":[{"id":"v1","name":"Cabin"}],"meta":{"currentPage":2}}`))
		case "/holidaze/venues/v1":
			if q.Get("_bookings") != "true" || q.Get("_owner") != "true" {
				t.Errorf("unexpected venue query: %s", r.URL.RawQuery)
			}

			_, _ = w.Write([]byte(`{"data":{"id":"v1","maxGuests":3,"bookings":[{"id":"b1","dateFrom":"2024-07-01T00:00:00.000Z","dateTo":"2024-07-03T00:00:00.000Z","guests":2}]}}`))
		case "/holidaze/venues/v2":
			if r.Method != http.MethodDelete {
				t.Errorf("unexpected method %s", r.Method)
			}

			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok", nil)
	ctx := context.Background()

	page, err := c.SearchVenues(ctx, booking.ListVenuesInput{Query: " cabin ", Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(page.Venues) != 1 || page.Meta.CurrentPage != 2 {
		t.Errorf("unexpected page: %+v", page)
	}

	venue, err := c.GetVenue(ctx, "v1")
	if err != nil {
		t.Fatalf("get venue: %v", err)
	}

	if len(venue.Bookings) != 1 || venue.Bookings[0].DateTo.Day() != 3 {
		t.Errorf("unexpected venue: %+v", venue)
	}

	if err := c.DeleteVenue(ctx, "v2"); err != nil {
		t.Errorf("delete venue: %v", err)
	}
}

func TestIDsCannotAddressOtherResources(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "tok", nil)
	ctx := context.Background()

	for _, id := range []string{"../../auth/register", "../venues/v1", "..", ".", ""} {
		if err := c.DeleteBooking(ctx, id); !errors.Is(err, booking.ErrInvalidID) {
			t.Errorf("DeleteBooking(%q): expected ErrInvalidID, got %v", id, err)
		}
	}

	if _, err := c.ProfileBookings(ctx, "kari/../../venues"); !errors.Is(err, booking.ErrInvalidID) {
		t.Errorf("ProfileBookings: expected ErrInvalidID, got %v", err)
	}

	if n := hits.Load(); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestIDsAreEscaped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.EscapedPath(); got != "/holidaze/venues/a%20b%3Fc" {
			t.Errorf("unexpected path %q", got)
		}

		if r.URL.Query().Get("_bookings") != "true" {
			t.Errorf("query lost: %q", r.URL.RawQuery)
		}

		_, _ = w.Write([]byte(`{"data":{"id":"a b?c"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", nil)

	venue, err := c.GetVenue(context.Background(), "a b?c")
	if err != nil {
		t.Fatalf("get venue: %v", err)
	}

	if venue.ID != "a b?c" {
		t.Errorf("unexpected venue %+v", venue)
	}
}

func TestCancelledCallsDoNotOpenBreaker(t *testing.T) {
	var slow atomic.Bool

	slow.Store(true)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(500 * time.Millisecond):
			}
		}

		_, _ = w.Write([]byte(`{"data":{"id":"v1"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", nil)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)

		_, err := c.GetVenue(ctx, "v1")

		cancel()

		if err == nil || errors.Is(err, booking.ErrUnavailable) {
			t.Fatalf("call %d: expected the caller's deadline, got %v", i, err)
		}
	}

	slow.Store(false)

	venue, err := c.GetVenue(context.Background(), "v1")
	if err != nil {
		t.Fatalf("healthy call after cancellations: %v", err)
	}

	if venue.ID != "v1" {
		t.Errorf("unexpected venue %+v", venue)
	}
}
