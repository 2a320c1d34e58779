package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avstrong/holidaze/internal/booking"
	"github.com/avstrong/holidaze/internal/calendar"
	"github.com/avstrong/holidaze/internal/faq"
)

type homeView struct {
	Featured []booking.Venue `json:"featured"`
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	venues, err := s.bManager.Featured(r.Context())
	if err != nil {
		s.writeError(w, err, "load featured venues")

		return
	}

	s.writeJSON(w, http.StatusOK, homeView{Featured: venues})
}

func (s *Server) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	input, err := listInput(r.URL.Query())
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})

		return
	}

	page, err := s.bManager.Venues(r.Context(), input)
	if err != nil {
		s.writeError(w, err, "list venues")

		return
	}

	s.writeJSON(w, http.StatusOK, page)
}

func listInput(q url.Values) (booking.ListVenuesInput, error) {
	input := booking.ListVenuesInput{
		Query:     q.Get("q"),
		Sort:      q.Get("sort"),
		SortOrder: q.Get("sortOrder"),
	}

	for name, dst := range map[string]*int{"page": &input.Page, "limit": &input.Limit} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}

		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return input, fmt.Errorf("%s must be a positive number", name)
		}

		*dst = n
	}

	return input, nil
}

func (s *Server) venueHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := s.bManager.Venue(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err, "get venue")

		return
	}

	s.writeJSON(w, http.StatusOK, detail)
}

// venueFormHandler returns the form prefilled from the venue, as the edit
// screen shows it.
func (s *Server) venueFormHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := s.bManager.Venue(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err, "get venue")

		return
	}

	s.writeJSON(w, http.StatusOK, booking.FormFromVenue(detail.Venue))
}

func (s *Server) venueCalendarHandler(w http.ResponseWriter, r *http.Request) {
	venue, err := s.bManager.VenueBookings(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err, "export venue calendar")

		return
	}

	s.writeCalendar(w, venue.Name, venue.Bookings)
}

func (s *Server) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	var form booking.VenueForm
	if !s.decodeBody(w, r, &form) {
		return
	}

	venue, err := s.bManager.CreateVenue(r.Context(), &form)
	if err != nil {
		s.writeError(w, err, "create venue")

		return
	}

	s.writeJSON(w, http.StatusCreated, venue)
}

func (s *Server) updateVenueHandler(w http.ResponseWriter, r *http.Request) {
	var form booking.VenueForm
	if !s.decodeBody(w, r, &form) {
		return
	}

	venue, err := s.bManager.UpdateVenue(r.Context(), r.PathValue("id"), &form)
	if err != nil {
		s.writeError(w, err, "update venue")

		return
	}

	s.writeJSON(w, http.StatusOK, venue)
}

func (s *Server) deleteVenueHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.bManager.DeleteVenue(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err, "delete venue")

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	var form booking.BookingForm
	if !s.decodeBody(w, r, &form) {
		return
	}

	confirmation, err := s.bManager.Book(r.Context(), &form)
	if err != nil {
		s.writeError(w, err, "create booking")

		return
	}

	s.writeJSON(w, http.StatusCreated, confirmation)
}

func (s *Server) bookingHandler(w http.ResponseWriter, r *http.Request) {
	confirmation, err := s.bManager.Confirmation(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err, "get booking")

		return
	}

	s.writeJSON(w, http.StatusOK, confirmation)
}

func (s *Server) updateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var form booking.BookingForm
	if !s.decodeBody(w, r, &form) {
		return
	}

	b, err := s.bManager.UpdateBooking(r.Context(), r.PathValue("id"), &form)
	if err != nil {
		s.writeError(w, err, "update booking")

		return
	}

	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.bManager.CancelBooking(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err, "cancel booking")

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) profileHandler(w http.ResponseWriter, r *http.Request) {
	view, err := s.bManager.Profile(r.Context())
	if err != nil {
		s.writeError(w, err, "load profile")

		return
	}

	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var update booking.ProfileUpdate
	if !s.decodeBody(w, r, &update) {
		return
	}

	profile, err := s.bManager.UpdateProfile(r.Context(), &update)
	if err != nil {
		s.writeError(w, err, "update profile")

		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) profileCalendarHandler(w http.ResponseWriter, r *http.Request) {
	profile, bookings, err := s.bManager.ProfileBookings(r.Context())
	if err != nil {
		s.writeError(w, err, "export profile calendar")

		return
	}

	s.writeCalendar(w, profile.Name+" bookings", bookings)
}

func (s *Server) writeCalendar(w http.ResponseWriter, title string, bookings []booking.Booking) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(calendar.Export(title, bookings, s.conf.Location, time.Now().UTC()))); err != nil {
		s.l.LogErrorf("Could not write calendar: %v", err.Error())
	}
}

func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	status, err := s.bManager.Session(r.Context())
	if err != nil {
		s.writeError(w, err, "read session")

		return
	}

	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials booking.Credentials
	if !s.decodeBody(w, r, &credentials) {
		return
	}

	session, err := s.bManager.Login(r.Context(), &credentials)
	if err != nil {
		s.writeError(w, err, "log in")

		return
	}

	s.writeJSON(w, http.StatusOK, session.Profile)
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var registration booking.Registration
	if !s.decodeBody(w, r, &registration) {
		return
	}

	session, err := s.bManager.Register(r.Context(), &registration)
	if err != nil {
		s.writeError(w, err, "register")

		return
	}

	s.writeJSON(w, http.StatusCreated, session.Profile)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.bManager.Logout(r.Context()); err != nil {
		s.writeError(w, err, "log out")

		return
	}

	w.Header().Set("Clear-Site-Data", `"storage"`)
	w.WriteHeader(http.StatusNoContent)
}

type favoritesView struct {
	Favorites []string `json:"favorites"`
}

func (s *Server) favoritesHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := s.bManager.Favorites(r.Context())
	if err != nil {
		s.writeError(w, err, "read favorites")

		return
	}

	s.writeJSON(w, http.StatusOK, favoritesView{Favorites: ids})
}

func (s *Server) toggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := s.bManager.ToggleFavorite(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err, "toggle favorite")

		return
	}

	s.writeJSON(w, http.StatusOK, favoritesView{Favorites: ids})
}

func (s *Server) faqHandler(w http.ResponseWriter, _ *http.Request) {
	page, err := faq.Render()
	if err != nil {
		s.l.LogErrorf("Could not render faq: %v", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := w.Write(page); err != nil {
		s.l.LogErrorf("Could not write faq: %v", err.Error())
	}
}

func (s *Server) notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusNotFound, errorBody{Error: "Page not found"})
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *http.ServeMux) {
	routes := map[string]http.HandlerFunc{
		"GET /{$}":                          s.homeHandler,
		"GET /api/venues":                   s.listVenuesHandler,
		"POST /api/venues":                  s.createVenueHandler,
		"GET /api/venues/{id}":              s.venueHandler,
		"PUT /api/venues/{id}":              s.updateVenueHandler,
		"DELETE /api/venues/{id}":           s.deleteVenueHandler,
		"GET /api/venues/{id}/form":         s.venueFormHandler,
		"GET /api/venues/{id}/calendar.ics": s.venueCalendarHandler,
		"POST /api/bookings":                s.createBookingHandler,
		"GET /api/bookings/{id}":            s.bookingHandler,
		"PUT /api/bookings/{id}":            s.updateBookingHandler,
		"DELETE /api/bookings/{id}":         s.cancelBookingHandler,
		"GET /api/profile":                  s.profileHandler,
		"PUT /api/profile":                  s.updateProfileHandler,
		"GET /api/profile/bookings.ics":     s.profileCalendarHandler,
		"GET /api/session":                  s.sessionHandler,
		"POST /api/auth/login":              s.loginHandler,
		"POST /api/auth/register":           s.registerHandler,
		"POST /api/auth/logout":             s.logoutHandler,
		"GET /api/favorites":                s.favoritesHandler,
		"POST /api/favorites/{id}":          s.toggleFavoriteHandler,
		"GET /faq":                          s.faqHandler,
		"/":                                 s.notFoundHandler,
	}

	for pattern, h := range routes {
		r.Handle(pattern, s.applyMiddlewares(h, s.loggerMiddleware(), s.recoverMiddleware()))
	}

	r.Handle(
		fmt.Sprintf("GET %s", s.conf.LivenessEndpoint),
		s.applyMiddlewares(http.HandlerFunc(s.livenessHandler), s.loggerMiddleware(), s.recoverMiddleware()),
	)

	if s.conf.Metrics != nil {
		r.Handle("GET /metrics", s.conf.Metrics)
	}
}
