package booking

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/avstrong/holidaze/internal/logger"
	"github.com/avstrong/holidaze/internal/pricing"
)

const minPasswordLength = 8

type gateway interface {
	Login(ctx context.Context, credentials *Credentials) (*Session, error)
	Register(ctx context.Context, registration *Registration) (*Profile, error)

	ListVenues(ctx context.Context, input ListVenuesInput) (*VenuePage, error)
	SearchVenues(ctx context.Context, input ListVenuesInput) (*VenuePage, error)
	GetVenue(ctx context.Context, id string) (*Venue, error)
	CreateVenue(ctx context.Context, input *VenueInput) (*Venue, error)
	UpdateVenue(ctx context.Context, id string, input *VenueInput) (*Venue, error)
	DeleteVenue(ctx context.Context, id string) error

	GetBooking(ctx context.Context, id string) (*Booking, error)
	CreateBooking(ctx context.Context, input *BookingInput) (*Booking, error)
	UpdateBooking(ctx context.Context, id string, input *BookingInput) (*Booking, error)
	DeleteBooking(ctx context.Context, id string) error

	UpdateProfile(ctx context.Context, name string, update *ProfileUpdate) (*Profile, error)
	ProfileBookings(ctx context.Context, name string) ([]Booking, error)
	ProfileVenues(ctx context.Context, name string) ([]Venue, error)
}

type sessionReader interface {
	Profile(ctx context.Context) (*Profile, error)
	TokenInfo(ctx context.Context) (*TokenInfo, error)
	Favorites(ctx context.Context) ([]string, error)
	IsFavorite(ctx context.Context, id string) (bool, error)
}

type sessionWriter interface {
	Save(ctx context.Context, session *Session) error
	SaveProfile(ctx context.Context, profile *Profile) error
	Clear(ctx context.Context) error
	ToggleFavorite(ctx context.Context, id string) ([]string, error)
}

type sessionStore interface {
	sessionReader
	sessionWriter
}

type accessControl interface {
	Allowed(role, object, action string) (bool, error)
}

// Objects and actions checked against the access policy.
const (
	ObjectVenue    = "venue"
	ObjectBooking  = "booking"
	ObjectProfile  = "profile"
	ObjectFavorite = "favorite"

	ActionRead  = "read"
	ActionWrite = "write"
)

type Config struct {
	L        *logger.Logger
	Location *time.Location
	Featured int
}

type Manager struct {
	l        *logger.Logger
	gateway  gateway
	session  sessionStore
	access   accessControl
	loc      *time.Location
	featured int
}

func New(conf Config, gateway gateway, session sessionStore, access accessControl) *Manager {
	loc := conf.Location
	if loc == nil {
		loc = time.Local
	}

	return &Manager{
		l:        conf.L,
		gateway:  gateway,
		session:  session,
		access:   access,
		loc:      loc,
		featured: conf.Featured,
	}
}

// authorize resolves the current role from the cached profile and checks it
// against the policy. Anonymous users asking for a customer-only action get
// ErrNotLoggedIn rather than ErrForbidden.
func (m *Manager) authorize(ctx context.Context, object, action string) (*Profile, error) {
	profile, err := m.session.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cached profile: %w", err)
	}

	role := RoleOf(profile)

	ok, err := m.access.Allowed(role, object, action)
	if err != nil {
		return nil, fmt.Errorf("check access %s %s %s: %w", role, object, action, err)
	}

	if ok {
		return profile, nil
	}

	if profile == nil {
		return nil, ErrNotLoggedIn
	}

	return nil, fmt.Errorf("%s may not %s %s: %w", role, action, object, ErrForbidden)
}

func (m *Manager) Login(ctx context.Context, credentials *Credentials) (*Session, error) {
	if err := validateCredentials(credentials); err != nil {
		return nil, err
	}

	session, err := m.gateway.Login(ctx, credentials)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := m.session.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.l.LogInfo("Logged in as %s", session.Profile.Name)

	return session, nil
}

func (r *Registration) validate() error {
	inputErr := newInputError()

	name := strings.TrimSpace(r.Name)
	if name == "" {
		inputErr.addError("name", "provide name")
	}

	if strings.ContainsFunc(name, func(c rune) bool {
		return !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
	}) {
		inputErr.addError("name", "name may only contain letters, digits and underscore")
	}

	if _, err := mail.ParseAddress(r.Email); err != nil {
		inputErr.addError("email", "provide valid email")
	}

	if len(r.Password) < minPasswordLength {
		inputErr.addError("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	return inputErr.errOrNil()
}

// Register creates the account and then logs in with the same credentials,
// since the remote register endpoint does not issue a token.
func (m *Manager) Register(ctx context.Context, registration *Registration) (*Session, error) {
	if err := registration.validate(); err != nil {
		return nil, err
	}

	if _, err := m.gateway.Register(ctx, registration); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	m.l.LogInfo("Registered %s", registration.Name)

	return m.Login(ctx, &Credentials{Email: registration.Email, Password: registration.Password})
}

// Logout drops the token, the profile snapshot and the favorites.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.session.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	m.l.LogInfo("Session cleared")

	return nil
}

type SessionStatus struct {
	LoggedIn bool       `json:"loggedIn"`
	Role     string     `json:"role"`
	Profile  *Profile   `json:"profile,omitempty"`
	Token    *TokenInfo `json:"token,omitempty"`
}

func (m *Manager) Session(ctx context.Context) (*SessionStatus, error) {
	profile, err := m.session.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cached profile: %w", err)
	}

	info, err := m.session.TokenInfo(ctx)
	if err != nil {
		m.l.LogErrorf("Could not decode stored token: %v", err.Error())
	}

	return &SessionStatus{
		LoggedIn: profile != nil,
		Role:     RoleOf(profile),
		Profile:  profile,
		Token:    info,
	}, nil
}

func (m *Manager) Venues(ctx context.Context, input ListVenuesInput) (*VenuePage, error) {
	if _, err := m.authorize(ctx, ObjectVenue, ActionRead); err != nil {
		return nil, err
	}

	var (
		page *VenuePage
		err  error
	)

	if strings.TrimSpace(input.Query) != "" {
		page, err = m.gateway.SearchVenues(ctx, input)
	} else {
		page, err = m.gateway.ListVenues(ctx, input)
	}

	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}

	return page, nil
}

// Featured returns the newest venues for the home page.
func (m *Manager) Featured(ctx context.Context) ([]Venue, error) {
	page, err := m.Venues(ctx, ListVenuesInput{
		Limit:     m.featured,
		Page:      1,
		Sort:      "created",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, err
	}

	return page.Venues, nil
}

func (m *Manager) Venue(ctx context.Context, id string) (*VenueDetail, error) {
	if _, err := m.authorize(ctx, ObjectVenue, ActionRead); err != nil {
		return nil, err
	}

	venue, err := m.gateway.GetVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get venue %s: %w", id, err)
	}

	favorite, err := m.session.IsFavorite(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check favorite %s: %w", id, err)
	}

	return &VenueDetail{
		Venue:         venue,
		DisabledDates: DisabledDateStrings(venue.Bookings, m.loc),
		Favorite:      favorite,
	}, nil
}

// VenueBookings returns the bookings embedded in a venue, for calendar export.
func (m *Manager) VenueBookings(ctx context.Context, id string) (*Venue, error) {
	if _, err := m.authorize(ctx, ObjectVenue, ActionRead); err != nil {
		return nil, err
	}

	venue, err := m.gateway.GetVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get venue %s: %w", id, err)
	}

	return venue, nil
}

func (m *Manager) CreateVenue(ctx context.Context, form *VenueForm) (*Venue, error) {
	if _, err := m.authorize(ctx, ObjectVenue, ActionWrite); err != nil {
		return nil, err
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	venue, err := m.gateway.CreateVenue(ctx, form.Input())
	if err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}

	m.l.LogInfo("Venue %s created", venue.ID)

	return venue, nil
}

func (m *Manager) UpdateVenue(ctx context.Context, id string, form *VenueForm) (*Venue, error) {
	if _, err := m.authorize(ctx, ObjectVenue, ActionWrite); err != nil {
		return nil, err
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	venue, err := m.gateway.UpdateVenue(ctx, id, form.Input())
	if err != nil {
		return nil, fmt.Errorf("update venue %s: %w", id, err)
	}

	m.l.LogInfo("Venue %s updated", id)

	return venue, nil
}

func (m *Manager) DeleteVenue(ctx context.Context, id string) error {
	if _, err := m.authorize(ctx, ObjectVenue, ActionWrite); err != nil {
		return err
	}

	if err := m.gateway.DeleteVenue(ctx, id); err != nil {
		return fmt.Errorf("delete venue %s: %w", id, err)
	}

	m.l.LogInfo("Venue %s deleted", id)

	return nil
}

// Book submits a booking for the venue named in the form. The venue is read
// first so guests can be checked against its capacity and the stay priced.
func (m *Manager) Book(ctx context.Context, form *BookingForm) (*Confirmation, error) {
	if _, err := m.authorize(ctx, ObjectBooking, ActionWrite); err != nil {
		return nil, err
	}

	if err := form.Validate(0); err != nil {
		return nil, err
	}

	venue, err := m.gateway.GetVenue(ctx, strings.TrimSpace(form.VenueID))
	if err != nil {
		return nil, fmt.Errorf("get venue %s: %w", form.VenueID, err)
	}

	if err := form.Validate(venue.MaxGuests); err != nil {
		return nil, err
	}

	booking, err := m.gateway.CreateBooking(ctx, form.Input())
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	m.l.LogInfo("Booking %s created for venue %s", booking.ID, venue.ID)

	return &Confirmation{
		Booking: booking,
		Venue:   venue,
		Quote:   pricing.New(venue.Price, booking.DateFrom, booking.DateTo, m.loc),
	}, nil
}

func (m *Manager) Confirmation(ctx context.Context, id string) (*Confirmation, error) {
	if _, err := m.authorize(ctx, ObjectBooking, ActionRead); err != nil {
		return nil, err
	}

	booking, err := m.gateway.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}

	confirmation := &Confirmation{Booking: booking, Venue: booking.Venue} //nolint:exhaustruct
	if booking.Venue != nil {
		confirmation.Quote = pricing.New(booking.Venue.Price, booking.DateFrom, booking.DateTo, m.loc)
	}

	return confirmation, nil
}

func (m *Manager) UpdateBooking(ctx context.Context, id string, form *BookingForm) (*Booking, error) {
	if _, err := m.authorize(ctx, ObjectBooking, ActionWrite); err != nil {
		return nil, err
	}

	if err := form.Validate(0); err != nil {
		return nil, err
	}

	booking, err := m.gateway.UpdateBooking(ctx, id, form.Input())
	if err != nil {
		return nil, fmt.Errorf("update booking %s: %w", id, err)
	}

	m.l.LogInfo("Booking %s updated", id)

	return booking, nil
}

func (m *Manager) CancelBooking(ctx context.Context, id string) error {
	if _, err := m.authorize(ctx, ObjectBooking, ActionWrite); err != nil {
		return err
	}

	if err := m.gateway.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("cancel booking %s: %w", id, err)
	}

	m.l.LogInfo("Booking %s cancelled", id)

	return nil
}

// Profile returns the cached profile with the user's bookings and, for venue
// managers, their venues fetched fresh.
func (m *Manager) Profile(ctx context.Context) (*ProfileView, error) {
	profile, err := m.authorize(ctx, ObjectProfile, ActionRead)
	if err != nil {
		return nil, err
	}

	bookings, err := m.gateway.ProfileBookings(ctx, profile.Name)
	if err != nil {
		return nil, fmt.Errorf("get bookings of %s: %w", profile.Name, err)
	}

	view := &ProfileView{Profile: profile, Bookings: bookings} //nolint:exhaustruct

	if profile.VenueManager {
		venues, err := m.gateway.ProfileVenues(ctx, profile.Name)
		if err != nil {
			return nil, fmt.Errorf("get venues of %s: %w", profile.Name, err)
		}

		view.Venues = venues
	}

	return view, nil
}

func (m *Manager) ProfileBookings(ctx context.Context) (*Profile, []Booking, error) {
	profile, err := m.authorize(ctx, ObjectProfile, ActionRead)
	if err != nil {
		return nil, nil, err
	}

	bookings, err := m.gateway.ProfileBookings(ctx, profile.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("get bookings of %s: %w", profile.Name, err)
	}

	return profile, bookings, nil
}

// UpdateProfile sends the update and replaces the cached snapshot with the
// remote answer.
func (m *Manager) UpdateProfile(ctx context.Context, update *ProfileUpdate) (*Profile, error) {
	profile, err := m.authorize(ctx, ObjectProfile, ActionWrite)
	if err != nil {
		return nil, err
	}

	if update.Bio == nil && update.Avatar == nil && update.Banner == nil && update.VenueManager == nil {
		inputErr := newInputError()
		inputErr.addError("profile", "provide at least one field to update")

		return nil, inputErr
	}

	updated, err := m.gateway.UpdateProfile(ctx, profile.Name, update)
	if err != nil {
		return nil, fmt.Errorf("update profile %s: %w", profile.Name, err)
	}

	if err := m.session.SaveProfile(ctx, updated); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	return updated, nil
}

func (m *Manager) Favorites(ctx context.Context) ([]string, error) {
	if _, err := m.authorize(ctx, ObjectFavorite, ActionRead); err != nil {
		return nil, err
	}

	ids, err := m.session.Favorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}

	return ids, nil
}

func (m *Manager) ToggleFavorite(ctx context.Context, id string) ([]string, error) {
	if _, err := m.authorize(ctx, ObjectFavorite, ActionWrite); err != nil {
		return nil, err
	}

	if strings.TrimSpace(id) == "" {
		inputErr := newInputError()
		inputErr.addError("id", "provide venue id")

		return nil, inputErr
	}

	ids, err := m.session.ToggleFavorite(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggle favorite %s: %w", id, err)
	}

	return ids, nil
}
