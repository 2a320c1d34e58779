package booking

import (
	"time"

	"github.com/avstrong/holidaze/internal/pricing"
)

type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type Location struct {
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Zip       string  `json:"zip"`
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

type Meta struct {
	Wifi      bool `json:"wifi"`
	Parking   bool `json:"parking"`
	Breakfast bool `json:"breakfast"`
	Pets      bool `json:"pets"`
}

type Venue struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Media       []Media   `json:"media"`
	Price       float64   `json:"price"`
	MaxGuests   int       `json:"maxGuests"`
	Rating      float64   `json:"rating"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	Meta        Meta      `json:"meta"`
	Location    Location  `json:"location"`
	Owner       *Profile  `json:"owner,omitempty"`
	Bookings    []Booking `json:"bookings,omitempty"`
}

// Booking covers every calendar day from DateFrom to DateTo inclusive.
type Booking struct {
	ID       string    `json:"id"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Venue    *Venue    `json:"venue,omitempty"`
	Customer *Profile  `json:"customer,omitempty"`
}

type ProfileCount struct {
	Venues   int `json:"venues"`
	Bookings int `json:"bookings"`
}

type Profile struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Bio          string        `json:"bio,omitempty"`
	Avatar       *Media        `json:"avatar,omitempty"`
	Banner       *Media        `json:"banner,omitempty"`
	VenueManager bool          `json:"venueManager"`
	Count        *ProfileCount `json:"_count,omitempty"`
}

type Session struct {
	AccessToken string  `json:"accessToken"`
	Profile     Profile `json:"profile"`
}

// TokenInfo holds the unverified claims of a stored access token.
type TokenInfo struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issuedAt"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Bio          string `json:"bio,omitempty"`
	Avatar       *Media `json:"avatar,omitempty"`
	VenueManager bool   `json:"venueManager"`
}

type VenueInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Media       []Media  `json:"media"`
	Price       float64  `json:"price"`
	MaxGuests   int      `json:"maxGuests"`
	Meta        Meta     `json:"meta"`
	Location    Location `json:"location"`
}

type BookingInput struct {
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	VenueID  string    `json:"venueId"`
}

type ProfileUpdate struct {
	Bio          *string `json:"bio,omitempty"`
	Avatar       *Media  `json:"avatar,omitempty"`
	Banner       *Media  `json:"banner,omitempty"`
	VenueManager *bool   `json:"venueManager,omitempty"`
}

type ListVenuesInput struct {
	Query     string
	Page      int
	Limit     int
	Sort      string
	SortOrder string
}

type PageMeta struct {
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
}

type VenuePage struct {
	Venues []Venue  `json:"venues"`
	Meta   PageMeta `json:"meta"`
}

// VenueDetail is a venue as shown on its own page.
type VenueDetail struct {
	Venue         *Venue   `json:"venue"`
	DisabledDates []string `json:"disabledDates"`
	Favorite      bool     `json:"favorite"`
}

type Confirmation struct {
	Booking *Booking       `json:"booking"`
	Venue   *Venue         `json:"venue,omitempty"`
	Quote   *pricing.Quote `json:"quote,omitempty"`
}

type ProfileView struct {
	Profile  *Profile  `json:"profile"`
	Bookings []Booking `json:"bookings"`
	Venues   []Venue   `json:"venues,omitempty"`
}

const (
	RoleAnonymous = "anonymous"
	RoleCustomer  = "customer"
	RoleManager   = "manager"
)

// RoleOf maps the cached profile to an access role. A nil profile is anonymous.
func RoleOf(p *Profile) string {
	switch {
	case p == nil:
		return RoleAnonymous
	case p.VenueManager:
		return RoleManager
	default:
		return RoleCustomer
	}
}
