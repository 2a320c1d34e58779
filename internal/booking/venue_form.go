package booking

import (
	"fmt"
	"strings"
)

// MaxMediaURLs is how many image url inputs the venue form offers.
const MaxMediaURLs = 4

// VenueForm is the flat create/edit venue form.
type VenueForm struct {
	Name        string   `json:"name" validate:"notblank"`
	Description string   `json:"description" validate:"notblank"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Zip         string   `json:"zip"`
	Country     string   `json:"country"`
	Continent   string   `json:"continent"`
	Lat         float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64  `json:"lng" validate:"gte=-180,lte=180"`
	MediaURLs   []string `json:"mediaUrls" validate:"max=4,hasimage"`
	Price       float64  `json:"price" validate:"gte=0"`
	MaxGuests   int      `json:"maxGuests" validate:"gte=1"`
	Wifi        bool     `json:"wifi"`
	Parking     bool     `json:"parking"`
	Breakfast   bool     `json:"breakfast"`
	Pets        bool     `json:"pets"`
}

var venueFormMessages = map[string]string{
	"name.notblank":        "provide a title",
	"description.notblank": "provide a description",
	"lat.gte":              "lat must be between -90 and 90",
	"lat.lte":              "lat must be between -90 and 90",
	"lng.gte":              "lng must be between -180 and 180",
	"lng.lte":              "lng must be between -180 and 180",
	"mediaUrls.max":        fmt.Sprintf("provide at most %d image urls", MaxMediaURLs),
	"mediaUrls.hasimage":   "provide at least one image url",
	"price.gte":            "price must not be negative",
	"maxGuests.gte":        "maxGuests must be at least 1",
}

// Validate checks the form before anything is sent to the remote API.
func (f *VenueForm) Validate() error {
	return validateStruct(f, venueFormMessages).errOrNil()
}

// Input maps the form to the remote representation. Blank urls are dropped
// and each image gets alt text derived from the title.
func (f *VenueForm) Input() *VenueInput {
	name := strings.TrimSpace(f.Name)
	media := make([]Media, 0, len(f.MediaURLs))

	for _, u := range f.MediaURLs {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}

		alt := name
		if len(media) > 0 {
			alt = fmt.Sprintf("%s (%d)", name, len(media)+1)
		}

		media = append(media, Media{URL: u, Alt: alt})
	}

	return &VenueInput{
		Name:        name,
		Description: strings.TrimSpace(f.Description),
		Media:       media,
		Price:       f.Price,
		MaxGuests:   f.MaxGuests,
		Meta: Meta{
			Wifi:      f.Wifi,
			Parking:   f.Parking,
			Breakfast: f.Breakfast,
			Pets:      f.Pets,
		},
		Location: Location{
			Address:   strings.TrimSpace(f.Address),
			City:      strings.TrimSpace(f.City),
			Zip:       strings.TrimSpace(f.Zip),
			Country:   strings.TrimSpace(f.Country),
			Continent: strings.TrimSpace(f.Continent),
			Lat:       f.Lat,
			Lng:       f.Lng,
		},
	}
}

// FormFromVenue pre-fills the edit form.
func FormFromVenue(v *Venue) *VenueForm {
	urls := make([]string, 0, MaxMediaURLs)

	for _, m := range v.Media {
		if len(urls) == MaxMediaURLs {
			break
		}

		urls = append(urls, m.URL)
	}

	return &VenueForm{
		Name:        v.Name,
		Description: v.Description,
		Address:     v.Location.Address,
		City:        v.Location.City,
		Zip:         v.Location.Zip,
		Country:     v.Location.Country,
		Continent:   v.Location.Continent,
		Lat:         v.Location.Lat,
		Lng:         v.Location.Lng,
		MediaURLs:   urls,
		Price:       v.Price,
		MaxGuests:   v.MaxGuests,
		Wifi:        v.Meta.Wifi,
		Parking:     v.Meta.Parking,
		Breakfast:   v.Meta.Breakfast,
		Pets:        v.Meta.Pets,
	}
}
