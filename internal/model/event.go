// Package model defines the event and document types flowing through the pipeline.
package model

// RawEvent is a user-profile record as assembled by the generator: a
// randomuser-style person merged with a reverse-geocoded location and a
// producer-assigned unique id. It is serialized as strict JSON on the wire.
type RawEvent struct {
	ID       string   `json:"id"`
	Name     Name     `json:"name"`
	Gender   string   `json:"gender"`
	DOB      DOB      `json:"dob"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Location Location `json:"location"`
	Picture  Picture  `json:"picture"`
}

// Name holds the parts of a person's name.
type Name struct {
	Title string `json:"title"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// DOB holds date of birth information.
type DOB struct {
	Date string `json:"date"`
	Age  int    `json:"age"`
}

// Location is the reverse-geocoded location skeleton. The address
// sub-fields are pointers because the geocoder omits whatever it cannot
// resolve for a coordinate; null is an expected value for any of them.
type Location struct {
	Country     string   `json:"country"`
	CountryCode string   `json:"country_code"`
	State       *string  `json:"state"`
	City        *string  `json:"city"`
	County      *string  `json:"county"`
	Town        *string  `json:"town"`
	Suburb      *string  `json:"suburb"`
	Street      *string  `json:"street"`
	Postcode    *string  `json:"postcode"`
	HouseNumber *string  `json:"housenumber"`
	Lon         float64  `json:"lon"`
	Lat         float64  `json:"lat"`
	Timezone    Timezone `json:"timezone"`
}

// Timezone holds timezone details as reported by the geocoder.
type Timezone struct {
	Name            string `json:"name"`
	AbbreviationDST string `json:"abbreviation_DST"`
	OffsetDST       string `json:"offset_DST"`
}

// Picture holds profile image URLs.
type Picture struct {
	Thumbnail string `json:"thumbnail"`
}
