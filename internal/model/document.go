package model

// NormalizedDocument is the reshaped form of a RawEvent as persisted in
// the document store. ID is the idempotency key: it becomes the store's
// document _id and is excluded from the indexed body.
type NormalizedDocument struct {
	ID          string      `json:"-"`
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Gender      string      `json:"gender"`
	Age         int         `json:"age"`
	DOB         string      `json:"dob"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Country     string      `json:"country"`
	CountryCode string      `json:"country_code"`
	Image       string      `json:"image"`
	Location    DocLocation `json:"location"`
	Timezone    Timezone    `json:"timezone"`
	Address     string      `json:"address"`
	CreatedAt   string      `json:"created_at"`
}

// DocLocation is the normalized location sub-object. Nullable fields
// stay pointers so nulls survive the round trip to the store.
type DocLocation struct {
	Region      *string     `json:"region"`
	City        *string     `json:"city"`
	District    *string     `json:"district"`
	Town        *string     `json:"town"`
	Suburb      *string     `json:"suburb"`
	Street      *string     `json:"street"`
	Postcode    *string     `json:"postcode"`
	HouseNumber *string     `json:"housenumber"`
	Coordinates Coordinates `json:"coordinates"`
}

// Coordinates is a longitude/latitude pair.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}
