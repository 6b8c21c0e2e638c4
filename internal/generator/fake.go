package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/profilestream/profilestream/internal/model"
)

// FakeSource generates complete raw events offline. It backs the
// producer's "local" mode and the test suites, and needs neither the
// person service nor the geocoder.
type FakeSource struct{}

// NewFakeSource seeds the generator and returns a source.
func NewFakeSource(seed int64) *FakeSource {
	gofakeit.Seed(seed)
	return &FakeSource{}
}

// RandomCoordinate samples a random candidate coordinate. The curated
// coordinate set used in production is prepared offline; this stands in
// for it when no prepared set is supplied.
func RandomCoordinate() (lat, lon float64) {
	return gofakeit.Latitude(), gofakeit.Longitude()
}

// Generate builds one synthetic raw event.
func (s *FakeSource) Generate(_ context.Context) (*model.RawEvent, error) {
	gender := gofakeit.Gender()
	first := gofakeit.FirstName()
	last := gofakeit.LastName()

	title := "Mr"
	if gender == "female" {
		title = "Ms"
	}

	dob := gofakeit.DateRange(
		time.Date(1944, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2006, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
	age := int(time.Since(dob).Hours() / 24 / 365)

	lat, lon := RandomCoordinate()

	return &model.RawEvent{
		ID:     uuid.NewString(),
		Name:   model.Name{Title: title, First: first, Last: last},
		Gender: gender,
		DOB: model.DOB{
			Date: dob.Format(time.RFC3339),
			Age:  age,
		},
		Email: fmt.Sprintf("%s.%s@%s",
			strings.ToLower(first), strings.ToLower(last), gofakeit.DomainName()),
		Phone: GhanaPhone(),
		Location: model.Location{
			Country:     gofakeit.Country(),
			CountryCode: gofakeit.CountryAbr(),
			State:       strPtr(gofakeit.State()),
			City:        strPtr(gofakeit.City()),
			Street:      strPtr(gofakeit.StreetName()),
			Postcode:    strPtr(gofakeit.Zip()),
			HouseNumber: strPtr(gofakeit.StreetNumber()),
			Lat:         lat,
			Lon:         lon,
			Timezone: model.Timezone{
				Name:            gofakeit.TimeZone(),
				AbbreviationDST: gofakeit.TimeZoneAbv(),
				OffsetDST:       fmt.Sprintf("%+d:00", gofakeit.Number(-11, 12)),
			},
		},
		Picture: model.Picture{
			Thumbnail: gofakeit.ImageURL(128, 128),
		},
	}, nil
}

func strPtr(s string) *string { return &s }
