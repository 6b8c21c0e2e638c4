package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profilestream/profilestream/internal/model"
)

func strptr(s string) *string { return &s }

func sampleEvent() *model.RawEvent {
	return &model.RawEvent{
		ID:     "abc-1",
		Name:   model.Name{Title: "Mr", First: "John", Last: "Doe"},
		Gender: "male",
		DOB:    model.DOB{Age: 30, Date: "1994-01-01"},
		Email:  "j@x.com",
		Phone:  "2332012345678",
		Location: model.Location{
			Country:     "Ghana",
			CountryCode: "GH",
			State:       strptr("Greater Accra"),
			City:        strptr("Accra"),
			County:      nil,
			Town:        nil,
			Suburb:      strptr("Osu"),
			Street:      strptr("Oxford St"),
			Postcode:    strptr("00233"),
			HouseNumber: strptr("12"),
			Lon:         -0.18,
			Lat:         5.55,
			Timezone: model.Timezone{
				Name:            "GMT",
				AbbreviationDST: "GMT",
				OffsetDST:       "+0:00",
			},
		},
		Picture: model.Picture{Thumbnail: "http://example.com/thumb.jpg"},
	}
}

func TestTransform(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2024, time.March, 5, 14, 30, 9, 0, time.UTC)
	}
	engine := NewEngineWithClock(clock)

	doc, err := engine.Transform(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "abc-1", doc.ID)
	assert.Equal(t, "John Doe", doc.Name)
	assert.Equal(t, "Mr", doc.Title)
	assert.Equal(t, "M", doc.Gender)
	assert.Equal(t, 30, doc.Age)
	assert.Equal(t, "1994-01-01", doc.DOB)
	assert.Equal(t, "j@x.com", doc.Email)
	assert.Equal(t, "2332012345678", doc.Phone)
	assert.Equal(t, "Ghana", doc.Country)
	assert.Equal(t, "GH", doc.CountryCode)
	assert.Equal(t, "http://example.com/thumb.jpg", doc.Image)
	assert.Equal(t, "12, Oxford St, Osu, Accra, Greater Accra", doc.Address)
	assert.Equal(t, "March 05, 2024 14:30:09", doc.CreatedAt)

	require.NotNil(t, doc.Location.Region)
	assert.Equal(t, "Greater Accra", *doc.Location.Region)
	assert.Nil(t, doc.Location.District)
	assert.Nil(t, doc.Location.Town)
	assert.Equal(t, -0.18, doc.Location.Coordinates.Longitude)
	assert.Equal(t, 5.55, doc.Location.Coordinates.Latitude)
	assert.Equal(t, "GMT", doc.Timezone.Name)
}

func TestTransform_GenderMapping(t *testing.T) {
	tests := []struct {
		gender string
		want   string
	}{
		{"female", "F"},
		{"male", "M"},
		{"Female", "M"}, // mapping is case-sensitive
		{"nonbinary", "M"},
		{"", "M"},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.gender, func(t *testing.T) {
			raw := sampleEvent()
			raw.Gender = tt.gender
			doc, err := engine.Transform(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Gender)
		})
	}
}

func TestTransform_MissingID(t *testing.T) {
	raw := sampleEvent()
	raw.ID = ""

	_, err := NewEngine().Transform(raw)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "id", schemaErr.Field)
}

func TestTransform_StableIDAcrossClocks(t *testing.T) {
	first := NewEngineWithClock(func() time.Time {
		return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	})
	second := NewEngineWithClock(func() time.Time {
		return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	})

	docA, err := first.Transform(sampleEvent())
	require.NoError(t, err)
	docB, err := second.Transform(sampleEvent())
	require.NoError(t, err)

	// The idempotency key never moves; the transformation timestamp does.
	assert.Equal(t, docA.ID, docB.ID)
	assert.NotEqual(t, docA.CreatedAt, docB.CreatedAt)
}
