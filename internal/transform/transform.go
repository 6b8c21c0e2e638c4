// Package transform reshapes raw user-profile events into normalized
// documents. It is pure: no I/O, no shared state beyond the injected clock.
package transform

import (
	"fmt"
	"time"

	"github.com/profilestream/profilestream/internal/model"
)

// CreatedAtLayout is the human-readable timestamp written into every
// document, e.g. "January 02, 2006 15:04:05".
const CreatedAtLayout = "January 02, 2006 15:04:05"

// SchemaError reports a raw event missing a field the mapping cannot
// tolerate as null.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("raw event missing required field %q", e.Field)
}

// Engine applies the fixed field mapping to one raw event at a time.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine stamping documents with the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock returns an engine with an injected clock.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Transform maps a raw event to a normalized document. Every field is
// null-tolerant except the id, which becomes the document's idempotency
// key; a missing id yields a SchemaError.
//
// CreatedAt is the transformation time, not the event time, so two
// transformations of the same event at different times produce different
// documents. The id they share is what keeps persistence idempotent.
func (e *Engine) Transform(raw *model.RawEvent) (*model.NormalizedDocument, error) {
	if raw.ID == "" {
		return nil, &SchemaError{Field: "id"}
	}

	loc := model.DocLocation{
		Region:      raw.Location.State,
		City:        raw.Location.City,
		District:    raw.Location.County,
		Town:        raw.Location.Town,
		Suburb:      raw.Location.Suburb,
		Street:      raw.Location.Street,
		Postcode:    raw.Location.Postcode,
		HouseNumber: raw.Location.HouseNumber,
		Coordinates: model.Coordinates{
			Longitude: raw.Location.Lon,
			Latitude:  raw.Location.Lat,
		},
	}

	return &model.NormalizedDocument{
		ID:          raw.ID,
		Name:        raw.Name.First + " " + raw.Name.Last,
		Title:       raw.Name.Title,
		Gender:      normalizeGender(raw.Gender),
		Age:         raw.DOB.Age,
		DOB:         raw.DOB.Date,
		Email:       raw.Email,
		Phone:       raw.Phone,
		Country:     raw.Location.Country,
		CountryCode: raw.Location.CountryCode,
		Image:       raw.Picture.Thumbnail,
		Location:    loc,
		Timezone:    raw.Location.Timezone,
		Address:     ComposeAddress(loc),
		CreatedAt:   e.now().Format(CreatedAtLayout),
	}, nil
}

// normalizeGender collapses gender to a single letter. Only "female"
// maps to "F"; every other value, including empty, maps to "M". The
// binary mapping is a known simplification carried over from the source
// data contract.
func normalizeGender(gender string) string {
	if gender == "female" {
		return "F"
	}
	return "M"
}
