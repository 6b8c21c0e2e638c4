// Package generator assembles synthetic user-profile events, either from
// the external person and reverse-geocoding services or fully offline.
package generator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/profilestream/profilestream/internal/model"
)

// Source produces one raw event per generation cycle.
type Source interface {
	Generate(ctx context.Context) (*model.RawEvent, error)
}

// LiveSource builds events from the external collaborators: a random
// person from the user service, a location reverse-geocoded from a
// sampled coordinate, a generated Ghana phone number, and a fresh uuid.
// Any collaborator failure aborts the cycle; the caller logs and moves on.
type LiveSource struct {
	users  *RandomUserClient
	geo    *GeocodeClient
	coords func() (lat, lon float64)
}

// NewLiveSource wires the external clients together. coords supplies
// candidate coordinates; pass nil to sample random ones.
func NewLiveSource(users *RandomUserClient, geo *GeocodeClient, coords func() (lat, lon float64)) *LiveSource {
	if coords == nil {
		coords = RandomCoordinate
	}
	return &LiveSource{users: users, geo: geo, coords: coords}
}

// Generate assembles one complete raw event.
func (s *LiveSource) Generate(ctx context.Context) (*model.RawEvent, error) {
	event, err := s.users.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch random user: %w", err)
	}

	lat, lon := s.coords()
	location, err := s.geo.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode (%f, %f): %w", lat, lon, err)
	}

	event.ID = uuid.NewString()
	event.Phone = GhanaPhone()
	event.Location = *location
	return event, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
