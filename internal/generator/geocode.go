package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/profilestream/profilestream/internal/model"
)

// GeocodeClient resolves a coordinate into a location skeleton via a
// reverse-geocoding API.
type GeocodeClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

// NewGeocodeClient returns a client for the given endpoint and API key.
func NewGeocodeClient(endpoint, apiKey string, timeout time.Duration) *GeocodeClient {
	return &GeocodeClient{
		httpClient: newHTTPClient(timeout),
		url:        endpoint,
		apiKey:     apiKey,
	}
}

type geocodeResponse struct {
	Features []struct {
		Properties model.Location `json:"properties"`
	} `json:"features"`
}

// Reverse looks up the location properties for a coordinate. Fields the
// geocoder cannot resolve stay null in the returned location.
func (c *GeocodeClient) Reverse(ctx context.Context, lat, lon float64) (*model.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("apiKey", c.apiKey)
	req.URL.RawQuery = params.Encode()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("geocoding service returned %d: %s", res.StatusCode, body)
	}

	var parsed geocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(parsed.Features) == 0 {
		return nil, fmt.Errorf("no geocoding features for (%f, %f)", lat, lon)
	}

	location := parsed.Features[0].Properties
	return &location, nil
}
