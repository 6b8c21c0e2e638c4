package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/profilestream/profilestream/internal/model"
)

// RandomUserClient fetches random person records from a randomuser-style
// API. The response's location skeleton is discarded; the pipeline
// replaces it with a reverse-geocoded one.
type RandomUserClient struct {
	httpClient *http.Client
	url        string
}

// NewRandomUserClient returns a client for the given endpoint.
func NewRandomUserClient(url string, timeout time.Duration) *RandomUserClient {
	return &RandomUserClient{
		httpClient: newHTTPClient(timeout),
		url:        url,
	}
}

type randomUserResponse struct {
	Results []struct {
		Name    model.Name    `json:"name"`
		Gender  string        `json:"gender"`
		DOB     model.DOB     `json:"dob"`
		Email   string        `json:"email"`
		Picture model.Picture `json:"picture"`
	} `json:"results"`
}

// Fetch requests one person and maps it into a partial raw event with
// identity, location, and phone left for the caller to fill in.
func (c *RandomUserClient) Fetch(ctx context.Context) (*model.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("user service returned %d: %s", res.StatusCode, body)
	}

	var parsed randomUserResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	if len(parsed.Results) == 0 {
		return nil, fmt.Errorf("user service returned no results")
	}

	person := parsed.Results[0]
	return &model.RawEvent{
		Name:    person.Name,
		Gender:  person.Gender,
		DOB:     person.DOB,
		Email:   person.Email,
		Picture: person.Picture,
	}, nil
}
