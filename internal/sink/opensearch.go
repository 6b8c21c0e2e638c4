// Package sink persists normalized documents into OpenSearch.
package sink

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/profilestream/profilestream/internal/model"
)

// ErrDuplicateID is returned when a document with the same id was
// already stored. Re-processing after an uncommitted offset replay hits
// this instead of overwriting: inserts are create-only, not upserts.
var ErrDuplicateID = errors.New("document id already exists")

// Config holds OpenSearch connection configuration.
type Config struct {
	URL           string
	Username      string
	Password      string
	Index         string
	TLSSkipVerify bool
}

// OpenSearch writes each document exactly once, keyed by its id.
type OpenSearch struct {
	client *opensearch.Client
	index  string
}

// Connect creates the client and verifies the cluster is reachable.
func Connect(cfg Config) (*OpenSearch, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.TLSSkipVerify,
			},
		},
	}

	osCfg := opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: httpClient.Transport,
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	info, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to ping opensearch: %w", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return nil, fmt.Errorf("opensearch returned error: %s", info.Status())
	}

	return &OpenSearch{client: client, index: cfg.Index}, nil
}

// EnsureIndex creates the document index if it does not exist yet. The
// document id is the store's _id, so uniqueness comes for free.
func (s *OpenSearch) EnsureIndex(ctx context.Context) error {
	exists := opensearchapi.IndicesExistsRequest{Index: []string{s.index}}
	res, err := exists.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", s.index, err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	create := opensearchapi.IndicesCreateRequest{
		Index: s.index,
		Body:  strings.NewReader(indexMapping),
	}
	res, err = create.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("failed to create index %s: %s - %s", s.index, res.Status(), body)
	}
	return nil
}

// Store inserts doc keyed by its id. A second insert with the same id
// fails with ErrDuplicateID rather than overwriting the stored document.
func (s *OpenSearch) Store(ctx context.Context, doc *model.NormalizedDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", doc.ID, err)
	}

	req := opensearchapi.CreateRequest{
		Index:      s.index,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(data),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("store document %s: %w", doc.ID, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusConflict {
		return fmt.Errorf("document %s: %w", doc.ID, ErrDuplicateID)
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("store document %s: %s - %s", doc.ID, res.Status(), body)
	}
	return nil
}

// indexMapping keeps the fields the documents are queried by as
// keywords; everything else maps dynamically.
const indexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "properties": {
      "gender": {"type": "keyword"},
      "country_code": {"type": "keyword"},
      "email": {"type": "keyword"},
      "phone": {"type": "keyword"},
      "location": {
        "properties": {
          "coordinates": {
            "properties": {
              "longitude": {"type": "double"},
              "latitude": {"type": "double"}
            }
          }
        }
      }
    }
  }
}`
