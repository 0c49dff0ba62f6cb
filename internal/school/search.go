// File: internal/school/search.go
package school

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dormview_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

// SchoolToElasticsearchDoc converts a School to its Elasticsearch document
// representation. The document ID is the school's UUID.
func SchoolToElasticsearchDoc(s *School) (string, error) {
	if s == nil {
		return "", errors.New("school cannot be nil")
	}

	doc := map[string]interface{}{
		"name":       s.Name,
		"slug":       s.Slug,
		"city":       s.City,
		"state":      s.State,
		"zip":        s.ZipCode,
		"pending":    s.Pending,
		"created_at": s.CreatedAt,
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshalling school to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}

type esSource struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	City      *string   `json:"city"`
	State     *string   `json:"state"`
	ZipCode   *string   `json:"zip"`
	Pending   bool      `json:"pending"`
	CreatedAt time.Time `json:"created_at"`
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string   `json:"_id"`
			Source esSource `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// searchSchools queries the schools index for approved schools matching the
// term against name and city.
func searchSchools(ctx context.Context, client *elasticsearch.ESClientWrapper, term string, size int) ([]SchoolResponse, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     term,
						"fields":    []string{"name^2", "city"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"pending": false},
				},
			},
		},
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("error encoding school search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{elasticsearch.SchoolsIndexName},
		Body:  &buf,
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		return nil, fmt.Errorf("school search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("school search returned status %s", res.Status())
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("error decoding school search response: %w", err)
	}

	results := make([]SchoolResponse, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		results = append(results, SchoolResponse{
			ID:        id,
			Name:      hit.Source.Name,
			Slug:      hit.Source.Slug,
			City:      hit.Source.City,
			State:     hit.Source.State,
			ZipCode:   hit.Source.ZipCode,
			Pending:   hit.Source.Pending,
			CreatedAt: hit.Source.CreatedAt,
		})
	}
	return results, nil
}

// indexSchool writes a school document into the schools index.
func indexSchool(ctx context.Context, client *elasticsearch.ESClientWrapper, s *School) error {
	doc, err := SchoolToElasticsearchDoc(s)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      elasticsearch.SchoolsIndexName,
		DocumentID: s.ID.String(),
		Body:       bytes.NewReader([]byte(doc)),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("failed to index school %s: %w", s.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("indexing school %s returned status %s", s.ID, res.Status())
	}
	return nil
}

// deleteSchoolFromIndex removes a school document from the schools index.
// A 404 is not an error, the document may never have been indexed.
func deleteSchoolFromIndex(ctx context.Context, client *elasticsearch.ESClientWrapper, id uuid.UUID) error {
	req := esapi.DeleteRequest{
		Index:      elasticsearch.SchoolsIndexName,
		DocumentID: id.String(),
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("failed to delete school %s from index: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deleting school %s from index returned status %s", id, res.Status())
	}
	return nil
}
