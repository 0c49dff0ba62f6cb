package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const SchoolsIndexName = "schools"

// defineSchoolsMapping returns the JSON string for the schools index mapping.
func defineSchoolsMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"name":       map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"slug":       map[string]interface{}{"type": "keyword"},
				"city":       map[string]interface{}{"type": "keyword"},
				"state":      map[string]interface{}{"type": "keyword"},
				"zip":        map[string]interface{}{"type": "keyword"},
				"pending":    map[string]interface{}{"type": "boolean"},
				"created_at": map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling schools mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateSchoolsIndexIfNotExists creates the schools index with the defined mapping
// if it does not already exist.
func CreateSchoolsIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{
		Index: []string{SchoolsIndexName},
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if schools index exists", zap.Error(err))
		return fmt.Errorf("error checking if schools index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Schools index already exists", zap.String("index_name", SchoolsIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Error("Error checking if schools index exists, unexpected status",
			zap.String("status", res.Status()),
			zap.String("index_name", SchoolsIndexName),
		)
		return fmt.Errorf("error checking if schools index exists: status %s", res.Status())
	}

	mappingJSON, err := defineSchoolsMapping()
	if err != nil {
		log.Error("Failed to define schools mapping", zap.Error(err))
		return err
	}
	log.Debug("Schools index mapping defined", zap.String("mapping", mappingJSON))

	createReq := esapi.IndicesCreateRequest{
		Index: SchoolsIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating schools index", zap.Error(err), zap.String("index_name", SchoolsIndexName))
		return fmt.Errorf("error creating schools index %s: %w", SchoolsIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err != nil {
			log.Error("Failed to parse schools index creation error response body", zap.Error(err), zap.String("status", createRes.Status()))
		} else {
			log.Error("Failed to create schools index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody),
				zap.String("index_name", SchoolsIndexName),
			)
		}
		return fmt.Errorf("failed to create schools index %s: status %s", SchoolsIndexName, createRes.Status())
	}

	log.Info("Schools index created successfully", zap.String("index_name", SchoolsIndexName))
	return nil
}
