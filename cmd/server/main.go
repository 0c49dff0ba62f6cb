// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dormview_backend/internal/config"
	"dormview_backend/internal/platform/database"
	platformElasticsearch "dormview_backend/internal/platform/elasticsearch"
	"dormview_backend/internal/platform/logger"
	"dormview_backend/internal/school"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

func main() {
	syncSchoolsCmd := flag.NewFlagSet("sync-schools", flag.ExitOnError)
	batchSize := syncSchoolsCmd.Int("batch-size", 100, "Batch size for syncing schools")
	esRefresh := syncSchoolsCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-schools" {
		syncSchoolsCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
		}
		db, err := database.NewGORM(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()

		esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
		}

		if err := platformElasticsearch.CreateSchoolsIndexIfNotExists(esClient, appLogger); err != nil {
			appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
		}

		schoolRepo := school.NewGORMRepository(db)

		if err := runSchoolSync(schoolRepo, esClient, appLogger, *batchSize, *esRefresh); err != nil {
			appLogger.Fatal("FATAL: School synchronization failed", zap.Error(err))
		}
		appLogger.Info("School synchronization completed successfully.")
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateSchoolsIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch schools index. Search stays unavailable until it exists.", zap.Error(err))
		}
	} else {
		log.Println("INFO: Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runSchoolSync performs the batch synchronization of schools to Elasticsearch.
func runSchoolSync(
	schoolRepo school.Repository,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	logger.Info("Starting school synchronization to Elasticsearch...",
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)

	offset := 0
	totalSynced := 0
	totalFailed := 0
	batchNumber := 1

	for {
		schools, err := schoolRepo.FindAllForSync(context.Background(), offset, batchSize)
		if err != nil {
			return fmt.Errorf("failed to fetch batch %d: %w", batchNumber, err)
		}
		if len(schools) == 0 {
			logger.Info("No more schools to sync.")
			break
		}

		var bulkRequestBody strings.Builder
		batchIDs := make([]string, 0, len(schools))

		for i := range schools {
			s := &schools[i]
			docJSON, errDoc := school.SchoolToElasticsearchDoc(s)
			if errDoc != nil {
				logger.Error("Failed to convert school to Elasticsearch document",
					zap.String("schoolID", s.ID.String()),
					zap.Error(errDoc),
				)
				totalFailed++
				continue
			}
			batchIDs = append(batchIDs, s.ID.String())
			fmt.Fprintf(&bulkRequestBody, `{ "index" : { "_index" : "%s", "_id" : "%s" } }%s`,
				platformElasticsearch.SchoolsIndexName, s.ID.String(), "\n")
			bulkRequestBody.WriteString(docJSON)
			bulkRequestBody.WriteString("\n")
		}

		if bulkRequestBody.Len() == 0 {
			offset += len(schools)
			batchNumber++
			continue
		}

		logger.Info("Sending bulk request to Elasticsearch",
			zap.Int("batchNumber", batchNumber),
			zap.Int("documentCount", len(batchIDs)),
		)

		req := esapi.BulkRequest{
			Body:    strings.NewReader(bulkRequestBody.String()),
			Refresh: esRefresh,
		}
		res, errBulk := req.Do(context.Background(), esClient.Client)
		if errBulk != nil {
			logger.Error("Failed to send bulk request to Elasticsearch", zap.Error(errBulk), zap.Int("batchNumber", batchNumber))
			totalFailed += len(batchIDs)
			offset += len(schools)
			batchNumber++
			continue
		}

		batchSynced, batchFailed := parseBulkResponse(res.Body, res.IsError(), res.Status(), len(batchIDs), logger)
		res.Body.Close()

		totalSynced += batchSynced
		totalFailed += batchFailed
		logger.Info("Batch processed.",
			zap.Int("batchNumber", batchNumber),
			zap.Int("syncedInBatch", batchSynced),
			zap.Int("failedInBatch", batchFailed),
		)

		offset += len(schools)
		batchNumber++
	}

	logger.Info("School synchronization process finished.",
		zap.Int("totalSchoolsSyncedSuccessfully", totalSynced),
		zap.Int("totalSchoolsFailed", totalFailed),
	)
	if totalFailed > 0 {
		return fmt.Errorf("%d schools failed to sync", totalFailed)
	}
	return nil
}

// parseBulkResponse counts per-item successes and failures in a bulk response.
// A bulk call can return 200 and still fail individual documents.
func parseBulkResponse(
	body io.Reader,
	isError bool,
	status string,
	batchCount int,
	logger *zap.Logger,
) (synced, failed int) {
	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string                 `json:"_id"`
				Status int                    `json:"status"`
				Error  map[string]interface{} `json:"error,omitempty"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(body).Decode(&bulkResponse); err != nil {
		logger.Error("Failed to parse Elasticsearch bulk response body", zap.Error(err), zap.String("status", status))
		return 0, batchCount
	}
	if isError && len(bulkResponse.Items) == 0 {
		logger.Error("Elasticsearch bulk request returned an error", zap.String("status", status))
		return 0, batchCount
	}

	for _, item := range bulkResponse.Items {
		if item.Index.Error != nil {
			logger.Error("Failed to index document in bulk batch",
				zap.String("schoolID", item.Index.ID),
				zap.Any("error", item.Index.Error),
				zap.Int("status", item.Index.Status),
			)
			failed++
		} else {
			synced++
		}
	}
	return synced, failed
}
