// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"log"

	"dormview_backend/internal/app"
	"dormview_backend/internal/config"
	"dormview_backend/internal/dorm"
	"dormview_backend/internal/feedback"
	"dormview_backend/internal/filestorage"
	"dormview_backend/internal/firebase"
	"dormview_backend/internal/jobs"
	"dormview_backend/internal/moderation"
	"dormview_backend/internal/photo"
	"dormview_backend/internal/platform/database"
	platformElasticsearch "dormview_backend/internal/platform/elasticsearch"
	"dormview_backend/internal/platform/logger"
	"dormview_backend/internal/push"
	"dormview_backend/internal/school"
	"dormview_backend/internal/shared"
	"dormview_backend/internal/user"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		platformElasticsearch.NewClient,
		provideFileStorage,
		provideCleanup,

		// Firebase handles both token verification and push delivery.
		firebase.NewFirebaseService,
		wire.Bind(new(push.Sender), new(*firebase.FirebaseService)),

		// Core User Services
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Push notifications
		push.NewGORMRepository,
		push.NewService,
		wire.Bind(new(push.Notifier), new(push.Service)),
		push.NewHandler,

		// Content modules
		school.NewGORMRepository,
		school.NewService,
		school.NewHandler,
		dorm.NewGORMRepository,
		dorm.NewService,
		dorm.NewHandler,
		photo.NewGORMRepository,
		photo.NewService,
		wire.Bind(new(photo.Storage), new(*filestorage.FileStorageService)),
		photo.NewHandler,
		feedback.NewGORMRepository,
		feedback.NewService,
		feedback.NewHandler,
		moderation.NewService,
		moderation.NewHandler,

		// Jobs
		jobs.NewPendingReminderJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}

func provideFileStorage(cfg *config.Config, logger *zap.Logger) (*filestorage.FileStorageService, error) {
	return filestorage.NewFileStorageService(cfg.PhotoStoragePath, logger.Named("FileStorage"))
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
