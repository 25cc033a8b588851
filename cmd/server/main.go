package main

import (
	"context"
	"log"
	"time"

	"github.com/bookworm-social/backend/internal/jobs"
	"github.com/bookworm-social/backend/internal/router"
	"github.com/bookworm-social/backend/internal/storage"
	"github.com/bookworm-social/backend/pkg/config"
	"github.com/bookworm-social/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize the image blob store
	blobStore, err := initBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, blobStore)

	// Validator
	e.Validator = validators.NewValidator()

	// Keep the free-tier host awake
	if cfg.APIBaseURL != "" {
		keepAlive := jobs.NewKeepAlive(cfg.APIBaseURL+"/health", 14*time.Minute)
		keepAlive.Start()
		defer keepAlive.Stop()
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func initBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.StorageDriver == "firebase" {
		return storage.NewFirebaseStore(context.Background(), cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	}
	return storage.NewMinioStore(storage.MinioConfig{
		Endpoint:        cfg.MinioEndpoint,
		AccessKeyID:     cfg.MinioAccessKey,
		SecretAccessKey: cfg.MinioSecretKey,
		UseSSL:          cfg.MinioUseSSL,
		BucketName:      cfg.MinioBucket,
		Region:          cfg.MinioRegion,
	})
}
