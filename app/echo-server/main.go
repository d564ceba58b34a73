package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myCreditAdvisor/app/echo-server/router"
	"myCreditAdvisor/business/artifact"
	"myCreditAdvisor/business/recommend"
	"myCreditAdvisor/internal/middleware"
	"myCreditAdvisor/internal/repository/filesystem"
	minioRepo "myCreditAdvisor/internal/repository/minio"
	psqlRepo "myCreditAdvisor/internal/repository/postgres"
	"myCreditAdvisor/internal/repository/remote"
	"myCreditAdvisor/internal/rest"
	"myCreditAdvisor/pkg/config"
	"myCreditAdvisor/pkg/database"
	"myCreditAdvisor/pkg/logger"
	"myCreditAdvisor/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{Environment: cfg.App.Environment, Level: cfg.App.LogLevel})
	logger.Info("Starting credit product recommender", "version", cfg.App.Version, "env", cfg.App.Environment)

	metrics.Init()

	blobs, err := newBlobSource(cfg)
	if err != nil {
		logger.Fatal("Failed to init artifact source", err)
	}

	// The dataset may live in Postgres; index and encoders always come from blobs.
	var rows artifact.DatasetRepository
	if cfg.Artifact.DatasetSource == config.DatasetSourcePostgres {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", err)
		}
		defer database.ClosePostgres(db)
		rows = psqlRepo.NewReferenceRepository(db, cfg.Artifact.DatasetTable)
		logger.Info("Database connected successfully")
	}

	loader := artifact.NewLoader(blobs, rows, artifact.Options{
		Files: artifact.Files{
			Index:    cfg.Artifact.IndexFile,
			Encoders: cfg.Artifact.EncodersFile,
			Dataset:  cfg.Artifact.DatasetFile,
		},
		Encodings: cfg.Artifact.Encodings,
		DebtUnit:  cfg.Artifact.DebtRatioUnit,
		Products:  cfg.Recommend.Products,
	})

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Artifact.LoadTimeout)
	artifacts, err := loader.Load(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Fatal("Failed to load artifacts", err)
	}

	// Init service
	recommendService := recommend.NewRecommendService(artifacts, cfg.Recommend.Products, cfg.Recommend.K)

	// Init handler
	recommendHandler := rest.NewRecommendHandler(recommendService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestTrace())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	var authRequired []echo.MiddlewareFunc
	if cfg.JWT.SecretKey != "" {
		authRequired = append(authRequired, middleware.AuthMiddleware(cfg.JWT.SecretKey))
	} else {
		logger.Warn("JWT_SECRET not set, API is unauthenticated")
	}

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupRecommendRoutes(api, recommendHandler, authRequired...)
	router.SetupOpsRoutes(e, recommendHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}

func newBlobSource(cfg *config.Config) (artifact.BlobSource, error) {
	switch cfg.Artifact.Source {
	case config.ArtifactSourceHTTP:
		return remote.NewRemoteRepository(remote.RemoteConfig{
			BaseURL:  cfg.Artifact.BaseURL,
			Attempts: cfg.Artifact.FetchRetries,
			Timeout:  cfg.Artifact.FetchTimeout,
		}), nil
	case config.ArtifactSourceS3:
		repo, err := minioRepo.NewMinioRepository(minioRepo.MinioConfig{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
			Attempts:  cfg.Artifact.FetchRetries,
		})
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return filesystem.NewFilesystemRepository(cfg.Artifact.Dir), nil
}
