package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	_ "github.com/discora/label-admin-api/api/swagger"
	"github.com/discora/label-admin-api/internal/handler"
	"github.com/discora/label-admin-api/internal/repository"
	"github.com/discora/label-admin-api/internal/router"
	"github.com/discora/label-admin-api/internal/seed"
	"github.com/discora/label-admin-api/internal/service"
	"github.com/discora/label-admin-api/pkg/cache"
	"github.com/discora/label-admin-api/pkg/config"
	"github.com/discora/label-admin-api/pkg/database"
	"github.com/discora/label-admin-api/pkg/jobs"
	"github.com/discora/label-admin-api/pkg/logger"
	"github.com/discora/label-admin-api/pkg/storage"
)

// @title Label Admin API
// @version 1.0.0
// @description Record label administration backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	// Redis is optional: without it the stats endpoints recompute on
	// every call.
	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		sugar.Warnw("redis unavailable, stats caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Stats.CacheTTL, logr, false)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, true)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Attachments.StorageDir)
	if err != nil {
		sugar.Fatalw("failed to init attachment storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Attachments.SignedURLSecret, cfg.Attachments.SignedURLTTL)

	albumRepo := repository.NewAlbumRepository(db)
	artistRepo := repository.NewArtistRepository(db)
	songRepo := repository.NewSongRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	userRepo := repository.NewUserRepository(db)
	acquisitionRepo := repository.NewAcquisitionRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// The release queue and the attachment service reference each other,
	// so the queue handler resolves the service lazily.
	var attachmentSvc *service.AttachmentService
	releaseQueue := jobs.NewQueue("attachment-release", func(ctx context.Context, job jobs.Job) error {
		return attachmentSvc.ReleaseHandler()(ctx, job)
	}, jobs.QueueConfig{
		Workers: cfg.Attachments.CleanupWorkers,
		Logger:  logr,
	})
	attachmentSvc = service.NewAttachmentService(attachmentRepo, fileStorage, signer, releaseQueue, logr, service.AttachmentServiceConfig{
		MaxFileSize:  cfg.Attachments.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Attachments.AllowedMIMEs,
		APIPrefix:    cfg.APIPrefix,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	releaseQueue.Start(ctx)
	defer releaseQueue.Stop()

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      false,
	})
	albumSvc := service.NewAlbumService(albumRepo, attachmentSvc, nil, logr)
	artistSvc := service.NewArtistService(artistRepo, attachmentSvc, nil, logr)
	songSvc := service.NewSongService(songRepo, attachmentSvc, nil, logr)
	saleSvc := service.NewSaleService(saleRepo, nil, logr)
	userSvc := service.NewUserService(userRepo, service.NewPasswordAuthorizer(userRepo), nil, logr)
	acquisitionSvc := service.NewAcquisitionService(acquisitionRepo, attachmentSvc, nil, logr)
	merchSvc := service.NewMerchService(acquisitionRepo, cacheSvc, service.MerchServiceConfig{
		StatsCacheTTL:  cfg.Stats.CacheTTL,
		MaxImportBytes: cfg.Attachments.MaxFileSizeBytes,
	}, nil, logr)
	exportSvc := service.NewExportService(albumRepo, artistRepo, songRepo, saleRepo, userRepo, acquisitionRepo, service.ExportConfig{MaxRows: cfg.Exports.MaxRows}, logr)

	if cfg.Seed.Enabled && cfg.Env != config.EnvProduction {
		seeder := seed.New(userRepo, albumRepo, artistRepo, songRepo, saleRepo, acquisitionRepo, logr)
		if err := seeder.Run(ctx); err != nil {
			sugar.Warnw("seeding failed", "error", err)
		}
	}

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Albums:       handler.NewAlbumHandler(albumSvc, exportSvc),
		Artists:      handler.NewArtistHandler(artistSvc, exportSvc),
		Songs:        handler.NewSongHandler(songSvc, exportSvc),
		Sales:        handler.NewSaleHandler(saleSvc, exportSvc),
		Users:        handler.NewUserHandler(userSvc, exportSvc),
		Acquisitions: handler.NewAcquisitionHandler(acquisitionSvc, exportSvc),
		Merch:        handler.NewMerchHandler(merchSvc, exportSvc),
		Attachments:  handler.NewAttachmentHandler(attachmentSvc),
		Metrics:      handler.NewMetricsHandler(metricsSvc),
	}

	r := router.New(cfg, logr, authSvc, metricsSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	sugar.Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		sugar.Fatalw("server failed", "error", err)
	}
}
