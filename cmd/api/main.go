package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pixeltrack/api/internal/cache"
	"pixeltrack/api/internal/config"
	"pixeltrack/api/internal/database"
	"pixeltrack/api/internal/handlers"
	"pixeltrack/api/internal/jobs"
	"pixeltrack/api/internal/log"
	"pixeltrack/api/internal/pixel"
	"pixeltrack/api/internal/repository"
	"pixeltrack/api/internal/security"
	"pixeltrack/api/internal/seed"
	"pixeltrack/api/internal/server"
	"pixeltrack/api/internal/service"
	"pixeltrack/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if err := database.EnsureSchema(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	cipher, err := security.NewCipher(cfg.Security.EncryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid encryption key")
	}

	if err := pixel.EnsureOnDisk(cfg.Tracking.AssetPath); err != nil {
		logger.Warn().Err(err).Msg("pixel asset write failed")
	}

	userRepo := repository.NewUserRepository(dbPool)
	loginRepo := repository.NewLoginRepository(dbPool)
	campaignRepo := repository.NewCampaignRepository(dbPool)
	groupRepo := repository.NewGroupRepository(dbPool)
	contactRepo := repository.NewContactRepository(dbPool)
	pixelRepo := repository.NewPixelRepository(dbPool)
	viewRepo := repository.NewViewRepository(dbPool)

	markers := cache.NewMarkers(redisClient, cfg.Tracking.MarkerTTL)
	stats := cache.NewStats(redisClient, time.Hour)

	authService := service.NewAuthService(userRepo, loginRepo, cfg.Security, logger)
	trackingService := service.NewTrackingService(pixelRepo, viewRepo, markers, logger)

	seeder := seed.NewSeeder(cfg.Seed.File,
		userRepo, campaignRepo, groupRepo, contactRepo, pixelRepo,
		cipher, logger)

	var reportStore *storage.ReportStore
	if cfg.Storage.Endpoint != "" {
		reportStore, err = storage.NewReportStore(cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init report store")
		}
		if err := reportStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure report bucket failed")
		}
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, authService, trackingService, cipher, seeder,
		handlers.Stores{
			Users:     userRepo,
			Campaigns: campaignRepo,
			Groups:    groupRepo,
			Contacts:  contactRepo,
			Pixels:    pixelRepo,
			Views:     viewRepo,
		}, dbPool, redisClient)

	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	var scheduler *jobs.Scheduler
	if reportStore != nil {
		scheduler = jobs.NewScheduler(viewRepo, stats, reportStore, logger)
	} else {
		scheduler = jobs.NewScheduler(viewRepo, stats, nil, logger)
	}
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
