package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kol360-data/internal/config"
	"kol360-data/internal/database"
	httpapi "kol360-data/internal/http"
	applog "kol360-data/internal/logger"
	"kol360-data/internal/repository"
	"kol360-data/internal/service"
	"kol360-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := applog.NewLogger(cfg.Log.Level, cfg.Log.Format, "kol360-data")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kv := store.NewRedisKV(redisClient)
	events := store.NewStreamPublisher(redisClient)

	hcpRepo := repository.NewPostgresHcpsRepository(db)
	nomRepo := repository.NewPostgresNominationsRepository(db)
	campaignRepo := repository.NewPostgresCampaignsRepository(db)
	scoreRepo := repository.NewPostgresCampaignScoresRepository(db)
	daRepo := repository.NewPostgresDiseaseAreaScoresRepository(db)

	matchSvc := service.NewMatchService(hcpRepo, nomRepo, logger)
	surveySvc := service.NewSurveyScoreService(campaignRepo, nomRepo, scoreRepo, logger)
	compositeSvc := service.NewCompositeScoreService(campaignRepo, scoreRepo, daRepo, logger)
	publishSvc := service.NewPublishService(campaignRepo, scoreRepo, daRepo, events, logger)
	campaignSvc := service.NewCampaignService(campaignRepo, surveySvc, compositeSvc, publishSvc, logger)

	metricsClient := service.NewMetricsClient(cfg.Metrics, logger)
	objectiveSvc := service.NewObjectiveScoreService(metricsClient, hcpRepo, daRepo, logger)

	router := httpapi.NewRouter(logger)
	router.RegisterCampaignRoutes(httpapi.NewCampaignHandler(campaignSvc, surveySvc, compositeSvc, matchSvc, logger))
	router.RegisterNominationRoutes(httpapi.NewNominationHandler(matchSvc, logger))
	router.RegisterHcpRoutes(httpapi.NewHcpHandler(hcpRepo, objectiveSvc, logger))
	router.RegisterLeaderboardRoutes(httpapi.NewLeaderboardHandler(daRepo, kv, logger))

	srv := service.NewServer(cfg.HTTP.Addr, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server exited", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	_ = db.Close()
}
