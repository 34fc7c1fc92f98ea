package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitetrack/internal/config"
	"sitetrack/internal/database"
	httpapi "sitetrack/internal/http"
	"sitetrack/internal/logger"
	"sitetrack/internal/repository"
	"sitetrack/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "sitetrack")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sitesRepo := repository.NewPostgresSitesRepo(db)
	campaignsRepo := repository.NewPostgresCampaignsRepo(db)
	productionRepo := repository.NewPostgresProductionRepo(db)
	readingsRepo := repository.NewPostgresReadingsRepo(db)

	seqSvc := service.NewSequenceService(sitesRepo, campaignsRepo, zlog)
	siteSvc := service.NewSiteService(sitesRepo, seqSvc, zlog)
	campaignSvc := service.NewCampaignService(campaignsRepo, sitesRepo, seqSvc, zlog)
	recordingSvc := service.NewRecordingService(productionRepo, readingsRepo, sitesRepo, zlog)
	reportSvc := service.NewReportService(productionRepo, readingsRepo, sitesRepo, zlog)

	campaignHandler := httpapi.NewCampaignHandler(campaignSvc, zlog)
	router := httpapi.NewRouter(zlog)
	router.RegisterSiteRoutes(httpapi.NewSiteHandler(siteSvc, seqSvc, zlog), campaignHandler)
	router.RegisterCampaignRoutes(campaignHandler)
	router.RegisterRecordingRoutes(httpapi.NewRecordingHandler(recordingSvc, zlog))
	router.RegisterReportRoutes(httpapi.NewReportHandler(reportSvc, zlog))

	srv := service.NewServer(cfg.HTTP.Addr, router, zlog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zlog.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zlog.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}
