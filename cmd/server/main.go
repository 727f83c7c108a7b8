package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferrat/linguaflash/internal/api"
	"github.com/ferrat/linguaflash/internal/clock"
	"github.com/ferrat/linguaflash/internal/config"
	"github.com/ferrat/linguaflash/internal/cron"
	"github.com/ferrat/linguaflash/internal/db"
	"github.com/ferrat/linguaflash/internal/jobs"
	"github.com/ferrat/linguaflash/internal/logger"
	"github.com/ferrat/linguaflash/internal/repository"
	"github.com/ferrat/linguaflash/internal/repository/sqlite"
	"github.com/ferrat/linguaflash/internal/services"
	"github.com/ferrat/linguaflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LinguaFlash Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("default_daily_load=%d", cfg.DefaultDailyLoad)
	log.Debug("due_order=%s", cfg.DueOrder)
	log.Debug("cron_enabled=%v", cfg.CronEnabled)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	progressRepo := sqlite.NewProgressRepository(database.DB)
	taskRepo := sqlite.NewTaskRepository(database.DB)
	phraseRepo := sqlite.NewPhraseRepository(database.DB)
	analyticsRepo := sqlite.NewAnalyticsRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	dueOrder := repository.DueOrderMostOverdueFirst
	if cfg.DueOrder == config.DueOrderLegacy {
		dueOrder = repository.DueOrderLegacyNewestFirst
	}

	clk := clock.Real{}

	reviewService := services.NewReviewService(progressRepo, phraseRepo, dueOrder, clk)
	taskService := services.NewTaskService(taskRepo, progressRepo, analyticsRepo, cfg.DefaultDailyLoad, clk)
	analyticsService := services.NewAnalyticsService(analyticsRepo, sessionRepo, progressRepo, cfg.DefaultDailyLoad, clk)
	catalogService := services.NewCatalogService(phraseRepo)

	pool := worker.NewPool(cfg.AnalyticsWorkerCount, cfg.AnalyticsQueueSize)
	queue := jobs.NewWorkerQueue(pool, analyticsService)
	sessionService := services.NewSessionService(sessionRepo, queue, clk)

	srv := &api.Server{
		ReviewService:    reviewService,
		TaskService:      taskService,
		AnalyticsService: analyticsService,
		SessionService:   sessionService,
		CatalogService:   catalogService,
	}

	poolCtx, poolCancel := context.WithCancel(context.Background())
	pool.Start(poolCtx)

	var cronScheduler *cron.Scheduler
	if cfg.CronEnabled {
		cronScheduler = cron.New(analyticsService, sessionRepo)
		cronScheduler.Start()
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if cronScheduler != nil {
		log.Debug("stopping cron scheduler")
		cronScheduler.Stop()
	}

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	poolCancel()
	pool.Stop()

	log.Info("===========================================")
	log.Info("LinguaFlash Server Stopped")
	log.Info("===========================================")
}
