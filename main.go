package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"breakfast-backend/cache"
	"breakfast-backend/config"
	"breakfast-backend/controllers"
	"breakfast-backend/cron"
	"breakfast-backend/pms"
	"breakfast-backend/routes"
	"breakfast-backend/services"
)

func main() {
	config.LoadEnv()
	config.InitLogger()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is not set")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	db := config.DB

	config.InitRedis()
	reports := cache.NewReportCache(config.RedisClient)

	adapter := pms.NewClient(pms.ClientConfig{
		BaseURL: config.EnvOrDefault("PMS_BASE_URL", "http://localhost:9000"),
		APIKey:  os.Getenv("PMS_API_KEY"),
		Timeout: config.EnvDuration("PMS_TIMEOUT", 15*time.Second),
	})

	guests := cache.NewGuestCache()
	if err := guests.Hydrate(db); err != nil {
		log.Warn().Err(err).Msg("guest cache hydration failed; continuing with empty cache")
	}

	syncCfg := services.DefaultSyncConfig()
	syncCfg.MinInterval = config.EnvDuration("SYNC_MIN_INTERVAL", syncCfg.MinInterval)
	syncCfg.MaxAttempts = config.EnvInt("SYNC_MAX_ATTEMPTS", syncCfg.MaxAttempts)
	syncCfg.RetryBackoff = config.EnvDuration("SYNC_RETRY_BACKOFF", syncCfg.RetryBackoff)
	syncCfg.FetchTimeout = config.EnvDuration("SYNC_FETCH_TIMEOUT", syncCfg.FetchTimeout)

	reconciler := services.NewReconcilerService(db, guests)
	ledger := services.NewLedgerService(db, config.EnvFloat("BREAKFAST_RATE", 25.00))
	grid := services.NewRoomGridService(db, reconciler, ledger, reports)
	syncSvc := services.NewSyncService(db, adapter, guests, reports, syncCfg)
	consume := services.NewConsumeService(grid, reconciler, ledger, adapter, reports)
	staff := services.NewStaffService(db, jwtSecret, config.EnvDuration("TOKEN_TTL", 24*time.Hour))

	authController := controllers.NewAuthController(staff)
	gridController := controllers.NewRoomGridController(grid, consume, syncSvc)
	roomController := controllers.NewRoomController(db)

	router := routes.SetupRouter(authController, gridController, roomController, jwtSecret)

	cronCfg := cron.DefaultConfig()
	cronCfg.SyncSchedule = config.EnvOrDefault("SYNC_CRON", cronCfg.SyncSchedule)
	cronCfg.CloseDaySchedule = config.EnvOrDefault("CLOSE_DAY_CRON", cronCfg.CloseDaySchedule)
	scheduler, err := cron.StartScheduler(cronCfg, syncSvc, ledger, db)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}

	addr := ":" + config.EnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}
