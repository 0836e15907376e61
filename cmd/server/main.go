package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"nxq-backend/internal/auth"
	"nxq-backend/internal/cache"
	"nxq-backend/internal/config"
	"nxq-backend/internal/database"
	"nxq-backend/internal/db"
	"nxq-backend/internal/events"
	"nxq-backend/internal/handlers"
	"nxq-backend/internal/health"
	h "nxq-backend/internal/http"
	"nxq-backend/internal/logger"
	"nxq-backend/internal/middleware"
	"nxq-backend/internal/repositories"
	"nxq-backend/internal/services"
	"nxq-backend/internal/timeutil"

	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	backupOnly := flag.Bool("backup", false, "Upload one store snapshot to the backup bucket and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Setup("info", logger.FormatJSON)
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	timeutil.SetLocation(cfg.App.Timezone)
	mainLog := logger.For("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The store is required; there is no degraded mode without it
	conn, dbPath, err := db.Connect(ctx, cfg)
	if err != nil {
		mainLog.Fatal().Err(err).Msg("failed to open store")
	}
	defer conn.Close()
	mainLog.Info().Str("path", dbPath).Str("env", cfg.App.Env).Msg("store opened")

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := database.NewMigrator(conn, cfg.Customer.CodePrefix).RunMigrations(migrateCtx); err != nil {
		cancel()
		mainLog.Fatal().Err(err).Msg("failed to run migrations")
	}
	cancel()

	if cfg.Auth.SeedPassword != "" {
		if _, err := database.SeedAdmin(ctx, conn, cfg.Auth.SeedUsername, cfg.Auth.SeedPassword, cfg.Auth.SeedEmail); err != nil {
			mainLog.Fatal().Err(err).Msg("failed to seed admin user")
		}
	}

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	cacheHealthy := func() bool { return false }
	if cfg.Redis.Addr == "" {
		cacheHealthy = nil
	} else if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		mainLog.Warn().Err(err).Msg("redis unavailable, using in-process login throttling")
	} else {
		mainLog.Info().Msg("redis connected")
		cacheHealthy = cache.IsHealthy
		defer cache.Close()
	}

	hub := events.NewHub(cfg.Server.CorsAllowedOrigins)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(conn)
	schemeRepo := repositories.NewSchemeRepository(conn)
	customerRepo := repositories.NewCustomerRepository(conn, repositories.NewCodeGenerator(cfg.Customer.CodePrefix))
	paymentRepo := repositories.NewPaymentRepository(conn)
	winnerRepo := repositories.NewWinnerRepository(conn)
	deliveryRepo := repositories.NewDeliveryRepository(conn)
	statsRepo := repositories.NewStatsRepository(conn)
	maintenanceRepo := repositories.NewMaintenanceRepository(conn)

	// Backups are optional; a nil store disables them
	var objectStore services.ObjectStore
	if cfg.Backup.Enabled() {
		client, err := services.NewS3Client(ctx, cfg.Backup)
		if err != nil {
			mainLog.Fatal().Err(err).Msg("failed to configure backup bucket")
		}
		objectStore = client
	}
	backupService := services.NewBackupService(maintenanceRepo, objectStore, cfg.Backup, hub)

	if *backupOnly {
		result, err := backupService.Run(ctx)
		if err != nil {
			mainLog.Fatal().Err(err).Msg("backup failed")
		}
		mainLog.Info().Str("key", result.Key).Msg("backup complete")
		return
	}

	// Initialize services
	rules, err := services.NewRules(cfg)
	if err != nil {
		mainLog.Fatal().Err(err).Msg("invalid customer code rules")
	}
	authService := services.NewAuthService(userRepo, auth.NewJWTManager(cfg),
		cache.NewAttemptStore(), cache.NewRevocationStore(), cfg)
	customerService := services.NewCustomerService(customerRepo, schemeRepo, paymentRepo, rules, hub)
	schemeService := services.NewSchemeService(schemeRepo, winnerRepo, hub)
	paymentService := services.NewPaymentService(paymentRepo, customerRepo, hub)
	winnerService := services.NewWinnerService(winnerRepo, schemeRepo, customerRepo, hub)
	deliveryService := services.NewDeliveryService(deliveryRepo, winnerRepo, hub)
	statsService := services.NewStatsService(statsRepo)
	settingsService := services.NewSettingsService(cfg)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, hub)
	reportService := services.NewReportService(paymentRepo)

	// Initialize handlers
	router := h.NewRouter(
		handlers.NewAuthHandler(authService),
		handlers.NewCustomerHandler(customerService),
		handlers.NewSchemeHandler(schemeService),
		handlers.NewPaymentHandler(paymentService, reportService),
		handlers.NewWinnerHandler(winnerService, deliveryService),
		handlers.NewAdminHandler(statsService, settingsService, maintenanceService, backupService),
		handlers.NewHealthHandler(health.NewHealthChecker(conn, filepath.Dir(dbPath), cacheHealthy)),
		hub,
		middleware.NewAuthMiddleware(authService),
	)

	go backupService.Schedule(ctx)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.NewCORS(cfg)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		mainLog.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			mainLog.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	mainLog.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		mainLog.Fatal().Err(err).Msg("server failed")
	}
}
