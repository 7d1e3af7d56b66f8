package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/step-challenge/configs"
	"github.com/avatarctic/step-challenge/internal/application/cache"
	"github.com/avatarctic/step-challenge/internal/application/query"
	"github.com/avatarctic/step-challenge/internal/application/services"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/db"
	"github.com/avatarctic/step-challenge/internal/infrastructure/email"
	"github.com/avatarctic/step-challenge/internal/infrastructure/health"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver"
	"github.com/avatarctic/step-challenge/internal/infrastructure/metrics"
	"github.com/avatarctic/step-challenge/internal/infrastructure/redis"
	"github.com/avatarctic/step-challenge/internal/infrastructure/repositories"
	"github.com/avatarctic/step-challenge/internal/infrastructure/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(&cfg.Log)
	logger.Info("Starting step challenge backend...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	version, err := database.Migrate(cfg.Database.MigrationsPath)
	if err != nil {
		logger.Warn("Failed to run migrations:", err)
	} else {
		logger.WithField("schema_version", version).Info("Database schema up to date")
	}

	// Redis backs preferences and rate limiting, and optionally the cache.
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	cacheMetrics := metrics.NewCacheMetrics(prometheus.DefaultRegisterer)

	var appCache ports.Cache
	switch cfg.Cache.Backend {
	case "redis":
		appCache = redis.NewRedisCache(redisClient, cfg.Cache.Namespace,
			redis.WithDefaultTTL(cfg.Cache.DefaultTTL),
			redis.WithMetrics(cacheMetrics),
		)
	default:
		appCache = cache.NewStore(cache.WithDefaultTTL(cfg.Cache.DefaultTTL), cache.WithMetrics(cacheMetrics))
	}
	logger.WithFields(logrus.Fields{"backend": cfg.Cache.Backend, "coalesce": cfg.Cache.CoalesceMiss}).Info("Query cache initialized")

	exec := query.NewExecutor(appCache, logger,
		query.WithCoalescing(cfg.Cache.CoalesceMiss),
		query.WithMetrics(cacheMetrics),
	)
	ttl := services.TTLsFromConfig(&cfg.Cache)

	// Repositories
	stepRepo := repositories.NewStepRepository(database, logger)
	teamRepo := repositories.NewTeamRepository(database, logger)
	userRepo := repositories.NewUserRepository(database, logger)
	competitionRepo := repositories.NewCompetitionRepository(database, logger)
	goalsRepo := repositories.NewGoalsRepository(database, logger)
	badgeRepo := repositories.NewBadgeRepository(database, logger)
	preferenceRepo := repositories.NewPreferenceRedisRepository(redisClient)
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.RootDir, cfg.Backend.URL+cfg.Server.BasePath)
	if err != nil {
		logger.Fatal("Failed to initialize storage:", err)
	}

	emailService := email.NewEmailService(&email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
	}, logger)

	// Services
	stepService := services.NewStepService(stepRepo, exec, ttl, logger)
	teamService := services.NewTeamService(teamRepo, userRepo, stepService, fileStorage, exec, ttl, logger)
	userService := services.NewUserService(userRepo, fileStorage, exec, ttl, logger)
	competitionService := services.NewCompetitionService(competitionRepo, cfg.Competition.Mode, exec, ttl, logger)
	goalsService := services.NewGoalsService(goalsRepo, stepRepo, exec, ttl, logger)
	badgeService := services.NewBadgeService(badgeRepo, stepService, exec, ttl, logger)
	preferenceService := services.NewPreferenceService(preferenceRepo, logger)
	contactService := services.NewContactService(emailService, cfg.Competition.ContactEmail, logger)
	authService := services.NewAuthService(&cfg.Backend, logger)

	rateLimiterConfig := &services.RateLimiterConfig{
		DefaultRequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
		BurstMultiplier:          cfg.RateLimit.BurstMultiplier,
		Window:                   cfg.RateLimit.Window,
		KeyPrefix:                cfg.RateLimit.KeyPrefix,
	}
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, rateLimiterConfig, logger)

	hcSlice := []ports.HealthChecker{
		health.NewDBHealthChecker(database),
		health.NewRedisHealthChecker(redisClient),
		health.NewStorageHealthChecker(cfg.Storage.RootDir),
	}

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		BasePath:       cfg.Server.BasePath,
		StorageRoot:    cfg.Storage.RootDir,
		AnonKey:        cfg.Backend.AnonKey,
	}

	deps := httpserver.ServerDeps{
		StepService:        stepService,
		TeamService:        teamService,
		UserService:        userService,
		CompetitionService: competitionService,
		GoalsService:       goalsService,
		BadgeService:       badgeService,
		PreferenceService:  preferenceService,
		ContactService:     contactService,
		AuthService:        authService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

// newLogger applies LOG_FORMAT and LOG_LEVEL; LOGGING_ENABLED=false discards all output.
func newLogger(cfg *config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	if !cfg.Enabled {
		logger.SetOutput(io.Discard)
	}
	return logger
}
