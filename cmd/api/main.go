package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"candidate-boutique/config"
	_ "candidate-boutique/docs" // Important for Swagger
	"candidate-boutique/internal/delivery/http/middleware"
	v1 "candidate-boutique/internal/delivery/http/v1"
	"candidate-boutique/internal/repository/postgres"
	"candidate-boutique/internal/usecase"
	"candidate-boutique/pkg/auth"
	"candidate-boutique/pkg/database"
	"candidate-boutique/pkg/email"
	"candidate-boutique/pkg/lock"
	"candidate-boutique/pkg/logger"
	"candidate-boutique/pkg/metrics"
	redisclient "candidate-boutique/pkg/redis"
	"candidate-boutique/pkg/sheet"
	"candidate-boutique/pkg/storage"
	"candidate-boutique/pkg/supabase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// @title           Candidate Boutique API
// @version         1.0
// @description     Candidate catalogue, registrations and invitations for the boutique recruitment service.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting candidate boutique API", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Redis is optional; without it locks and rate limits stay in process
	var redisClient *redis.Client
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.RedisEnabled() {
		redisClient, err = redisclient.NewClient(ctx, redisclient.Config{
			URL:      cfg.UpstashRedisURL,
			Password: cfg.UpstashRedisPassword,
		})
		if err != nil {
			logger.Log.Warn("Redis unavailable, falling back to in-process locks and rate limits", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			locker = lock.NewRedisLocker(redisClient)
		}
	}

	// 5. Outbound services
	notifier := email.NewNotifier(cfg)
	if !notifier.Live() {
		logger.Log.Warn("Email service not configured - messages will only be logged")
	}

	var (
		store    storage.ObjectStore
		devFiles *storage.MemoryStore
	)
	if cfg.StorageEnabled() {
		store, err = storage.NewS3Store(ctx, storage.Config{
			Provider:        storage.Provider(cfg.S3Provider),
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.CVBucket,
		})
		if err != nil {
			logger.Log.Error("Failed to initialise CV storage", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Log.Warn("CV bucket not configured - uploads are kept in memory")
		devFiles = storage.NewMemoryStore("http://localhost:" + cfg.Port + "/files")
		store = devFiles
	}

	authAdmin := supabase.NewAdminClient(cfg.SupabaseUrl, cfg.SupabaseServiceKey)

	// 6. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	syncMetrics := metrics.NewSync(registry)
	httpMetrics := metrics.NewHTTP(registry)

	// 7. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	contactRepo := postgres.NewContactRequestRepository(dbPool)
	candidateRegRepo := postgres.NewCandidateRegistrationRepository(dbPool)
	recruiterRegRepo := postgres.NewRecruiterRegistrationRepository(dbPool)
	invitationRepo := postgres.NewInvitationRepository(dbPool)
	resetRepo := postgres.NewPasswordResetRepository(dbPool)
	adminRepo := postgres.NewAdminRepository(dbPool)

	// 8. Setup UseCases
	validate := usecase.NewValidator()
	fetcher := sheet.NewFetcher(cfg.GoogleSheetID, cfg.GoogleSheetGID, time.Duration(cfg.SheetFetchTimeout)*time.Second)

	syncUC := usecase.NewSyncUsecase(fetcher, candidateRepo, locker, syncMetrics, usecase.SyncConfig{
		IntervalMinutes: cfg.SyncIntervalMinutes,
	})
	authUC := usecase.NewAuthUsecase(userRepo)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, contactRepo, notifier, syncUC, cfg.AdminNotifyEmail)
	invitationUC := usecase.NewInvitationUsecase(invitationRepo, userRepo, authAdmin, notifier, validate, cfg.SiteURL)
	registrationUC := usecase.NewRegistrationUsecase(candidateRegRepo, recruiterRegRepo, candidateRepo, invitationUC, store, notifier, validate,
		usecase.RegistrationConfig{AdminEmail: cfg.AdminNotifyEmail, CVMaxBytes: cfg.CVMaxBytes})
	passwordUC := usecase.NewPasswordResetUsecase(resetRepo, userRepo, authAdmin, notifier, cfg.SiteURL)
	adminUC := usecase.NewAdminUsecase(adminRepo, userRepo, authAdmin)

	checks := []usecase.HealthCheck{{Name: "database", Probe: dbPool.Ping}}
	if redisClient != nil {
		checks = append(checks, usecase.HealthCheck{Name: "redis", Probe: func(ctx context.Context) error {
			return redisclient.HealthCheck(ctx, redisClient)
		}})
	}
	healthUC := usecase.NewHealthUsecase(checks...)

	// 9. Setup Auth (HS256 secret or JWKS)
	jwksProvider := auth.NewProvider(cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json")
	verifier := auth.NewVerifier(cfg.SupabaseJWTSecret, jwksProvider)

	// 10. Scheduled jobs
	scheduler := cron.New()
	if cfg.SyncCron != "" {
		if _, err := scheduler.AddFunc(cfg.SyncCron, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if result, ran, err := syncUC.SyncIfDue(jobCtx); err != nil {
				logger.Log.Error("Scheduled sync failed", "error", err)
			} else if ran {
				logger.Log.Info("Scheduled sync finished", "message", result.Message)
			}
		}); err != nil {
			logger.Log.Error("Invalid SYNC_CRON expression", "cron", cfg.SyncCron, "error", err)
			os.Exit(1)
		}
	}
	if _, err := scheduler.AddFunc("@hourly", func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if n, err := invitationUC.ExpireInvitations(jobCtx); err != nil {
			logger.Log.Error("Expiring invitations failed", "error", err)
		} else if n > 0 {
			logger.Log.Info("Expired stale invitations", "count", n)
		}
	}); err != nil {
		logger.Log.Error("Failed to schedule invitation expiry", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	// 11. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		CandidateUC:    candidateUC,
		SyncUC:         syncUC,
		RegistrationUC: registrationUC,
		InvitationUC:   invitationUC,
		PasswordUC:     passwordUC,
		AdminUC:        adminUC,
		HealthUC:       healthUC,
		Verifier:       verifier,
		RateLimiter:    middleware.NewRateLimiter(redisClient),
		HTTPMetrics:    httpMetrics,
		Gatherer:       registry,
		DevFiles:       devFiles,
		Config:         cfg,
	})

	// 12. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
