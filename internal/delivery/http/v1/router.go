package v1

import (
	"net/http"
	"strings"
	"time"

	"candidate-boutique/config"
	"candidate-boutique/internal/delivery/http/middleware"
	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"
	"candidate-boutique/internal/usecase"
	"candidate-boutique/pkg/auth"
	"candidate-boutique/pkg/logger"
	"candidate-boutique/pkg/metrics"
	"candidate-boutique/pkg/storage"
	"candidate-boutique/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	CandidateUC    domain.CandidateUsecase
	SyncUC         domain.SyncUsecase
	RegistrationUC domain.RegistrationUsecase
	InvitationUC   domain.InvitationUsecase
	PasswordUC     domain.PasswordResetUsecase
	AdminUC        domain.AdminUsecase
	HealthUC       usecase.HealthUsecase
	Verifier       *auth.Verifier
	RateLimiter    *middleware.RateLimiter
	HTTPMetrics    *metrics.HTTP
	Gatherer       prometheus.Gatherer

	// DevFiles serves in-memory CV uploads under /files when no bucket is
	// configured. Nil in production.
	DevFiles *storage.MemoryStore
	Config   *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// CORS must run first so preflight requests short-circuit
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins, cfg.CORSAllowLocalhost))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	if deps.DevFiles != nil {
		r.GET("/files/*key", devFileHandler(deps.DevFiles))
	}

	// The sheet trigger lives outside /v1 for the external scheduler.
	api := r.Group("/api")

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Unauthenticated forms get the stricter per-IP budget
	public := v1.Group("")
	public.Use(deps.RateLimiter.Middleware(middleware.PublicRateLimitConfig(cfg.RateLimitPublicThreshold, window)))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC))

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	NewAuthHandler(public, protected, deps.AuthUC)
	NewCandidateHandler(protected, admin, deps.CandidateUC)
	NewSyncHandler(api, admin, deps.SyncUC, cfg.SyncSecret)
	NewRegistrationHandler(public, admin, deps.RegistrationUC, cfg.CVMaxBytes)
	NewInvitationHandler(public, admin, deps.InvitationUC)
	NewPasswordResetHandler(public, deps.PasswordUC)
	NewAdminHandler(admin, deps.AdminUC)

	logger.Log.Debug("Routes registered", "count", len(r.Routes()))
	return r
}

func devFileHandler(store *storage.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, contentType, ok := store.Get(strings.TrimPrefix(c.Param("key"), "/"))
		if !ok {
			response.Error(c, http.StatusNotFound, "File not found", nil)
			return
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, data)
	}
}
