package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/config"
	httpapi "github.com/focitech/focitech-backend/internal/api/http"
	"github.com/focitech/focitech-backend/internal/api/http/middleware"
	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/auth"
	authhttp "github.com/focitech/focitech-backend/internal/auth/http"
	authmw "github.com/focitech/focitech-backend/internal/auth/middleware"
	careershttp "github.com/focitech/focitech-backend/internal/careers/http"
	careers "github.com/focitech/focitech-backend/internal/careers/service"
	inquirieshttp "github.com/focitech/focitech-backend/internal/inquiries/http"
	inquiries "github.com/focitech/focitech-backend/internal/inquiries/service"
	"github.com/focitech/focitech-backend/internal/pagination"
	portfoliohttp "github.com/focitech/focitech-backend/internal/portfolio/http"
	portfolio "github.com/focitech/focitech-backend/internal/portfolio/service"
	teamhttp "github.com/focitech/focitech-backend/internal/team/http"
	team "github.com/focitech/focitech-backend/internal/team/service"
	"github.com/focitech/focitech-backend/internal/upload"
)

const resumePrefix = "resumes"

type RouterDeps struct {
	Config *config.Config
	Logger *slog.Logger
	Deps   *Deps
	// Careers is shared with the cron scheduler.
	Careers *careers.CareersService
}

// NewCareersService builds the careers service over the shared store, storage and notifier.
func NewCareersService(cfg *config.Config, d *Deps) *careers.CareersService {
	uploader := upload.NewUploader(d.Storage, resumePrefix, cfg.Storage.MaxUploadBytes, upload.ResumeExtensions...)
	return careers.NewCareersService(d.Store, uploader, d.Notifier)
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg, d := dep.Config, dep.Deps
	errs := response.NewWriter(cfg.App.DevelopmentMode())

	r := gin.New()
	r.Use(
		middleware.RequestID(dep.Logger),
		middleware.Recovery(errs),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID, middleware.HeaderResponseTime},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.Timeout(cfg.Server.RequestTimeout),
	)

	var redis httpapi.Pinger
	if d.Redis != nil {
		redis = RedisPinger{Client: d.Redis}
	}
	health := httpapi.NewHealthHandler(cfg.App.Name, cfg.App.Version, d.Store, redis)
	health.RegisterRoutes(r)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Focitech API",
			"version": cfg.App.Version,
			"health":  "/health",
		})
	})

	if d.LocalUploads != nil {
		r.Static(d.LocalUploads.PublicPath(), d.LocalUploads.Root())
	}

	api := r.Group("/api/v1")
	health.RegisterRoutes(api)

	bounds := pagination.Bounds{Default: cfg.Limits.DefaultPageSize, Max: cfg.Limits.MaxPageSize}
	authn := auth.NewAuthenticator(d.Provider)
	mw := authmw.NewAuth(authn, errs).WithAdminRole(auth.Role(cfg.Auth.AdminRole))

	limit := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.Limits.PublicRateLimit,
		Burst:             cfg.Limits.PublicRateBurst,
	}

	careersSvc := dep.Careers
	if careersSvc == nil {
		careersSvc = NewCareersService(cfg, d)
	}

	authhttp.New(mw, errs, d.Accounts, middleware.NewRateLimiter(limit).Handler()).Register(api.Group("/auth"))
	portfoliohttp.New(portfolio.NewProjectService(d.Store), mw, errs, bounds).Register(api)
	teamhttp.New(team.NewTeamService(d.Store), mw, errs, bounds).Register(api)
	inquirieshttp.New(inquiries.NewInquiryService(d.Store, d.Notifier), mw, errs, bounds,
		middleware.NewRateLimiter(limit).Handler()).Register(api)
	careershttp.New(careersSvc, mw, errs, bounds,
		middleware.NewRateLimiter(limit).Handler()).Register(api)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorBody{Status: "error", Message: "route not found"})
	})

	return r
}
