// Package server assembles the HTTP application: middleware chain, error
// handling, authentication and every domain's routes. Keeping assembly out
// of package main lets the end-to-end tests run the real wiring against
// httptest.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ayushbridge/emr/internal/config"
	"github.com/ayushbridge/emr/internal/domain/analytics"
	"github.com/ayushbridge/emr/internal/domain/ehr"
	"github.com/ayushbridge/emr/internal/domain/patient"
	"github.com/ayushbridge/emr/internal/domain/search"
	"github.com/ayushbridge/emr/internal/domain/terminology"
	"github.com/ayushbridge/emr/internal/platform/auth"
	"github.com/ayushbridge/emr/internal/platform/db"
	"github.com/ayushbridge/emr/internal/platform/middleware"
	"github.com/ayushbridge/emr/internal/platform/openapi"
)

// Options carries the external resources the server may use. Pool and Redis
// are optional: without them the server runs fully in-memory, which is the
// demo and test configuration.
type Options struct {
	Cfg   *config.Config
	Log   zerolog.Logger
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

// New builds the fully wired echo application.
func New(opts Options) (*echo.Echo, error) {
	cfg := opts.Cfg
	logger := opts.Log

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiryMins)*time.Minute)
	users, err := auth.NewSeededUserStore()
	if err != nil {
		return nil, fmt.Errorf("seed user store: %w", err)
	}
	auth.NewHandler(users, issuer).RegisterRoutes(e)

	if cfg.IsDev() {
		e.Use(auth.DevMiddleware(issuer))
	} else {
		e.Use(auth.Middleware(issuer, func(c echo.Context) bool {
			// Reads and searches are public; only mutations need a token.
			return c.Request().Header.Get("Authorization") == ""
		}))
	}

	// Repositories: Postgres when a pool is supplied, in-memory otherwise.
	var (
		icd11Repo   terminology.ICD11Repository
		namasteRepo terminology.NamasteRepository
		patientRepo patient.Repository
		trailStore  search.TrailStore
	)
	if opts.Pool != nil {
		icd11Repo = terminology.NewICD11RepoPG(opts.Pool)
		namasteRepo = terminology.NewNamasteRepoPG(opts.Pool)
		patientRepo = patient.NewPgRepository(opts.Pool)
		trailStore = search.NewPgTrailStore(opts.Pool)
	} else {
		icd11Repo = terminology.NewICD11RepoMem()
		namasteRepo = terminology.NewNamasteRepoMem()
		patientRepo = patient.NewMemoryRepository()
		trailStore = search.NewMemoryTrailStore()
	}

	var cache search.Cache = search.NewMemoryCache()
	if opts.Redis != nil {
		cache = search.NewRedisCache(opts.Redis)
	}

	var upstream search.Upstream
	if cfg.HasUpstream() {
		upstream = search.NewWHOClient(cfg.WHOMMSURL, cfg.WHOTM2URL, cfg.WHOAPIKey, cfg.UpstreamTimeout)
	}

	// Services
	terminologySvc := terminology.NewService(icd11Repo, namasteRepo)
	patientSvc := patient.NewService(patientRepo, logger)
	ehrSvc := ehr.NewService(patientSvc, logger)
	analyticsSvc := analytics.NewService(patientRepo, logger)
	searchSvc := search.NewService(cache, upstream, icd11Repo, trailStore, cfg.CacheTTL(), logger)

	// Routes
	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	terminology.NewHandler(terminologySvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1, auth.RequireAuth())
	ehr.NewHandler(ehrSvc).RegisterRoutes(apiV1, auth.RequireAuth())
	analytics.NewHandler(analyticsSvc).RegisterRoutes(apiV1)
	search.NewHandler(searchSvc).RegisterRoutes(apiV1, auth.RequireRole("admin"))

	baseURL := fmt.Sprintf("http://localhost:%s", cfg.Port)
	e.GET("/openapi.json", openapi.NewGenerator("0.1.0", baseURL).Handler())

	// Health check
	if opts.Pool != nil {
		e.GET("/health", db.HealthHandler(opts.Pool))
	} else {
		// Memory repositories are born seeded.
		e.GET("/health", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"status":  "ok",
				"storage": "memory",
				"seeded":  true,
			})
		})
	}

	return e, nil
}

// errorHandler renders every error as the wire contract's {"detail": "..."}
// body, matching what clients of the search endpoint parse.
func errorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		detail := "internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				detail = msg
			} else {
				detail = fmt.Sprintf("%v", he.Message)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, map[string]string{"detail": detail})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("failed to write error response")
		}
	}
}
