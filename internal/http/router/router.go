package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/businessflow/estimate-api/internal/config"
	"github.com/businessflow/estimate-api/internal/database"
	"github.com/businessflow/estimate-api/internal/http/handler"
	"github.com/businessflow/estimate-api/internal/http/middleware"

	_ "github.com/businessflow/estimate-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	rateLimiter     *middleware.RateLimiter
	customerHandler *handler.CustomerHandler
	productHandler  *handler.ProductHandler
	settingsHandler *handler.SettingsHandler
	estimateHandler *handler.EstimateHandler
	publicHandler   *handler.PublicHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	customerHandler *handler.CustomerHandler,
	productHandler *handler.ProductHandler,
	settingsHandler *handler.SettingsHandler,
	estimateHandler *handler.EstimateHandler,
	publicHandler *handler.PublicHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		rateLimiter:     rateLimiter,
		customerHandler: customerHandler,
		productHandler:  productHandler,
		settingsHandler: settingsHandler,
		estimateHandler: estimateHandler,
		publicHandler:   publicHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// Public share-link routes. Anonymous traffic gets its own, tighter
	// rate limit bucket since tokens arrive unauthenticated.
	r.Route("/e", func(r chi.Router) {
		r.Use(rt.rateLimiter.LimitPublic)

		r.Get("/{token}", rt.publicHandler.View)
		r.Post("/{token}/sign", rt.publicHandler.Sign)
		r.Get("/{token}/pdf", rt.publicHandler.DownloadPDF)
	})

	// API v1 routes (internal surface, API key required)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKey(rt.cfg.ApiKey.Value, rt.logger))

		// Customers
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", rt.customerHandler.List)
			r.Post("/", rt.customerHandler.Create)
			r.Get("/{id}", rt.customerHandler.GetByID)
			r.Put("/{id}", rt.customerHandler.Update)
			r.Get("/{id}/estimates", rt.customerHandler.GetEstimates)
		})

		// Products
		r.Route("/products", func(r chi.Router) {
			r.Get("/", rt.productHandler.List)
			r.Post("/", rt.productHandler.Create)
			r.Get("/{id}", rt.productHandler.GetByID)
		})

		// Company settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", rt.settingsHandler.Get)
			r.Put("/", rt.settingsHandler.Update)
		})

		// Estimates
		r.Route("/estimates", func(r chi.Router) {
			r.Get("/", rt.estimateHandler.List)
			r.Post("/", rt.estimateHandler.Create)
			r.Get("/{id}", rt.estimateHandler.GetByID)
			r.Put("/{id}", rt.estimateHandler.Update)

			// Lifecycle endpoints
			r.Post("/{id}/send", rt.estimateHandler.Send)
			r.Post("/{id}/share-link", rt.estimateHandler.ShareLink)

			// Sub-resources
			r.Get("/{id}/pdf", rt.estimateHandler.DownloadPDF)
			r.Get("/{id}/activities", rt.estimateHandler.GetActivities)
		})
	})

	return r
}
