package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/property-listings-backend/internal/adapter/handler"
	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/middleware"
)

type Router struct {
	engine         *gin.Engine
	imageHandler   *handler.ImageHandler
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	metrics        http.Handler
	staticPrefix   string
	staticRoot     string
	logger         *zap.Logger
}

type RouterConfig struct {
	ImageHandler   *handler.ImageHandler
	AuthMiddleware *middleware.AuthMiddleware
	// RateLimiter is optional; uploads are unthrottled when nil.
	RateLimiter *middleware.RateLimiter
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	// StaticPrefix and StaticRoot expose locally stored images, e.g.
	// /properties -> ./uploads/properties.
	StaticPrefix string
	StaticRoot   string
	Logger       *zap.Logger
	Environment  string
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:         engine,
		imageHandler:   cfg.ImageHandler,
		authMiddleware: cfg.AuthMiddleware,
		rateLimiter:    cfg.RateLimiter,
		metrics:        cfg.Metrics,
		staticPrefix:   cfg.StaticPrefix,
		staticRoot:     cfg.StaticRoot,
		logger:         cfg.Logger,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.CORS())
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics))
	}

	if r.staticPrefix != "" && r.staticRoot != "" {
		r.engine.Static(r.staticPrefix, r.staticRoot)
	}

	api := r.engine.Group("/api/v1")
	api.Use(r.authMiddleware.RequireAuth())
	{
		listings := api.Group("/listings/:listing_id/images")
		{
			listings.GET("", r.imageHandler.List)
			if r.rateLimiter != nil {
				listings.POST("", r.rateLimiter.Limit(), r.imageHandler.Upload)
			} else {
				listings.POST("", r.imageHandler.Upload)
			}
		}

		images := api.Group("/images")
		{
			images.PATCH("/:id", r.imageHandler.Update)
			images.DELETE("/:id", r.imageHandler.Delete)
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
