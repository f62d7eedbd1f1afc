package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/openlumen/catalog/internal/handlers"
	"github.com/openlumen/catalog/internal/middleware"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	AllowOrigins    []string
	ResourceHandler *handlers.ResourceHandler
	SubjectHandler  *handlers.SubjectHandler
	TaxonomyHandler *handlers.TaxonomyHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	// No-op until InitTracing installs a tracer provider.
	router.Use(otelgin.Middleware("catalog"))
	router.Use(middleware.RequestID(cfg.Log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Link", "X-Total-Count", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api/v1")
	{
		// Catalog search + resource management
		api.GET("/resources", cfg.ResourceHandler.Search)
		api.POST("/resources", cfg.ResourceHandler.Create)
		api.GET("/resources/:id", cfg.ResourceHandler.Get)
		api.PUT("/resources/:id", cfg.ResourceHandler.Update)
		api.DELETE("/resources/:id", cfg.ResourceHandler.Delete)
		api.PUT("/resources/:id/stats", cfg.ResourceHandler.UpsertStats)

		// Subjects
		api.GET("/subjects", cfg.SubjectHandler.List)
		api.POST("/subjects", cfg.SubjectHandler.Create)

		// Taxonomy curation
		api.GET("/taxonomies", cfg.TaxonomyHandler.List)
		api.POST("/taxonomies", cfg.TaxonomyHandler.Create)
		api.GET("/taxonomies/:id", cfg.TaxonomyHandler.Get)
		api.DELETE("/taxonomies/:id", cfg.TaxonomyHandler.Delete)
		api.POST("/taxonomy-mappings", cfg.TaxonomyHandler.CreateMapping)
		api.DELETE("/taxonomy-mappings/:id", cfg.TaxonomyHandler.DeleteMapping)
		api.PUT("/alignments/:id/status", cfg.TaxonomyHandler.SetAlignmentStatus)
	}

	return router
}
