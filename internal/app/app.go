package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "github.com/openlumen/catalog/internal/clients/redis"
	"github.com/openlumen/catalog/internal/data/repos"
	"github.com/openlumen/catalog/internal/db"
	"github.com/openlumen/catalog/internal/denorm"
	"github.com/openlumen/catalog/internal/handlers"
	"github.com/openlumen/catalog/internal/pkg/logger"
	"github.com/openlumen/catalog/internal/search"
	"github.com/openlumen/catalog/internal/server"
	"github.com/openlumen/catalog/internal/services"
)

type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Router *gin.Engine
	Cfg    Config

	Repos        *repos.Set
	Denormalizer *denorm.Denormalizer
	Engine       *search.Engine
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	reposet := repos.New(theDB, log)
	den := denorm.New(theDB, log)

	var cache search.CountCache
	if cfg.CountCacheEnabled {
		countCache, err := redisclient.NewCountCache(log)
		if err != nil {
			log.Warn("count cache disabled, redis unavailable", "error", err)
		} else {
			cache = countCache
		}
	}

	cols := search.AvailableColumns(theDB, search.FieldTypeTables...)
	fieldMap := search.NewFieldMap(cols, reposet.Taxonomies, reposet.Subjects, search.Config{
		SearchByTaxonomyAliases: cfg.SearchByTaxonomyAliases,
	})
	engine := search.NewEngine(theDB, fieldMap, log, cache, nil)

	resourceService := services.NewResourceService(theDB, reposet, den, log)
	taxonomyService := services.NewTaxonomyService(theDB, reposet, den, log)
	subjectService := services.NewSubjectService(theDB, reposet, log)

	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		AllowOrigins:    cfg.AllowOrigins,
		ResourceHandler: handlers.NewResourceHandler(log, engine, resourceService),
		SubjectHandler:  handlers.NewSubjectHandler(log, subjectService),
		TaxonomyHandler: handlers.NewTaxonomyHandler(log, taxonomyService),
	})

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Denormalizer: den,
		Engine:       engine,
	}, nil
}
