package app

import (
	"strings"

	"github.com/openlumen/catalog/internal/pkg/logger"
	"github.com/openlumen/catalog/internal/utils"
)

type Config struct {
	Port         string
	LogMode      string
	AllowOrigins []string

	// SearchByTaxonomyAliases widens targetName filtering to alias lists.
	SearchByTaxonomyAliases bool
	// CountCacheEnabled turns on the redis-backed total-count cache.
	CountCacheEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)
	return Config{
		Port:                    utils.GetEnv("PORT", "8080", log),
		LogMode:                 utils.GetEnv("LOG_MODE", "development", log),
		AllowOrigins:            strings.Split(origins, ","),
		SearchByTaxonomyAliases: utils.GetEnvAsBool("SEARCH_BY_TAXONOMY_ALIASES", false, log),
		CountCacheEnabled:       utils.GetEnvAsBool("COUNT_CACHE_ENABLED", false, log),
	}
}
