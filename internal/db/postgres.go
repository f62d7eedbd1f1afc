package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/logger"
	"github.com/openlumen/catalog/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(logg *logger.Logger) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", logg)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", logg)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", logg)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", logg)
	postgresName := utils.GetEnv("POSTGRES_NAME", "catalog", logg)

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser,
		postgresPassword,
		postgresHost,
		postgresPort,
		postgresName,
	)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	// pg_trgm backs the trigram fallback in relevance search, citext the
	// case-insensitive array overlap on extension subkeys.
	for _, ext := range []string{"pg_trgm", "citext"} {
		if err := gdb.Exec(fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS %q;`, ext)).Error; err != nil {
			return nil, fmt.Errorf("failed to enable %s extension: %w", ext, err)
		}
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	if err := s.db.AutoMigrate(
		&catalog.Taxonomy{},
		&catalog.Resource{},
		&catalog.Alignment{},
		&catalog.TaxonomyMapping{},
		&catalog.Subject{},
		&catalog.ResourceSubject{},
		&catalog.ResourceStat{},
	); err != nil {
		return err
	}

	// tsv_text is maintained by the database; gorm cannot express a
	// generated tsvector column, so it is added here.
	stmts := []string{
		`ALTER TABLE resources ADD COLUMN IF NOT EXISTS tsv_text tsvector
		 GENERATED ALWAYS AS (to_tsvector('english', coalesce(name, '') || ' ' || coalesce(description, ''))) STORED`,
		`CREATE INDEX IF NOT EXISTS idx_resources_tsv_text ON resources USING gin(tsv_text)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_direct_taxonomy_ids ON resources USING gin(direct_taxonomy_ids)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_all_taxonomy_ids ON resources USING gin(all_taxonomy_ids)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_all_subject_ids ON resources USING gin(all_subject_ids)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_name_trgm ON resources USING gin(name gin_trgm_ops)`,
	}
	for _, stmt := range stmts {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
	}
	return nil
}
