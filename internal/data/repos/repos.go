package repos

import (
	"gorm.io/gorm"

	"github.com/openlumen/catalog/internal/data/repos/catalog"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

type ResourceRepo = catalog.ResourceRepo
type TaxonomyRepo = catalog.TaxonomyRepo
type SubjectRepo = catalog.SubjectRepo
type AlignmentRepo = catalog.AlignmentRepo
type MappingRepo = catalog.MappingRepo
type StatRepo = catalog.StatRepo

// Set is the full repository wiring of the application.
type Set struct {
	Resources  ResourceRepo
	Taxonomies TaxonomyRepo
	Subjects   SubjectRepo
	Alignments AlignmentRepo
	Mappings   MappingRepo
	Stats      StatRepo
}

func New(db *gorm.DB, log *logger.Logger) *Set {
	return &Set{
		Resources:  catalog.NewResourceRepo(db, log),
		Taxonomies: catalog.NewTaxonomyRepo(db, log),
		Subjects:   catalog.NewSubjectRepo(db, log),
		Alignments: catalog.NewAlignmentRepo(db, log),
		Mappings:   catalog.NewMappingRepo(db, log),
		Stats:      catalog.NewStatRepo(db, log),
	}
}
