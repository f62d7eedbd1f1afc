package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/dbctx"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

type MappingRepo interface {
	Create(dbc dbctx.Context, mapping *types.TaxonomyMapping) (*types.TaxonomyMapping, error)
	GetByID(dbc dbctx.Context, id int64) (*types.TaxonomyMapping, error)
	ListByTaxonomy(dbc dbctx.Context, taxonomyID int64) ([]*types.TaxonomyMapping, error)
	Delete(dbc dbctx.Context, id int64) error
}

type mappingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMappingRepo(db *gorm.DB, baseLog *logger.Logger) MappingRepo {
	return &mappingRepo{
		db:  db,
		log: baseLog.With("repo", "MappingRepo"),
	}
}

func (r *mappingRepo) Create(dbc dbctx.Context, mapping *types.TaxonomyMapping) (*types.TaxonomyMapping, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(mapping).Error
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func (r *mappingRepo) GetByID(dbc dbctx.Context, id int64) (*types.TaxonomyMapping, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var m types.TaxonomyMapping
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

// ListByTaxonomy returns mappings where the node appears on either side;
// the mapping is directed in storage but symmetric in meaning.
func (r *mappingRepo) ListByTaxonomy(dbc dbctx.Context, taxonomyID int64) ([]*types.TaxonomyMapping, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.TaxonomyMapping
	err := transaction.WithContext(dbc.Ctx).
		Where("taxonomy_id = ? OR target_id = ?", taxonomyID, taxonomyID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mappingRepo) Delete(dbc dbctx.Context, id int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Delete(&types.TaxonomyMapping{}, id).Error
}
