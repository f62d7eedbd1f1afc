package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/dbctx"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

type AlignmentRepo interface {
	Upsert(dbc dbctx.Context, alignments []*types.Alignment) ([]*types.Alignment, error)
	GetByID(dbc dbctx.Context, id int64) (*types.Alignment, error)
	GetByResource(dbc dbctx.Context, resourceID int64) ([]*types.Alignment, error)
	SetStatus(dbc dbctx.Context, id int64, status int) error
	DeleteByResource(dbc dbctx.Context, resourceID int64) error
	ResourceIDsByTaxonomies(dbc dbctx.Context, taxonomyIDs []int64) ([]int64, error)
}

type alignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlignmentRepo(db *gorm.DB, baseLog *logger.Logger) AlignmentRepo {
	return &alignmentRepo{
		db:  db,
		log: baseLog.With("repo", "AlignmentRepo"),
	}
}

// Upsert inserts alignments, keeping the existing review status when the
// resource/taxonomy pair already exists.
func (r *alignmentRepo) Upsert(dbc dbctx.Context, alignments []*types.Alignment) ([]*types.Alignment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(alignments) == 0 {
		return []*types.Alignment{}, nil
	}
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_id"}, {Name: "taxonomy_id"}},
			DoNothing: true,
		}).
		Create(&alignments).Error
	if err != nil {
		return nil, err
	}
	return alignments, nil
}

func (r *alignmentRepo) GetByID(dbc dbctx.Context, id int64) (*types.Alignment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var al types.Alignment
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&al).Error
	if err != nil {
		return nil, err
	}
	if al.ID == 0 {
		return nil, nil
	}
	return &al, nil
}

func (r *alignmentRepo) GetByResource(dbc dbctx.Context, resourceID int64) ([]*types.Alignment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Alignment
	err := transaction.WithContext(dbc.Ctx).
		Preload("Taxonomy").
		Where("resource_id = ?", resourceID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *alignmentRepo) SetStatus(dbc dbctx.Context, id int64, status int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Alignment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *alignmentRepo) DeleteByResource(dbc dbctx.Context, resourceID int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("resource_id = ?", resourceID).
		Delete(&types.Alignment{}).Error
}

// ResourceIDsByTaxonomies lists the distinct resources aligned to any of
// the given taxonomies, used to scope recomputation after curation.
func (r *alignmentRepo) ResourceIDsByTaxonomies(dbc dbctx.Context, taxonomyIDs []int64) ([]int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []int64
	if len(taxonomyIDs) == 0 {
		return ids, nil
	}
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.Alignment{}).
		Distinct("resource_id").
		Where("taxonomy_id IN ?", taxonomyIDs).
		Pluck("resource_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
