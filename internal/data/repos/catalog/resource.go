package catalog

import (
	"gorm.io/gorm"

	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/dbctx"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

type ResourceRepo interface {
	Create(dbc dbctx.Context, resources []*types.Resource) ([]*types.Resource, error)
	GetByID(dbc dbctx.Context, id int64) (*types.Resource, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Resource, error)
	UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error
	Save(dbc dbctx.Context, resource *types.Resource) error
	Delete(dbc dbctx.Context, id int64) error
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	return &resourceRepo{
		db:  db,
		log: baseLog.With("repo", "ResourceRepo"),
	}
}

func (r *resourceRepo) Create(dbc dbctx.Context, resources []*types.Resource) ([]*types.Resource, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(resources) == 0 {
		return []*types.Resource{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepo) GetByID(dbc dbctx.Context, id int64) (*types.Resource, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var res types.Resource
	err := transaction.WithContext(dbc.Ctx).
		Preload("Alignments").
		Preload("Alignments.Taxonomy").
		Preload("Subjects").
		Where("id = ?", id).
		Limit(1).
		Find(&res).Error
	if err != nil {
		return nil, err
	}
	if res.ID == 0 {
		return nil, nil
	}
	return &res, nil
}

func (r *resourceRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Resource, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Resource
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resourceRepo) UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Resource{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *resourceRepo) Save(dbc dbctx.Context, resource *types.Resource) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Save(resource).Error
}

// Delete removes a resource and its dependent rows. Alignments, subject
// links, and stats are cleaned up explicitly; taxonomies themselves are
// never touched.
func (r *resourceRepo) Delete(dbc dbctx.Context, id int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	tx := transaction.WithContext(dbc.Ctx)
	if err := tx.Where("resource_id = ?", id).Delete(&types.Alignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("resource_id = ?", id).Delete(&types.ResourceSubject{}).Error; err != nil {
		return err
	}
	if err := tx.Where("resource_id = ?", id).Delete(&types.ResourceStat{}).Error; err != nil {
		return err
	}
	return tx.Delete(&types.Resource{}, id).Error
}
