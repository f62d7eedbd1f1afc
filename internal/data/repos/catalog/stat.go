package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/dbctx"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

type StatRepo interface {
	Upsert(dbc dbctx.Context, stats []*types.ResourceStat) ([]*types.ResourceStat, error)
	GetByResource(dbc dbctx.Context, resourceID int64) ([]*types.ResourceStat, error)
	DeleteByResource(dbc dbctx.Context, resourceID int64) error
}

type statRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatRepo(db *gorm.DB, baseLog *logger.Logger) StatRepo {
	return &statRepo{
		db:  db,
		log: baseLog.With("repo", "StatRepo"),
	}
}

func (r *statRepo) Upsert(dbc dbctx.Context, stats []*types.ResourceStat) ([]*types.ResourceStat, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(stats) == 0 {
		return []*types.ResourceStat{}, nil
	}
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_id"}, {Name: "taxonomy_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"effectiveness", "taxonomy_ident", "updated_at"}),
		}).
		Create(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statRepo) GetByResource(dbc dbctx.Context, resourceID int64) ([]*types.ResourceStat, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ResourceStat
	err := transaction.WithContext(dbc.Ctx).
		Where("resource_id = ?", resourceID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *statRepo) DeleteByResource(dbc dbctx.Context, resourceID int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("resource_id = ?", resourceID).
		Delete(&types.ResourceStat{}).Error
}
