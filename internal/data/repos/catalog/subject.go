package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/dbctx"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

type SubjectRepo interface {
	Create(dbc dbctx.Context, subjects []*types.Subject) ([]*types.Subject, error)
	List(dbc dbctx.Context, nameFilter string, limit, offset int) ([]*types.Subject, int64, error)
	GetByNames(dbc dbctx.Context, names []string) ([]*types.Subject, error)
	ReplaceForResource(dbc dbctx.Context, resourceID int64, subjectIDs []int64) error

	// IDsByName backs the subject filter field; fuzzy values arrive
	// pre-wrapped in wildcards.
	IDsByName(ctx context.Context, name string, fuzzy bool) ([]int64, error)
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{
		db:  db,
		log: baseLog.With("repo", "SubjectRepo"),
	}
}

func (r *subjectRepo) Create(dbc dbctx.Context, subjects []*types.Subject) ([]*types.Subject, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(subjects) == 0 {
		return []*types.Subject{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepo) List(dbc dbctx.Context, nameFilter string, limit, offset int) ([]*types.Subject, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(dbc.Ctx).Model(&types.Subject{})
	if nameFilter != "" {
		query = query.Where("name ILIKE ?", "%"+nameFilter+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Subject
	if err := query.Order("name").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *subjectRepo) GetByNames(dbc dbctx.Context, names []string) ([]*types.Subject, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Subject
	if len(names) == 0 {
		return out, nil
	}
	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if err := transaction.WithContext(dbc.Ctx).Where("lower(name) IN ?", lowered).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForResource swaps a resource's subject links for the given set.
func (r *subjectRepo) ReplaceForResource(dbc dbctx.Context, resourceID int64, subjectIDs []int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	err := transaction.WithContext(dbc.Ctx).
		Where("resource_id = ?", resourceID).
		Delete(&types.ResourceSubject{}).Error
	if err != nil {
		return err
	}
	if len(subjectIDs) == 0 {
		return nil
	}
	links := make([]*types.ResourceSubject, len(subjectIDs))
	for i, id := range subjectIDs {
		links[i] = &types.ResourceSubject{ResourceID: resourceID, SubjectID: id}
	}
	return transaction.WithContext(dbc.Ctx).Create(&links).Error
}

func (r *subjectRepo) IDsByName(ctx context.Context, name string, fuzzy bool) ([]int64, error) {
	if strings.Trim(name, "%") == "" {
		return nil, nil
	}
	query := r.db.WithContext(ctx).Model(&types.Subject{})
	if fuzzy {
		query = query.Where("name ILIKE ?", name)
	} else {
		query = query.Where("lower(name) = lower(?)", name)
	}
	var ids []int64
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
