package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/dbctx"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

type TaxonomyRepo interface {
	Create(dbc dbctx.Context, taxonomies []*types.Taxonomy) ([]*types.Taxonomy, error)
	GetByID(dbc dbctx.Context, id int64) (*types.Taxonomy, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Taxonomy, error)
	List(dbc dbctx.Context, limit, offset int) ([]*types.Taxonomy, error)
	UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id int64) error

	// Lookup methods used by the learning-objective filter family.
	IDsBySourcePattern(ctx context.Context, pattern string) ([]int64, error)
	IDsByGUIDPattern(ctx context.Context, pattern string) ([]int64, error)
	IDsByIdentifiers(ctx context.Context, identifiers []string, includeAliases bool) ([]int64, error)
	IDsByDescriptionContains(ctx context.Context, term string) ([]int64, error)
	IDsByAlignmentType(ctx context.Context, value string) ([]int64, error)
	IDsWithNullColumn(ctx context.Context, column string, notNull bool) ([]int64, error)
	DescendantIDs(ctx context.Context, ids []int64) ([]int64, error)
}

type taxonomyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaxonomyRepo(db *gorm.DB, baseLog *logger.Logger) TaxonomyRepo {
	return &taxonomyRepo{
		db:  db,
		log: baseLog.With("repo", "TaxonomyRepo"),
	}
}

func (r *taxonomyRepo) Create(dbc dbctx.Context, taxonomies []*types.Taxonomy) ([]*types.Taxonomy, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(taxonomies) == 0 {
		return []*types.Taxonomy{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&taxonomies).Error; err != nil {
		return nil, err
	}
	return taxonomies, nil
}

func (r *taxonomyRepo) GetByID(dbc dbctx.Context, id int64) (*types.Taxonomy, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var tax types.Taxonomy
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&tax).Error
	if err != nil {
		return nil, err
	}
	if tax.ID == 0 {
		return nil, nil
	}
	return &tax, nil
}

func (r *taxonomyRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Taxonomy, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Taxonomy
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taxonomyRepo) List(dbc dbctx.Context, limit, offset int) ([]*types.Taxonomy, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Taxonomy
	err := transaction.WithContext(dbc.Ctx).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taxonomyRepo) UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Taxonomy{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a taxonomy node. The alignments foreign key is RESTRICT,
// so a node still aligned to any resource fails here.
func (r *taxonomyRepo) Delete(dbc dbctx.Context, id int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Delete(&types.Taxonomy{}, id).Error
}

func (r *taxonomyRepo) pluckIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&types.Taxonomy{}).
		Where(query, args...).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *taxonomyRepo) IDsBySourcePattern(ctx context.Context, pattern string) ([]int64, error) {
	if pattern == "" {
		return nil, nil
	}
	return r.pluckIDs(ctx, "source ~* ?", pattern)
}

func (r *taxonomyRepo) IDsByGUIDPattern(ctx context.Context, pattern string) ([]int64, error) {
	if pattern == "" {
		return nil, nil
	}
	return r.pluckIDs(ctx, "opensalt_identifier ~* ?", pattern)
}

func (r *taxonomyRepo) IDsByIdentifiers(ctx context.Context, identifiers []string, includeAliases bool) ([]int64, error) {
	if len(identifiers) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(identifiers))
	for i, ident := range identifiers {
		lowered[i] = strings.ToLower(strings.TrimSpace(ident))
	}
	if includeAliases {
		return r.pluckIDs(ctx,
			"lower(identifier) IN ? OR EXISTS (SELECT 1 FROM unnest(taxonomies.aliases) AS alias WHERE lower(alias) = ANY(?))",
			lowered, pq.Array(lowered))
	}
	return r.pluckIDs(ctx, "lower(identifier) IN ?", lowered)
}

func (r *taxonomyRepo) IDsByDescriptionContains(ctx context.Context, term string) ([]int64, error) {
	term = strings.Trim(term, "%")
	if term == "" {
		return nil, nil
	}
	return r.pluckIDs(ctx, "description ILIKE ?", "%"+term+"%")
}

func (r *taxonomyRepo) IDsByAlignmentType(ctx context.Context, value string) ([]int64, error) {
	if value == "" {
		return nil, nil
	}
	return r.pluckIDs(ctx, "lower(alignment_type) = lower(?)", value)
}

// nullColumns is the whitelist of columns IDsWithNullColumn may test;
// anything else would splice unvalidated input into SQL.
var nullColumns = map[string]bool{
	"id":                  true,
	"identifier":          true,
	"opensalt_identifier": true,
	"source":              true,
	"description":         true,
	"alignment_type":      true,
}

func (r *taxonomyRepo) IDsWithNullColumn(ctx context.Context, column string, notNull bool) ([]int64, error) {
	if !nullColumns[column] {
		return nil, fmt.Errorf("taxonomy column %q is not null-checkable", column)
	}
	predicate := fmt.Sprintf("%s IS NULL", column)
	if notNull {
		predicate = fmt.Sprintf("%s IS NOT NULL", column)
	}
	return r.pluckIDs(ctx, predicate)
}

// DescendantIDs matches the slash-joined ancestry column: a node is a
// descendant of id when id appears as any path segment of its ancestry.
func (r *taxonomyRepo) DescendantIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("/%d/|^%d/|^.*/%d$|^%d$", id, id, id, id))
	}
	return r.pluckIDs(ctx, "ancestry ~ ?", strings.Join(parts, "|"))
}
