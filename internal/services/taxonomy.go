package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openlumen/catalog/internal/data/repos"
	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/denorm"
	"github.com/openlumen/catalog/internal/pkg/dbctx"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

// ErrTaxonomyInUse is returned when deleting a taxonomy that resources
// are still aligned to.
var ErrTaxonomyInUse = errors.New("taxonomy still has alignments")

type TaxonomyService interface {
	Create(ctx context.Context, taxonomies []*types.Taxonomy) ([]*types.Taxonomy, error)
	Get(ctx context.Context, id int64) (*types.Taxonomy, error)
	List(ctx context.Context, limit, offset int) ([]*types.Taxonomy, error)
	Delete(ctx context.Context, id int64) error

	CreateMapping(ctx context.Context, taxonomyID, targetID int64) (*types.TaxonomyMapping, error)
	DeleteMapping(ctx context.Context, mappingID int64) error
	SetAlignmentStatus(ctx context.Context, alignmentID int64, status int) error
}

type taxonomyService struct {
	db    *gorm.DB
	repos *repos.Set
	den   *denorm.Denormalizer
	log   *logger.Logger
}

func NewTaxonomyService(db *gorm.DB, set *repos.Set, den *denorm.Denormalizer, baseLog *logger.Logger) TaxonomyService {
	return &taxonomyService{
		db:    db,
		repos: set,
		den:   den,
		log:   baseLog.With("service", "TaxonomyService"),
	}
}

func (s *taxonomyService) Create(ctx context.Context, taxonomies []*types.Taxonomy) ([]*types.Taxonomy, error) {
	for _, tax := range taxonomies {
		if tax.Identifier == "" {
			return nil, fmt.Errorf("%w: taxonomy identifier is required", ErrValidation)
		}
	}
	return s.repos.Taxonomies.Create(dbctx.Context{Ctx: ctx}, taxonomies)
}

func (s *taxonomyService) Get(ctx context.Context, id int64) (*types.Taxonomy, error) {
	tax, err := s.repos.Taxonomies.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if tax == nil {
		return nil, fmt.Errorf("%w: taxonomy %d", ErrNotFound, id)
	}
	return tax, nil
}

func (s *taxonomyService) List(ctx context.Context, limit, offset int) ([]*types.Taxonomy, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repos.Taxonomies.List(dbctx.Context{Ctx: ctx}, limit, offset)
}

// Delete refuses to remove a node that is still aligned; curators must
// reject or move the alignments first.
func (s *taxonomyService) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		aligned, err := s.repos.Alignments.ResourceIDsByTaxonomies(dbc, []int64{id})
		if err != nil {
			return err
		}
		if len(aligned) > 0 {
			return fmt.Errorf("%w: taxonomy %d is aligned to %d resources", ErrTaxonomyInUse, id, len(aligned))
		}
		return s.repos.Taxonomies.Delete(dbc, id)
	})
}

// CreateMapping records a cross-framework equivalence and refreshes the
// closures of every resource aligned to either side.
func (s *taxonomyService) CreateMapping(ctx context.Context, taxonomyID, targetID int64) (*types.TaxonomyMapping, error) {
	if taxonomyID == targetID {
		return nil, fmt.Errorf("%w: a taxonomy cannot map to itself", ErrValidation)
	}
	var mapping *types.TaxonomyMapping
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		for _, id := range []int64{taxonomyID, targetID} {
			tax, err := s.repos.Taxonomies.GetByID(dbc, id)
			if err != nil {
				return err
			}
			if tax == nil {
				return fmt.Errorf("%w: taxonomy %d", ErrNotFound, id)
			}
		}
		m, err := s.repos.Mappings.Create(dbc, &types.TaxonomyMapping{TaxonomyID: taxonomyID, TargetID: targetID})
		if err != nil {
			return err
		}
		mapping = m
		return s.recomputeTouching(dbc, tx, []int64{taxonomyID, targetID})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("taxonomy mapping created", "taxonomy_id", taxonomyID, "target_id", targetID)
	return mapping, nil
}

func (s *taxonomyService) DeleteMapping(ctx context.Context, mappingID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		mapping, err := s.repos.Mappings.GetByID(dbc, mappingID)
		if err != nil {
			return err
		}
		if mapping == nil {
			return fmt.Errorf("%w: mapping %d", ErrNotFound, mappingID)
		}
		if err := s.repos.Mappings.Delete(dbc, mappingID); err != nil {
			return err
		}
		return s.recomputeTouching(dbc, tx, []int64{mapping.TaxonomyID, mapping.TargetID})
	})
}

// SetAlignmentStatus moves an alignment through review and refreshes the
// resource's closures, since only confirmed alignments count.
func (s *taxonomyService) SetAlignmentStatus(ctx context.Context, alignmentID int64, status int) error {
	switch status {
	case types.AlignmentStatusUnreviewed, types.AlignmentStatusConfirmed, types.AlignmentStatusRejected:
	default:
		return fmt.Errorf("%w: unknown alignment status %d", ErrValidation, status)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		alignment, err := s.repos.Alignments.GetByID(dbc, alignmentID)
		if err != nil {
			return err
		}
		if alignment == nil {
			return fmt.Errorf("%w: alignment %d", ErrNotFound, alignmentID)
		}
		if err := s.repos.Alignments.SetStatus(dbc, alignmentID, status); err != nil {
			return err
		}
		return s.den.Recompute(ctx, tx, []int64{alignment.ResourceID})
	})
}

func (s *taxonomyService) recomputeTouching(dbc dbctx.Context, tx *gorm.DB, taxonomyIDs []int64) error {
	resourceIDs, err := s.repos.Alignments.ResourceIDsByTaxonomies(dbc, taxonomyIDs)
	if err != nil {
		return err
	}
	return s.den.Recompute(dbc.Ctx, tx, resourceIDs)
}
