package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openlumen/catalog/internal/data/repos"
	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/dbctx"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

type SubjectService interface {
	List(ctx context.Context, nameFilter string, limit, offset int) ([]*types.Subject, int64, error)
	Create(ctx context.Context, name string, parentID *int64) (*types.Subject, error)
}

type subjectService struct {
	db    *gorm.DB
	repos *repos.Set
	log   *logger.Logger
}

func NewSubjectService(db *gorm.DB, set *repos.Set, baseLog *logger.Logger) SubjectService {
	return &subjectService{
		db:    db,
		repos: set,
		log:   baseLog.With("service", "SubjectService"),
	}
}

func (s *subjectService) List(ctx context.Context, nameFilter string, limit, offset int) ([]*types.Subject, int64, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repos.Subjects.List(dbctx.Context{Ctx: ctx}, strings.TrimSpace(nameFilter), limit, offset)
}

func (s *subjectService) Create(ctx context.Context, name string, parentID *int64) (*types.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: subject name is required", ErrValidation)
	}
	existing, err := s.repos.Subjects.GetByNames(dbctx.Context{Ctx: ctx}, []string{name})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: subject %q already exists", ErrValidation, name)
	}
	subject := &types.Subject{Name: name, ParentID: parentID}
	if _, err := s.repos.Subjects.Create(dbctx.Context{Ctx: ctx}, []*types.Subject{subject}); err != nil {
		return nil, err
	}
	return subject, nil
}
