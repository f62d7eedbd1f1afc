package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openlumen/catalog/internal/data/repos"
	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/denorm"
	"github.com/openlumen/catalog/internal/pkg/dbctx"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

// ErrValidation marks client-caused failures so handlers can map them to
// 422 instead of 500.
var ErrValidation = errors.New("validation failed")

// ErrNotFound marks lookups of rows that do not exist.
var ErrNotFound = errors.New("not found")

// ResourceInput is the write payload for a catalog resource. Zero-valued
// optional fields are left untouched on update.
type ResourceInput struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Publisher            string   `json:"publisher"`
	URL                  string   `json:"url"`
	LearningResourceType string   `json:"learningResourceType"`
	Language             string   `json:"language"`
	ThumbnailURL         string   `json:"thumbnailUrl"`
	TechnicalFormat      string   `json:"technicalFormat"`
	Author               string   `json:"author"`
	UseRightsURL         string   `json:"useRightsUrl"`
	Rating               *float64 `json:"rating"`
	TimeRequired         *int     `json:"timeRequired"`
	MinAge               *int     `json:"minAge"`
	MaxAge               *int     `json:"maxAge"`

	EducationalAudience       []string `json:"educationalAudience"`
	AccessibilityAPI          []string `json:"accessibilityAPI"`
	AccessibilityInputMethods []string `json:"accessibilityInputMethods"`
	AccessibilityFeatures     []string `json:"accessibilityFeatures"`
	AccessMode                []string `json:"accessMode"`
	AccessibilityHazards      []string `json:"accessibilityHazards"`

	LtiLink        datatypes.JSON `json:"ltiLink"`
	TextComplexity datatypes.JSON `json:"textComplexity"`
	Extensions     datatypes.JSON `json:"extensions"`

	TaxonomyIDs []int64  `json:"taxonomyIds"`
	Subjects    []string `json:"subjects"`
}

type ResourceService interface {
	Create(ctx context.Context, input ResourceInput) (*types.Resource, error)
	Get(ctx context.Context, id int64) (*types.Resource, error)
	Update(ctx context.Context, id int64, input ResourceInput) (*types.Resource, error)
	Delete(ctx context.Context, id int64) error
	UpsertStats(ctx context.Context, resourceID int64, stats []*types.ResourceStat) error
}

type resourceService struct {
	db    *gorm.DB
	repos *repos.Set
	den   *denorm.Denormalizer
	log   *logger.Logger
}

func NewResourceService(db *gorm.DB, set *repos.Set, den *denorm.Denormalizer, baseLog *logger.Logger) ResourceService {
	return &resourceService{
		db:    db,
		repos: set,
		den:   den,
		log:   baseLog.With("service", "ResourceService"),
	}
}

func (s *resourceService) Create(ctx context.Context, input ResourceInput) (*types.Resource, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validateEnums(input); err != nil {
		return nil, err
	}

	var created *types.Resource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		res := &types.Resource{}
		applyInput(res, input)
		if _, err := s.repos.Resources.Create(dbc, []*types.Resource{res}); err != nil {
			return err
		}
		if err := s.link(dbc, res.ID, input); err != nil {
			return err
		}
		if err := s.den.Recompute(ctx, tx, []int64{res.ID}); err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("resource created", "id", created.ID)
	return s.Get(ctx, created.ID)
}

func (s *resourceService) Get(ctx context.Context, id int64) (*types.Resource, error) {
	res, err := s.repos.Resources.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("%w: resource %d", ErrNotFound, id)
	}
	return res, nil
}

func (s *resourceService) Update(ctx context.Context, id int64, input ResourceInput) (*types.Resource, error) {
	if err := validateEnums(input); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		res, err := s.repos.Resources.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if res == nil {
			return fmt.Errorf("%w: resource %d", ErrNotFound, id)
		}
		res.Alignments = nil
		res.Subjects = nil
		applyInput(res, input)
		if err := s.repos.Resources.Save(dbc, res); err != nil {
			return err
		}
		if err := s.repos.Alignments.DeleteByResource(dbc, id); err != nil {
			return err
		}
		if err := s.link(dbc, id, input); err != nil {
			return err
		}
		return s.den.Recompute(ctx, tx, []int64{id})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *resourceService) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		res, err := s.repos.Resources.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if res == nil {
			return fmt.Errorf("%w: resource %d", ErrNotFound, id)
		}
		return s.repos.Resources.Delete(dbc, id)
	})
}

// UpsertStats replaces effectiveness measurements and refreshes the
// resource's efficacy closure.
func (s *resourceService) UpsertStats(ctx context.Context, resourceID int64, stats []*types.ResourceStat) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		for _, st := range stats {
			st.ResourceID = resourceID
		}
		if _, err := s.repos.Stats.Upsert(dbc, stats); err != nil {
			return err
		}
		return s.den.Recompute(ctx, tx, []int64{resourceID})
	})
}

// link attaches taxonomy alignments and subjects. Unknown subject names
// are created on the fly; unknown taxonomy ids are a validation error.
func (s *resourceService) link(dbc dbctx.Context, resourceID int64, input ResourceInput) error {
	if len(input.TaxonomyIDs) > 0 {
		found, err := s.repos.Taxonomies.GetByIDs(dbc, input.TaxonomyIDs)
		if err != nil {
			return err
		}
		if len(found) != len(uniqueInt64(input.TaxonomyIDs)) {
			return fmt.Errorf("%w: unknown taxonomy id in %v", ErrValidation, input.TaxonomyIDs)
		}
		alignments := make([]*types.Alignment, 0, len(found))
		for _, tax := range found {
			alignments = append(alignments, &types.Alignment{
				ResourceID: resourceID,
				TaxonomyID: tax.ID,
				Status:     types.AlignmentStatusConfirmed,
			})
		}
		if _, err := s.repos.Alignments.Upsert(dbc, alignments); err != nil {
			return err
		}
	}

	if input.Subjects == nil {
		return nil
	}
	existing, err := s.repos.Subjects.GetByNames(dbc, input.Subjects)
	if err != nil {
		return err
	}
	byName := make(map[string]int64, len(existing))
	for _, sub := range existing {
		byName[strings.ToLower(sub.Name)] = sub.ID
	}
	var missing []*types.Subject
	for _, name := range input.Subjects {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := byName[strings.ToLower(name)]; !ok {
			missing = append(missing, &types.Subject{Name: name})
		}
	}
	if len(missing) > 0 {
		if _, err := s.repos.Subjects.Create(dbc, missing); err != nil {
			return err
		}
		for _, sub := range missing {
			byName[strings.ToLower(sub.Name)] = sub.ID
		}
	}
	var subjectIDs []int64
	for _, name := range input.Subjects {
		if id, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			subjectIDs = append(subjectIDs, id)
		}
	}
	return s.repos.Subjects.ReplaceForResource(dbc, resourceID, subjectIDs)
}

func applyInput(res *types.Resource, input ResourceInput) {
	res.Name = input.Name
	res.Description = input.Description
	res.Publisher = input.Publisher
	res.URL = input.URL
	res.LearningResourceType = input.LearningResourceType
	res.Language = input.Language
	res.ThumbnailURL = input.ThumbnailURL
	res.TechnicalFormat = input.TechnicalFormat
	res.Author = input.Author
	res.UseRightsURL = input.UseRightsURL
	res.Rating = input.Rating
	res.TimeRequired = input.TimeRequired
	res.MinAge = input.MinAge
	res.MaxAge = input.MaxAge
	res.EducationalAudience = pq.StringArray(input.EducationalAudience)
	res.AccessibilityAPI = pq.StringArray(input.AccessibilityAPI)
	res.AccessibilityInputMethods = pq.StringArray(input.AccessibilityInputMethods)
	res.AccessibilityFeatures = pq.StringArray(input.AccessibilityFeatures)
	res.AccessMode = pq.StringArray(input.AccessMode)
	res.AccessibilityHazards = pq.StringArray(input.AccessibilityHazards)
	if input.LtiLink != nil {
		res.LtiLink = input.LtiLink
	}
	if input.TextComplexity != nil {
		res.TextComplexity = input.TextComplexity
	}
	if input.Extensions != nil {
		res.Extensions = input.Extensions
	}
}

func validateEnums(input ResourceInput) error {
	checks := []struct {
		field  string
		values []string
		valid  []string
	}{
		{"educationalAudience", input.EducationalAudience, types.EducationalAudience},
		{"accessibilityAPI", input.AccessibilityAPI, types.AccessibilityAPI},
		{"accessibilityInputMethods", input.AccessibilityInputMethods, types.AccessibilityInput},
		{"accessMode", input.AccessMode, types.AccessMode},
		{"accessibilityHazards", input.AccessibilityHazards, types.AccessibilityHazard},
	}
	for _, check := range checks {
		for _, v := range check.values {
			if !containsFold(check.valid, v) {
				return fmt.Errorf("%w: %q is not a valid %s value", ErrValidation, v, check.field)
			}
		}
	}
	if input.LearningResourceType != "" && !containsFold(types.LearningResourceTypes, input.LearningResourceType) {
		return fmt.Errorf("%w: %q is not a valid learningResourceType value", ErrValidation, input.LearningResourceType)
	}
	if input.Language != "" && len(input.Language) != 2 {
		return fmt.Errorf("%w: language must be a 2-letter code", ErrValidation)
	}
	if input.TimeRequired != nil && *input.TimeRequired <= 0 {
		return fmt.Errorf("%w: timeRequired must be positive", ErrValidation)
	}
	if len(input.TextComplexity) > 0 {
		var metrics map[string]any
		if err := json.Unmarshal(input.TextComplexity, &metrics); err != nil {
			return fmt.Errorf("%w: textComplexity must be a JSON object", ErrValidation)
		}
		for key := range metrics {
			if !containsFold(types.TextComplexityKeys, key) {
				return fmt.Errorf("%w: %q is not a valid textComplexity metric", ErrValidation, key)
			}
		}
	}
	return nil
}

func containsFold(valid []string, v string) bool {
	for _, candidate := range valid {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

func uniqueInt64(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
