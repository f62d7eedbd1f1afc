package search

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/openlumen/catalog/internal/pkg/logger"
)

var tracer = otel.Tracer("github.com/openlumen/catalog/internal/search")

// Window bounds. Out-of-range values silently fall back to the defaults.
const (
	DefaultLimit  = 100
	MaxLimit      = 100
	DefaultOffset = 0
	MaxOffset     = 100000
)

// Request is one catalog search, already decoded from transport.
type Request struct {
	Filter  string
	Fields  *string
	Sort    string
	OrderBy string
	Limit   int
	Offset  int
	// ExpandObjectives widens learning-objective containment to the
	// one-hop-mapped taxonomy closure.
	ExpandObjectives bool
}

// Result is a page of resources as raw projection rows, plus the window
// descriptor and any degradation warnings.
type Result struct {
	Resources  []map[string]any `json:"resources"`
	Pagination Pagination       `json:"pagination"`
	Warnings   []Warning        `json:"warnings,omitempty"`
}

// VisibilityFilter lets the host application narrow every search, e.g. to
// published rows or a tenant. It receives and returns the base query.
type VisibilityFilter func(tx *gorm.DB) *gorm.DB

// CountCache memoizes total counts keyed by the compiled count query, so
// page navigation does not recount on every request.
type CountCache interface {
	Get(ctx context.Context, key string) (int64, bool)
	Set(ctx context.Context, key string, total int64)
}

// Engine executes catalog searches end to end: compile the filter, count
// distinct matches, project the requested page.
type Engine struct {
	db          *gorm.DB
	fields      *FieldMap
	transformer *Transformer
	sanitizer   *Sanitizer
	log         *logger.Logger
	cache       CountCache
	visibility  VisibilityFilter
}

func NewEngine(db *gorm.DB, fields *FieldMap, log *logger.Logger, cache CountCache, visibility VisibilityFilter) *Engine {
	return &Engine{
		db:          db,
		fields:      fields,
		transformer: NewTransformer(fields),
		sanitizer:   NewSanitizer(fields),
		log:         log,
		cache:       cache,
		visibility:  visibility,
	}
}

func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "catalog.search")
	defer span.End()

	var warnings []Warning

	selectSQL, selWarnings, err := e.sanitizer.SelectSQL(req.Fields)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, selWarnings...)

	sortExpr, direction, sortWarnings := e.sanitizer.Sort(req.Sort, req.OrderBy)
	warnings = append(warnings, sortWarnings...)

	var compiled *CompiledFilter
	if strings.TrimSpace(req.Filter) != "" {
		compiled, err = e.transformer.Compile(ctx, req.Filter, Options{ExpandObjectives: req.ExpandObjectives})
		if err != nil {
			return nil, err
		}
	}

	limit := checkValue(req.Limit, 1, MaxLimit, DefaultLimit)
	offset := checkValue(req.Offset, 0, MaxOffset, DefaultOffset)
	span.SetAttributes(
		attribute.Bool("search.filtered", compiled != nil),
		attribute.Int("search.limit", limit),
		attribute.Int("search.offset", offset),
	)

	base := e.db.WithContext(ctx).Table("resources")
	if compiled != nil && compiled.SQL != "" {
		base = base.Where(compiled.SQL, compiled.Params)
	}
	if e.visibility != nil {
		base = e.visibility(base)
	}

	countCtx, countSpan := tracer.Start(ctx, "catalog.search.count")
	total, err := e.count(countCtx, base.WithContext(countCtx), compiled)
	countSpan.End()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count resources: %w", err)
	}
	span.SetAttributes(attribute.Int64("search.total", total))

	rank, ranked := rankExpr(compiled)
	selectSQL, sortExpr, rankWarning := applyRelevance(selectSQL, sortExpr, rank, ranked)
	if rankWarning != nil {
		warnings = append(warnings, *rankWarning)
	}

	pageCtx, pageSpan := tracer.Start(ctx, "catalog.search.page")
	rows := []map[string]any{}
	err = base.Session(&gorm.Session{Context: pageCtx}).
		Select(strings.Join(selectSQL, ", ")).
		Order(fmt.Sprintf("%s %s NULLS LAST, resources.id asc", sortExpr, direction)).
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	pageSpan.End()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("select resources: %w", err)
	}

	if len(warnings) > 0 && e.log != nil {
		e.log.Debug("search degraded", "warnings", len(warnings), "filter", req.Filter)
	}

	return &Result{
		Resources:  rows,
		Pagination: NewPagination(total, limit, offset),
		Warnings:   warnings,
	}, nil
}

func (e *Engine) count(ctx context.Context, base *gorm.DB, compiled *CompiledFilter) (int64, error) {
	key := ""
	if e.cache != nil {
		key = countCacheKey(compiled)
		if total, ok := e.cache.Get(ctx, key); ok {
			return total, nil
		}
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("resources.id").Count(&total).Error; err != nil {
		return 0, err
	}
	if e.cache != nil {
		e.cache.Set(ctx, key, total)
	}
	return total, nil
}

func countCacheKey(compiled *CompiledFilter) string {
	if compiled == nil {
		return "all"
	}
	return fmt.Sprintf("%s|%v", compiled.SQL, compiled.Params)
}

// rankExpr builds a relevance expression from the full-text comparisons of
// the compiled filter. Rank literals are escaped inline because ORDER BY
// and SELECT positions cannot bind named parameters through the same
// fragment twice.
func rankExpr(compiled *CompiledFilter) (string, bool) {
	if compiled == nil || len(compiled.TSVMatches) == 0 {
		return "0", false
	}
	parts := make([]string, len(compiled.TSVMatches))
	for i, m := range compiled.TSVMatches {
		parts[i] = fmt.Sprintf("ts_rank(%s, plainto_tsquery('english', '%s'))",
			m.Column, strings.ReplaceAll(m.Value, "'", "''"))
	}
	return strings.Join(parts, " + "), true
}

// applyRelevance swaps the stored relevance column for the computed rank
// in the projection and sort. Sorting by relevance without a search term
// degrades to a constant rank and warns.
func applyRelevance(selectSQL []string, sortExpr, rank string, ranked bool) ([]string, string, *Warning) {
	const stored = "resources.relevance"

	for i, expr := range selectSQL {
		if expr == stored+" AS relevance" {
			selectSQL[i] = fmt.Sprintf("(%s) AS relevance", rank)
		}
	}
	if sortExpr != stored {
		return selectSQL, sortExpr, nil
	}
	if !ranked {
		w := newWarning(CodeInvalidSortField,
			"Sorting by relevance requires a search filter; results are unranked.")
		return selectSQL, "(" + rank + ")", &w
	}
	return selectSQL, "(" + rank + ")", nil
}

// checkValue clamps a window parameter to its valid range by falling back
// to the default, never by truncation.
func checkValue(v, min, max, fallback int) int {
	if v < min || v > max {
		return fallback
	}
	return v
}
