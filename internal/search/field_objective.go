package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// LearningObjective filters by taxonomy attributes. Each sub-field first
// resolves a set of taxonomy ids via its own matching rule, expands the set
// with all descendants, then tests containment against the resource's
// precomputed closure column — direct_taxonomy_ids, or all_taxonomy_ids
// when objective expansion is requested.
type LearningObjective struct {
	Field
	Taxonomies      TaxonomyFinder
	SearchByAliases bool
}

func (f *LearningObjective) ToSQL(ctx context.Context, cl *Clause, opts Options) (*SQLResult, error) {
	isNull := cl.NullCheck()

	switch f.FilterField {
	case "learningObjectives":
		// The bare field only supports presence checks.
		if !isNull {
			return &SQLResult{SQL: matchNothing}, nil
		}
		exists := "EXISTS(SELECT 1 FROM alignments WHERE alignments.resource_id = resources.id)"
		if cl.Operator == "<>" {
			return &SQLResult{SQL: exists}, nil
		}
		return &SQLResult{SQL: "NOT(" + exists + ")"}, nil

	case "learningObjectives.educationalFramework", "learningObjectives.targetURL":
		// No backing storage column.
		return &SQLResult{SQL: matchNothing}, nil
	}

	ids, err := f.resolveIDs(ctx, cl, isNull)
	if err != nil {
		return nil, err
	}
	return f.containment(ctx, cl, ids, isNull, opts)
}

func (f *LearningObjective) resolveIDs(ctx context.Context, cl *Clause, isNull bool) ([]int64, error) {
	if isNull {
		return f.Taxonomies.IDsWithNullColumn(ctx, f.lookupColumn(), cl.Operator == "<>")
	}

	switch f.FilterField {
	case "learningObjectives.targetName":
		value := strings.ToLower(strings.ReplaceAll(cl.Value, "%", ""))
		return f.Taxonomies.IDsByIdentifiers(ctx, splitValues(value), f.SearchByAliases)

	case "learningObjectives.caseItemGUID":
		return f.Taxonomies.IDsByGUIDPattern(ctx, toPattern(cl.Value))

	case "learningObjectives.caseItemUri":
		pattern := toPattern(cl.Value)
		ids, err := f.Taxonomies.IDsBySourcePattern(ctx, pattern)
		if err != nil || len(ids) > 0 {
			return ids, err
		}
		// Source URIs often end in the external GUID; retry on the last
		// path segments.
		var guids []string
		for _, part := range strings.Split(pattern, "|") {
			segs := strings.Split(part, "/")
			guids = append(guids, segs[len(segs)-1])
		}
		return f.Taxonomies.IDsByGUIDPattern(ctx, strings.Join(guids, "|"))

	case "learningObjectives.targetDescription":
		return f.Taxonomies.IDsByDescriptionContains(ctx, cl.Value)

	case "learningObjectives.alignmentType":
		return f.Taxonomies.IDsByAlignmentType(ctx, strings.ReplaceAll(cl.Value, "%", ""))

	case "learningObjectives.id":
		var ids []int64
		for _, s := range splitValues(cl.Value) {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, nil
			}
			ids = append(ids, n)
		}
		return ids, nil
	}
	return nil, nil
}

func (f *LearningObjective) lookupColumn() string {
	switch f.FilterField {
	case "learningObjectives.targetName":
		return "identifier"
	case "learningObjectives.caseItemGUID":
		return "opensalt_identifier"
	case "learningObjectives.caseItemUri":
		return "source"
	case "learningObjectives.targetDescription":
		return "description"
	case "learningObjectives.alignmentType":
		return "alignment_type"
	default:
		return "id"
	}
}

// containment emits the closure-column overlap test for the resolved
// taxonomy set plus all of its descendants. Zero resolved ids
// short-circuit to match-nothing so the database never sees an
// empty-array overlap.
func (f *LearningObjective) containment(ctx context.Context, cl *Clause, ids []int64, isNull bool, opts Options) (*SQLResult, error) {
	if len(ids) == 0 {
		return &SQLResult{SQL: matchNothing}, nil
	}

	descendants, err := f.Taxonomies.DescendantIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("taxonomy descendants: %w", err)
	}
	all := uniqueIDs(append(descendants, ids...))

	column := "resources.direct_taxonomy_ids"
	if opts.ExpandObjectives {
		column = "resources.all_taxonomy_ids"
	}
	sql := fmt.Sprintf("(%s && ARRAY[%s])", column, joinIDs(all))
	if !isNull {
		sql = notPrefix(cl.Operator) + sql
	}
	return &SQLResult{SQL: sql}, nil
}

// toPattern rewrites a comma-separated value list into a regex
// alternation, stripping wildcard markers.
func toPattern(value string) string {
	return strings.ReplaceAll(strings.ReplaceAll(value, "%", ""), ",", "|")
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
