package search

import (
	"context"
	"fmt"
	"strings"
)

// SearchField performs ranked full-text search over the resource text
// vector, folded together with a literal taxonomy name/identifier match
// and a subject-name match. Its null check tests absence of both the text
// vector and any taxonomy alignment.
type SearchField struct {
	Field
}

func (f *SearchField) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		if cl.Operator == "<>" {
			return &SQLResult{SQL: "resources.tsv_text IS NOT NULL OR EXISTS(SELECT 1 FROM alignments WHERE alignments.resource_id = resources.id)"}, nil
		}
		return &SQLResult{SQL: "resources.tsv_text IS NULL AND NOT EXISTS(SELECT 1 FROM alignments WHERE alignments.resource_id = resources.id)"}, nil
	}

	value := strings.ToLower(strings.ReplaceAll(cl.Value, "%", ""))
	tsvParam := uniqueParam("tsv_text")
	taxParam := uniqueParam("taxonomies_name")
	subjParam := uniqueParam("subjects_name")

	sql := fmt.Sprintf(
		"%s(resources.tsv_text @@ plainto_tsquery('english', @%s)"+
			" OR EXISTS(SELECT 1 FROM taxonomies INNER JOIN alignments ON alignments.taxonomy_id = taxonomies.id"+
			" WHERE alignments.resource_id = resources.id AND (lower(taxonomies.name) = @%s OR lower(taxonomies.identifier) = @%s))"+
			" OR EXISTS(SELECT 1 FROM subjects WHERE subjects.id = ANY(resources.all_subject_ids) AND lower(subjects.name) = @%s))",
		notPrefix(cl.Operator), tsvParam, taxParam, taxParam, subjParam)

	return &SQLResult{
		SQL:       sql,
		Params:    map[string]any{tsvParam: value, taxParam: value, subjParam: value},
		TSVColumn: f.TSVColumn,
		Value:     value,
	}, nil
}
