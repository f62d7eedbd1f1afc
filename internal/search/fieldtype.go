package search

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// Options carries per-request flags that field types consult while
// compiling a clause.
type Options struct {
	// ExpandObjectives switches taxonomy containment tests from
	// direct_taxonomy_ids to the one-hop-mapped all_taxonomy_ids.
	ExpandObjectives bool
}

// SQLResult is one compiled boolean fragment plus its named bind
// parameters. TSVColumn/Value are set by text-search capable field types so
// the engine can assemble a relevance rank expression.
type SQLResult struct {
	SQL       string
	Params    map[string]any
	TSVColumn string
	Value     string
}

// FieldType translates one filter comparison into a SQL predicate for one
// logical field.
type FieldType interface {
	Meta() *Field
	ToSQL(ctx context.Context, cl *Clause, opts Options) (*SQLResult, error)
}

// Field is the descriptor shared by all field types: the public filter
// name, the storage expression predicates run against, the select
// expression and alias for output, and capability flags.
type Field struct {
	FilterField string
	SelectSQL   string
	OutputField string
	Alias       string
	QueryField  string
	TSVColumn   string

	Sortable      bool
	SearchAllowed bool
	// Custom descriptors bypass the schema-column existence check; their
	// storage is runtime-defined SQL.
	Custom bool
	// JSONSubkeySort marks fields sortable through a `field:subkey` form
	// addressing one key of a JSON map column.
	JSONSubkeySort bool
}

func (f *Field) Meta() *Field { return f }

// SelectExpr returns the aliased projection for the output field, or ""
// when the field has no projection of its own.
func (f *Field) SelectExpr() string {
	if f.SelectSQL == "" {
		return ""
	}
	alias := f.Alias
	if alias == "" {
		alias = f.OutputField
	}
	return fmt.Sprintf("%s AS %s", f.SelectSQL, alias)
}

// SortExpr returns the ORDER BY expression for this field. jsonKey
// addresses one key inside a JSON map column for subkey-sortable fields;
// it is escaped, not parameterized, because ORDER BY cannot bind.
func (f *Field) SortExpr(jsonKey string) string {
	if f.JSONSubkeySort && jsonKey != "" {
		return fmt.Sprintf("(%s->>'%s')::float", f.QueryField, strings.ReplaceAll(jsonKey, "'", "''"))
	}
	return f.QueryField
}

func (f *Field) nullClause(operator string) string {
	if operator == "<>" {
		return fmt.Sprintf("%s IS NOT NULL", f.QueryField)
	}
	return fmt.Sprintf("%s IS NULL", f.QueryField)
}

// Unconditional fragments used when a clause cannot or must always match.
const (
	matchEverything = "1=1"
	matchNothing    = "1=0"
)

var paramSeq atomic.Uint64

// uniqueParam derives a bind-parameter name from a storage expression,
// unique within the process so fragments can be merged into one query.
func uniqueParam(queryField string) string {
	var b strings.Builder
	for _, r := range queryField {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '.':
			b.WriteByte('_')
		}
	}
	return fmt.Sprintf("%s_%d", b.String(), paramSeq.Add(1))
}

func notPrefix(operator string) string {
	if operator == "<>" {
		return "NOT "
	}
	return ""
}
