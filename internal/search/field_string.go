package search

import (
	"context"
	"fmt"
)

// descriptionPrefixLen caps how much of the long description column takes
// part in direct comparisons. Historical behavior, preserved.
const descriptionPrefixLen = 200

// CaseInsensitiveString compares text columns: equality as typed, fuzzy
// (`ILIKE`) case-insensitively.
type CaseInsensitiveString struct {
	Field
}

func (f *CaseInsensitiveString) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		return &SQLResult{SQL: f.nullClause(cl.Operator)}, nil
	}

	param := uniqueParam(f.QueryField)
	var sql string
	switch {
	case cl.Operator == "ILIKE":
		sql = fmt.Sprintf("%s::text %s @%s", f.QueryField, cl.Operator, param)
	case f.QueryField == "resources.description":
		sql = fmt.Sprintf("substring(%s::text FROM 1 FOR %d) %s @%s", f.QueryField, descriptionPrefixLen, cl.Operator, param)
	default:
		sql = fmt.Sprintf("%s %s @%s", f.QueryField, cl.Operator, param)
	}
	return &SQLResult{
		SQL:       sql,
		Params:    map[string]any{param: cl.Value},
		TSVColumn: f.TSVColumn,
		Value:     cl.Value,
	}, nil
}
