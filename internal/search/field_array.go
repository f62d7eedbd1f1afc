package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// StringArray filters text[] columns. Null checks test array emptiness or
// absence, everything else tests overlap with the comma-split value set.
type StringArray struct {
	Field
}

func (f *StringArray) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		return &SQLResult{SQL: arrayNullClause(f.QueryField, cl.Operator)}, nil
	}

	values := splitValues(cl.Value)
	param := uniqueParam(f.QueryField)
	sql := fmt.Sprintf("%s(%s && @%s)", notPrefix(cl.Operator), f.QueryField, param)
	return &SQLResult{SQL: sql, Params: map[string]any{param: pq.Array(values)}}, nil
}

// IntArray filters integer array columns the same way.
type IntArray struct {
	Field
}

func (f *IntArray) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		return &SQLResult{SQL: arrayNullClause(f.QueryField, cl.Operator)}, nil
	}

	var values []int64
	for _, s := range splitValues(cl.Value) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return &SQLResult{SQL: matchNothing}, nil
		}
		values = append(values, n)
	}
	param := uniqueParam(f.QueryField)
	sql := fmt.Sprintf("%s(%s && @%s)", notPrefix(cl.Operator), f.QueryField, param)
	return &SQLResult{SQL: sql, Params: map[string]any{param: pq.Array(values)}}, nil
}

// arrayNullClause tests array emptiness/absence: `field='NULL'` matches
// rows whose array is NULL or empty, `field!='NULL'` matches non-empty
// arrays only.
func arrayNullClause(queryField, operator string) string {
	if operator == "<>" {
		return fmt.Sprintf("array_length(%s, 1) IS NOT NULL AND array_length(%s, 1) > 0", queryField, queryField)
	}
	return fmt.Sprintf("array_length(%s, 1) IS NULL OR array_length(%s, 1) = 0", queryField, queryField)
}

func splitValues(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
