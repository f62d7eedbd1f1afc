package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// JSONField filters one subkey of a JSON map column. SubKey names the key,
// SubKeyType its scalar type; "text[]" subkeys compare by length/overlap.
type JSONField struct {
	Field
	SubKey     string
	SubKeyType string
}

func (f *JSONField) innerField() string {
	return fmt.Sprintf("%s::json->>'%s'", f.QueryField, f.SubKey)
}

func (f *JSONField) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	inner := f.innerField()

	if cl.NullCheck() {
		if f.SubKeyType == "text[]" {
			return &SQLResult{SQL: arrayNullClause(inner, cl.Operator)}, nil
		}
		if cl.Operator == "<>" {
			return &SQLResult{SQL: fmt.Sprintf("%s IS NOT NULL", inner)}, nil
		}
		return &SQLResult{SQL: fmt.Sprintf("%s IS NULL", inner)}, nil
	}

	param := uniqueParam(f.QueryField)
	if f.SubKeyType == "text[]" {
		sql := fmt.Sprintf("array_length(%s, 1) > 0 AND %s(%s::citext[] && @%s)",
			inner, notPrefix(cl.Operator), inner, param)
		return &SQLResult{SQL: sql, Params: map[string]any{param: pq.Array(splitValues(cl.Value))}}, nil
	}
	sql := fmt.Sprintf("%s %s @%s", inner, cl.Operator, param)
	return &SQLResult{SQL: sql, Params: map[string]any{param: cl.Value}}, nil
}

// TextComplexity filters the fixed-key text complexity map. Value
// comparisons apply to every supported metric at once.
type TextComplexity struct {
	Field
}

// Metrics with filterable numeric values.
var textComplexityTypes = map[string]bool{"flesch-kincaid": true, "lexile": true}

func (f *TextComplexity) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	switch f.FilterField {
	case "textComplexity":
		if cl.NullCheck() {
			return &SQLResult{SQL: f.nullClause(cl.Operator)}, nil
		}
	case "textComplexity.name":
		if !cl.NullCheck() && cl.Operator == "=" && !textComplexityTypes[strings.ToLower(cl.Value)] {
			return &SQLResult{SQL: matchNothing}, nil
		}
	case "textComplexity.value":
		if cl.NullCheck() {
			return &SQLResult{SQL: f.nullClause(cl.Operator)}, nil
		}
		v, err := strconv.ParseFloat(cl.Value, 64)
		if err != nil {
			return &SQLResult{SQL: matchNothing}, nil
		}
		sql := fmt.Sprintf("((%s->>'flesch-kincaid')::float %s %g OR (%s->>'lexile')::float %s %g)",
			f.QueryField, cl.Operator, v, f.QueryField, cl.Operator, v)
		return &SQLResult{SQL: sql}, nil
	}
	return &SQLResult{SQL: matchEverything}, nil
}
