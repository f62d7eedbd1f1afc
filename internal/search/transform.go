package search

import (
	"context"
	"strings"
)

// TSVMatch is one full-text comparison observed while compiling a filter,
// kept so the engine can build a relevance rank over the same terms.
type TSVMatch struct {
	Column string
	Value  string
}

// CompiledFilter is a filter expression lowered to one SQL boolean
// fragment with merged named parameters.
type CompiledFilter struct {
	SQL        string
	Params     map[string]any
	TSVMatches []TSVMatch
}

// Transformer compiles filter strings: parse, sanitize each leaf, compile
// each leaf through its field type, then reassemble with the original
// connectors and grouping.
type Transformer struct {
	sanitizer *Sanitizer
}

func NewTransformer(fields *FieldMap) *Transformer {
	return &Transformer{sanitizer: NewSanitizer(fields)}
}

// Compile lowers a filter expression. A syntactically invalid filter is
// reported as one uniform invalid-data error; field and operator
// violations keep their specific errors.
func (t *Transformer) Compile(ctx context.Context, filter string, opts Options) (*CompiledFilter, error) {
	raw, err := Parse(filter)
	if err != nil {
		return nil, newError(CodeInvalidData, "Wrong filter parameter")
	}

	out := &CompiledFilter{Params: map[string]any{}}
	var sql strings.Builder
	for _, rc := range raw {
		cl, err := t.sanitizer.Clause(rc)
		if err != nil {
			return nil, err
		}

		var fragment *SQLResult
		if strings.TrimSpace(rc.Value) == "" {
			// A blank comparison value can never identify a row.
			fragment = &SQLResult{SQL: matchNothing}
		} else {
			fragment, err = cl.Field.ToSQL(ctx, cl, opts)
			if err != nil {
				return nil, err
			}
		}

		if cl.CondOperator != "" {
			sql.WriteString(" " + cl.CondOperator + " ")
		}
		sql.WriteString(cl.LParen)
		sql.WriteString("(" + fragment.SQL + ")")
		sql.WriteString(cl.RParen)

		for name, value := range fragment.Params {
			out.Params[name] = value
		}
		if fragment.TSVColumn != "" {
			out.TSVMatches = append(out.TSVMatches, TSVMatch{Column: fragment.TSVColumn, Value: fragment.Value})
		}
	}
	out.SQL = sql.String()
	return out, nil
}
