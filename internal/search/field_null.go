package search

import "context"

// NullField backs fields exposed in output but not meaningfully
// filterable: equality-null matches everything, not-equal-null (and any
// literal value) matches nothing.
type NullField struct {
	Field
}

func (f *NullField) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() && cl.Operator == "=" {
		return &SQLResult{SQL: matchEverything}, nil
	}
	return &SQLResult{SQL: matchNothing}, nil
}

// Efficacy filters by presence of effectiveness measurements via the
// resource_stat_ids closure column; literal value comparisons are not
// supported and match everything.
type Efficacy struct {
	Field
}

func (f *Efficacy) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		sql := "(resources.resource_stat_ids = '{}')"
		if cl.Operator == "<>" {
			sql = "NOT" + sql
		}
		return &SQLResult{SQL: sql}, nil
	}
	return &SQLResult{SQL: matchEverything}, nil
}
