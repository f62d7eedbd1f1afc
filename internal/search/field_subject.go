package search

import (
	"context"
	"fmt"
)

// SubjectField filters by subject name. Names resolve to subject ids
// through the finder, then containment is tested against the
// all_subject_ids closure column; no match resolves to match-nothing.
type SubjectField struct {
	Field
	Subjects SubjectFinder
}

func (f *SubjectField) ToSQL(ctx context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		return &SQLResult{SQL: arrayNullClause("resources.all_subject_ids", cl.Operator)}, nil
	}

	ids, err := f.Subjects.IDsByName(ctx, cl.Value, cl.Operator == "ILIKE")
	if err != nil {
		return nil, fmt.Errorf("subject lookup: %w", err)
	}
	if len(ids) == 0 {
		return &SQLResult{SQL: matchNothing}, nil
	}
	return &SQLResult{
		SQL: fmt.Sprintf("%s(resources.all_subject_ids && ARRAY[%s])", notPrefix(cl.Operator), joinIDs(ids)),
	}, nil
}
