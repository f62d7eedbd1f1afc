package search

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeClauseOperators(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	cases := []struct {
		raw  string
		want string
	}{
		{"=", "="},
		{"!=", "<>"},
		{">", ">"},
		{">=", ">="},
		{"<", "<"},
		{"<=", "<="},
		{"~", "ILIKE"},
	}
	for _, tc := range cases {
		cl, err := s.Clause(RawClause{Field: "name", Operator: tc.raw, Value: "x"})
		if err != nil {
			t.Fatalf("Clause(%q): %v", tc.raw, err)
		}
		if cl.Operator != tc.want {
			t.Fatalf("operator %q -> %q, want %q", tc.raw, cl.Operator, tc.want)
		}
	}
}

func TestSanitizeClauseWrapsFuzzyValue(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	cl, err := s.Clause(RawClause{Field: "name", Operator: "~", Value: "frame"})
	if err != nil {
		t.Fatalf("Clause: %v", err)
	}
	if cl.Value != "%frame%" {
		t.Fatalf("value %q", cl.Value)
	}
	// A fuzzy "null" must stay a literal match, not a null check.
	cl, err = s.Clause(RawClause{Field: "name", Operator: "~", Value: "null"})
	if err != nil {
		t.Fatalf("Clause: %v", err)
	}
	if cl.NullCheck() {
		t.Fatal("fuzzy null treated as null check")
	}
}

func TestSanitizeClauseUnknownField(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	_, err := s.Clause(RawClause{Field: "bogus", Operator: "=", Value: "x"})
	var searchErr *Error
	if !errors.As(err, &searchErr) || searchErr.CodeMinor != CodeInvalidFilterField {
		t.Fatalf("expected invalid filter field error, got %v", err)
	}
	if !strings.Contains(searchErr.Description, "name") {
		t.Fatalf("description should list valid fields: %s", searchErr.Description)
	}
}

func TestSanitizeClauseSearchDisallowedField(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	// url is selectable but not filterable.
	if _, err := s.Clause(RawClause{Field: "url", Operator: "=", Value: "x"}); err == nil {
		t.Fatal("expected error for non-filterable field")
	}
}

func TestSelectSQLDefaultsToAll(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	exprs, warnings, err := s.SelectSQL(nil)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("SelectSQL: err=%v warnings=%v", err, warnings)
	}
	if exprs[0] != "resources.id" {
		t.Fatalf("first expr %q", exprs[0])
	}
	if len(exprs) < 10 {
		t.Fatalf("expected full projection, got %d exprs", len(exprs))
	}
}

func TestSelectSQLExplicitFields(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	fields := "name,publisher"
	exprs, warnings, err := s.SelectSQL(&fields)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("SelectSQL: err=%v warnings=%v", err, warnings)
	}
	want := []string{"resources.id", "resources.name AS name", "resources.publisher AS publisher"}
	if len(exprs) != len(want) {
		t.Fatalf("exprs %v", exprs)
	}
	for i := range want {
		if exprs[i] != want[i] {
			t.Fatalf("expr[%d] = %q, want %q", i, exprs[i], want[i])
		}
	}
}

func TestSelectSQLBlankIsError(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	blank := "  "
	_, _, err := s.SelectSQL(&blank)
	var searchErr *Error
	if !errors.As(err, &searchErr) || searchErr.CodeMinor != CodeBlankSelectionField {
		t.Fatalf("expected blank selection error, got %v", err)
	}
}

func TestSelectSQLUnknownFieldFallsBack(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	fields := "name,bogus"
	exprs, warnings, err := s.SelectSQL(&fields)
	if err != nil {
		t.Fatalf("SelectSQL: %v", err)
	}
	if len(warnings) != 1 || warnings[0].CodeMinor != CodeInvalidSelectionField {
		t.Fatalf("warnings %v", warnings)
	}
	all, _, _ := s.SelectSQL(nil)
	if len(exprs) != len(all) {
		t.Fatalf("expected fallback to full projection: %d vs %d", len(exprs), len(all))
	}
}

func TestSortDefaults(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	expr, dir, warnings := s.Sort("", "")
	if expr != "resources.name" || dir != "asc" || len(warnings) != 0 {
		t.Fatalf("expr=%q dir=%q warnings=%v", expr, dir, warnings)
	}
}

func TestSortUnknownFieldWarnsAndFallsBack(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	expr, dir, warnings := s.Sort("bogus", "desc")
	if expr != "resources.name" || dir != "desc" {
		t.Fatalf("expr=%q dir=%q", expr, dir)
	}
	if len(warnings) != 1 || warnings[0].CodeMinor != CodeInvalidSortField {
		t.Fatalf("warnings %v", warnings)
	}
}

func TestSortNonSortableFieldWarns(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	// extensions is filterable but not sortable.
	expr, _, warnings := s.Sort("extensions", "asc")
	if expr != "resources.name" || len(warnings) != 1 {
		t.Fatalf("expr=%q warnings=%v", expr, warnings)
	}
}

func TestSortEfficacySubkey(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	expr, dir, warnings := s.Sort("efficacy:K.CC.1", "desc")
	if len(warnings) != 0 {
		t.Fatalf("warnings %v", warnings)
	}
	if expr != "(resources.efficacy->>'K.CC.1')::float" || dir != "desc" {
		t.Fatalf("expr=%q dir=%q", expr, dir)
	}
}

func TestSortSubkeyOnPlainFieldWarns(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	expr, _, warnings := s.Sort("name:sub", "asc")
	if expr != "resources.name" || len(warnings) != 1 {
		t.Fatalf("expr=%q warnings=%v", expr, warnings)
	}
}

func TestSortSurvivesFilteredDefaultField(t *testing.T) {
	// Schema filtering can exclude the default sort field itself; the
	// fallback must then be the primary key, not a panic.
	cols := ColumnSet{"resources.description": true}
	fm := NewFieldMap(cols, &fakeTaxonomies{}, &fakeSubjects{}, Config{})
	s := NewSanitizer(fm)
	expr, dir, warnings := s.Sort("name", "asc")
	if expr != "resources.id" || dir != "asc" {
		t.Fatalf("expr=%q dir=%q", expr, dir)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings %v", warnings)
	}
}

func TestSortBadDirectionWarns(t *testing.T) {
	s := NewSanitizer(newTestFieldMap())
	_, dir, warnings := s.Sort("name", "sideways")
	if dir != "asc" || len(warnings) != 1 {
		t.Fatalf("dir=%q warnings=%v", dir, warnings)
	}
}
