package search

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCompileSingleEquality(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	compiled, err := tr.Compile(context.Background(), "name='Ten Frame'", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(compiled.SQL, "resources.name = @") {
		t.Fatalf("sql %q", compiled.SQL)
	}
	if len(compiled.Params) != 1 {
		t.Fatalf("params %v", compiled.Params)
	}
	for _, v := range compiled.Params {
		if v != "Ten Frame" {
			t.Fatalf("param value %v", v)
		}
	}
}

func TestCompilePreservesGrouping(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	compiled, err := tr.Compile(context.Background(), "(name='a' AND rating>'3') OR publisher~'ck12'", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	sql := compiled.SQL
	if !strings.HasPrefix(sql, "((") {
		t.Fatalf("sql %q should open the group", sql)
	}
	if !strings.Contains(sql, ") AND (") && !strings.Contains(sql, " AND (") {
		t.Fatalf("sql %q missing AND", sql)
	}
	if !strings.Contains(sql, " OR (") {
		t.Fatalf("sql %q missing OR", sql)
	}
	if !strings.Contains(sql, "ILIKE") {
		t.Fatalf("sql %q missing ILIKE", sql)
	}
}

func TestCompileSymbolConnectors(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	compiled, err := tr.Compile(context.Background(), "name='a' && name='b' || name='c'", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(compiled.SQL, " AND ") || !strings.Contains(compiled.SQL, " OR ") {
		t.Fatalf("sql %q", compiled.SQL)
	}
}

func TestCompileBlankValueMatchesNothing(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	compiled, err := tr.Compile(context.Background(), "name=''", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if compiled.SQL != "(1=0)" {
		t.Fatalf("sql %q", compiled.SQL)
	}
}

func TestCompileSyntaxErrorIsUniform(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	_, err := tr.Compile(context.Background(), "name=&&!", Options{})
	var searchErr *Error
	if !errors.As(err, &searchErr) {
		t.Fatalf("expected search error, got %v", err)
	}
	if searchErr.CodeMinor != CodeInvalidData || searchErr.Description != "Wrong filter parameter" {
		t.Fatalf("error %+v", searchErr)
	}
}

func TestCompileUnknownFieldKeepsSpecificError(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	_, err := tr.Compile(context.Background(), "bogus='x'", Options{})
	var searchErr *Error
	if !errors.As(err, &searchErr) || searchErr.CodeMinor != CodeInvalidFilterField {
		t.Fatalf("expected invalid filter field, got %v", err)
	}
}

func TestCompileNullSentinel(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	compiled, err := tr.Compile(context.Background(), "description='NULL'", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if compiled.SQL != "(resources.description IS NULL)" {
		t.Fatalf("sql %q", compiled.SQL)
	}
	compiled, err = tr.Compile(context.Background(), "description!='null'", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if compiled.SQL != "(resources.description IS NOT NULL)" {
		t.Fatalf("sql %q", compiled.SQL)
	}
}

func TestCompileCollectsTSVMatches(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	compiled, err := tr.Compile(context.Background(), "search='fractions'", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(compiled.TSVMatches) != 1 {
		t.Fatalf("tsv matches %v", compiled.TSVMatches)
	}
	m := compiled.TSVMatches[0]
	if m.Column != "resources.tsv_text" || m.Value != "fractions" {
		t.Fatalf("match %+v", m)
	}
}

func TestCompileObjectiveContainment(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	compiled, err := tr.Compile(context.Background(), "learningObjectives.targetName='K.CC.1'", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	sql := compiled.SQL
	if !strings.Contains(sql, "resources.direct_taxonomy_ids && ARRAY[") {
		t.Fatalf("sql %q", sql)
	}
	// Descendants of 10 are 101 and 102.
	for _, id := range []string{"10", "101", "102"} {
		if !strings.Contains(sql, id) {
			t.Fatalf("sql %q missing id %s", sql, id)
		}
	}

	compiled, err = tr.Compile(context.Background(), "learningObjectives.targetName='K.CC.1'", Options{ExpandObjectives: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(compiled.SQL, "resources.all_taxonomy_ids && ARRAY[") {
		t.Fatalf("sql %q", compiled.SQL)
	}
}

func TestCompileObjectiveNoMatches(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	compiled, err := tr.Compile(context.Background(), "learningObjectives.targetName='unknown'", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if compiled.SQL != "(1=0)" {
		t.Fatalf("sql %q", compiled.SQL)
	}
}

func TestCompileSubject(t *testing.T) {
	tr := NewTransformer(newTestFieldMap())
	compiled, err := tr.Compile(context.Background(), "subject='Mathematics'", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(compiled.SQL, "resources.all_subject_ids && ARRAY[5]") {
		t.Fatalf("sql %q", compiled.SQL)
	}
}
