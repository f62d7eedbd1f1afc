package search

import (
	"strings"
	"testing"
)

func TestFieldMapRegistersCoreFields(t *testing.T) {
	fm := newTestFieldMap()
	expected := []string{
		"search", "name", "description", "publisher", "subject", "efficacy",
		"learningObjectives", "learningObjectives.id", "learningObjectives.targetName",
		"learningObjectives.caseItemGUID", "learningObjectives.alignmentType",
		"learningObjectives.targetDescription", "learningObjectives.targetURL",
		"learningObjectives.educationalFramework", "learningObjectives.caseItemUri",
		"learningResourceType", "language", "typicalAgeRange", "rating",
		"publishDate", "timeRequired", "author", "useRightsUrl",
		"textComplexity", "textComplexity.name", "textComplexity.value",
		"thumbnailUrl", "technicalFormat",
		"accessibilityAPI", "accessibilityInputMethods", "accessMode",
		"educationalAudience", "accessibilityFeatures", "accessibilityHazards",
		"extensions", "relevance", "ltiLink", "url",
	}
	for _, name := range expected {
		if _, ok := fm.Lookup(name); !ok {
			t.Fatalf("field %q not registered", name)
		}
	}
}

func TestFieldMapSchemaFiltering(t *testing.T) {
	cols := ColumnSet{
		"resources.name":        true,
		"resources.description": true,
	}
	fm := NewFieldMap(cols, &fakeTaxonomies{}, &fakeSubjects{}, Config{})

	if _, ok := fm.Lookup("name"); !ok {
		t.Fatal("name should survive filtering")
	}
	if _, ok := fm.Lookup("rating"); ok {
		t.Fatal("rating should be filtered out without its column")
	}
	// Fields without a storage column are always kept.
	if _, ok := fm.Lookup("search"); !ok {
		t.Fatal("search should survive filtering")
	}
	if _, ok := fm.Lookup("typicalAgeRange"); !ok {
		t.Fatal("typicalAgeRange should survive filtering")
	}
}

func TestFieldMapSearchAllowedExcludesURL(t *testing.T) {
	fm := newTestFieldMap()
	for _, name := range fm.SearchAllowedFields() {
		if name == "url" || name == "ltiLink" {
			t.Fatalf("%s should not be filterable", name)
		}
	}
}

func TestAllSelectSQLDeduplicates(t *testing.T) {
	fm := newTestFieldMap()
	exprs := fm.AllSelectSQL()
	if exprs[0] != "resources.id" {
		t.Fatalf("first expr %q", exprs[0])
	}
	objectives := 0
	seen := map[string]bool{}
	for _, expr := range exprs {
		if seen[expr] {
			t.Fatalf("duplicate expr %q", expr)
		}
		seen[expr] = true
		if strings.Contains(expr, "AS learning_objectives") {
			objectives++
		}
	}
	// Nine objective descriptors share one projection.
	if objectives != 1 {
		t.Fatalf("learning objectives projected %d times", objectives)
	}
}

func TestOutputFieldNamesUnique(t *testing.T) {
	fm := newTestFieldMap()
	names := fm.OutputFieldNames()
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			t.Fatalf("duplicate output field %q", name)
		}
		seen[name] = true
	}
	for _, required := range []string{"name", "learningObjectives", "textComplexity", "subject", "efficacy"} {
		if !seen[required] {
			t.Fatalf("missing output field %q", required)
		}
	}
}
