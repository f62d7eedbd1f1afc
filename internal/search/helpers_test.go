package search

import (
	"context"
	"strings"
)

// fakeTaxonomies is an in-memory TaxonomyFinder for compiling filters
// without a database.
type fakeTaxonomies struct {
	byIdentifier map[string][]int64
	byGUID       map[string][]int64
	bySource     map[string][]int64
	byType       map[string][]int64
	descendants  map[int64][]int64
	nullIDs      []int64
}

func (f *fakeTaxonomies) IDsBySourcePattern(_ context.Context, pattern string) ([]int64, error) {
	return f.bySource[pattern], nil
}

func (f *fakeTaxonomies) IDsByGUIDPattern(_ context.Context, pattern string) ([]int64, error) {
	return f.byGUID[pattern], nil
}

func (f *fakeTaxonomies) IDsByIdentifiers(_ context.Context, identifiers []string, _ bool) ([]int64, error) {
	var out []int64
	for _, ident := range identifiers {
		out = append(out, f.byIdentifier[strings.ToLower(ident)]...)
	}
	return out, nil
}

func (f *fakeTaxonomies) IDsByDescriptionContains(_ context.Context, term string) ([]int64, error) {
	return f.byIdentifier[strings.ToLower(strings.Trim(term, "%"))], nil
}

func (f *fakeTaxonomies) IDsByAlignmentType(_ context.Context, value string) ([]int64, error) {
	return f.byType[strings.ToLower(value)], nil
}

func (f *fakeTaxonomies) IDsWithNullColumn(_ context.Context, _ string, _ bool) ([]int64, error) {
	return f.nullIDs, nil
}

func (f *fakeTaxonomies) DescendantIDs(_ context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		out = append(out, f.descendants[id]...)
	}
	return out, nil
}

type fakeSubjects struct {
	byName map[string][]int64
}

func (f *fakeSubjects) IDsByName(_ context.Context, name string, _ bool) ([]int64, error) {
	return f.byName[strings.ToLower(strings.Trim(name, "%"))], nil
}

func newTestFieldMap() *FieldMap {
	taxonomies := &fakeTaxonomies{
		byIdentifier: map[string][]int64{
			"k.cc.1": {10},
			"k.cc.2": {11},
		},
		byGUID:      map[string][]int64{"abc-def": {20}},
		bySource:    map[string][]int64{"http://corestandards.org/k.cc.1": {10}},
		byType:      map[string][]int64{"teaches": {10, 11}},
		descendants: map[int64][]int64{10: {101, 102}},
	}
	subjects := &fakeSubjects{
		byName: map[string][]int64{"mathematics": {5}},
	}
	return NewFieldMap(nil, taxonomies, subjects, Config{})
}
