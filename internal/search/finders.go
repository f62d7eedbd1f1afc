package search

import "context"

// TaxonomyFinder resolves taxonomy id sets for the learning-objective
// field family. Implementations run parameterized lookups against the
// taxonomies table.
type TaxonomyFinder interface {
	// IDsBySourcePattern matches taxonomy source URIs against a
	// case-insensitive POSIX pattern ("a|b" alternation).
	IDsBySourcePattern(ctx context.Context, pattern string) ([]int64, error)
	// IDsByGUIDPattern matches external GUIDs the same way.
	IDsByGUIDPattern(ctx context.Context, pattern string) ([]int64, error)
	// IDsByIdentifiers matches lowercase identifiers exactly, optionally
	// consulting the alias list as well.
	IDsByIdentifiers(ctx context.Context, identifiers []string, includeAliases bool) ([]int64, error)
	// IDsByDescriptionContains does a case-insensitive contains match.
	IDsByDescriptionContains(ctx context.Context, term string) ([]int64, error)
	// IDsByAlignmentType matches the alignment-type tag exactly.
	IDsByAlignmentType(ctx context.Context, value string) ([]int64, error)
	// IDsWithNullColumn returns ids whose named column is (or, inverted,
	// is not) NULL. The column name is validated against a whitelist.
	IDsWithNullColumn(ctx context.Context, column string, notNull bool) ([]int64, error)
	// DescendantIDs returns ids of all descendants of the given nodes.
	DescendantIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// SubjectFinder resolves subject ids by name for subject filtering.
type SubjectFinder interface {
	IDsByName(ctx context.Context, name string, fuzzy bool) ([]int64, error)
}
