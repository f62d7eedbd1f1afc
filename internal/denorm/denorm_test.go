package denorm

import (
	"strings"
	"testing"
)

func TestRecomputeSQLConfirmedOnly(t *testing.T) {
	// Every alignment-driven subselect must filter on the confirmed
	// status parameter: direct ids, the three branches of the one-hop
	// closure, stat links, the efficacy map and its average.
	if got := strings.Count(recomputeSQL, "a.status = @confirmed"); got != 7 {
		t.Fatalf("confirmed-status predicates = %d, want 7", got)
	}
	joins := strings.Count(recomputeSQL, "FROM alignments") + strings.Count(recomputeSQL, "JOIN alignments")
	if joins != strings.Count(recomputeSQL, "a.status = @confirmed") {
		t.Fatalf("%d alignment joins but %d status filters", joins, strings.Count(recomputeSQL, "a.status = @confirmed"))
	}
}

func TestRecomputeSQLOneHopBothDirections(t *testing.T) {
	// The mapping closure follows taxonomy_mappings from both ends of a
	// stored row but joins alignments directly, so it can never chain
	// through a mapped node.
	if !strings.Contains(recomputeSQL, "SELECT m.target_id") {
		t.Fatal("forward mapping direction missing")
	}
	if !strings.Contains(recomputeSQL, "SELECT m.taxonomy_id\n      FROM taxonomy_mappings m") {
		t.Fatal("reverse mapping direction missing")
	}
	if got := strings.Count(recomputeSQL, "taxonomy_mappings"); got != 2 {
		t.Fatalf("taxonomy_mappings referenced %d times, want 2", got)
	}
}

func TestRecomputeSQLDefaultsAndScope(t *testing.T) {
	// Array columns must fall back to empty arrays and the efficacy map
	// to an empty object when nothing matches, and the statement must be
	// bounded to the requested ids.
	if got := strings.Count(recomputeSQL, "'{}')"); got != 4 {
		t.Fatalf("empty-array defaults = %d, want 4", got)
	}
	if !strings.Contains(recomputeSQL, "'{}'::jsonb") {
		t.Fatal("efficacy default missing")
	}
	if !strings.Contains(recomputeSQL, "WHERE resources.id = ANY(@ids)") {
		t.Fatal("id scope missing")
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]int64{3, 1, 3, 0, 2, 1})
	want := []int64{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("dedupe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dedupe = %v, want %v", got, want)
		}
	}
}

func TestChunk(t *testing.T) {
	ids := make([]int64, 0, 7)
	for i := int64(1); i <= 7; i++ {
		ids = append(ids, i)
	}
	chunks := chunk(ids, 3)
	if len(chunks) != 3 {
		t.Fatalf("chunks %v", chunks)
	}
	if len(chunks[0]) != 3 || len(chunks[1]) != 3 || len(chunks[2]) != 1 {
		t.Fatalf("chunk sizes %v", chunks)
	}

	chunks = chunk(ids, 0)
	if len(chunks) != 1 || len(chunks[0]) != 7 {
		t.Fatalf("default chunking %v", chunks)
	}
}
