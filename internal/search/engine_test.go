package search

import (
	"strings"
	"testing"
)

func TestCheckValueBounds(t *testing.T) {
	cases := []struct {
		v, min, max, fallback, want int
	}{
		{50, 1, MaxLimit, DefaultLimit, 50},
		{0, 1, MaxLimit, DefaultLimit, DefaultLimit},
		{-1, 1, MaxLimit, DefaultLimit, DefaultLimit},
		{101, 1, MaxLimit, DefaultLimit, DefaultLimit},
		{100, 1, MaxLimit, DefaultLimit, 100},
		{0, 0, MaxOffset, DefaultOffset, 0},
		{100000, 0, MaxOffset, DefaultOffset, 100000},
		{100001, 0, MaxOffset, DefaultOffset, DefaultOffset},
	}
	for _, tc := range cases {
		if got := checkValue(tc.v, tc.min, tc.max, tc.fallback); got != tc.want {
			t.Fatalf("checkValue(%d,%d,%d,%d) = %d, want %d", tc.v, tc.min, tc.max, tc.fallback, got, tc.want)
		}
	}
}

func TestRankExpr(t *testing.T) {
	if rank, ranked := rankExpr(nil); rank != "0" || ranked {
		t.Fatalf("rank=%q ranked=%v", rank, ranked)
	}

	compiled := &CompiledFilter{TSVMatches: []TSVMatch{{Column: "resources.tsv_text", Value: "o'brien"}}}
	rank, ranked := rankExpr(compiled)
	if !ranked {
		t.Fatal("expected ranked")
	}
	if !strings.Contains(rank, "ts_rank(resources.tsv_text, plainto_tsquery('english', 'o''brien'))") {
		t.Fatalf("rank %q", rank)
	}

	compiled.TSVMatches = append(compiled.TSVMatches, TSVMatch{Column: "resources.tsv_text", Value: "math"})
	rank, _ = rankExpr(compiled)
	if !strings.Contains(rank, " + ") {
		t.Fatalf("rank %q should sum terms", rank)
	}
}

func TestApplyRelevanceRewritesProjectionAndSort(t *testing.T) {
	selectSQL := []string{"resources.id", "resources.relevance AS relevance"}
	out, sortExpr, warning := applyRelevance(selectSQL, "resources.relevance", "ts_rank(x, y)", true)
	if warning != nil {
		t.Fatalf("warning %+v", warning)
	}
	if out[1] != "(ts_rank(x, y)) AS relevance" {
		t.Fatalf("projection %q", out[1])
	}
	if sortExpr != "(ts_rank(x, y))" {
		t.Fatalf("sort %q", sortExpr)
	}
}

func TestApplyRelevanceWithoutSearchWarns(t *testing.T) {
	_, sortExpr, warning := applyRelevance([]string{"resources.id"}, "resources.relevance", "0", false)
	if warning == nil {
		t.Fatal("expected warning")
	}
	if sortExpr != "(0)" {
		t.Fatalf("sort %q", sortExpr)
	}
}

func TestApplyRelevanceLeavesOtherSortsAlone(t *testing.T) {
	_, sortExpr, warning := applyRelevance([]string{"resources.id"}, "resources.name", "0", false)
	if warning != nil || sortExpr != "resources.name" {
		t.Fatalf("sort=%q warning=%+v", sortExpr, warning)
	}
}
