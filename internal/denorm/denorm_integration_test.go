package denorm

import (
	"context"
	"os"
	"testing"

	"github.com/openlumen/catalog/internal/db"
	types "github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

// Exercises the full recompute statement against a live database: only
// confirmed alignments contribute, the mapping closure is one hop in both
// directions but never transitive, and rerunning is a no-op.
func TestRecomputeAgainstLocalPostgres(t *testing.T) {
	if os.Getenv("CATALOG_PG_INTEGRATION") != "1" {
		t.Skip("set CATALOG_PG_INTEGRATION=1 to run Postgres integration tests")
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() { log.Sync() })

	svc, err := db.NewPostgresService(log)
	if err != nil {
		t.Fatalf("NewPostgresService: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	gdb := svc.DB()
	ctx := context.Background()

	// Mapping chain A-B-C plus D mapped onto A from the other side. The
	// resource is confirmed on A and rejected on C.
	taxA := &types.Taxonomy{Identifier: "it.denorm.a"}
	taxB := &types.Taxonomy{Identifier: "it.denorm.b"}
	taxC := &types.Taxonomy{Identifier: "it.denorm.c"}
	taxD := &types.Taxonomy{Identifier: "it.denorm.d"}
	for _, tax := range []*types.Taxonomy{taxA, taxB, taxC, taxD} {
		if err := gdb.Create(tax).Error; err != nil {
			t.Fatalf("create taxonomy: %v", err)
		}
	}
	mappings := []*types.TaxonomyMapping{
		{TaxonomyID: taxA.ID, TargetID: taxB.ID},
		{TaxonomyID: taxB.ID, TargetID: taxC.ID},
		{TaxonomyID: taxD.ID, TargetID: taxA.ID},
	}
	for _, m := range mappings {
		if err := gdb.Create(m).Error; err != nil {
			t.Fatalf("create mapping: %v", err)
		}
	}

	res := &types.Resource{Name: "denorm closure test resource"}
	if err := gdb.Create(res).Error; err != nil {
		t.Fatalf("create resource: %v", err)
	}
	subject := &types.Subject{Name: "it.denorm.subject"}
	if err := gdb.Create(subject).Error; err != nil {
		t.Fatalf("create subject: %v", err)
	}
	seed := []any{
		&types.Alignment{ResourceID: res.ID, TaxonomyID: taxA.ID, Status: types.AlignmentStatusConfirmed},
		&types.Alignment{ResourceID: res.ID, TaxonomyID: taxC.ID, Status: types.AlignmentStatusRejected},
		&types.ResourceSubject{ResourceID: res.ID, SubjectID: subject.ID},
	}
	for _, row := range seed {
		if err := gdb.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	statA := &types.ResourceStat{ResourceID: res.ID, TaxonomyID: taxA.ID, TaxonomyIdent: "it.denorm.a", Effectiveness: 0.8}
	statC := &types.ResourceStat{ResourceID: res.ID, TaxonomyID: taxC.ID, TaxonomyIdent: "it.denorm.c", Effectiveness: 0.2}
	for _, stat := range []*types.ResourceStat{statA, statC} {
		if err := gdb.Create(stat).Error; err != nil {
			t.Fatalf("create stat: %v", err)
		}
	}
	t.Cleanup(func() {
		gdb.Exec("DELETE FROM resource_stats WHERE resource_id = ?", res.ID)
		gdb.Exec("DELETE FROM resources_subjects WHERE resource_id = ?", res.ID)
		gdb.Exec("DELETE FROM alignments WHERE resource_id = ?", res.ID)
		gdb.Exec("DELETE FROM resources WHERE id = ?", res.ID)
		gdb.Exec("DELETE FROM subjects WHERE id = ?", subject.ID)
		gdb.Exec("DELETE FROM taxonomy_mappings WHERE taxonomy_id IN (?, ?, ?) OR target_id IN (?, ?, ?)",
			taxA.ID, taxB.ID, taxD.ID, taxB.ID, taxC.ID, taxA.ID)
		gdb.Exec("DELETE FROM taxonomies WHERE id IN (?, ?, ?, ?)", taxA.ID, taxB.ID, taxC.ID, taxD.ID)
	})

	den := New(gdb, log)
	if err := den.Recompute(ctx, nil, []int64{res.ID}); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	var got types.Resource
	if err := gdb.First(&got, res.ID).Error; err != nil {
		t.Fatalf("reload resource: %v", err)
	}

	if !sameMembers(got.DirectTaxonomyIDs, []int64{taxA.ID}) {
		t.Fatalf("direct_taxonomy_ids = %v, want only confirmed %d", got.DirectTaxonomyIDs, taxA.ID)
	}
	// One hop from A reaches B (forward) and D (reverse). C is two hops
	// away and its own alignment is rejected, so it must not appear.
	if !sameMembers(got.AllTaxonomyIDs, []int64{taxA.ID, taxB.ID, taxD.ID}) {
		t.Fatalf("all_taxonomy_ids = %v, want {%d %d %d}", got.AllTaxonomyIDs, taxA.ID, taxB.ID, taxD.ID)
	}
	if !sameMembers(got.ResourceStatIDs, []int64{statA.ID}) {
		t.Fatalf("resource_stat_ids = %v, want only %d", got.ResourceStatIDs, statA.ID)
	}
	if !sameMembers(got.AllSubjectIDs, []int64{subject.ID}) {
		t.Fatalf("all_subject_ids = %v", got.AllSubjectIDs)
	}
	if got.AvgEfficacy == nil || *got.AvgEfficacy != 0.8 {
		t.Fatalf("avg_efficacy = %v, want 0.8 from the confirmed stat alone", got.AvgEfficacy)
	}
	if string(got.Efficacy) != `{"it.denorm.a": 0.8}` {
		t.Fatalf("efficacy = %s", got.Efficacy)
	}

	// A second run over unchanged rows must not move anything.
	if err := den.Recompute(ctx, nil, []int64{res.ID}); err != nil {
		t.Fatalf("Recompute again: %v", err)
	}
	var again types.Resource
	if err := gdb.First(&again, res.ID).Error; err != nil {
		t.Fatalf("reload resource: %v", err)
	}
	if !sameMembers(again.AllTaxonomyIDs, got.AllTaxonomyIDs) ||
		!sameMembers(again.DirectTaxonomyIDs, got.DirectTaxonomyIDs) ||
		!sameMembers(again.ResourceStatIDs, got.ResourceStatIDs) ||
		string(again.Efficacy) != string(got.Efficacy) {
		t.Fatalf("recompute is not idempotent: %v vs %v", again, got)
	}
}

func sameMembers(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[int64]int{}
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
