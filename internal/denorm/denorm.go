package denorm

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/openlumen/catalog/internal/domain/catalog"
	"github.com/openlumen/catalog/internal/pkg/logger"
)

const (
	defaultChunkSize   = 500
	defaultConcurrency = 4
)

// recomputeSQL rebuilds every derived column of a resource in one
// statement. Only confirmed alignments contribute; rejected and
// unreviewed ones are invisible to the closures. The one-hop closure
// follows taxonomy mappings in both directions but never chains through
// a mapped node.
const recomputeSQL = `
UPDATE resources SET
  direct_taxonomy_ids = COALESCE((
    SELECT array_agg(DISTINCT a.taxonomy_id)
    FROM alignments a
    WHERE a.resource_id = resources.id AND a.status = @confirmed), '{}'),
  all_taxonomy_ids = COALESCE((
    SELECT array_agg(DISTINCT t.tid) FROM (
      SELECT a.taxonomy_id AS tid
      FROM alignments a
      WHERE a.resource_id = resources.id AND a.status = @confirmed
      UNION
      SELECT m.target_id
      FROM taxonomy_mappings m
      INNER JOIN alignments a ON a.taxonomy_id = m.taxonomy_id
      WHERE a.resource_id = resources.id AND a.status = @confirmed
      UNION
      SELECT m.taxonomy_id
      FROM taxonomy_mappings m
      INNER JOIN alignments a ON a.taxonomy_id = m.target_id
      WHERE a.resource_id = resources.id AND a.status = @confirmed
    ) t), '{}'),
  resource_stat_ids = COALESCE((
    SELECT array_agg(DISTINCT s.id)
    FROM resource_stats s
    INNER JOIN alignments a
      ON a.taxonomy_id = s.taxonomy_id AND a.resource_id = resources.id AND a.status = @confirmed
    WHERE s.resource_id = resources.id), '{}'),
  all_subject_ids = COALESCE((
    SELECT array_agg(DISTINCT rs.subject_id)
    FROM resources_subjects rs
    WHERE rs.resource_id = resources.id), '{}'),
  efficacy = COALESCE((
    SELECT jsonb_object_agg(s.taxonomy_ident, s.effectiveness)
    FROM resource_stats s
    INNER JOIN alignments a
      ON a.taxonomy_id = s.taxonomy_id AND a.resource_id = resources.id AND a.status = @confirmed
    WHERE s.resource_id = resources.id), '{}'::jsonb),
  avg_efficacy = (
    SELECT avg(s.effectiveness)
    FROM resource_stats s
    INNER JOIN alignments a
      ON a.taxonomy_id = s.taxonomy_id AND a.resource_id = resources.id AND a.status = @confirmed
    WHERE s.resource_id = resources.id),
  updated_at = now()
WHERE resources.id = ANY(@ids)
`

// Denormalizer rebuilds the derived resource columns the search engine
// filters on: taxonomy closures, subject closure, stat links, and the
// efficacy map.
type Denormalizer struct {
	db          *gorm.DB
	log         *logger.Logger
	chunkSize   int
	concurrency int
}

func New(db *gorm.DB, log *logger.Logger) *Denormalizer {
	return &Denormalizer{
		db:          db,
		log:         log,
		chunkSize:   defaultChunkSize,
		concurrency: defaultConcurrency,
	}
}

// Recompute rebuilds the derived columns for the given resources. When tx
// is non-nil every chunk runs sequentially inside that transaction, so a
// caller mutating alignments sees consistent closures on commit; without a
// transaction chunks run concurrently on the pool.
func (d *Denormalizer) Recompute(ctx context.Context, tx *gorm.DB, ids []int64) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	chunks := chunk(ids, d.chunkSize)

	if tx != nil {
		for _, c := range chunks {
			if err := d.recomputeChunk(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			return d.recomputeChunk(gctx, d.db, c)
		})
	}
	return g.Wait()
}

// RecomputeAll rebuilds every resource, chunked by id scan. Meant for
// backfills after bulk imports or mapping changes.
func (d *Denormalizer) RecomputeAll(ctx context.Context) error {
	var ids []int64
	if err := d.db.WithContext(ctx).Table("resources").Order("id").Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("list resource ids: %w", err)
	}
	if d.log != nil {
		d.log.Info("recomputing derived columns", "resources", len(ids))
	}
	return d.Recompute(ctx, nil, ids)
}

func (d *Denormalizer) recomputeChunk(ctx context.Context, tx *gorm.DB, ids []int64) error {
	err := tx.WithContext(ctx).Exec(recomputeSQL, map[string]any{
		"confirmed": catalog.AlignmentStatusConfirmed,
		"ids":       pq.Array(ids),
	}).Error
	if err != nil {
		return fmt.Errorf("recompute resources: %w", err)
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func chunk(ids []int64, size int) [][]int64 {
	if size <= 0 {
		size = defaultChunkSize
	}
	var out [][]int64
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	return append(out, ids)
}
