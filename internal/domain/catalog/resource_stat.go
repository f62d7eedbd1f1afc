package catalog

import "time"

// ResourceStat is an effectiveness measurement for a (resource, taxonomy)
// pair. TaxonomyIdent is the human identifier of the taxonomy at the time
// the measurement was recorded; the efficacy closure map is keyed by it.
type ResourceStat struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	ResourceID    int64   `gorm:"column:resource_id;not null;index:idx_resource_stats_resource_taxonomy,unique" json:"resource_id"`
	TaxonomyID    int64   `gorm:"column:taxonomy_id;not null;index:idx_resource_stats_resource_taxonomy,unique;index" json:"taxonomy_id"`
	TaxonomyIdent string  `gorm:"column:taxonomy_ident;not null" json:"taxonomy_ident"`
	Effectiveness float64 `gorm:"column:effectiveness;not null" json:"effectiveness"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ResourceStat) TableName() string { return "resource_stats" }
