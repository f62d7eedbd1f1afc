package catalog

import (
	"time"

	"github.com/lib/pq"
)

// Taxonomy is a node in a learning-standards forest. Ancestry holds the
// slash-joined ids of the node's ancestors ("12/40/317"), empty for roots.
type Taxonomy struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string         `gorm:"column:name;index" json:"name"`
	Identifier         string         `gorm:"column:identifier;not null;index" json:"identifier"`
	OpensaltIdentifier string         `gorm:"column:opensalt_identifier;index" json:"opensalt_identifier"`
	Description        string         `gorm:"column:description;type:text" json:"description"`
	AlignmentType      string         `gorm:"column:alignment_type" json:"alignment_type"`
	Source             string         `gorm:"column:source" json:"source"`
	Ancestry           string         `gorm:"column:ancestry;index" json:"ancestry"`
	MinAge             *int           `gorm:"column:min_age" json:"min_age,omitempty"`
	MaxAge             *int           `gorm:"column:max_age" json:"max_age,omitempty"`
	Aliases            pq.StringArray `gorm:"column:aliases;type:text[]" json:"aliases,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Taxonomy) TableName() string { return "taxonomies" }

const (
	AlignmentStatusUnreviewed = 1
	AlignmentStatusConfirmed  = 2
	AlignmentStatusRejected   = 3
)

// Alignment links a Resource to a Taxonomy. Only confirmed alignments
// participate in closure-column recomputation.
type Alignment struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ResourceID int64 `gorm:"column:resource_id;not null;index:idx_alignments_resource_taxonomy,unique" json:"resource_id"`
	TaxonomyID int64 `gorm:"column:taxonomy_id;not null;index:idx_alignments_resource_taxonomy,unique;index" json:"taxonomy_id"`
	Status     int   `gorm:"column:status;not null;default:2" json:"status"`

	Taxonomy *Taxonomy `gorm:"constraint:OnDelete:RESTRICT;foreignKey:TaxonomyID;references:ID" json:"taxonomy,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Alignment) TableName() string { return "alignments" }

// TaxonomyMapping is a one-hop cross-reference between two taxonomies,
// stored directed but matched symmetrically.
type TaxonomyMapping struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TaxonomyID int64 `gorm:"column:taxonomy_id;not null;index" json:"taxonomy_id"`
	TargetID   int64 `gorm:"column:target_id;not null;index" json:"target_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TaxonomyMapping) TableName() string { return "taxonomy_mappings" }
