package catalog

import "time"

type Subject struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"column:name;not null;uniqueIndex" json:"name"`
	ParentID *int64 `gorm:"column:parent_id;index" json:"parent_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Subject) TableName() string { return "subjects" }

type ResourceSubject struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ResourceID int64 `gorm:"column:resource_id;not null;index:idx_resources_subjects,unique" json:"resource_id"`
	SubjectID  int64 `gorm:"column:subject_id;not null;index:idx_resources_subjects,unique" json:"subject_id"`
}

func (ResourceSubject) TableName() string { return "resources_subjects" }
