package catalog

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

var (
	EducationalAudience = []string{"student", "teacher", "administrator", "parent", "aide", "proctor", "guardian", "relative"}
	AccessibilityAPI    = []string{"AndroidAccessibility", "ARIAv1", "ATK", "AT-SPI", "BlackberryAccessibility", "iAccessible2", "JavaAccessibility", "MacOSXAccessibility", "MSAA", "UIAutomation"}
	AccessibilityInput  = []string{"fullKeyboardControl", "fullMouseControl"}
	AccessMode          = []string{"auditory", "colour", "color", "itemSize", "olfactory", "orientation", "position", "tactile", "textOnImage", "textual", "visual"}
	AccessibilityHazard = []string{"flashing", "motionSimulation", "olfactoryHazard", "sound"}
	TextComplexityKeys  = []string{"dra", "dale-chall", "flesch-kincaid", "fountas-pinnell", "lexile"}

	LearningResourceTypes = []string{
		"Assessment/Item", "Assessment/Formative", "Assessment/Interim", "Assessment/Rubric", "Assessment/Preparation",
		"Collection/Course", "Collection/Unit", "Collection/Lesson", "Collection/Curriculum Guide",
		"Game", "Interactive/Simulation", "Interactive/Animation", "Interactive/Whiteboard",
		"Activity/Worksheet", "Activity/Learning", "Activity/Experiment", "Lecture",
		"Text/Book", "Text/Chapter", "Text/Document", "Text/Article", "Text/Passage", "Text/Textbook", "Text/Reference", "Text/Website",
		"Media/Audio", "Media/Video", "Media/Images", "Other",
	}
)

// Resource is the catalog entity. The *_ids array columns and the efficacy
// columns are closure columns: they are written only by the denormalizer and
// read by the search field types, never maintained by request handlers.
type Resource struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:name;not null;index" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	URL         string `gorm:"column:url" json:"url"`
	Publisher   string `gorm:"column:publisher" json:"publisher"`
	Author      string `gorm:"column:author" json:"author"`

	LearningResourceType string   `gorm:"column:learning_resource_type;index" json:"learning_resource_type"`
	Language             string   `gorm:"column:language;type:varchar(2)" json:"language"`
	Rating               *float64 `gorm:"column:rating" json:"rating,omitempty"`
	Relevance            *float64 `gorm:"column:relevance" json:"relevance,omitempty"`

	ThumbnailURL    string `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	UseRightsURL    string `gorm:"column:use_rights_url" json:"use_rights_url"`
	TechnicalFormat string `gorm:"column:technical_format" json:"technical_format"`

	TimeRequired *int `gorm:"column:time_required" json:"time_required,omitempty"`
	MinAge       *int `gorm:"column:min_age" json:"min_age,omitempty"`
	MaxAge       *int `gorm:"column:max_age" json:"max_age,omitempty"`

	LtiLink        datatypes.JSON `gorm:"column:lti_link;type:jsonb" json:"lti_link,omitempty"`
	TextComplexity datatypes.JSON `gorm:"column:text_complexity;type:jsonb" json:"text_complexity,omitempty"`
	Extensions     datatypes.JSON `gorm:"column:extensions;type:jsonb" json:"extensions,omitempty"`

	EducationalAudience       pq.StringArray `gorm:"column:educational_audience;type:text[]" json:"educational_audience,omitempty"`
	AccessibilityAPI          pq.StringArray `gorm:"column:accessibility_api;type:text[]" json:"accessibility_api,omitempty"`
	AccessibilityInputMethods pq.StringArray `gorm:"column:accessibility_input_methods;type:text[]" json:"accessibility_input_methods,omitempty"`
	AccessibilityFeatures     pq.StringArray `gorm:"column:accessibility_features;type:text[]" json:"accessibility_features,omitempty"`
	AccessibilityHazards      pq.StringArray `gorm:"column:accessibility_hazards;type:text[]" json:"accessibility_hazards,omitempty"`
	AccessMode                pq.StringArray `gorm:"column:access_mode;type:text[]" json:"access_mode,omitempty"`

	DirectTaxonomyIDs pq.Int64Array  `gorm:"column:direct_taxonomy_ids;type:bigint[];not null;default:'{}'" json:"direct_taxonomy_ids"`
	AllTaxonomyIDs    pq.Int64Array  `gorm:"column:all_taxonomy_ids;type:bigint[];not null;default:'{}'" json:"all_taxonomy_ids"`
	ResourceStatIDs   pq.Int64Array  `gorm:"column:resource_stat_ids;type:bigint[];not null;default:'{}'" json:"resource_stat_ids"`
	AllSubjectIDs     pq.Int64Array  `gorm:"column:all_subject_ids;type:bigint[];not null;default:'{}'" json:"all_subject_ids"`
	Efficacy          datatypes.JSON `gorm:"column:efficacy;type:jsonb;not null;default:'{}'" json:"efficacy"`
	AvgEfficacy       *float64       `gorm:"column:avg_efficacy" json:"avg_efficacy,omitempty"`

	Alignments []Alignment       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"alignments,omitempty"`
	Subjects   []ResourceSubject `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Resource) TableName() string { return "resources" }
