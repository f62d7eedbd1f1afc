package search

import (
	"fmt"

	"gorm.io/gorm"
)

// Projection expressions for output fields assembled from related tables.
const (
	taxonomiesSelect = "(SELECT json_agg(json_build_object('id', taxonomies.id, 'opensalt_identifier', COALESCE(taxonomies.opensalt_identifier, ''), 'description', COALESCE(taxonomies.description, ''), 'alignment_type', COALESCE(taxonomies.alignment_type, ''), 'source', COALESCE(taxonomies.source, ''), 'identifier', COALESCE(taxonomies.identifier, ''))) FROM taxonomies INNER JOIN alignments ON taxonomies.id = alignments.taxonomy_id WHERE alignments.resource_id = resources.id)"

	textComplexitySelect = "jsonb_build_array(json_build_object('name', 'Flesch-Kincaid', 'value', resources.text_complexity->>'flesch-kincaid'), json_build_object('name', 'Lexile', 'value', resources.text_complexity->>'lexile'))"

	subjectSelect = "(SELECT array_agg(subjects.name) FROM subjects INNER JOIN resources_subjects ON resources_subjects.subject_id = subjects.id AND resources_subjects.resource_id = resources.id)"

	ageRangeSelect = "(WITH T AS (SELECT MAX(LEAST(12, taxonomies.max_age)) AS max_age, MIN(taxonomies.min_age) AS min_age FROM taxonomies INNER JOIN alignments ON taxonomies.id = alignments.taxonomy_id WHERE alignments.resource_id = resources.id) (SELECT CASE WHEN T.min_age IS NULL THEN T.max_age::text WHEN T.max_age IS NULL THEN T.min_age::text ELSE concat_ws('-', T.min_age, T.max_age) END FROM T))"
)

// DefaultSortField is the fallback when the requested sort field is
// unknown or absent.
const DefaultSortField = "name"

// Config carries the start-up options of the field registry.
type Config struct {
	// SearchByTaxonomyAliases widens targetName lookups to the taxonomy
	// alias lists.
	SearchByTaxonomyAliases bool
	// ExtensionFields are additional descriptors registered by the host
	// application; they must satisfy the FieldType compile contract.
	ExtensionFields []FieldType
}

// ColumnSet is the set of "table.column" names present in the connected
// schema; descriptors whose storage column is missing are filtered out
// unless marked custom.
type ColumnSet map[string]bool

// AvailableColumns introspects the schema for the tables the field types
// reference. A failed introspection yields an empty set, which keeps only
// descriptors without a storage column (mirrors behavior before the
// schema exists, e.g. during install).
func AvailableColumns(db *gorm.DB, tables ...string) ColumnSet {
	cols := ColumnSet{}
	if db == nil {
		return cols
	}
	for _, table := range tables {
		types, err := db.Migrator().ColumnTypes(table)
		if err != nil {
			return ColumnSet{}
		}
		for _, ct := range types {
			cols[fmt.Sprintf("%s.%s", table, ct.Name())] = true
		}
	}
	return cols
}

// FieldTypeTables are the tables whose columns back field descriptors.
var FieldTypeTables = []string{"resources", "taxonomies", "subjects", "resource_stats"}

// FieldMap is the ordered, immutable field-type registry, built once at
// start-up and shared read-only across requests.
type FieldMap struct {
	ordered  []FieldType
	byFilter map[string]FieldType
}

func NewFieldMap(cols ColumnSet, taxonomies TaxonomyFinder, subjects SubjectFinder, cfg Config) *FieldMap {
	cis := func(filter, query, output string, sortable bool) *CaseInsensitiveString {
		return &CaseInsensitiveString{Field: Field{
			FilterField: filter, SelectSQL: query, OutputField: output,
			QueryField: query, Sortable: sortable, SearchAllowed: true,
		}}
	}
	cisAlias := func(filter, query, output, alias string, sortable bool) *CaseInsensitiveString {
		ft := cis(filter, query, output, sortable)
		ft.Alias = alias
		return ft
	}
	strArray := func(filter, query, output, alias string) *StringArray {
		return &StringArray{Field: Field{
			FilterField: filter, SelectSQL: query, OutputField: output, Alias: alias,
			QueryField: query, SearchAllowed: true,
		}}
	}
	objective := func(filter, query string) *LearningObjective {
		return &LearningObjective{
			Field: Field{
				FilterField: filter, SelectSQL: taxonomiesSelect, OutputField: "learningObjectives",
				Alias: "learning_objectives", QueryField: query, SearchAllowed: true,
			},
			Taxonomies:      taxonomies,
			SearchByAliases: cfg.SearchByTaxonomyAliases,
		}
	}
	textComplexity := func(filter string) *TextComplexity {
		return &TextComplexity{Field: Field{
			FilterField: filter, SelectSQL: textComplexitySelect, OutputField: "textComplexity",
			Alias: "text_complexity", QueryField: "resources.text_complexity", SearchAllowed: true,
		}}
	}

	ordered := []FieldType{
		&SearchField{Field: Field{FilterField: "search", TSVColumn: "resources.tsv_text", SearchAllowed: true}},
		cis("name", "resources.name", "name", true),
		cis("description", "resources.description", "description", true),
		cis("publisher", "resources.publisher", "publisher", true),
		&SubjectField{
			Field: Field{
				FilterField: "subject", SelectSQL: subjectSelect, OutputField: "subject",
				QueryField: "subjects.name", SearchAllowed: true,
			},
			Subjects: subjects,
		},
		&Efficacy{Field: Field{
			FilterField: "efficacy", SelectSQL: "resources.efficacy", OutputField: "efficacy",
			QueryField: "resources.efficacy", Sortable: true, JSONSubkeySort: true, SearchAllowed: true,
		}},
		objective("learningObjectives", "taxonomies.identifier"),
		objective("learningObjectives.id", "taxonomies.identifier"),
		objective("learningObjectives.targetName", "taxonomies.identifier"),
		objective("learningObjectives.caseItemGUID", "taxonomies.opensalt_identifier"),
		objective("learningObjectives.alignmentType", "taxonomies.alignment_type"),
		objective("learningObjectives.targetDescription", "taxonomies.description"),
		objective("learningObjectives.targetURL", ""),
		objective("learningObjectives.educationalFramework", ""),
		objective("learningObjectives.caseItemUri", "taxonomies.source"),
		cisAlias("learningResourceType", "resources.learning_resource_type", "learningResourceType", "learning_resource_type", true),
		cis("language", "resources.language", "language", true),
		&TypicalAgeRange{Field: Field{
			FilterField: "typicalAgeRange", SelectSQL: ageRangeSelect, OutputField: "typicalAgeRange",
			Alias: "typical_age_range", SearchAllowed: true,
		}},
		&Numeric{Field: Field{
			FilterField: "rating", SelectSQL: "resources.rating", OutputField: "rating",
			QueryField: "resources.rating", Sortable: true, SearchAllowed: true,
		}},
		&Timestamp{Field: Field{
			FilterField: "publishDate", SelectSQL: "resources.created_at", OutputField: "publishDate",
			Alias: "created_at", QueryField: "resources.created_at", Sortable: true, SearchAllowed: true,
		}},
		&Duration{Field: Field{
			FilterField: "timeRequired", SelectSQL: "resources.time_required", OutputField: "timeRequired",
			Alias: "time_required", QueryField: "resources.time_required", Sortable: true, SearchAllowed: true,
		}},
		cis("author", "resources.author", "author", true),
		cisAlias("useRightsUrl", "resources.use_rights_url", "useRightsUrl", "use_rights_url", false),
		textComplexity("textComplexity"),
		textComplexity("textComplexity.name"),
		textComplexity("textComplexity.value"),
		cisAlias("thumbnailUrl", "resources.thumbnail_url", "thumbnailUrl", "thumbnail_url", false),
		cisAlias("technicalFormat", "resources.technical_format", "technicalFormat", "technical_format", false),
		strArray("accessibilityAPI", "resources.accessibility_api", "accessibilityAPI", "accessibility_api"),
		strArray("accessibilityInputMethods", "resources.accessibility_input_methods", "accessibilityInputMethods", "accessibility_input_methods"),
		strArray("accessMode", "resources.access_mode", "accessMode", "access_mode"),
		strArray("educationalAudience", "resources.educational_audience", "educationalAudience", "educational_audience"),
		strArray("accessibilityFeatures", "resources.accessibility_features", "accessibilityFeatures", "accessibility_features"),
		strArray("accessibilityHazards", "resources.accessibility_hazards", "accessibilityHazards", "accessibility_hazards"),
		cis("extensions", "resources.extensions", "extensions", false),
		&CaseInsensitiveString{Field: Field{
			FilterField: "relevance", SelectSQL: "resources.relevance", OutputField: "relevance",
			QueryField: "resources.relevance", Sortable: true, SearchAllowed: true,
		}},
		&NullField{Field: Field{
			FilterField: "ltiLink", SelectSQL: "resources.lti_link", OutputField: "ltiLink",
			Alias: "lti_link", SearchAllowed: false,
		}},
		&CaseInsensitiveString{Field: Field{
			FilterField: "url", SelectSQL: "resources.url", OutputField: "url",
			QueryField: "resources.url", SearchAllowed: false,
		}},
	}
	ordered = append(ordered, cfg.ExtensionFields...)

	fm := &FieldMap{byFilter: make(map[string]FieldType, len(ordered))}
	for _, ft := range ordered {
		meta := ft.Meta()
		if meta.QueryField != "" && !meta.Custom && len(cols) > 0 && !cols[meta.QueryField] {
			continue
		}
		if _, dup := fm.byFilter[meta.FilterField]; dup {
			continue
		}
		fm.ordered = append(fm.ordered, ft)
		fm.byFilter[meta.FilterField] = ft
	}
	return fm
}

// Lookup resolves a filter-field token to its descriptor.
func (m *FieldMap) Lookup(filterField string) (FieldType, bool) {
	ft, ok := m.byFilter[filterField]
	return ft, ok
}

// All returns the registry in registration order.
func (m *FieldMap) All() []FieldType { return m.ordered }

// SearchAllowedFields lists filter-field names usable in filter
// expressions.
func (m *FieldMap) SearchAllowedFields() []string {
	var out []string
	for _, ft := range m.ordered {
		if ft.Meta().SearchAllowed {
			out = append(out, ft.Meta().FilterField)
		}
	}
	return out
}

// SortableFields lists filter-field names usable as sort keys.
func (m *FieldMap) SortableFields() []string {
	var out []string
	for _, ft := range m.ordered {
		if ft.Meta().Sortable {
			out = append(out, ft.Meta().FilterField)
		}
	}
	return out
}

// OutputFields maps output-field names to descriptors, first registration
// winning.
func (m *FieldMap) OutputFields() map[string]FieldType {
	out := make(map[string]FieldType)
	for _, ft := range m.ordered {
		name := ft.Meta().OutputField
		if name == "" {
			continue
		}
		if _, ok := out[name]; !ok {
			out[name] = ft
		}
	}
	return out
}

// OutputFieldNames lists output-field names in registration order without
// duplicates.
func (m *FieldMap) OutputFieldNames() []string {
	seen := map[string]bool{}
	var out []string
	for _, ft := range m.ordered {
		name := ft.Meta().OutputField
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// AllSelectSQL is the projection used when no explicit field selection is
// given: the resource id plus every output field's select expression.
func (m *FieldMap) AllSelectSQL() []string {
	seen := map[string]bool{}
	out := []string{"resources.id"}
	for _, ft := range m.ordered {
		expr := ft.Meta().SelectExpr()
		if expr == "" || seen[expr] {
			continue
		}
		seen[expr] = true
		out = append(out, expr)
	}
	return out
}
