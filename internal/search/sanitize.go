package search

import (
	"fmt"
	"strings"
)

// operatorMap canonicalizes DSL comparison tokens to their SQL form.
var operatorMap = map[string]string{
	"=":  "=",
	"!=": "<>",
	">":  ">",
	">=": ">=",
	"<":  "<",
	"<=": "<=",
	"~":  "ILIKE",
}

// connectorMap canonicalizes the boolean connectors.
var connectorMap = map[string]string{
	"AND": "AND",
	"OR":  "OR",
	"&&":  "AND",
	"||":  "OR",
}

// Sanitizer validates raw request inputs against the field registry and
// canonicalizes them for compilation. Unknown filter fields and operators
// are hard errors; unknown selection, sort, and order values degrade to
// defaults with a warning.
type Sanitizer struct {
	fields *FieldMap
}

func NewSanitizer(fields *FieldMap) *Sanitizer {
	return &Sanitizer{fields: fields}
}

// Clause resolves one raw parsed leaf into a validated Clause. Fuzzy
// values are wrapped in wildcards before the null-sentinel check so a
// fuzzy "null" stays a literal match.
func (s *Sanitizer) Clause(rc RawClause) (*Clause, error) {
	op, ok := operatorMap[rc.Operator]
	if !ok {
		return nil, newError(CodeInvalidData,
			fmt.Sprintf("Invalid operator %q. Valid operators are: =, !=, >, >=, <, <=, ~.", rc.Operator))
	}

	conn := ""
	if rc.CondOperator != "" {
		conn, ok = connectorMap[rc.CondOperator]
		if !ok {
			return nil, newError(CodeInvalidData,
				fmt.Sprintf("Invalid logical operator %q. Valid operators are: AND, OR, &&, ||.", rc.CondOperator))
		}
	}

	ft, ok := s.fields.Lookup(rc.Field)
	if !ok || !ft.Meta().SearchAllowed {
		return nil, newError(CodeInvalidFilterField,
			fmt.Sprintf("Invalid filter field %q. Valid fields are: %s.", rc.Field,
				strings.Join(s.fields.SearchAllowedFields(), ", ")))
	}

	value := rc.Value
	if op == "ILIKE" {
		value = "%" + value + "%"
	}

	return &Clause{
		Field:        ft,
		Operator:     op,
		Value:        value,
		CondOperator: conn,
		LParen:       rc.LParen,
		RParen:       rc.RParen,
	}, nil
}

// SelectSQL resolves the fields parameter into projection expressions.
// A nil fields parameter selects everything; an explicitly blank one is a
// hard error; any unknown name falls back to everything with a warning.
func (s *Sanitizer) SelectSQL(fields *string) ([]string, []Warning, error) {
	if fields == nil {
		return s.fields.AllSelectSQL(), nil, nil
	}
	trimmed := strings.TrimSpace(*fields)
	if trimmed == "" {
		return nil, nil, newError(CodeBlankSelectionField, "Please provide not empty fields parameter")
	}

	known := s.fields.OutputFields()
	out := []string{"resources.id"}
	seen := map[string]bool{}
	for _, name := range strings.Split(trimmed, ",") {
		name = strings.TrimSpace(name)
		ft, ok := known[name]
		if !ok {
			warning := newWarning(CodeInvalidSelectionField,
				fmt.Sprintf("Invalid selection field %q. Valid fields are: %s.", name,
					strings.Join(s.fields.OutputFieldNames(), ", ")))
			return s.fields.AllSelectSQL(), []Warning{warning}, nil
		}
		expr := ft.Meta().SelectExpr()
		if expr != "" && !seen[expr] {
			seen[expr] = true
			out = append(out, expr)
		}
	}
	return out, nil, nil
}

// Sort resolves the sort and orderBy parameters into an ORDER BY
// expression and direction. A `field:subkey` sort addresses one JSON map
// key of a subkey-sortable field. Unsortable or unknown fields fall back
// to the default sort with a warning, as does an unknown direction.
func (s *Sanitizer) Sort(sortField, orderBy string) (expr, direction string, warnings []Warning) {
	field := strings.TrimSpace(sortField)
	subkey := ""
	if i := strings.Index(field, ":"); i >= 0 {
		field, subkey = field[:i], field[i+1:]
	}
	if field == "" {
		field = DefaultSortField
	}

	ft, ok := s.fields.Lookup(field)
	if !ok || !ft.Meta().Sortable || (subkey != "" && !ft.Meta().JSONSubkeySort) {
		warnings = append(warnings, newWarning(CodeInvalidSortField,
			fmt.Sprintf("Invalid sort field %q. Valid fields are: %s.", sortField,
				strings.Join(s.fields.SortableFields(), ", "))))
		ft, ok = s.fields.Lookup(DefaultSortField)
		subkey = ""
	}
	// The default field can itself be missing when schema filtering
	// excluded it; the primary key always exists.
	expr = "resources.id"
	if ok {
		expr = ft.Meta().SortExpr(subkey)
	}

	direction = strings.ToLower(strings.TrimSpace(orderBy))
	switch direction {
	case "asc", "desc":
	case "":
		direction = "asc"
	default:
		warnings = append(warnings, newWarning(CodeInvalidSortField,
			fmt.Sprintf("Invalid order direction %q. Valid directions are: asc, desc.", orderBy)))
		direction = "asc"
	}
	return expr, direction, warnings
}
