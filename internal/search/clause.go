package search

import "strings"

// Clause is one sanitized comparison leaf of a parsed filter expression.
// Operator and CondOperator hold canonical SQL tokens (`<>`, `ILIKE`,
// `AND`, ...), not the raw DSL tokens.
type Clause struct {
	Field        FieldType
	Operator     string
	Value        string
	CondOperator string
	LParen       string
	RParen       string
}

// NullCheck reports whether the clause value is the NULL sentinel, meaning
// "field is absent" rather than a literal match. A fuzzy value is already
// wrapped in wildcards by the sanitizer, so `field~'NULL'` stays a literal
// text match.
func (c *Clause) NullCheck() bool {
	return strings.EqualFold(c.Value, "null")
}
