package search

import (
	"fmt"
	"strings"
)

// RawClause is one unvalidated leaf of a parsed filter expression, still
// carrying the DSL's own tokens.
type RawClause struct {
	LParen       string
	Field        string
	Operator     string
	Value        string
	CondOperator string
	RParen       string
}

// Parse turns a filter string into its ordered clause leaves.
//
//	expr      := factor (connector factor)*
//	factor    := clause | '(' expr ')'
//	clause    := '('* field operator quote value quote ')'*
//	operator  := '=' | '!=' | '>' | '>=' | '<' | '<=' | '~'
//	connector := 'AND' | 'OR' | '&&' | '||'
//
// Grouping parentheses are preserved on the leaves so the transformer can
// reproduce the expression's precedence verbatim.
func Parse(input string) ([]RawClause, error) {
	p := &parser{src: input}
	p.skipSpace()
	if p.eof() {
		return nil, p.fail("empty filter expression")
	}

	var out []RawClause
	depth := 0
	for !p.eof() {
		var rc RawClause
		if len(out) > 0 {
			conn, err := p.connector()
			if err != nil {
				return nil, err
			}
			rc.CondOperator = conn
			p.skipSpace()
		}

		rc.LParen = p.parens('(')
		depth += len(rc.LParen)
		p.skipSpace()

		field, err := p.fieldToken()
		if err != nil {
			return nil, err
		}
		rc.Field = field

		op, err := p.operator()
		if err != nil {
			return nil, err
		}
		rc.Operator = op
		p.skipSpace()

		value, err := p.quotedValue()
		if err != nil {
			return nil, err
		}
		rc.Value = value
		p.skipSpace()

		rc.RParen = p.parens(')')
		depth -= len(rc.RParen)
		if depth < 0 {
			return nil, p.fail("unbalanced parentheses")
		}
		p.skipSpace()

		out = append(out, rc)
	}
	if depth != 0 {
		return nil, p.fail("unbalanced parentheses")
	}
	return out, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) fail(msg string) error {
	return fmt.Errorf("filter parse error at offset %d: %s", p.pos, msg)
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *parser) parens(ch byte) string {
	start := p.pos
	for !p.eof() {
		if p.src[p.pos] == ch {
			p.pos++
			continue
		}
		if p.src[p.pos] == ' ' && p.pos+1 < len(p.src) && p.src[p.pos+1] == ch {
			p.pos++
			continue
		}
		break
	}
	return strings.ReplaceAll(p.src[start:p.pos], " ", "")
}

func (p *parser) connector() (string, error) {
	p.skipSpace()
	for _, tok := range []string{"AND", "OR", "&&", "||"} {
		if strings.HasPrefix(p.src[p.pos:], tok) {
			p.pos += len(tok)
			return tok, nil
		}
	}
	return "", p.fail("expected AND, OR, && or ||")
}

// isTermChar reports whether r may appear in a field token or value.
func isTermChar(r byte) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_', r == '.', r == ',', r == '/', r == ':', r == '&', r == ' ':
		return true
	}
	return false
}

func (p *parser) fieldToken() (string, error) {
	start := p.pos
	for !p.eof() && isTermChar(p.src[p.pos]) {
		// '&' only continues the token when it is not a && connector.
		if p.src[p.pos] == '&' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '&' {
			break
		}
		p.pos++
	}
	field := strings.TrimSpace(p.src[start:p.pos])
	if field == "" {
		return "", p.fail("expected field name")
	}
	return field, nil
}

func (p *parser) operator() (string, error) {
	p.skipSpace()
	for _, op := range []string{">=", "<=", "!=", "=", ">", "<", "~"} {
		if strings.HasPrefix(p.src[p.pos:], op) {
			p.pos += len(op)
			return op, nil
		}
	}
	return "", p.fail("expected comparison operator")
}

func (p *parser) quotedValue() (string, error) {
	if p.eof() || (p.src[p.pos] != '\'' && p.src[p.pos] != '"') {
		return "", p.fail("expected quoted value")
	}
	quote := p.src[p.pos]
	p.pos++
	start := p.pos
	for !p.eof() && p.src[p.pos] != quote {
		if !isTermChar(p.src[p.pos]) {
			return "", p.fail("unsupported character in value")
		}
		p.pos++
	}
	if p.eof() {
		return "", p.fail("unterminated quoted value")
	}
	value := p.src[start:p.pos]
	p.pos++
	return value, nil
}
