package search

import "testing"

func TestParseSingleClause(t *testing.T) {
	clauses, err := Parse("name='Ten Frame'")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	c := clauses[0]
	if c.Field != "name" || c.Operator != "=" || c.Value != "Ten Frame" {
		t.Fatalf("unexpected clause: %+v", c)
	}
}

func TestParseOperators(t *testing.T) {
	cases := []struct {
		filter string
		op     string
	}{
		{"rating>='3'", ">="},
		{"rating<='3'", "<="},
		{"rating>'3'", ">"},
		{"rating<'3'", "<"},
		{"name!='x'", "!="},
		{"name~'x'", "~"},
	}
	for _, tc := range cases {
		clauses, err := Parse(tc.filter)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.filter, err)
		}
		if clauses[0].Operator != tc.op {
			t.Fatalf("Parse(%q): operator %q, want %q", tc.filter, clauses[0].Operator, tc.op)
		}
	}
}

func TestParseConnectorsAndParens(t *testing.T) {
	clauses, err := Parse("(name='a' AND rating>'3') OR publisher~'ck12'")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(clauses))
	}
	if clauses[0].LParen != "(" || clauses[0].CondOperator != "" {
		t.Fatalf("first clause: %+v", clauses[0])
	}
	if clauses[1].CondOperator != "AND" || clauses[1].RParen != ")" {
		t.Fatalf("second clause: %+v", clauses[1])
	}
	if clauses[2].CondOperator != "OR" {
		t.Fatalf("third clause: %+v", clauses[2])
	}
}

func TestParseSymbolConnectors(t *testing.T) {
	clauses, err := Parse("name='a' && rating>'3' || name='b'")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if clauses[1].CondOperator != "&&" || clauses[2].CondOperator != "||" {
		t.Fatalf("connectors: %+v", clauses)
	}
}

func TestParseDoubleQuotes(t *testing.T) {
	clauses, err := Parse(`language="en"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if clauses[0].Value != "en" {
		t.Fatalf("value %q", clauses[0].Value)
	}
}

func TestParseEmptyValue(t *testing.T) {
	clauses, err := Parse("name=''")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if clauses[0].Value != "" {
		t.Fatalf("value %q", clauses[0].Value)
	}
}

func TestParseDottedFieldAndCommaValue(t *testing.T) {
	clauses, err := Parse("learningObjectives.targetName='K.CC.1,K.CC.2'")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if clauses[0].Field != "learningObjectives.targetName" {
		t.Fatalf("field %q", clauses[0].Field)
	}
	if clauses[0].Value != "K.CC.1,K.CC.2" {
		t.Fatalf("value %q", clauses[0].Value)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"name",
		"name=",
		"name='a",
		"name='a' name='b'",
		"(name='a'",
		"name='a')",
		"name='a' AND",
		"=~'x'",
	}
	for _, filter := range bad {
		if _, err := Parse(filter); err == nil {
			t.Fatalf("Parse(%q): expected error", filter)
		}
	}
}

func TestParseNestedParens(t *testing.T) {
	clauses, err := Parse("((name='a' OR name='b') AND rating>'2')")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if clauses[0].LParen != "((" {
		t.Fatalf("lparen %q", clauses[0].LParen)
	}
	if clauses[2].RParen != ")" {
		t.Fatalf("rparen %q", clauses[2].RParen)
	}
}
