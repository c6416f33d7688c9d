package query

import (
	"errors"
	"testing"
)

func TestParse_SingleTerm(t *testing.T) {
	node, err := Parse("LLM")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	term, ok := node.(Term)
	if !ok {
		t.Fatalf("expected Term, got %T", node)
	}
	if term.Text != "LLM" || term.IsPhrase {
		t.Errorf("term = %+v", term)
	}
}

func TestParse_QuotedPhrase(t *testing.T) {
	node, err := Parse(`"Large Language Model"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	term, ok := node.(Term)
	if !ok {
		t.Fatalf("expected Term, got %T", node)
	}
	if term.Text != "Large Language Model" || !term.IsPhrase {
		t.Errorf("term = %+v", term)
	}
}

func TestParse_Precedence(t *testing.T) {
	// AND binds tighter than OR: A OR B AND C == A OR (B AND C).
	node, err := Parse("A OR B AND C")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	or, ok := node.(Operator)
	if !ok || or.Op != "OR" {
		t.Fatalf("expected OR at root, got %v", node)
	}
	and, ok := or.Right.(Operator)
	if !ok || and.Op != "AND" {
		t.Fatalf("expected AND on the right, got %v", or.Right)
	}
}

func TestParse_ParensOverridePrecedence(t *testing.T) {
	node, err := Parse("(A OR B) AND C")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	and, ok := node.(Operator)
	if !ok || and.Op != "AND" {
		t.Fatalf("expected AND at root, got %v", node)
	}
	or, ok := and.Left.(Operator)
	if !ok || or.Op != "OR" {
		t.Fatalf("expected OR on the left, got %v", and.Left)
	}
}

func TestParse_CaseInsensitiveOperators(t *testing.T) {
	node, err := Parse("a and b or c")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	or, ok := node.(Operator)
	if !ok || or.Op != "OR" {
		t.Fatalf("expected OR at root, got %v", node)
	}
}

func TestParse_ComplexQuery(t *testing.T) {
	node, err := Parse(`("Large Language Model*" OR "LLM") AND "Risk of bias"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	and, ok := node.(Operator)
	if !ok || and.Op != "AND" {
		t.Fatalf("expected AND at root, got %v", node)
	}
	if _, ok := and.Left.(Operator); !ok {
		t.Errorf("expected OR group on the left, got %v", and.Left)
	}
	right, ok := and.Right.(Term)
	if !ok || !right.IsPhrase || right.Text != "Risk of bias" {
		t.Errorf("right = %v", and.Right)
	}
}

func TestParse_WildcardTermsSurvive(t *testing.T) {
	node, err := Parse("GPT* AND assessment*")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	and := node.(Operator)
	if and.Left.(Term).Text != "GPT*" || and.Right.(Term).Text != "assessment*" {
		t.Errorf("wildcards mangled: %v", node)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unclosed quote", `"unterminated`},
		{"unclosed paren", "(A OR B"},
		{"extra closing paren", "A OR B)"},
		{"dangling operator", "A AND"},
		{"leading operator", "OR A"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.query)
			if err == nil {
				t.Fatalf("expected error for %q", c.query)
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Errorf("expected SyntaxError, got %T", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if ok, msg := Validate("A AND B"); !ok || msg != "" {
		t.Errorf("valid query rejected: %v %q", ok, msg)
	}
	if ok, msg := Validate("(A"); ok || msg == "" {
		t.Errorf("invalid query accepted: %v %q", ok, msg)
	}
}
