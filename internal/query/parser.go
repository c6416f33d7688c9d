// Package query parses Boolean search queries into an AST.
//
// Grammar (lowest to highest precedence):
//
//	expression := andExpr { OR andExpr }
//	andExpr    := primary { AND primary }
//	primary    := term | "phrase" | ( expression )
//
// Terms may carry * wildcards, e.g. GPT* or *model.
package query

import (
	"fmt"
	"strings"
)

// Node is a query AST node: either a Term or an Operator.
type Node interface {
	String() string
}

// Term is a leaf search term or quoted phrase.
type Term struct {
	Text     string
	IsPhrase bool
}

func (t Term) String() string {
	if t.IsPhrase {
		return fmt.Sprintf("Term(%q)", t.Text)
	}
	return fmt.Sprintf("Term(%s)", t.Text)
}

// Operator is an AND or OR combination of two subexpressions.
type Operator struct {
	Op    string // "AND" or "OR"
	Left  Node
	Right Node
}

func (o Operator) String() string {
	return fmt.Sprintf("(%s %s %s)", o.Left, o.Op, o.Right)
}

// SyntaxError reports an invalid query.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return e.Msg }

func syntaxErrorf(format string, args ...interface{}) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

// Parse parses a Boolean query string into its AST root.
func Parse(q string) (Node, error) {
	if strings.TrimSpace(q) == "" {
		return nil, syntaxErrorf("query cannot be empty")
	}

	tokens, err := tokenize(q)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, syntaxErrorf("no valid tokens found in query")
	}

	depth := 0
	for _, tok := range tokens {
		switch tok {
		case "(":
			depth++
		case ")":
			depth--
		}
		if depth < 0 {
			return nil, syntaxErrorf("unbalanced parentheses: too many closing parentheses")
		}
	}
	if depth != 0 {
		return nil, syntaxErrorf("unbalanced parentheses: unclosed opening parentheses")
	}

	node, pos, err := parseExpression(tokens, 0)
	if err != nil {
		return nil, err
	}
	if pos < len(tokens) {
		return nil, syntaxErrorf("unexpected token at position %d: %s", pos, tokens[pos])
	}
	return node, nil
}

// Validate reports whether a query parses, with the error message when
// it does not.
func Validate(q string) (bool, string) {
	if _, err := Parse(q); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// tokenize splits a query into quoted phrases, parentheses, and words.
// Quoted phrases keep their quotes so the parser can tell them apart.
func tokenize(q string) ([]string, error) {
	var tokens []string
	runes := []rune(strings.TrimSpace(q))

	for i := 0; i < len(runes); {
		switch {
		case isQuerySpace(runes[i]):
			i++
		case runes[i] == '"':
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			if j >= len(runes) {
				return nil, syntaxErrorf("unclosed quote at position %d", i)
			}
			tokens = append(tokens, string(runes[i:j+1]))
			i = j + 1
		case runes[i] == '(' || runes[i] == ')':
			tokens = append(tokens, string(runes[i]))
			i++
		default:
			j := i
			for j < len(runes) && !isQuerySpace(runes[j]) && runes[j] != '(' && runes[j] != ')' {
				j++
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
		}
	}
	return tokens, nil
}

func isQuerySpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func parseExpression(tokens []string, pos int) (Node, int, error) {
	left, pos, err := parseAndExpression(tokens, pos)
	if err != nil {
		return nil, pos, err
	}
	for pos < len(tokens) && strings.EqualFold(tokens[pos], "OR") {
		right, next, err := parseAndExpression(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		left = Operator{Op: "OR", Left: left, Right: right}
		pos = next
	}
	return left, pos, nil
}

func parseAndExpression(tokens []string, pos int) (Node, int, error) {
	left, pos, err := parsePrimary(tokens, pos)
	if err != nil {
		return nil, pos, err
	}
	for pos < len(tokens) && strings.EqualFold(tokens[pos], "AND") {
		right, next, err := parsePrimary(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		left = Operator{Op: "AND", Left: left, Right: right}
		pos = next
	}
	return left, pos, nil
}

func parsePrimary(tokens []string, pos int) (Node, int, error) {
	if pos >= len(tokens) {
		return nil, pos, syntaxErrorf("unexpected end of query")
	}

	tok := tokens[pos]
	switch {
	case tok == "(":
		node, next, err := parseExpression(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		if next >= len(tokens) || tokens[next] != ")" {
			return nil, next, syntaxErrorf("missing closing parenthesis")
		}
		return node, next + 1, nil
	case tok == ")":
		return nil, pos, syntaxErrorf("unexpected closing parenthesis")
	case strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`) && len(tok) >= 2:
		return Term{Text: tok[1 : len(tok)-1], IsPhrase: true}, pos + 1, nil
	case !strings.EqualFold(tok, "AND") && !strings.EqualFold(tok, "OR"):
		return Term{Text: tok}, pos + 1, nil
	}
	return nil, pos, syntaxErrorf("unexpected token: %s", tok)
}
