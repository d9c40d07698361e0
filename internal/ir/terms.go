package ir

import (
	"fmt"
	"strings"
)

// VarSigil prefixes every variable name in query text.
const VarSigil = "$"

// internalPrefix names variables generated by the parser. The '.' cannot
// appear in a user variable, so generated names never collide with them.
const internalPrefix = VarSigil + "INTERNAL."

// Operand is a comparison or has-clause operand: a Var or a Literal.
type Operand interface {
	operand() // Marker method - seals interface to this package
	String() string
}

// RoleRef names the role in a links constraint: a Var or a Label.
type RoleRef interface {
	roleRef() // Marker method - seals interface to this package
	String() string
}

// Var is a query variable. Name includes the sigil ("$x").
// Two Vars are equal iff their names are equal.
type Var struct {
	Name string `json:"name"`
}

func (Var) operand() {}
func (Var) roleRef() {}

// NewVar creates a Var, adding the sigil if it is missing.
func NewVar(name string) Var {
	if !strings.HasPrefix(name, VarSigil) {
		name = VarSigil + name
	}
	return Var{Name: name}
}

// IsZero reports whether v is the unbound placeholder.
func (v Var) IsZero() bool {
	return v.Name == ""
}

// IsInternal reports whether v was generated by the parser rather than
// written by the user.
func (v Var) IsInternal() bool {
	return strings.HasPrefix(v.Name, internalPrefix)
}

// Bare returns the name without the sigil, the form drivers key rows by.
func (v Var) Bare() string {
	return strings.TrimPrefix(v.Name, VarSigil)
}

func (v Var) String() string {
	if v.IsZero() {
		return "_"
	}
	return v.Name
}

// Label names a schema element: a type or a role.
type Label struct {
	Name string `json:"name"`
}

func (Label) roleRef() {}

func (l Label) String() string {
	return l.Name
}

// LiteralKind tags the lexical kind of a Literal.
type LiteralKind string

const (
	LiteralInteger LiteralKind = "integer"
	LiteralString  LiteralKind = "string"
)

// Literal is a scalar value as written in the query. Raw keeps the source
// text (quotes included for strings); no coercion happens at parse time.
type Literal struct {
	Raw  string      `json:"raw"`
	Kind LiteralKind `json:"kind"`
}

func (Literal) operand() {}

// Text returns the literal's value text: strings unquoted and unescaped,
// integers as written.
func (l Literal) Text() string {
	if l.Kind != LiteralString || len(l.Raw) < 2 {
		return l.Raw
	}
	body := l.Raw[1 : len(l.Raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	escaped := false
	for _, r := range body {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

func (l Literal) String() string {
	return l.Raw
}

// Comparator is a relational operator in a comparison pattern.
type Comparator string

const (
	CompEq       Comparator = "="
	CompGt       Comparator = ">"
	CompGte      Comparator = ">="
	CompLt       Comparator = "<"
	CompLte      Comparator = "<="
	CompNeq      Comparator = "!="
	CompLike     Comparator = "like"
	CompContains Comparator = "contains"
)

// Comparators lists every comparator, longest symbol first within each
// shared prefix so a scanner can match greedily in this order.
var Comparators = []Comparator{
	CompGte, CompLte, CompNeq, CompEq, CompGt, CompLt, CompLike, CompContains,
}

// ParseComparator returns the comparator spelled by s.
func ParseComparator(s string) (Comparator, error) {
	for _, c := range Comparators {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown comparator %q", s)
}

func (c Comparator) String() string {
	return string(c)
}
