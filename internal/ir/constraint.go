package ir

import (
	"errors"
	"fmt"
)

// ErrSubjectBound is returned when a constraint's LHS is bound twice.
var ErrSubjectBound = errors.New("constraint subject already bound")

// Constraint is one parsed clause of a pattern.
//
// This is a sealed interface - only types in this package implement it.
//
// Constraint types:
//   - Isa: lhs has the type bound to another variable
//   - IsaType: lhs is an instance of a named type
//   - Has: lhs owns the attribute bound to rhs
//   - AttributeLabelValue: lhs is an attribute of a type with a literal value
//   - Links: relation lhs has rhs playing a role
//   - Comparison: operand comparator operand
type Constraint interface {
	constraintNode() // Marker method - seals interface to this package

	// bindSubject applies the single-assignment rule for the pattern
	// subject. Each type decides whether it takes the subject at all.
	bindSubject(subject Var) error

	String() string
}

// Isa constrains LHS to have the type bound to RHS.
type Isa struct {
	LHS Var
	RHS Var
}

func (*Isa) constraintNode() {}

func (c *Isa) bindSubject(subject Var) error {
	return bindOnce(&c.LHS, subject)
}

func (c *Isa) String() string {
	return fmt.Sprintf("Isa(%s, %s)", c.LHS, c.RHS)
}

// IsaType constrains LHS to be an instance of the type RHS.
//
// IsaType is also emitted for `has <label> <var>`, where it is already bound
// to the attribute variable; binding the pattern subject then leaves it alone.
type IsaType struct {
	LHS Var
	RHS Label
}

func (*IsaType) constraintNode() {}

func (c *IsaType) bindSubject(subject Var) error {
	if c.LHS.IsZero() {
		c.LHS = subject
	}
	return nil
}

func (c *IsaType) String() string {
	return fmt.Sprintf("IsaType(%s, %s)", c.LHS, c.RHS)
}

// Has constrains LHS to own the attribute bound to RHS.
type Has struct {
	LHS Var
	RHS Var
}

func (*Has) constraintNode() {}

func (c *Has) bindSubject(subject Var) error {
	return bindOnce(&c.LHS, subject)
}

func (c *Has) String() string {
	return fmt.Sprintf("Has(%s, %s)", c.LHS, c.RHS)
}

// AttributeLabelValue constrains LHS to be an attribute of type Label with
// the given Value. LHS is always a parser-generated variable.
type AttributeLabelValue struct {
	LHS   Var
	Label Label
	Value Literal
}

func (*AttributeLabelValue) constraintNode() {}

func (*AttributeLabelValue) bindSubject(Var) error { return nil }

func (c *AttributeLabelValue) String() string {
	return fmt.Sprintf("AttributeLabelValue(%s, %s, %s)", c.LHS, c.Label, c.Value)
}

// Links constrains relation LHS to have RHS playing Role.
type Links struct {
	LHS  Var
	RHS  Var
	Role RoleRef
}

func (*Links) constraintNode() {}

func (c *Links) bindSubject(subject Var) error {
	return bindOnce(&c.LHS, subject)
}

func (c *Links) String() string {
	return fmt.Sprintf("Links(%s, %s, %s)", c.LHS, c.RHS, c.Role)
}

// Comparison relates two operands with a comparator. It is a pattern of its
// own and never takes a subject.
type Comparison struct {
	LHS        Operand
	RHS        Operand
	Comparator Comparator
}

func (*Comparison) constraintNode() {}

func (*Comparison) bindSubject(Var) error { return nil }

func (c *Comparison) String() string {
	return fmt.Sprintf("Comparison(%s, %s, %s)", c.LHS, c.Comparator, c.RHS)
}

// BindSubject binds c's LHS to the pattern subject following the
// single-assignment rule: an LHS goes from unbound to subject exactly once.
func BindSubject(c Constraint, subject Var) error {
	if subject.IsZero() {
		return fmt.Errorf("bind %s: empty subject", c)
	}
	return c.bindSubject(subject)
}

// Unbound reports whether c still has an unbound LHS.
func Unbound(c Constraint) bool {
	switch c := c.(type) {
	case *Isa:
		return c.LHS.IsZero()
	case *IsaType:
		return c.LHS.IsZero()
	case *Has:
		return c.LHS.IsZero()
	case *AttributeLabelValue:
		return c.LHS.IsZero()
	case *Links:
		return c.LHS.IsZero()
	case *Comparison:
		return c.LHS == nil
	default:
		return true
	}
}

// bindOnce sets dst to v if dst is unbound.
func bindOnce(dst *Var, v Var) error {
	if !dst.IsZero() {
		return fmt.Errorf("%w: %s (rebinding to %s)", ErrSubjectBound, *dst, v)
	}
	*dst = v
	return nil
}

// Match is a parsed match clause: its constraints in source order.
type Match struct {
	Constraints []Constraint
}

// Vars returns every variable the constraints mention, first occurrence first.
func (m *Match) Vars() []Var {
	seen := make(map[Var]bool)
	var out []Var
	add := func(v Var) {
		if v.IsZero() || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}
	addOperand := func(o Operand) {
		if v, ok := o.(Var); ok {
			add(v)
		}
	}
	for _, c := range m.Constraints {
		switch c := c.(type) {
		case *Isa:
			add(c.LHS)
			add(c.RHS)
		case *IsaType:
			add(c.LHS)
		case *Has:
			add(c.LHS)
			add(c.RHS)
		case *AttributeLabelValue:
			add(c.LHS)
		case *Links:
			add(c.LHS)
			add(c.RHS)
			if v, ok := c.Role.(Var); ok {
				add(v)
			}
		case *Comparison:
			addOperand(c.LHS)
			addOperand(c.RHS)
		}
	}
	return out
}

func (m *Match) String() string {
	s := "Match("
	for i, c := range m.Constraints {
		if i > 0 {
			s += ", "
		}
		s += c.String()
	}
	return s + ")"
}
