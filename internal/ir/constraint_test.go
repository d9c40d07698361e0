package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindSubject_SingleAssignment(t *testing.T) {
	subject := NewVar("x")

	tests := []struct {
		name string
		c    Constraint
	}{
		{"isa", &Isa{RHS: NewVar("t")}},
		{"has", &Has{RHS: NewVar("n")}},
		{"links", &Links{RHS: NewVar("p"), Role: Label{Name: "friend"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, Unbound(tt.c))
			require.NoError(t, BindSubject(tt.c, subject))
			assert.False(t, Unbound(tt.c))

			err := BindSubject(tt.c, NewVar("y"))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSubjectBound)
		})
	}
}

func TestBindSubject_IsaTypeKeepsExistingBinding(t *testing.T) {
	c := &IsaType{LHS: NewVar("n"), RHS: Label{Name: "name"}}
	require.NoError(t, BindSubject(c, NewVar("x")))
	assert.Equal(t, NewVar("n"), c.LHS, "attribute variable must stay bound")

	open := &IsaType{RHS: Label{Name: "person"}}
	require.NoError(t, BindSubject(open, NewVar("x")))
	assert.Equal(t, NewVar("x"), open.LHS)
}

func TestBindSubject_IgnoredBySelfBoundConstraints(t *testing.T) {
	alv := &AttributeLabelValue{LHS: NewVar("INTERNAL.1"), Label: Label{Name: "name"}, Value: Literal{Raw: `"a"`, Kind: LiteralString}}
	require.NoError(t, BindSubject(alv, NewVar("x")))
	assert.Equal(t, "$INTERNAL.1", alv.LHS.Name)

	cmp := &Comparison{LHS: NewVar("a"), RHS: Literal{Raw: "5", Kind: LiteralInteger}, Comparator: CompGt}
	require.NoError(t, BindSubject(cmp, NewVar("x")))
	assert.Equal(t, NewVar("a"), cmp.LHS)
}

func TestBindSubject_RejectsEmptySubject(t *testing.T) {
	err := BindSubject(&Has{RHS: NewVar("n")}, Var{})
	assert.Error(t, err)
}

func TestConstraintStrings(t *testing.T) {
	x, n := NewVar("x"), NewVar("n")
	tests := []struct {
		c    Constraint
		want string
	}{
		{&Isa{LHS: x, RHS: NewVar("t")}, "Isa($x, $t)"},
		{&IsaType{LHS: x, RHS: Label{Name: "cow"}}, "IsaType($x, cow)"},
		{&Has{LHS: x, RHS: n}, "Has($x, $n)"},
		{&Has{RHS: n}, "Has(_, $n)"},
		{&AttributeLabelValue{LHS: n, Label: Label{Name: "name"}, Value: Literal{Raw: `"Spider Georg"`, Kind: LiteralString}}, `AttributeLabelValue($n, name, "Spider Georg")`},
		{&Links{LHS: NewVar("m"), RHS: x, Role: Label{Name: "husband"}}, "Links($m, $x, husband)"},
		{&Links{LHS: NewVar("m"), RHS: x, Role: NewVar("r")}, "Links($m, $x, $r)"},
		{&Comparison{LHS: n, RHS: Literal{Raw: "5", Kind: LiteralInteger}, Comparator: CompGte}, "Comparison($n, >=, 5)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.String())
	}
}

func TestMatchVars_FirstOccurrenceOrder(t *testing.T) {
	x, n, m := NewVar("x"), NewVar("n"), NewVar("m")
	match := &Match{Constraints: []Constraint{
		&IsaType{LHS: x, RHS: Label{Name: "person"}},
		&Has{LHS: x, RHS: n},
		&Links{LHS: m, RHS: x, Role: NewVar("r")},
		&Comparison{LHS: n, RHS: Literal{Raw: "1", Kind: LiteralInteger}, Comparator: CompEq},
	}}
	assert.Equal(t, []Var{x, n, m, NewVar("r")}, match.Vars())
}
